package configlibsql

import (
	"database/sql"
	"fmt"
	"net/url"

	devenv "gradewatch-backend/dev/env"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// OpenDB opens either a local sqlite file or a remote libsql
// database depending on which of File/Url is set, and applies
// the given schema.
func (config Struct) OpenDB(schema string) (*sql.DB, error) {
	db, err := config.open()
	if err != nil {
		return nil, err
	}
	// single writer, see:
	// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec(schema)
	if err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func (config Struct) open() (*sql.DB, error) {
	if config.Url == "" {
		if config.File == "" {
			return nil, fmt.Errorf("a database path was not specified")
		}
		dbpath, err := devenv.ResolvePath(config.File)
		if err != nil {
			return nil, err
		}
		return sql.Open("libsql", fmt.Sprintf("file:%s", dbpath))
	}

	values := url.Values{}
	if config.AuthToken != "" {
		values.Add("authToken", config.AuthToken)
	}
	return sql.Open("libsql", config.Url+"?"+values.Encode())
}
