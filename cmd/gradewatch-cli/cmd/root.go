package cmd

import (
	"fmt"
	"os"

	"gradewatch-backend/lib/configutil"
	configlibsql "gradewatch-backend/lib/configutil/libsql"
	"gradewatch-backend/lib/push/fcm"
	"gradewatch-backend/lib/scrapers/jwxt"
	"gradewatch-backend/services/gradewatch"
	gradewatchdb "gradewatch-backend/services/gradewatch/db"

	"github.com/spf13/cobra"
)

type SiteConfig struct {
	BaseUrl string `json:"base_url"`
}

type Config struct {
	Database configlibsql.Struct `json:"database"`
	Site     SiteConfig          `json:"site"`
	Fcm      fcm.Config          `json:"fcm"`
}

var rootCmd = &cobra.Command{
	Use:   "gradewatch-cli",
	Short: "gradewatch-cli is a maintenance interface for the grade watch daemon's session table.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService wires the same dependencies the daemon runs with,
// pointed at the deployment's config.json5.
func openService() (gradewatch.Service, gradewatch.Store, error) {
	config, err := configutil.ReadRecursively[Config]("config.json5")
	if err != nil {
		return gradewatch.Service{}, gradewatch.Store{}, fmt.Errorf("read config: %w", err)
	}

	database, err := config.Database.OpenDB(gradewatchdb.Schema)
	if err != nil {
		return gradewatch.Service{}, gradewatch.Store{}, fmt.Errorf("open database: %w", err)
	}
	store := gradewatch.NewStore(database)

	client, err := jwxt.NewClient(jwxt.ClientOptions{
		BaseUrl: config.Site.BaseUrl,
	})
	if err != nil {
		return gradewatch.Service{}, gradewatch.Store{}, fmt.Errorf("create site client: %w", err)
	}

	service := gradewatch.NewService(gradewatch.ServiceOptions{
		Store:    store,
		Fetcher:  client,
		Notifier: fcm.NewNotifier(config.Fcm),
	})
	return service, store, nil
}
