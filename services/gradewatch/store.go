package gradewatch

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"gradewatch-backend/lib/timezone"
	"gradewatch-backend/services/gradewatch/db"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// SessionRecord is the persisted per-account state tying session
// cookies, the delivery token and the last-known grade signatures
// together. A record with an empty Token or no Cookies is inert.
type SessionRecord struct {
	Identity string
	// empty when notifications are suppressed (device unregistered)
	Token    string
	Cookies  []string
	Platform string
	// last successfully parsed signature set, page order
	Signatures       []string
	SessionExpiredAt time.Time
	LastCheckedAt    time.Time
	UpdatedAt        time.Time
}

// SessionStore is the repository behind the check cycle. Writes are
// targeted partial updates, only RecordCheck replaces the signature
// set, and it replaces it wholesale.
type SessionStore interface {
	All(ctx context.Context) ([]SessionRecord, error)
	Get(ctx context.Context, identity string) (SessionRecord, error)
	// Upsert merges registration fields into the record, leaving
	// signatures and check bookkeeping untouched.
	Upsert(ctx context.Context, identity, token string, cookies []string, platform string) error
	// ClearTokens nulls the token on every record carrying it and
	// reports the identities it detached the token from.
	ClearTokens(ctx context.Context, token string) ([]string, error)
	MarkExpired(ctx context.Context, identity string, at time.Time) error
	// RecordCheck replaces the signature set, stamps the check time
	// and clears any expiry marker.
	RecordCheck(ctx context.Context, identity string, signatures []string, at time.Time) error
}

type Store struct {
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{qry: db.New(database)}
}

func sessionFromRow(ctx context.Context, row db.Session) SessionRecord {
	rec := SessionRecord{
		Identity:  row.Identity,
		Token:     row.Token.String,
		Platform:  row.Platform,
		UpdatedAt: time.Unix(row.UpdatedAt, 0),
	}
	err := json.Unmarshal([]byte(row.Cookies), &rec.Cookies)
	if err != nil {
		slog.WarnContext(ctx, "failed to unmarshal session cookies", "identity", row.Identity, "err", err)
	}
	err = json.Unmarshal([]byte(row.Signatures), &rec.Signatures)
	if err != nil {
		slog.WarnContext(ctx, "failed to unmarshal session signatures", "identity", row.Identity, "err", err)
	}
	if row.SessionExpiredAt.Valid {
		rec.SessionExpiredAt = time.Unix(row.SessionExpiredAt.Int64, 0)
	}
	if row.LastCheckedAt.Valid {
		rec.LastCheckedAt = time.Unix(row.LastCheckedAt.Int64, 0)
	}
	return rec
}

func (s Store) All(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.qry.GetAllSessions(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]SessionRecord, len(rows))
	for i, row := range rows {
		records[i] = sessionFromRow(ctx, row)
	}
	return records, nil
}

func (s Store) Get(ctx context.Context, identity string) (SessionRecord, error) {
	row, err := s.qry.GetSession(ctx, identity)
	if err != nil {
		return SessionRecord{}, err
	}
	return sessionFromRow(ctx, row), nil
}

func (s Store) Upsert(ctx context.Context, identity, token string, cookies []string, platform string) error {
	cookiesJson, err := json.Marshal(cookies)
	if err != nil {
		return err
	}
	if platform == "" {
		platform = "unknown"
	}
	return s.qry.UpsertSession(ctx, db.UpsertSessionParams{
		Identity:  identity,
		Token:     sql.NullString{String: token, Valid: token != ""},
		Cookies:   string(cookiesJson),
		Platform:  platform,
		UpdatedAt: timezone.Now().Unix(),
	})
}

func (s Store) ClearTokens(ctx context.Context, token string) ([]string, error) {
	rows, err := s.qry.GetSessionsByToken(ctx, sql.NullString{String: token, Valid: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	identities := make([]string, len(rows))
	for i, row := range rows {
		identities[i] = row.Identity
	}
	err = s.qry.ClearTokens(ctx, db.ClearTokensParams{
		UpdatedAt: timezone.Now().Unix(),
		Token:     sql.NullString{String: token, Valid: true},
	})
	if err != nil {
		return nil, err
	}
	return identities, nil
}

func (s Store) MarkExpired(ctx context.Context, identity string, at time.Time) error {
	return s.qry.MarkSessionExpired(ctx, db.MarkSessionExpiredParams{
		SessionExpiredAt: sql.NullInt64{Int64: at.Unix(), Valid: true},
		UpdatedAt:        at.Unix(),
		Identity:         identity,
	})
}

func (s Store) RecordCheck(ctx context.Context, identity string, signatures []string, at time.Time) error {
	signaturesJson, err := json.Marshal(signatures)
	if err != nil {
		return err
	}
	return s.qry.RecordCheck(ctx, db.RecordCheckParams{
		Signatures:    string(signaturesJson),
		LastCheckedAt: sql.NullInt64{Int64: at.Unix(), Valid: true},
		UpdatedAt:     at.Unix(),
		Identity:      identity,
	})
}
