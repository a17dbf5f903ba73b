package errorlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const defaultAppName = "cleanops"

// Repository writes error reports to the ops_error_logs table.
type Repository struct {
	db      *sql.DB
	appName string
}

// NewRepository constructs an error-log repository.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		return nil
	}
	return &Repository{db: db, appName: defaultAppName}
}

// Report inserts one error-log row.
func (r *Repository) Report(ctx context.Context, entry Entry) error {
	if r == nil || r.db == nil {
		return errors.New("errorlog repo: nil db")
	}
	if entry.Level == 0 {
		entry.Level = LevelWarn
	}
	if entry.AppName == "" {
		entry.AppName = r.appName
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	var contextJSON []byte
	if entry.Context != nil {
		contextJSON, _ = json.Marshal(entry.Context)
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO ops_error_logs (level, app_name, message, context_json, created_at)
VALUES ($1,$2,$3,$4,$5)`,
		entry.Level, entry.AppName, entry.Message, contextJSON, entry.CreatedAt)
	return err
}
