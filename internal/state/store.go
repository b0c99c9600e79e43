package state

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clauselens/clauselens/internal/db"
)

// Fixed persistence keys. Only these three survive a restart; the rest
// of AppState is rebuilt from the backend.
const (
	KeyToken      = "access_token"
	KeyPage       = "current_page"
	KeyAnalysisID = "current_analysis_id"
)

// Store is the persistence boundary for view state. Get returns ""
// for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// DBStore persists view state in the view_state table.
type DBStore struct {
	db *db.DB
}

// NewDBStore creates a Store backed by the given database.
func NewDBStore(database *db.DB) *DBStore {
	return &DBStore{db: database}
}

func (s *DBStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM view_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading view state %q: %w", key, err)
	}
	return value, nil
}

func (s *DBStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO view_state (key, value, updated_at) VALUES (?, ?, datetime('now'))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing view state %q: %w", key, err)
	}
	return nil
}

func (s *DBStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM view_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting view state %q: %w", key, err)
	}
	return nil
}
