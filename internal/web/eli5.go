package web

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clauselens/clauselens/internal/db"
)

// eli5Cache stores fetched plain-language explanations per action item.
// Entries are keyed by load generation, so a reloaded analysis starts
// with a clean slate while re-renders within one load reuse the cache.
type eli5Cache struct {
	db *db.DB
}

func newEli5Cache(database *db.DB) *eli5Cache {
	return &eli5Cache{db: database}
}

func (c *eli5Cache) Get(ctx context.Context, analysisID int, generation uint64, index int) (string, bool, error) {
	var explanation string
	err := c.db.QueryRowContext(ctx,
		`SELECT explanation FROM explain_cache
		 WHERE analysis_id = ? AND generation = ? AND item_index = ?`,
		analysisID, int64(generation), index).Scan(&explanation)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading explanation cache: %w", err)
	}
	return explanation, true, nil
}

func (c *eli5Cache) Put(ctx context.Context, analysisID int, generation uint64, index int, explanation string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO explain_cache (analysis_id, generation, item_index, explanation, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		analysisID, int64(generation), index, explanation, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("caching explanation: %w", err)
	}
	return nil
}

// All returns the cached explanations for one analysis load.
func (c *eli5Cache) All(ctx context.Context, analysisID int, generation uint64) (map[int]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT item_index, explanation FROM explain_cache
		 WHERE analysis_id = ? AND generation = ?`,
		analysisID, int64(generation))
	if err != nil {
		return nil, fmt.Errorf("loading explanation cache: %w", err)
	}
	defer rows.Close()

	out := map[int]string{}
	for rows.Next() {
		var index int
		var explanation string
		if err := rows.Scan(&index, &explanation); err != nil {
			return nil, fmt.Errorf("scanning explanation: %w", err)
		}
		out[index] = explanation
	}
	return out, rows.Err()
}
