// Package chat implements the Clause Oracle: the per-document question
// panel, its persisted transcript, and the detachable popup window that
// shares the same conversation over a WebSocket.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/clauselens/clauselens/internal/db"
)

// Turn is one persisted message of a document conversation.
type Turn struct {
	ID         int64
	AnalysisID int
	Role       string // "user" or "assistant"
	Content    string
	Citation   string
	CreatedAt  time.Time
}

// Store persists conversation turns per analysis.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Append records a turn and returns it with its assigned id.
func (s *Store) Append(ctx context.Context, turn Turn) (Turn, error) {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (analysis_id, role, content, citation, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		turn.AnalysisID, turn.Role, turn.Content, turn.Citation,
		turn.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Turn{}, fmt.Errorf("appending chat turn: %w", err)
	}
	turn.ID, err = res.LastInsertId()
	if err != nil {
		return Turn{}, fmt.Errorf("reading chat turn id: %w", err)
	}
	return turn, nil
}

// Transcript returns all turns for an analysis, oldest first.
func (s *Store) Transcript(ctx context.Context, analysisID int) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, analysis_id, role, content, citation, created_at
		 FROM chat_messages WHERE analysis_id = ? ORDER BY created_at, id`,
		analysisID)
	if err != nil {
		return nil, fmt.Errorf("loading transcript: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var created string
		if err := rows.Scan(&t.ID, &t.AnalysisID, &t.Role, &t.Content, &t.Citation, &created); err != nil {
			return nil, fmt.Errorf("scanning chat turn: %w", err)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Clear removes the conversation for an analysis.
func (s *Store) Clear(ctx context.Context, analysisID int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_messages WHERE analysis_id = ?`, analysisID)
	if err != nil {
		return fmt.Errorf("clearing transcript: %w", err)
	}
	return nil
}
