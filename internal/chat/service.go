package chat

import (
	"context"
	"strings"

	"github.com/clauselens/clauselens/internal/api"
)

// historyLimit caps how many prior turns travel with each question.
const historyLimit = 10

// Service answers Clause Oracle questions against the backend and keeps
// the transcript. The user's turn is persisted before the backend call,
// so it survives a failed question.
type Service struct {
	client *api.Client
	store  *Store
}

// NewService wires a Service to its backend client and store.
func NewService(client *api.Client, store *Store) *Service {
	return &Service{client: client, store: store}
}

// Ask records the question, sends it with the document text and recent
// history, and records the answer. On backend failure the question turn
// remains and the error surfaces to the caller.
func (s *Service) Ask(ctx context.Context, analysis *api.Analysis, question string) (Turn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Turn{}, ErrEmptyQuestion
	}

	prior, err := s.store.Transcript(ctx, analysis.ID)
	if err != nil {
		return Turn{}, err
	}

	if _, err := s.store.Append(ctx, Turn{
		AnalysisID: analysis.ID,
		Role:       "user",
		Content:    question,
	}); err != nil {
		return Turn{}, err
	}

	resp, err := s.client.Query(ctx, api.QueryRequest{
		Question:   question,
		FullText:   strings.Join(analysis.ExtractedText, "\n\n"),
		History:    recentHistory(prior),
		AnalysisID: analysis.ID,
	})
	if err != nil {
		return Turn{}, err
	}

	return s.store.Append(ctx, Turn{
		AnalysisID: analysis.ID,
		Role:       "assistant",
		Content:    resp.Answer,
		Citation:   resp.Citation,
	})
}

// Transcript returns the full conversation for an analysis.
func (s *Service) Transcript(ctx context.Context, analysisID int) ([]Turn, error) {
	return s.store.Transcript(ctx, analysisID)
}

// Seed installs the conversation that arrived embedded in an analysis,
// skipping turns already persisted locally.
func (s *Service) Seed(ctx context.Context, analysisID int, conversation []api.ChatMessage) error {
	existing, err := s.store.Transcript(ctx, analysisID)
	if err != nil {
		return err
	}
	if len(existing) >= len(conversation) {
		return nil
	}
	for _, msg := range conversation[len(existing):] {
		if _, err := s.store.Append(ctx, Turn{
			AnalysisID: analysisID,
			Role:       msg.Role,
			Content:    msg.Content,
		}); err != nil {
			return err
		}
	}
	return nil
}

// recentHistory trims the conversation to the last few turns in the
// backend's wire shape.
func recentHistory(turns []Turn) []api.ChatMessage {
	if len(turns) > historyLimit {
		turns = turns[len(turns)-historyLimit:]
	}
	history := make([]api.ChatMessage, 0, len(turns))
	for _, t := range turns {
		history = append(history, api.ChatMessage{Role: t.Role, Content: t.Content})
	}
	return history
}
