// Package timeline renders the key-dates tab: a chronological list of
// milestones extracted from a document, with calendar links and email
// reminders per event.
package timeline

import (
	"context"
	"sort"
	"time"

	"github.com/clauselens/clauselens/internal/api"
)

// Event kinds as emitted by the backend.
const (
	KindKeyDate        = "key_date"
	KindPaymentDue     = "payment_due"
	KindActionRequired = "action_required"
)

// dateLayouts are the formats event dates arrive in.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// Service fetches and generates timelines through the backend.
type Service struct {
	client *api.Client
}

// NewService wires a Service to the backend client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Load returns the timeline for an analysis, asking the backend to
// derive one when none is stored yet.
func (s *Service) Load(ctx context.Context, analysisID int) (*api.TimelineResponse, error) {
	tl, err := s.client.Timeline(ctx, analysisID)
	if err != nil {
		if apiErr, ok := err.(*api.Error); ok && apiErr.StatusCode == 404 {
			return s.client.GenerateTimeline(ctx, analysisID)
		}
		return nil, err
	}
	if len(tl.Events) == 0 {
		return s.client.GenerateTimeline(ctx, analysisID)
	}
	return tl, nil
}

// Regenerate forces a fresh timeline for an analysis.
func (s *Service) Regenerate(ctx context.Context, analysisID int) (*api.TimelineResponse, error) {
	return s.client.GenerateTimeline(ctx, analysisID)
}

// Remind registers an email reminder ahead of an event.
func (s *Service) Remind(ctx context.Context, req api.ReminderRequest) error {
	resp, err := s.client.CreateReminder(ctx, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errReminderRejected
	}
	return nil
}

// parseDate tries the known backend formats. ok is false for missing
// or unparseable dates; such events still render, sorted last.
func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Chronological returns events ordered by date, earliest first. Events
// without a usable date keep their relative order at the end.
func Chronological(events []api.TimelineEvent) []api.TimelineEvent {
	sorted := append([]api.TimelineEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, iok := parseDate(sorted[i].Date)
		tj, jok := parseDate(sorted[j].Date)
		if iok != jok {
			return iok
		}
		return ti.Before(tj)
	})
	return sorted
}
