package timeline

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/clauselens/clauselens/internal/api"
)

var (
	errReminderRejected = errors.New("reminder was not accepted")

	// ErrNoCalendarDate means the event cannot produce a calendar link.
	ErrNoCalendarDate = errors.New("event has no usable date")
)

// calendarWindow gives each event kind a sensible default time slot.
// Payments block the start of the business day, action items get a
// working-hours hour, plain key dates sit at a mid-morning marker.
func calendarWindow(kind string, day time.Time) (start, end time.Time) {
	switch kind {
	case KindPaymentDue:
		start = day.Add(9 * time.Hour)
		end = start.Add(30 * time.Minute)
	case KindActionRequired:
		start = day.Add(10 * time.Hour)
		end = start.Add(time.Hour)
	default:
		start = day.Add(11 * time.Hour)
		end = start.Add(30 * time.Minute)
	}
	return start, end
}

// CalendarLink builds a Google Calendar event-creation URL for a
// timeline event. Events with a missing or unparseable date return
// ErrNoCalendarDate rather than a malformed link.
func CalendarLink(filename string, event api.TimelineEvent) (string, error) {
	day, ok := parseDate(event.Date)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoCalendarDate, event.Date)
	}
	if strings.TrimSpace(event.Label) == "" {
		return "", errors.New("event has no label")
	}

	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	start, end := calendarWindow(event.Kind, day)

	const stamp = "20060102T150405Z"
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", event.Label+" ("+filename+")")
	q.Set("dates", start.Format(stamp)+"/"+end.Format(stamp))
	if event.Description != "" {
		q.Set("details", event.Description)
	}

	return "https://calendar.google.com/calendar/render?" + q.Encode(), nil
}
