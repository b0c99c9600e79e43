package timeline

import (
	"strconv"
	"strings"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/render"
)

// kindIcon maps event kinds to their list markers.
func kindIcon(kind string) string {
	switch kind {
	case KindPaymentDue:
		return "&#128176;" // money bag
	case KindActionRequired:
		return "&#9889;" // lightning
	default:
		return "&#128197;" // calendar
	}
}

// dateLabel produces the human date for an event, or a kind-specific
// placeholder when the date is missing or unreadable.
func dateLabel(event api.TimelineEvent) string {
	if t, ok := parseDate(event.Date); ok {
		return t.Format("Jan 2, 2006")
	}
	switch event.Kind {
	case KindPaymentDue:
		return "Payment date not found"
	case KindActionRequired:
		return "Deadline not found"
	default:
		return "Date not found"
	}
}

// HTML renders the timeline tab content. Events render chronologically
// regardless of backend order; summary and reminder forms are inline.
func HTML(analysisID int, filename string, tl *api.TimelineResponse) string {
	var b strings.Builder
	b.WriteString(`<div class="timeline-pane">`)

	if tl.LifecycleSummary != "" {
		b.WriteString(`<div class="timeline-summary">`)
		b.WriteString(render.RenderInline(tl.LifecycleSummary))
		b.WriteString(`</div>`)
	}

	events := Chronological(tl.Events)
	if len(events) == 0 {
		b.WriteString(`<div class="timeline-empty">No key dates were found in this document.</div></div>`)
		return b.String()
	}

	b.WriteString(`<ul class="timeline-list">`)
	for _, ev := range events {
		b.WriteString(`<li class="timeline-event timeline-` + render.EscapeHTML(ev.Kind) + `">`)
		b.WriteString(`<span class="event-icon">` + kindIcon(ev.Kind) + `</span>`)
		b.WriteString(`<span class="event-date">` + render.EscapeHTML(dateLabel(ev)) + `</span>`)
		b.WriteString(`<span class="event-label">` + render.EscapeHTML(ev.Label) + `</span>`)
		if ev.Description != "" {
			b.WriteString(`<p class="event-description">` + render.EscapeHTML(ev.Description) + `</p>`)
		}

		if link, err := CalendarLink(filename, ev); err == nil {
			b.WriteString(`<a class="event-calendar" target="_blank" rel="noopener" href="` +
				render.EscapeHTML(link) + `">Add to calendar</a>`)
		}
		if ev.ID != nil {
			b.WriteString(reminderForm(analysisID, *ev.ID))
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

func reminderForm(analysisID, eventID int) string {
	id := strconv.Itoa(analysisID)
	return `<form class="event-reminder" method="post" action="/analyses/` + id + `/reminders">` +
		`<input type="hidden" name="event_id" value="` + strconv.Itoa(eventID) + `">` +
		`<input type="email" name="email" placeholder="you@example.com" required>` +
		`<select name="days_before">` +
		`<option value="1">1 day before</option>` +
		`<option value="3" selected>3 days before</option>` +
		`<option value="7">1 week before</option>` +
		`</select>` +
		`<button type="submit">Remind me</button>` +
		`</form>`
}
