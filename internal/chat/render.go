package chat

import (
	"errors"
	"strings"

	"github.com/clauselens/clauselens/internal/render"
)

// ErrEmptyQuestion is returned when the submitted question is blank.
var ErrEmptyQuestion = errors.New("question is empty")

// TranscriptHTML renders the whole conversation as the panel's inner
// markup. User turns show escaped inline formatting; assistant turns go
// through the full answer renderer so structured answers keep their
// sections and citations.
func TranscriptHTML(turns []Turn) string {
	if len(turns) == 0 {
		return `<div class="oracle-empty">Ask anything about this document.</div>`
	}

	var b strings.Builder
	for _, t := range turns {
		switch t.Role {
		case "assistant":
			b.WriteString(`<div class="oracle-turn oracle-turn-assistant">`)
			b.WriteString(render.RenderAnswer(t.Content, t.Citation))
			b.WriteString(`</div>`)
		default:
			b.WriteString(`<div class="oracle-turn oracle-turn-user">`)
			b.WriteString(render.RenderInline(t.Content))
			b.WriteString(`</div>`)
		}
	}
	return b.String()
}

// PendingHTML is the placeholder shown while an answer is in flight.
func PendingHTML(question string) string {
	return `<div class="oracle-turn oracle-turn-user">` + render.RenderInline(question) +
		`</div><div class="oracle-turn oracle-turn-pending">Thinking&hellip;</div>`
}
