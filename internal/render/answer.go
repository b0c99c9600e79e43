package render

import (
	"strings"
)

// Section heading keywords the backend uses when a subjective question
// triggers the three-part balanced answer. Matching is case-insensitive
// on the opening words of a line.
var structuredHeadings = []string{
	"disclaimer",
	"key clauses",
	"balanced analysis",
	"guidance",
	"final note",
	"final disclaimer",
}

// IsStructuredAnswer reports whether an answer uses the multi-section
// balanced-analysis format rather than free text.
func IsStructuredAnswer(answer string) bool {
	found := 0
	for _, line := range strings.Split(answer, "\n") {
		if headingFor(line) != "" {
			found++
		}
	}
	return found >= 2
}

// headingFor returns the canonical heading keyword the line opens a
// section with, or "" when the line is body text.
func headingFor(line string) string {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	trimmed = strings.TrimLeft(trimmed, "#* ")
	for _, h := range structuredHeadings {
		if strings.HasPrefix(trimmed, h) {
			return h
		}
	}
	return ""
}

// RenderAnswer formats a Clause Oracle answer as HTML. Structured
// answers get per-section headings and bullet lists; simple answers
// get inline markup with an optional citation footer. Both paths
// escape all input text.
func RenderAnswer(answer, citation string) string {
	if IsStructuredAnswer(answer) {
		return renderStructured(answer)
	}
	return renderSimple(answer, citation)
}

func renderSimple(answer, citation string) string {
	var b strings.Builder
	b.WriteString(`<div class="oracle-answer">`)
	b.WriteString(RenderInline(answer))
	b.WriteString(`</div>`)
	if strings.TrimSpace(citation) != "" {
		b.WriteString(`<div class="oracle-citation">&ldquo;`)
		b.WriteString(EscapeHTML(citation))
		b.WriteString(`&rdquo;</div>`)
	}
	return b.String()
}

func renderStructured(answer string) string {
	var b strings.Builder
	b.WriteString(`<div class="oracle-answer oracle-structured">`)

	inList := false
	closeList := func() {
		if inList {
			b.WriteString("</ul>")
			inList = false
		}
	}

	for _, line := range strings.Split(answer, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if h := headingFor(trimmed); h != "" {
			closeList()
			b.WriteString(`<h4 class="oracle-heading oracle-`)
			b.WriteString(strings.ReplaceAll(strings.Fields(h)[0], " ", "-"))
			b.WriteString(`">`)
			b.WriteString(RenderInline(strings.TrimLeft(trimmed, "#* ")))
			b.WriteString(`</h4>`)
			continue
		}

		if bullet, ok := bulletText(trimmed); ok {
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li>")
			b.WriteString(RenderInline(bullet))
			b.WriteString("</li>")
			continue
		}

		closeList()
		b.WriteString("<p>")
		b.WriteString(RenderInline(trimmed))
		b.WriteString("</p>")
	}
	closeList()

	b.WriteString(`</div>`)
	return b.String()
}

// bulletText strips a leading list marker and reports whether the line
// was a bullet.
func bulletText(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
		}
	}
	return "", false
}
