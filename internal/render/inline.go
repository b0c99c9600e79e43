package render

import (
	"html"
	"strings"
)

// EscapeHTML escapes text for safe interpolation into markup.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// RenderInline converts a plain-text answer into minimal inline
// markup: **bold** spans and line breaks. The input is escaped first,
// so raw markup (including <script>) always renders as literal text.
func RenderInline(s string) string {
	escaped := html.EscapeString(s)

	var b strings.Builder
	open := false
	for {
		idx := strings.Index(escaped, "**")
		if idx == -1 {
			b.WriteString(escaped)
			break
		}
		b.WriteString(escaped[:idx])
		if open {
			b.WriteString("</strong>")
		} else {
			b.WriteString("<strong>")
		}
		open = !open
		escaped = escaped[idx+2:]
	}
	// An unpaired marker leaves an open tag; close it rather than
	// letting it swallow the rest of the page.
	if open {
		b.WriteString("</strong>")
	}

	return strings.ReplaceAll(b.String(), "\n", "<br>")
}
