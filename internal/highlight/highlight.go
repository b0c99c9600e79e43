// Package highlight turns precomputed anchor matches into page-level
// marks: merged character ranges for text pages and normalized overlay
// boxes for image pages.
package highlight

import (
	"html"
	"sort"
	"strings"

	"github.com/clauselens/clauselens/internal/api"
)

// Span is a half-open character range [Start, End) in a page's text.
// Offsets count codepoints, not bytes, matching the backend's anchors.
type Span struct {
	Start int
	End   int
}

// Merge clamps each span to [0, textLen), drops empty spans, sorts by
// start offset (stable for ties), and merges overlapping or adjacent
// spans into maximal ranges.
func Merge(spans []Span, textLen int) []Span {
	clamped := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > textLen {
			s.End = textLen
		}
		if s.Start >= s.End {
			continue
		}
		clamped = append(clamped, s)
	}

	sort.SliceStable(clamped, func(i, j int) bool { return clamped[i].Start < clamped[j].Start })

	var merged []Span
	for _, s := range clamped {
		if n := len(merged); n > 0 && s.Start <= merged[n-1].End {
			if s.End > merged[n-1].End {
				merged[n-1].End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// MarkText rebuilds the page's markup by interleaving escaped plain
// text with <mark>-wrapped merged span text. Text outside marked
// ranges round-trips through escaping unchanged.
func MarkText(text string, spans []Span) string {
	runes := []rune(text)
	merged := Merge(spans, len(runes))
	if len(merged) == 0 {
		return html.EscapeString(text)
	}

	var b strings.Builder
	pos := 0
	for _, s := range merged {
		b.WriteString(html.EscapeString(string(runes[pos:s.Start])))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(string(runes[s.Start:s.End])))
		b.WriteString("</mark>")
		pos = s.End
	}
	b.WriteString(html.EscapeString(string(runes[pos:])))
	return b.String()
}

// PageSpans extracts the text spans to mark on the given page. Only the
// first match group per page is applied: later matches with a different
// strategy are skipped so overlapping mark runs never stack.
func PageSpans(matches []api.AnchorMatch, pageIndex int) []Span {
	var spans []Span
	strategy := ""
	seen := false
	for _, m := range matches {
		if m.PageIndex != pageIndex || m.CharStart == nil || m.CharEnd == nil {
			continue
		}
		if !seen {
			strategy = m.Strategy
			seen = true
		} else if m.Strategy != strategy {
			continue
		}
		spans = append(spans, Span{Start: *m.CharStart, End: *m.CharEnd})
	}
	return spans
}

// PageBoxes extracts the normalized overlay boxes for the given image
// page, applying the same first-group rule as PageSpans.
func PageBoxes(matches []api.AnchorMatch, pageIndex int) []api.AnchorBox {
	var boxes []api.AnchorBox
	strategy := ""
	seen := false
	for _, m := range matches {
		if m.PageIndex != pageIndex || len(m.Boxes) == 0 {
			continue
		}
		if !seen {
			strategy = m.Strategy
			seen = true
		} else if m.Strategy != strategy {
			continue
		}
		boxes = append(boxes, m.Boxes...)
	}
	return boxes
}

// Pages returns the sorted set of page indexes that have any match.
func Pages(matches []api.AnchorMatch) []int {
	set := map[int]bool{}
	for _, m := range matches {
		set[m.PageIndex] = true
	}
	pages := make([]int, 0, len(set))
	for p := range set {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}
