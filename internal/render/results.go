// Package render builds the results pane markup from an Analysis.
// Every function is a pure string builder: rendering the same input
// twice yields byte-identical output, which is what keeps full
// re-renders idempotent.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/highlight"
)

// md renders assessment and simulation bodies. Raw HTML in model
// output is escaped, never passed through.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Options carries the per-render UI flags layered over an immutable
// Analysis: which action cards are expanded, which ELI5 explanations
// have been fetched this render, and whether the PDF exact view is on.
// The exact-view flag is local to one render and resets on the next.
type Options struct {
	ExpandedActions map[int]bool
	Explanations    map[int]string
	ExactView       bool
}

// Results builds the full results pane from scratch. No incremental
// diffing: assessment, key info, actions, and the document viewer are
// all repopulated on every call.
func Results(a *api.Analysis, opts Options) string {
	var b strings.Builder
	b.WriteString(`<section id="results-pane">`)
	b.WriteString(headerHTML(a))
	b.WriteString(`<div class="assessment">`)
	b.WriteString(Markdown(a.Assessment))
	b.WriteString(`</div>`)
	b.WriteString(KeyInfoList(a.KeyInfo))
	b.WriteString(ActionList(a.Actions, opts))
	b.WriteString(DocumentViewer(a, opts.ExactView))
	b.WriteString(`</section>`)
	return b.String()
}

// Markdown converts model-produced markdown to HTML.
func Markdown(src string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		// Conversion failures degrade to escaped plain text.
		return "<p>" + EscapeHTML(src) + "</p>"
	}
	return buf.String()
}

func headerHTML(a *api.Analysis) string {
	var b strings.Builder
	b.WriteString(`<header class="results-header"><h2>`)
	b.WriteString(EscapeHTML(a.Filename))
	b.WriteString(`</h2>`)
	b.WriteString(RiskBadge(a.RiskLevel))
	b.WriteString(`</header>`)
	return b.String()
}

// RiskBadge renders the colored risk pill. Unknown levels render as a
// neutral badge rather than nothing.
func RiskBadge(level string) string {
	class := "risk-unknown"
	switch strings.ToLower(level) {
	case "low":
		class = "risk-low"
	case "medium":
		class = "risk-medium"
	case "high":
		class = "risk-high"
	}
	label := level
	if label == "" {
		label = "Unrated"
	}
	return fmt.Sprintf(`<span class="risk-badge %s">%s</span>`, class, EscapeHTML(label))
}

// KeyInfoList renders the extracted label/value pairs. Negotiable
// entries expose the rewrite and simulate affordances; benchmarkable
// entries expose the benchmark affordance.
func KeyInfoList(items []api.KeyInfoItem) string {
	var b strings.Builder
	b.WriteString(`<ul class="key-info">`)
	for i, item := range items {
		b.WriteString(`<li class="key-info-item">`)
		b.WriteString(`<span class="key-info-label">`)
		b.WriteString(EscapeHTML(item.Key))
		b.WriteString(`</span><span class="key-info-value">`)
		b.WriteString(EscapeHTML(item.Value))
		b.WriteString(`</span>`)
		if item.IsNegotiable {
			fmt.Fprintf(&b, `<button class="rewrite-btn" data-kind="keyinfo" data-index="%d">Rewrite</button>`, i)
			fmt.Fprintf(&b, `<button class="simulate-btn" data-index="%d">Simulate</button>`, i)
		}
		if item.IsBenchmarkable {
			fmt.Fprintf(&b, `<button class="benchmark-btn" data-index="%d">Benchmark</button>`, i)
		}
		b.WriteString(`</li>`)
	}
	if len(items) == 0 {
		b.WriteString(`<li class="empty">No key information extracted.</li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// ActionList renders the obligations as collapsible cards. Collapsed
// cards clamp their height via a class; expansion is independent per
// card. A fetched ELI5 explanation renders inline under its card.
func ActionList(items []api.ActionItem, opts Options) string {
	var b strings.Builder
	b.WriteString(`<ul class="action-items">`)
	for i, item := range items {
		class := "action-item clamped"
		if opts.ExpandedActions[i] {
			class = "action-item expanded"
		}
		fmt.Fprintf(&b, `<li class="%s" data-index="%d">`, class, i)
		b.WriteString(`<p class="action-text">`)
		b.WriteString(EscapeHTML(item.Text))
		b.WriteString(`</p>`)
		fmt.Fprintf(&b, `<button class="expand-btn" data-index="%d">Toggle</button>`, i)
		fmt.Fprintf(&b, `<button class="eli5-btn" data-index="%d">Explain simply</button>`, i)
		if item.IsNegotiable {
			fmt.Fprintf(&b, `<button class="rewrite-btn" data-kind="action" data-index="%d">Rewrite</button>`, i)
		}
		if expl, ok := opts.Explanations[i]; ok {
			b.WriteString(`<div class="eli5">`)
			b.WriteString(RenderInline(expl))
			b.WriteString(`</div>`)
		}
		b.WriteString(`</li>`)
	}
	if len(items) == 0 {
		b.WriteString(`<li class="empty">No action items identified.</li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// DocumentViewer renders the uploaded document. Pages with rasterized
// images get an absolutely-positioned overlay layer; text pages get
// inline marks. A PDF without page images gets an exact/extracted
// toggle; the embed only loads when the exact view is active.
func DocumentViewer(a *api.Analysis, exactView bool) string {
	var b strings.Builder
	b.WriteString(`<div class="document-viewer">`)

	isPDF := strings.HasSuffix(strings.ToLower(a.Filename), ".pdf")
	if isPDF && len(a.PageImages) == 0 {
		b.WriteString(viewToggle(exactView))
		if exactView {
			fmt.Fprintf(&b, `<iframe class="pdf-embed" src="/analyses/%d/file"></iframe>`, a.ID)
			b.WriteString(`</div>`)
			return b.String()
		}
	}

	if len(a.PageImages) > 0 {
		for i, img := range a.PageImages {
			boxes := highlight.PageBoxes(a.RiskHighlights, i)
			fmt.Fprintf(&b, `<div class="page page-image" data-page="%d">`, i)
			fmt.Fprintf(&b, `<img src="%s" alt="Page %d">`, EscapeHTML(img), i+1)
			b.WriteString(`<div class="overlay-layer">`)
			for _, box := range boxes {
				fmt.Fprintf(&b,
					`<div class="overlay-box" style="left:%.2f%%;top:%.2f%%;width:%.2f%%;height:%.2f%%"></div>`,
					box.X*100, box.Y*100, box.W*100, box.H*100)
			}
			b.WriteString(`</div></div>`)
		}
	} else {
		for i, page := range a.ExtractedText {
			spans := highlight.PageSpans(a.RiskHighlights, i)
			fmt.Fprintf(&b, `<div class="page page-text" data-page="%d"><p>`, i)
			b.WriteString(highlight.MarkText(page, spans))
			b.WriteString(`</p></div>`)
		}
	}

	b.WriteString(`</div>`)
	return b.String()
}

func viewToggle(exactView bool) string {
	exact, extracted := "", " active"
	if exactView {
		exact, extracted = " active", ""
	}
	return fmt.Sprintf(
		`<div class="view-toggle"><button class="toggle-exact%s">Exact</button><button class="toggle-extracted%s">Extracted</button></div>`,
		exact, extracted)
}
