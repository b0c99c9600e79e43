package dashboard

import (
	"fmt"
	"strings"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/render"
)

// EmptyMessage is shown when a filter matches nothing.
const EmptyMessage = "No documents match your search."

// ListHTML renders the full item list. The whole list rebuilds on
// every search or sort change; there is no row-level diffing.
func ListHTML(items []api.DashboardItem) string {
	if len(items) == 0 {
		return `<div class="dashboard-empty">` + EmptyMessage + `</div>`
	}

	var b strings.Builder
	b.WriteString(`<ul class="dashboard-list">`)
	for _, item := range items {
		fmt.Fprintf(&b, `<li class="dashboard-row" data-id="%d">`, item.ID)
		b.WriteString(`<span class="row-filename">`)
		b.WriteString(render.EscapeHTML(item.Filename))
		b.WriteString(`</span>`)
		b.WriteString(`<span class="row-date">`)
		b.WriteString(render.EscapeHTML(humanDate(item.CreatedAt)))
		b.WriteString(`</span>`)
		b.WriteString(render.RiskBadge(item.RiskLevel))
		fmt.Fprintf(&b, `<a class="row-open" href="/analyses/%d">Open</a>`, item.ID)
		fmt.Fprintf(&b, `<button class="row-risk" data-id="%d">Why this risk?</button>`, item.ID)
		fmt.Fprintf(&b, `<a class="row-export" href="/analyses/%d/export">Export PDF</a>`, item.ID)
		fmt.Fprintf(&b, `<button class="row-delete" data-id="%d">Delete</button>`, item.ID)
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func humanDate(iso string) string {
	t := createdAt(api.DashboardItem{CreatedAt: iso})
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
