package state

// View names one of the top-level page containers. Exactly one is
// visible at any time.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewUpload    View = "upload"
	ViewResults   View = "results"
	ViewError     View = "error"
)

// Tab names a sub-tab inside the results view.
type Tab string

const (
	TabAnalysis Tab = "analysis"
	TabTimeline Tab = "timeline"
)

// Views lists all top-level views in display order.
var Views = []View{ViewDashboard, ViewUpload, ViewResults, ViewError}

// valid reports whether v names a known view.
func (v View) valid() bool {
	switch v {
	case ViewDashboard, ViewUpload, ViewResults, ViewError:
		return true
	}
	return false
}

// ParseView maps a persisted page name back to a View, falling back to
// the dashboard for unknown or stale values.
func ParseView(name string) View {
	v := View(name)
	if !v.valid() {
		return ViewDashboard
	}
	return v
}
