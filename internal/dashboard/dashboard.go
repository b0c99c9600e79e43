// Package dashboard lists analyses with search and sort, and hosts the
// per-row actions: open, delete, export, risk popup.
package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/clauselens/clauselens/internal/api"
)

// SortOrder names one of the four supported list orders.
type SortOrder string

const (
	SortDateDesc SortOrder = "date_desc" // default
	SortDateAsc  SortOrder = "date_asc"
	SortNameAsc  SortOrder = "name_asc"
	SortNameDesc SortOrder = "name_desc"
)

// ParseSortOrder maps a query parameter to a SortOrder, defaulting to
// newest-first.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortDateAsc, SortNameAsc, SortNameDesc:
		return SortOrder(s)
	}
	return SortDateDesc
}

// Filter keeps the items whose filename contains the query,
// case-insensitively. An empty query keeps everything.
func Filter(items []api.DashboardItem, query string) []api.DashboardItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	var out []api.DashboardItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Filename), query) {
			out = append(out, item)
		}
	}
	return out
}

// Sort returns a new slice ordered by the given order. The sort is
// stable: ties keep their insertion order.
func Sort(items []api.DashboardItem, order SortOrder) []api.DashboardItem {
	out := append([]api.DashboardItem(nil), items...)
	switch order {
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Filename) < strings.ToLower(out[j].Filename)
		})
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Filename) > strings.ToLower(out[j].Filename)
		})
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return createdAt(out[i]).Before(createdAt(out[j]))
		})
	default: // SortDateDesc
		sort.SliceStable(out, func(i, j int) bool {
			return createdAt(out[j]).Before(createdAt(out[i]))
		})
	}
	return out
}

// createdAt parses the item's timestamp. Unparseable values sort as
// the zero time (oldest).
func createdAt(item api.DashboardItem) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, item.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}
