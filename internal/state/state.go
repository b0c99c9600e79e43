// Package state holds the application's in-memory state and its
// persisted slice (token, current page, current analysis id). All
// mutation goes through App methods so renders always observe a
// consistent snapshot.
package state

import (
	"context"
	"strconv"
	"sync"

	"github.com/clauselens/clauselens/internal/api"
)

// App is the single mutable state container. Handlers read a Snapshot,
// render from it, and never touch fields directly.
type App struct {
	mu    sync.Mutex
	store Store

	token      string
	view       View
	tab        Tab
	analysisID int
	showFAB    bool

	analysis  *api.Analysis
	chatTurns []api.ChatMessage
	items     []api.DashboardItem

	// generation fences async loads: a response applied under an older
	// generation than the current one is discarded instead of
	// overwriting newer state.
	generation uint64
}

// Snapshot is an immutable copy of the renderable state.
type Snapshot struct {
	Token      string
	View       View
	Tab        Tab
	AnalysisID int
	ShowFAB    bool
	Analysis   *api.Analysis
	ChatTurns  []api.ChatMessage
	Items      []api.DashboardItem
	Generation uint64
}

// New creates an App backed by the given store, starting on the dashboard.
func New(store Store) *App {
	return &App{store: store, view: ViewDashboard, tab: TabAnalysis}
}

// Restore loads the persisted token, page, and analysis id. Unknown or
// corrupt values fall back to the dashboard.
func (a *App) Restore(ctx context.Context) error {
	token, err := a.store.Get(ctx, KeyToken)
	if err != nil {
		return err
	}
	page, err := a.store.Get(ctx, KeyPage)
	if err != nil {
		return err
	}
	idStr, err := a.store.Get(ctx, KeyAnalysisID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
	a.view = ParseView(page)
	a.tab = TabAnalysis
	if id, err := strconv.Atoi(idStr); err == nil {
		a.analysisID = id
	}
	// A persisted results page without an analysis id cannot be
	// restored; land on the dashboard instead.
	if a.view == ViewResults && a.analysisID == 0 {
		a.view = ViewDashboard
	}
	return nil
}

// Snapshot returns a copy of the current state for rendering.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Token:      a.token,
		View:       a.view,
		Tab:        a.tab,
		AnalysisID: a.analysisID,
		ShowFAB:    a.showFAB,
		Analysis:   a.analysis,
		ChatTurns:  append([]api.ChatMessage(nil), a.chatTurns...),
		Items:      append([]api.DashboardItem(nil), a.items...),
		Generation: a.generation,
	}
}

// Show switches to the named view, hiding every other container, and
// persists the page name. Entering results resets the sub-tab to the
// analysis tab and persists the active analysis id.
func (a *App) Show(ctx context.Context, view View, analysisID int) error {
	a.mu.Lock()
	if !view.valid() {
		view = ViewDashboard
	}
	a.view = view
	a.showFAB = view == ViewDashboard
	if view == ViewResults {
		a.tab = TabAnalysis
		a.analysisID = analysisID
	}
	a.mu.Unlock()

	if err := a.store.Set(ctx, KeyPage, string(view)); err != nil {
		return err
	}
	if view == ViewResults {
		return a.store.Set(ctx, KeyAnalysisID, strconv.Itoa(analysisID))
	}
	return nil
}

// Visible reports whether the named container is the one shown.
func (a *App) Visible(view View) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view == view
}

// SelectTab switches the results sub-tab.
func (a *App) SelectTab(tab Tab) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if tab != TabTimeline {
		tab = TabAnalysis
	}
	a.tab = tab
}

// ToggleFAB flips the floating upload action independently of the
// current view.
func (a *App) ToggleFAB() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.showFAB = !a.showFAB
}

// SetToken stores and persists the bearer token.
func (a *App) SetToken(ctx context.Context, token string) error {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
	return a.store.Set(ctx, KeyToken, token)
}

// Token returns the current bearer token.
func (a *App) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// BeginLoad starts a new load and returns its generation. Every call
// invalidates all loads started earlier.
func (a *App) BeginLoad() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	return a.generation
}

// SetAnalysis installs a fetched analysis if gen is still the current
// generation. It reports whether the result was applied; a stale
// response is discarded.
func (a *App) SetAnalysis(gen uint64, analysis *api.Analysis) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		return false
	}
	a.analysis = analysis
	a.chatTurns = nil
	if analysis != nil {
		a.chatTurns = append(a.chatTurns, analysis.Conversation...)
	}
	return true
}

// Analysis returns the currently loaded analysis, or nil.
func (a *App) Analysis() *api.Analysis {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.analysis
}

// SetItems replaces the dashboard item list.
func (a *App) SetItems(items []api.DashboardItem) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = items
}

// RemoveItem drops the item with the given id from the in-memory list.
// Called only after the server confirmed the deletion.
func (a *App) RemoveItem(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.items[:0]
	for _, item := range a.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	a.items = kept
}

// AppendChat records one conversation turn.
func (a *App) AppendChat(msg api.ChatMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chatTurns = append(a.chatTurns, msg)
}

// Logout clears the token and all persisted state, drops any loaded
// analysis content, and routes back to the dashboard.
func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.token = ""
	a.analysis = nil
	a.chatTurns = nil
	a.analysisID = 0
	a.view = ViewDashboard
	a.tab = TabAnalysis
	a.generation++
	a.mu.Unlock()

	for _, key := range []string{KeyToken, KeyPage, KeyAnalysisID} {
		if err := a.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
