package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/db"
	"github.com/clauselens/clauselens/internal/notify"
	"github.com/clauselens/clauselens/internal/state"
)

func sampleItems() []api.DashboardItem {
	return []api.DashboardItem{
		{ID: 1, Filename: "Lease_Agreement.pdf", CreatedAt: "2026-01-10T09:00:00Z", RiskLevel: "High"},
		{ID: 2, Filename: "nda.docx", CreatedAt: "2026-03-02T09:00:00Z", RiskLevel: "Low"},
		{ID: 3, Filename: "Employment_Contract.pdf", CreatedAt: "2026-02-14T09:00:00Z", RiskLevel: "Medium"},
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	got := Filter(sampleItems(), "LEASE")
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("unexpected filter result: %+v", got)
	}
}

func TestFilterNoMatchYieldsEmptyState(t *testing.T) {
	got := Filter(sampleItems(), "zzz-not-there")
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
	html := ListHTML(got)
	if !strings.Contains(html, EmptyMessage) {
		t.Errorf("expected empty-state message, got %q", html)
	}
}

func TestFilterEmptyQueryKeepsAll(t *testing.T) {
	if got := Filter(sampleItems(), "  "); len(got) != 3 {
		t.Errorf("blank query should keep everything, got %d", len(got))
	}
}

func TestSortOrders(t *testing.T) {
	items := sampleItems()

	tests := []struct {
		order SortOrder
		want  []int // expected ids in order
	}{
		{SortDateDesc, []int{2, 3, 1}},
		{SortDateAsc, []int{1, 3, 2}},
		{SortNameAsc, []int{3, 1, 2}},
		{SortNameDesc, []int{2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			got := Sort(items, tt.order)
			if len(got) != len(items) {
				t.Fatalf("sort changed length: %d", len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected id %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestSortIsPermutation(t *testing.T) {
	items := sampleItems()
	got := Sort(items, SortNameAsc)

	seen := map[int]bool{}
	for _, item := range got {
		seen[item.ID] = true
	}
	for _, item := range items {
		if !seen[item.ID] {
			t.Errorf("item %d lost in sort", item.ID)
		}
	}
	// Input order untouched.
	if items[0].ID != 1 {
		t.Error("Sort must not mutate its input")
	}
}

func TestSortStableOnTies(t *testing.T) {
	items := []api.DashboardItem{
		{ID: 1, Filename: "same.pdf", CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: 2, Filename: "same.pdf", CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: 3, Filename: "same.pdf", CreatedAt: "2026-01-01T00:00:00Z"},
	}
	for _, order := range []SortOrder{SortDateDesc, SortDateAsc, SortNameAsc, SortNameDesc} {
		got := Sort(items, order)
		for i, want := range []int{1, 2, 3} {
			if got[i].ID != want {
				t.Errorf("%s: ties must keep insertion order, got %+v", order, got)
			}
		}
	}
}

func TestSortUnparseableDateSortsOldest(t *testing.T) {
	items := []api.DashboardItem{
		{ID: 1, Filename: "a.pdf", CreatedAt: "not-a-date"},
		{ID: 2, Filename: "b.pdf", CreatedAt: "2026-01-01T00:00:00Z"},
	}
	got := Sort(items, SortDateAsc)
	if got[0].ID != 1 {
		t.Errorf("unparseable date should sort oldest: %+v", got)
	}
}

func TestParseSortOrderDefaults(t *testing.T) {
	if ParseSortOrder("bogus") != SortDateDesc {
		t.Error("unknown order should default to date_desc")
	}
	if ParseSortOrder("name_asc") != SortNameAsc {
		t.Error("valid order should parse")
	}
}

// HTTP handler tests

func setupHandlers(t *testing.T, backend http.HandlerFunc) (*Handlers, *state.App, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	app := state.New(state.NewDBStore(database))
	client := api.New(srv.URL, 5*time.Second)
	return NewHandlers(client, app, notify.NewCenter()), app, srv
}

func TestHandleItemsFiltersAndSorts(t *testing.T) {
	h, _, _ := setupHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sampleItems())
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest("GET", "/dashboard/items?q=pdf&sort=name_asc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if strings.Contains(body, "nda.docx") {
		t.Error("filter should exclude the docx")
	}
	emp := strings.Index(body, "Employment_Contract.pdf")
	lease := strings.Index(body, "Lease_Agreement.pdf")
	if emp == -1 || lease == -1 || emp > lease {
		t.Errorf("expected name-ascending order, got %q", body)
	}
}

func TestHandleDeleteRequiresConfirmation(t *testing.T) {
	backendCalled := false
	h, _, _ := setupHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		backendCalled = true
		w.WriteHeader(http.StatusNoContent)
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest("POST", "/analyses/1/delete", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("unconfirmed delete should 400, got %d", w.Code)
	}
	if backendCalled {
		t.Error("backend must not be called without confirmation")
	}
}

func TestHandleDeleteRemovesFromMemoryAfterConfirm(t *testing.T) {
	h, app, _ := setupHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	app.SetItems(sampleItems())

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest("POST", "/analyses/1/delete", strings.NewReader("confirm=yes"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	for _, item := range app.Snapshot().Items {
		if item.ID == 1 {
			t.Error("item should be removed after server confirms")
		}
	}
}

func TestHandleDeleteKeepsItemOnServerError(t *testing.T) {
	h, app, _ := setupHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Analysis not found"}`))
	})
	app.SetItems(sampleItems())

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest("POST", "/analyses/1/delete", strings.NewReader("confirm=yes"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if len(app.Snapshot().Items) != 3 {
		t.Error("failed delete must not touch the in-memory list")
	}
}

func TestHandleRiskPopup(t *testing.T) {
	h, _, _ := setupHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Analysis{
			ID: 3, RiskLevel: "Medium", RiskReason: "One-sided termination clause.",
		})
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest("GET", "/analyses/3/risk", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["risk_reason"] != "One-sided termination clause." {
		t.Errorf("unexpected popup payload: %+v", resp)
	}
}

func TestHandleExportStreamsPDF(t *testing.T) {
	h, _, _ := setupHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="analysis_5_lease_export.pdf"`)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 export"))
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest("GET", "/analyses/5/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "analysis_5") {
		t.Errorf("disposition: got %q", got)
	}
	if w.Body.String() != "%PDF-1.4 export" {
		t.Errorf("body: got %q", w.Body.String())
	}
}
