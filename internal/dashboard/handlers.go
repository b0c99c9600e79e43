package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/notify"
	"github.com/clauselens/clauselens/internal/state"
)

// Handlers serves the dashboard list partial and the row actions.
type Handlers struct {
	client *api.Client
	app    *state.App
	center *notify.Center
}

// NewHandlers creates dashboard handlers over the shared client and state.
func NewHandlers(client *api.Client, app *state.App, center *notify.Center) *Handlers {
	return &Handlers{client: client, app: app, center: center}
}

// RegisterRoutes mounts the dashboard routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/items", h.handleItems)
	r.Post("/analyses/{id}/delete", h.handleDelete)
	r.Get("/analyses/{id}/export", h.handleExport)
	r.Get("/analyses/{id}/risk", h.handleRisk)
}

// handleItems refreshes the list from the backend, then filters and
// sorts it. Re-rendered wholesale on every search keystroke or sort
// change.
func (h *Handlers) handleItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.client.Dashboard(r.Context())
	if err != nil {
		log.Errorf("dashboard: listing analyses: %v", err)
		http.Error(w, `<div class="dashboard-error">Could not load your documents.</div>`, http.StatusBadGateway)
		return
	}
	h.app.SetItems(items)

	query := r.URL.Query().Get("q")
	order := ParseSortOrder(r.URL.Query().Get("sort"))
	visible := Sort(Filter(items, query), order)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(ListHTML(visible)))
}

// handleDelete removes an analysis. The explicit confirm field is the
// second step of the confirmation flow; the in-memory list only
// changes after the server confirms.
func (h *Handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if r.FormValue("confirm") != "yes" {
		http.Error(w, "confirmation required", http.StatusBadRequest)
		return
	}

	if err := h.client.DeleteAnalysis(r.Context(), id); err != nil {
		log.Errorf("dashboard: deleting analysis %d: %v", id, err)
		h.center.Error(userMessage(err, "Could not delete the document."))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	h.app.RemoveItem(id)
	h.center.Success("Document deleted.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleExport proxies the server-generated PDF export as a download.
func (h *Handlers) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	body, disposition, err := h.client.ExportPDF(r.Context(), id)
	if err != nil {
		log.Errorf("dashboard: exporting analysis %d: %v", id, err)
		h.center.Error(userMessage(err, "PDF export failed."))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	defer body.Close()

	if disposition == "" {
		disposition = "attachment; filename=\"analysis_" + strconv.Itoa(id) + "_export.pdf\""
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", disposition)
	if _, err := io.Copy(w, body); err != nil {
		log.Errorf("dashboard: streaming export %d: %v", id, err)
	}
}

// handleRisk serves the risk-justification popup content, fetched per
// click rather than kept in the list.
func (h *Handlers) handleRisk(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	analysis, err := h.client.GetAnalysis(r.Context(), id)
	if err != nil {
		log.Errorf("dashboard: fetching risk for %d: %v", id, err)
		http.Error(w, `{"error":"could not load risk details"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"risk_level":  analysis.RiskLevel,
		"risk_reason": analysis.RiskReason,
	})
}

// userMessage prefers the server-provided detail over a generic fallback.
func userMessage(err error, fallback string) string {
	if apiErr, ok := err.(*api.Error); ok && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
