package timeline

import (
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/notify"
	"github.com/clauselens/clauselens/internal/state"
)

// Handlers serves the timeline tab and its reminder form.
type Handlers struct {
	svc    *Service
	app    *state.App
	center *notify.Center
}

// NewHandlers wires timeline routes to the service, app state, and
// notification center.
func NewHandlers(svc *Service, app *state.App, center *notify.Center) *Handlers {
	return &Handlers{svc: svc, app: app, center: center}
}

// RegisterRoutes mounts the timeline endpoints.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/analyses/{id}/timeline", h.handleTimeline)
	r.Post("/analyses/{id}/timeline/regenerate", h.handleRegenerate)
	r.Post("/analyses/{id}/reminders", h.handleReminder)
}

func (h *Handlers) handleTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tl, err := h.svc.Load(r.Context(), id)
	if err != nil {
		log.Errorf("timeline: loading %d: %v", id, err)
		http.Error(w, `<div class="timeline-error">Could not load the timeline.</div>`, http.StatusBadGateway)
		return
	}

	h.app.SelectTab(state.TabTimeline)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(HTML(id, h.filename(id), tl)))
}

func (h *Handlers) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tl, err := h.svc.Regenerate(r.Context(), id)
	if err != nil {
		log.Errorf("timeline: regenerating %d: %v", id, err)
		http.Error(w, `<div class="timeline-error">Could not rebuild the timeline.</div>`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(HTML(id, h.filename(id), tl)))
}

func (h *Handlers) handleReminder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	eventID, err := strconv.Atoi(r.FormValue("event_id"))
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	email := r.FormValue("email")
	if email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}
	daysBefore, err := strconv.Atoi(r.FormValue("days_before"))
	if err != nil || daysBefore < 1 {
		daysBefore = 3
	}

	err = h.svc.Remind(r.Context(), api.ReminderRequest{
		AnalysisID: id,
		EventID:    eventID,
		Email:      email,
		DaysBefore: daysBefore,
	})
	if err != nil {
		log.Errorf("timeline: reminder for event %d: %v", eventID, err)
		h.center.Error("Could not schedule the reminder.")
	} else {
		h.center.Success("Reminder scheduled.")
	}
	http.Redirect(w, r, "/analyses/"+strconv.Itoa(id), http.StatusSeeOther)
}

// filename resolves the display name for calendar links; the open
// analysis is preferred, falling back to the dashboard list.
func (h *Handlers) filename(analysisID int) string {
	if a := h.app.Analysis(); a != nil && a.ID == analysisID {
		return a.Filename
	}
	for _, item := range h.app.Snapshot().Items {
		if item.ID == analysisID {
			return item.Filename
		}
	}
	return "document"
}
