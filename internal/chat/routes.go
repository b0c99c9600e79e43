package chat

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/render"
	"github.com/clauselens/clauselens/internal/state"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format used by the popup.
type wsRequest struct {
	Type       string `json:"type"` // "ask" or "sync"
	AnalysisID int    `json:"analysis_id"`
	Question   string `json:"question"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type       string `json:"type"` // "transcript" or "error"
	AnalysisID int    `json:"analysis_id"`
	HTML       string `json:"html"`
	Error      string `json:"error,omitempty"`
}

// Handlers exposes the Clause Oracle over HTTP and WebSocket.
type Handlers struct {
	svc *Service
	app *state.App
}

// NewHandlers wires chat routes to the service and app state.
func NewHandlers(svc *Service, app *state.App) *Handlers {
	return &Handlers{svc: svc, app: app}
}

// RegisterRoutes mounts the oracle endpoints.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/analyses/{id}/chat", h.handleTranscript)
	r.Post("/analyses/{id}/chat", h.handleAsk)
	r.Get("/chat/ws", h.handleWebSocket)
}

// handleTranscript returns the conversation panel markup. The popup and
// the inline panel both render from this single transcript, so a turn
// appears once no matter which surface submitted it.
func (h *Handlers) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	turns, err := h.svc.Transcript(r.Context(), id)
	if err != nil {
		log.Errorf("chat: loading transcript %d: %v", id, err)
		http.Error(w, `<div class="oracle-error">Could not load the conversation.</div>`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(TranscriptHTML(turns)))
}

func (h *Handlers) handleAsk(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	analysis := h.app.Analysis()
	if analysis == nil || analysis.ID != id {
		http.Error(w, `<div class="oracle-error">Open the document before asking about it.</div>`, http.StatusConflict)
		return
	}

	_, err = h.svc.Ask(r.Context(), analysis, r.FormValue("question"))
	if err == ErrEmptyQuestion {
		http.Error(w, `<div class="oracle-error">Type a question first.</div>`, http.StatusBadRequest)
		return
	}

	turns, loadErr := h.svc.Transcript(r.Context(), id)
	if loadErr != nil {
		log.Errorf("chat: reloading transcript %d: %v", id, loadErr)
		http.Error(w, `<div class="oracle-error">Could not load the conversation.</div>`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		// The question turn is kept; surface the failure inline under it.
		log.Errorf("chat: asking about %d: %v", id, err)
		w.Write([]byte(TranscriptHTML(turns) +
			`<div class="oracle-error">` + render.EscapeHTML(askErrorMessage(err)) + `</div>`))
		return
	}
	w.Write([]byte(TranscriptHTML(turns)))
}

// handleWebSocket serves the detached popup window. Each "ask" runs
// through the same service as the inline panel, and every reply carries
// the full re-rendered transcript.
func (h *Handlers) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("chat: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Errorf("chat: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			h.sendError(conn, 0, "invalid message format")
			continue
		}

		switch req.Type {
		case "ask":
			h.popupAsk(conn, r, req)
		case "sync":
			h.popupSync(conn, r, req.AnalysisID)
		default:
			h.sendError(conn, req.AnalysisID, "unknown message type: "+req.Type)
		}
	}
}

func (h *Handlers) popupAsk(conn *websocket.Conn, r *http.Request, req wsRequest) {
	analysis := h.app.Analysis()
	if analysis == nil || analysis.ID != req.AnalysisID {
		h.sendError(conn, req.AnalysisID, "document is no longer open")
		return
	}

	if _, err := h.svc.Ask(r.Context(), analysis, req.Question); err != nil {
		h.sendError(conn, req.AnalysisID, askErrorMessage(err))
		if err == ErrEmptyQuestion {
			return
		}
		// Fall through so the popup still shows the kept question turn.
	}
	h.popupSync(conn, r, req.AnalysisID)
}

func (h *Handlers) popupSync(conn *websocket.Conn, r *http.Request, analysisID int) {
	turns, err := h.svc.Transcript(r.Context(), analysisID)
	if err != nil {
		h.sendError(conn, analysisID, "could not load the conversation")
		return
	}
	h.send(conn, wsResponse{
		Type:       "transcript",
		AnalysisID: analysisID,
		HTML:       TranscriptHTML(turns),
	})
}

func (h *Handlers) send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Errorf("chat: websocket write: %v", err)
	}
}

func (h *Handlers) sendError(conn *websocket.Conn, analysisID int, message string) {
	h.send(conn, wsResponse{Type: "error", AnalysisID: analysisID, Error: message})
}

func askErrorMessage(err error) string {
	if apiErr, ok := err.(*api.Error); ok && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err == ErrEmptyQuestion {
		return "Type a question first."
	}
	return "The Clause Oracle could not answer. Try again."
}
