// Package web serves the HTML pages: login, dashboard, upload, and the
// results view with its tabs, clause tools, and the Clause Oracle
// popup shell. Fragments for the dashboard list, chat, and timeline
// live in their own packages; this one owns the page shells and the
// navigation between views.
package web

import (
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/chat"
	"github.com/clauselens/clauselens/internal/dashboard"
	"github.com/clauselens/clauselens/internal/db"
	"github.com/clauselens/clauselens/internal/notify"
	"github.com/clauselens/clauselens/internal/render"
	"github.com/clauselens/clauselens/internal/state"
	"github.com/clauselens/clauselens/internal/upload"
)

// Handlers serves the page-level routes.
type Handlers struct {
	client      *api.Client
	app         *state.App
	center      *notify.Center
	chat        *chat.Service
	validator   *upload.Validator
	eli5        *eli5Cache
	companyName string
}

// NewHandlers wires the page handlers to their dependencies.
func NewHandlers(client *api.Client, app *state.App, center *notify.Center,
	chatSvc *chat.Service, validator *upload.Validator, database *db.DB, companyName string) *Handlers {
	return &Handlers{
		client:      client,
		app:         app,
		center:      center,
		chat:        chatSvc,
		validator:   validator,
		eli5:        newEli5Cache(database),
		companyName: companyName,
	}
}

// RegisterRoutes mounts all page routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Get("/register", h.handleRegisterPage)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)

	r.Get("/dashboard", h.handleDashboard)
	r.Get("/upload", h.handleUploadPage)
	r.Post("/upload", h.handleUpload)

	r.Get("/analyses/{id}", h.handleResults)
	r.Get("/analyses/{id}/file", h.handleOriginalFile)
	r.Get("/analyses/{id}/oracle", h.handleOraclePopup)
	r.Post("/analyses/{id}/actions/{index}/explain", h.handleExplain)
	r.Post("/analyses/{id}/rewrite", h.handleRewrite)
	r.Post("/analyses/{id}/simulate", h.handleSimulate)
	r.Post("/analyses/{id}/benchmark", h.handleBenchmark)

	r.Post("/notifications/{id}/dismiss", h.handleDismiss)

	r.Get("/static/style.css", staticAsset("text/css; charset=utf-8", styleCSS))
	r.Get("/static/app.js", staticAsset("application/javascript; charset=utf-8", appJS))
	r.Get("/static/popup.js", staticAsset("application/javascript; charset=utf-8", popupJS))
}

func staticAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}
}

// renderPage writes the page shell around the given content.
func (h *Handlers) renderPage(w http.ResponseWriter, title string, content string) {
	snap := h.app.Snapshot()
	data := pageData{
		Title:       title,
		CompanyName: h.companyName,
		View:        string(snap.View),
		LoggedIn:    snap.Token != "",
		ShowFAB:     snap.ShowFAB,
		Content:     template.HTML(content),
	}
	for _, n := range h.center.Active() {
		data.Notifications = append(data.Notifications, notification{
			ID: n.ID, Level: string(n.Level), Message: n.Message,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		log.Errorf("web: rendering page %q: %v", title, err)
	}
}

// handleRoot sends the browser to whichever view was active last.
func (h *Handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	snap := h.app.Snapshot()
	if snap.Token == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	switch snap.View {
	case state.ViewResults:
		http.Redirect(w, r, "/analyses/"+strconv.Itoa(snap.AnalysisID), http.StatusSeeOther)
	case state.ViewUpload:
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "Sign in", loginFormHTML(false))
}

func (h *Handlers) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "Create account", loginFormHTML(true))
}

func loginFormHTML(register bool) string {
	action, label, alt := "/login", "Sign in", `<a href="/register">Create an account</a>`
	if register {
		action, label, alt = "/register", "Create account", `<a href="/login">Already registered? Sign in</a>`
	}
	return `<div class="auth-form"><form method="post" action="` + action + `">` +
		`<input type="email" name="email" placeholder="Email" required>` +
		`<input type="password" name="password" placeholder="Password" required>` +
		`<button type="submit">` + label + `</button>` +
		`</form>` + alt + `</div>`
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	email, password := r.FormValue("email"), r.FormValue("password")
	token, err := h.client.Login(r.Context(), email, password)
	if err != nil {
		log.Errorf("web: login for %s: %v", email, err)
		h.center.Error(userMessage(err, "Sign-in failed. Check your email and password."))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := h.app.SetToken(r.Context(), token.AccessToken); err != nil {
		log.Errorf("web: persisting token: %v", err)
	}
	h.center.Success("Welcome back.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	email, password := r.FormValue("email"), r.FormValue("password")
	if _, err := h.client.Register(r.Context(), email, password); err != nil {
		log.Errorf("web: registering %s: %v", email, err)
		h.center.Error(userMessage(err, "Could not create the account."))
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	// Sign the new account straight in.
	token, err := h.client.Login(r.Context(), email, password)
	if err != nil {
		h.center.Success("Account created. Sign in to continue.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := h.app.SetToken(r.Context(), token.AccessToken); err != nil {
		log.Errorf("web: persisting token: %v", err)
	}
	h.center.Success("Account created.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Logout(r.Context()); err != nil {
		log.Errorf("web: logout: %v", err)
	}
	h.client.SetToken("")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if h.requireLogin(w, r) {
		return
	}
	if err := h.app.Show(r.Context(), state.ViewDashboard, 0); err != nil {
		log.Errorf("web: switching to dashboard: %v", err)
	}

	var list string
	items, err := h.client.Dashboard(r.Context())
	if err != nil {
		log.Errorf("web: loading dashboard: %v", err)
		list = `<div class="dashboard-error">Could not load your documents.</div>`
	} else {
		h.app.SetItems(items)
		list = dashboard.ListHTML(dashboard.Sort(items, dashboard.SortDateDesc))
	}

	content := `<h1>Your documents</h1>` +
		`<div class="dashboard-toolbar">` +
		`<input type="search" id="dashboard-search" placeholder="Filter by filename...">` +
		`<select id="dashboard-sort">` +
		`<option value="date_desc">Newest first</option>` +
		`<option value="date_asc">Oldest first</option>` +
		`<option value="name_asc">Name A&ndash;Z</option>` +
		`<option value="name_desc">Name Z&ndash;A</option>` +
		`</select></div>` +
		`<div id="dashboard-list">` + list + `</div>`
	h.renderPage(w, "Dashboard", content)
}

func (h *Handlers) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	if h.requireLogin(w, r) {
		return
	}
	if err := h.app.Show(r.Context(), state.ViewUpload, 0); err != nil {
		log.Errorf("web: switching to upload: %v", err)
	}

	content := `<h1>Analyze a document</h1>` +
		`<form class="upload-zone" method="post" action="/upload" enctype="multipart/form-data">` +
		`<p>Drop a contract here or choose a file.</p>` +
		`<p class="upload-hint">PDF, DOC, DOCX, TXT, or RTF</p>` +
		`<input type="file" name="document" accept=".pdf,.doc,.docx,.txt,.rtf" required>` +
		`<button type="submit">Analyze</button>` +
		`</form>`
	h.renderPage(w, "Upload", content)
}

func (h *Handlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.requireLogin(w, r) {
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		h.center.Error("Choose a file to analyze.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	}
	defer file.Close()

	res, err := h.validator.Validate(header.Filename, file)
	if err != nil {
		log.Errorf("web: validating %s: %v", header.Filename, err)
		h.center.Error(err.Error())
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	}
	if res.ScannedWarning {
		h.center.Push(notify.LevelWarning, "This PDF looks like a scan; analysis quality may suffer.")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		log.Errorf("web: rewinding upload: %v", err)
		h.center.Error("Could not read the file.")
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	}

	analysis, err := h.client.Analyze(r.Context(), header.Filename, file)
	if err != nil {
		log.Errorf("web: analyzing %s: %v", header.Filename, err)
		h.showError(w, r, userMessage(err, "Analysis failed. Try again."))
		return
	}

	gen := h.app.BeginLoad()
	h.app.SetAnalysis(gen, analysis)
	if err := h.chat.Seed(r.Context(), analysis.ID, analysis.Conversation); err != nil {
		log.Errorf("web: seeding conversation %d: %v", analysis.ID, err)
	}
	h.center.Success("Analysis complete.")
	http.Redirect(w, r, "/analyses/"+strconv.Itoa(analysis.ID), http.StatusSeeOther)
}

// handleResults loads an analysis and renders the full results view.
// Loads are fenced by generation: a response that arrives after a newer
// load began is discarded instead of overwriting it.
func (h *Handlers) handleResults(w http.ResponseWriter, r *http.Request) {
	if h.requireLogin(w, r) {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	analysis := h.app.Analysis()
	gen := h.app.Snapshot().Generation
	if analysis == nil || analysis.ID != id {
		gen = h.app.BeginLoad()
		analysis, err = h.client.GetAnalysis(r.Context(), id)
		if err != nil {
			log.Errorf("web: loading analysis %d: %v", id, err)
			h.showError(w, r, userMessage(err, "Could not load the analysis."))
			return
		}
		if !h.app.SetAnalysis(gen, analysis) {
			// A newer load superseded this one.
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if err := h.chat.Seed(r.Context(), analysis.ID, analysis.Conversation); err != nil {
			log.Errorf("web: seeding conversation %d: %v", analysis.ID, err)
		}
	}

	if err := h.app.Show(r.Context(), state.ViewResults, id); err != nil {
		log.Errorf("web: switching to results: %v", err)
	}
	if r.URL.Query().Get("tab") == "timeline" {
		h.app.SelectTab(state.TabTimeline)
	} else if r.URL.Query().Has("tab") {
		h.app.SelectTab(state.TabAnalysis)
	}

	explanations, err := h.eli5.All(r.Context(), id, gen)
	if err != nil {
		log.Errorf("web: loading explanations %d: %v", id, err)
		explanations = map[int]string{}
	}

	opts := render.Options{
		Explanations: explanations,
		ExactView:    r.URL.Query().Get("view") == "exact",
	}

	snap := h.app.Snapshot()
	var pane string
	if snap.Tab == state.TabTimeline {
		pane = `<div id="timeline-root" data-src="/analyses/` + strconv.Itoa(id) + `/timeline">Loading timeline&hellip;</div>` +
			`<script>fetch(document.getElementById('timeline-root').dataset.src).then(function(r){return r.text();}).then(function(h){document.getElementById('timeline-root').innerHTML=h;});</script>`
	} else {
		pane = render.Results(analysis, opts) + h.oraclePanelHTML(r, analysis)
	}

	content := resultsTabs(id, snap.Tab) + pane
	h.renderPage(w, analysis.Filename, content)
}

func resultsTabs(id int, active state.Tab) string {
	base := "/analyses/" + strconv.Itoa(id)
	analysisClass, timelineClass := "", ""
	if active == state.TabTimeline {
		timelineClass = ` class="active"`
	} else {
		analysisClass = ` class="active"`
	}
	return `<nav class="results-tabs">` +
		`<a href="` + base + `?tab=analysis"` + analysisClass + `>Analysis</a>` +
		`<a href="` + base + `?tab=timeline"` + timelineClass + `>Key dates</a>` +
		`</nav>`
}

func (h *Handlers) oraclePanelHTML(r *http.Request, analysis *api.Analysis) string {
	turns, err := h.chat.Transcript(r.Context(), analysis.ID)
	if err != nil {
		log.Errorf("web: loading transcript %d: %v", analysis.ID, err)
	}
	id := strconv.Itoa(analysis.ID)
	return `<section class="oracle-panel">` +
		`<header class="oracle-header">Clause Oracle ` +
		`<button type="button" data-popup-url="/analyses/` + id + `/oracle">Open in window</button>` +
		`</header>` +
		`<div class="oracle-transcript" id="oracle-transcript">` + chat.TranscriptHTML(turns) + `</div>` +
		`<form id="oracle-inline-form" class="oracle-form" method="post" action="/analyses/` + id + `/chat">` +
		`<input type="text" name="question" placeholder="Ask about this document..." autocomplete="off">` +
		`<button type="submit">Ask</button>` +
		`</form></section>`
}

func (h *Handlers) handleOraclePopup(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	filename := "document"
	if a := h.app.Analysis(); a != nil && a.ID == id {
		filename = a.Filename
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := popup.Execute(w, popupData{CompanyName: h.companyName, AnalysisID: id, Filename: filename}); err != nil {
		log.Errorf("web: rendering popup: %v", err)
	}
}

func (h *Handlers) handleOriginalFile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	body, err := h.client.OriginalFile(r.Context(), id)
	if err != nil {
		log.Errorf("web: fetching original file %d: %v", id, err)
		http.Error(w, "could not load the original file", http.StatusBadGateway)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/pdf")
	if _, err := io.Copy(w, body); err != nil {
		log.Errorf("web: streaming original file %d: %v", id, err)
	}
}

// handleExplain fetches a plain-language explanation for one action
// item, caching it for the rest of the current load.
func (h *Handlers) handleExplain(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	analysis := h.app.Analysis()
	if analysis == nil || analysis.ID != id || index < 0 || index >= len(analysis.Actions) {
		http.Error(w, "action not available", http.StatusConflict)
		return
	}
	gen := h.app.Snapshot().Generation

	if cached, ok, err := h.eli5.Get(r.Context(), id, gen, index); err == nil && ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(render.RenderInline(cached)))
		return
	}

	resp, err := h.client.Query(r.Context(), api.QueryRequest{
		Question:   "Explain this obligation in one or two plain sentences, as if to someone with no legal background: " + analysis.Actions[index].Text,
		FullText:   strings.Join(analysis.ExtractedText, "\n\n"),
		AnalysisID: id,
	})
	if err != nil {
		log.Errorf("web: explaining action %d/%d: %v", id, index, err)
		http.Error(w, `<div class="eli5-error">Could not fetch an explanation.</div>`, http.StatusBadGateway)
		return
	}

	if err := h.eli5.Put(r.Context(), id, gen, index, resp.Answer); err != nil {
		log.Errorf("web: caching explanation %d/%d: %v", id, index, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(render.RenderInline(resp.Answer)))
}

func (h *Handlers) handleRewrite(w http.ResponseWriter, r *http.Request) {
	analysis, ok := h.openAnalysis(w, r)
	if !ok {
		return
	}

	resp, err := h.client.Rewrite(r.Context(), api.RewriteRequest{
		ClauseKey:       r.FormValue("clause_key"),
		ClauseText:      r.FormValue("clause_text"),
		DocumentContext: strings.Join(analysis.ExtractedText, "\n\n"),
	})
	if err != nil {
		log.Errorf("web: rewriting clause: %v", err)
		http.Error(w, `<div class="tool-error">Could not suggest rewrites.</div>`, http.StatusBadGateway)
		return
	}

	var b strings.Builder
	b.WriteString(`<div class="tool-result"><h4>Suggested rewrites</h4><ol>`)
	for _, clause := range resp.RewrittenClauses {
		b.WriteString(`<li>` + render.RenderInline(clause) + `</li>`)
	}
	b.WriteString(`</ol></div>`)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(b.String()))
}

func (h *Handlers) handleSimulate(w http.ResponseWriter, r *http.Request) {
	analysis, ok := h.openAnalysis(w, r)
	if !ok {
		return
	}

	keyInfo := make([]map[string]interface{}, 0, len(analysis.KeyInfo))
	for _, item := range analysis.KeyInfo {
		keyInfo = append(keyInfo, map[string]interface{}{"key": item.Key, "value": item.Value})
	}

	resp, err := h.client.Simulate(r.Context(), api.SimulationRequest{
		ClauseText:      r.FormValue("clause_text"),
		DocumentContext: strings.Join(analysis.ExtractedText, "\n\n"),
		KeyInfo:         keyInfo,
	})
	if err != nil {
		log.Errorf("web: simulating clause: %v", err)
		http.Error(w, `<div class="tool-error">Could not run the simulation.</div>`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(`<div class="tool-result"><h4>Risk simulation</h4>` +
		render.Markdown(resp.SimulationText) + `</div>`))
}

func (h *Handlers) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.openAnalysis(w, r); !ok {
		return
	}

	resp, err := h.client.Benchmark(r.Context(), api.BenchmarkRequest{
		ClauseKey:  r.FormValue("clause_key"),
		ClauseText: r.FormValue("clause_text"),
	})
	if err != nil {
		log.Errorf("web: benchmarking clause: %v", err)
		http.Error(w, `<div class="tool-error">Could not benchmark the clause.</div>`, http.StatusBadGateway)
		return
	}

	var b strings.Builder
	b.WriteString(`<div class="tool-result"><h4>Market benchmark</h4>`)
	b.WriteString(render.Markdown(resp.BenchmarkResult))
	if len(resp.Examples) > 0 {
		b.WriteString(`<h5>Example clauses</h5><ul>`)
		for _, ex := range resp.Examples {
			b.WriteString(`<li>` + render.EscapeHTML(ex) + `</li>`)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</div>`)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(b.String()))
}

func (h *Handlers) handleDismiss(w http.ResponseWriter, r *http.Request) {
	h.center.Dismiss(chi.URLParam(r, "id"))
	referer := r.Referer()
	if referer == "" {
		referer = "/"
	}
	http.Redirect(w, r, referer, http.StatusSeeOther)
}

// openAnalysis resolves the clause-tool target: the id in the URL must
// match the analysis currently on screen.
func (h *Handlers) openAnalysis(w http.ResponseWriter, r *http.Request) (*api.Analysis, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	analysis := h.app.Analysis()
	if analysis == nil || analysis.ID != id {
		http.Error(w, "analysis not open", http.StatusConflict)
		return nil, false
	}
	return analysis, true
}

// requireLogin redirects anonymous visitors to the sign-in page and
// reports whether it did.
func (h *Handlers) requireLogin(w http.ResponseWriter, r *http.Request) bool {
	if h.app.Token() != "" {
		h.client.SetToken(h.app.Token())
		return false
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// showError switches to the error view and renders it.
func (h *Handlers) showError(w http.ResponseWriter, r *http.Request, message string) {
	if err := h.app.Show(r.Context(), state.ViewError, 0); err != nil {
		log.Errorf("web: switching to error view: %v", err)
	}
	content := `<div class="error-view"><h1>Something went wrong</h1><p>` +
		render.EscapeHTML(message) + `</p>` +
		`<a href="/dashboard">Back to dashboard</a></div>`
	h.renderPage(w, "Error", content)
}

// userMessage prefers the server-provided detail over a generic fallback.
func userMessage(err error, fallback string) string {
	if apiErr, ok := err.(*api.Error); ok && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
