package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/chat"
	"github.com/clauselens/clauselens/internal/db"
	"github.com/clauselens/clauselens/internal/notify"
	"github.com/clauselens/clauselens/internal/state"
	"github.com/clauselens/clauselens/internal/upload"
)

type fixture struct {
	handlers *Handlers
	app      *state.App
	router   chi.Router
}

func setup(t *testing.T, backend http.Handler) *fixture {
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
	chatSvc := chat.NewService(client, chat.NewStore(database))
	h := NewHandlers(client, app, notify.NewCenter(), chatSvc,
		upload.NewValidator(10, true), database, "ClauseLens")

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	chat.NewHandlers(chatSvc, app).RegisterRoutes(r)
	return &fixture{handlers: h, app: app, router: r}
}

func login(t *testing.T, f *fixture) {
	t.Helper()
	if err := f.app.SetToken(t.Context(), "test-token"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
}

func TestRootRedirectsToLoginWhenAnonymous(t *testing.T) {
	f := setup(t, http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestRootRedirectsToLastView(t *testing.T) {
	f := setup(t, http.NotFoundHandler())
	login(t, f)
	if err := f.app.Show(t.Context(), state.ViewResults, 12); err != nil {
		t.Fatalf("Show: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Header().Get("Location") != "/analyses/12" {
		t.Errorf("expected redirect to results, got %q", w.Header().Get("Location"))
	}
}

func TestLoginInstallsToken(t *testing.T) {
	f := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(api.Token{AccessToken: "abc123", TokenType: "bearer"})
	}))

	req := httptest.NewRequest("POST", "/login", strings.NewReader("email=a@b.c&password=pw"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Header().Get("Location") != "/dashboard" {
		t.Errorf("expected redirect to dashboard, got %q", w.Header().Get("Location"))
	}
	if f.app.Token() != "abc123" {
		t.Errorf("token not installed: %q", f.app.Token())
	}
}

func TestLoginFailureStaysOnLoginPage(t *testing.T) {
	f := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	}))

	req := httptest.NewRequest("POST", "/login", strings.NewReader("email=a@b.c&password=bad"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Header().Get("Location") != "/login" {
		t.Errorf("failed login should bounce back, got %q", w.Header().Get("Location"))
	}
	if f.app.Token() != "" {
		t.Error("token must not be set on failure")
	}
}

func TestDashboardRequiresLogin(t *testing.T) {
	f := setup(t, http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Header().Get("Location") != "/login" {
		t.Errorf("anonymous dashboard should redirect, got %d", w.Code)
	}
}

func TestDashboardRendersItems(t *testing.T) {
	f := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.DashboardItem{
			{ID: 1, Filename: "lease.pdf", CreatedAt: "2026-01-10T09:00:00Z", RiskLevel: "High"},
		})
	}))
	login(t, f)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "lease.pdf") || !strings.Contains(body, "risk-high") {
		t.Errorf("dashboard missing items: %q", body)
	}
	if !f.app.Visible(state.ViewDashboard) {
		t.Error("dashboard view should be active")
	}
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("document", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	backendCalled := false
	f := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalled = true
	}))
	login(t, f)

	body, contentType := multipartBody(t, "notes.exe", "binary")
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Header().Get("Location") != "/upload" {
		t.Errorf("rejected upload should bounce back, got %q", w.Header().Get("Location"))
	}
	if backendCalled {
		t.Error("invalid file must not reach the backend")
	}
}

func TestUploadAnalyzesAndRedirects(t *testing.T) {
	f := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(api.Analysis{ID: 9, Filename: "contract.txt"})
	}))
	login(t, f)

	body, contentType := multipartBody(t, "contract.txt", "the parties agree")
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Header().Get("Location") != "/analyses/9" {
		t.Errorf("expected redirect to results, got %q", w.Header().Get("Location"))
	}
	if a := f.app.Analysis(); a == nil || a.ID != 9 {
		t.Errorf("analysis not installed: %+v", a)
	}
}

func TestResultsRendersAnalysisAndOracle(t *testing.T) {
	f := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Analysis{
			ID:            5,
			Filename:      "lease.txt",
			Assessment:    "A standard **residential lease**.",
			ExtractedText: []string{"the premises"},
			KeyInfo:       []api.KeyInfoItem{{Key: "Rent", Value: "$1000", IsNegotiable: true}},
		})
	}))
	login(t, f)

	req := httptest.NewRequest("GET", "/analyses/5", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "residential lease") {
		t.Error("assessment missing")
	}
	if !strings.Contains(body, "oracle-panel") {
		t.Error("oracle panel missing")
	}
	if !strings.Contains(body, "results-tabs") {
		t.Error("tab bar missing")
	}
	if !f.app.Visible(state.ViewResults) {
		t.Error("results view should be active")
	}
}

func TestResultsLoadFailureShowsErrorView(t *testing.T) {
	f := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Analysis not found"}`))
	}))
	login(t, f)

	req := httptest.NewRequest("GET", "/analyses/404", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "Analysis not found") {
		t.Error("server detail should surface on the error view")
	}
	if !f.app.Visible(state.ViewError) {
		t.Error("error view should be active")
	}
}

func TestExplainCachesPerLoad(t *testing.T) {
	var queryCalls int32
	f := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/query" {
			atomic.AddInt32(&queryCalls, 1)
			json.NewEncoder(w).Encode(api.QueryResponse{Answer: "You must pay on time."})
			return
		}
		json.NewEncoder(w).Encode(api.Analysis{
			ID:            2,
			Filename:      "a.txt",
			ExtractedText: []string{"text"},
			Actions:       []api.ActionItem{{Text: "Tenant shall remit payment by the first."}},
		})
	}))
	login(t, f)

	// Load the analysis first.
	req := httptest.NewRequest("GET", "/analyses/2", nil)
	f.router.ServeHTTP(httptest.NewRecorder(), req)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/analyses/2/actions/0/explain", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		if !strings.Contains(w.Body.String(), "pay on time") {
			t.Fatalf("explanation missing: %q", w.Body.String())
		}
	}
	if got := atomic.LoadInt32(&queryCalls); got != 1 {
		t.Errorf("expected one backend query, got %d", got)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	f := setup(t, http.NotFoundHandler())
	login(t, f)

	req := httptest.NewRequest("POST", "/logout", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Header().Get("Location") != "/login" {
		t.Errorf("logout should land on login, got %q", w.Header().Get("Location"))
	}
	if f.app.Token() != "" {
		t.Error("token should be cleared")
	}
}

func TestOracleFormShowsQuestionImmediately(t *testing.T) {
	f := setup(t, http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/static/app.js", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	// The inline oracle handler must append the question bubble and a
	// pending turn before the request round-trips.
	js := w.Body.String()
	if !strings.Contains(js, "oracle-turn-user") {
		t.Error("submit handler should append the question bubble")
	}
	if !strings.Contains(js, "oracle-turn-pending") {
		t.Error("submit handler should append a pending placeholder")
	}
	if strings.Index(js, "oracle-turn-pending") > strings.Index(js, "post(oracleForm.action") {
		t.Error("placeholder must be appended before the request is sent")
	}
}
