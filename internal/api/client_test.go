package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second), srv
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]DashboardItem{})
	})
	defer srv.Close()

	c.SetToken("tok-123")
	if _, err := c.Dashboard(context.Background()); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]DashboardItem{})
	})
	defer srv.Close()

	if _, err := c.Dashboard(context.Background()); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no auth header, got %q", gotAuth)
	}
}

func TestTokenSafeForConcurrentUse(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]DashboardItem{})
	})
	defer srv.Close()

	// Writers and readers race on the token; the race detector flags
	// any unguarded access.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.SetToken("tok")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := c.Dashboard(context.Background()); err != nil {
					t.Errorf("Dashboard: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestErrorCarriesServerDetail(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Analysis not found"}`))
	})
	defer srv.Close()

	_, err := c.GetAnalysis(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "Analysis not found" {
		t.Errorf("detail: got %q", apiErr.Detail)
	}
}

func TestErrorFallsBackToRawBody(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})
	defer srv.Close()

	_, err := c.Dashboard(context.Background())
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Detail != "upstream unavailable" {
		t.Errorf("detail: got %q", apiErr.Detail)
	}
}

func TestNonJSONSuccessBodyIsEmptyResult(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	defer srv.Close()

	var resp QueryResponse
	err := c.do(context.Background(), http.MethodPost, "/query", QueryRequest{Question: "q"}, &resp)
	if err != nil {
		t.Fatalf("expected no error for non-JSON success body, got %v", err)
	}
	if resp.Answer != "" {
		t.Errorf("expected zero-value response, got %+v", resp)
	}
}

func TestAnalyzeSendsMultipart(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("expected multipart content type, got %q", r.Header.Get("Content-Type"))
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "lease.pdf" {
			t.Errorf("filename: got %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "%PDF-1.4 fake" {
			t.Errorf("content: got %q", data)
		}
		json.NewEncoder(w).Encode(Analysis{ID: 7, Filename: "lease.pdf", RiskLevel: "Medium"})
	})
	defer srv.Close()

	analysis, err := c.Analyze(context.Background(), "lease.pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.ID != 7 || analysis.RiskLevel != "Medium" {
		t.Errorf("unexpected analysis: %+v", analysis)
	}
}

func TestLoginSendsForm(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type: got %q", ct)
		}
		r.ParseForm()
		if r.PostForm.Get("username") != "a@b.c" {
			t.Errorf("username: got %q", r.PostForm.Get("username"))
		}
		json.NewEncoder(w).Encode(Token{AccessToken: "tok", TokenType: "bearer"})
	})
	defer srv.Close()

	tok, err := c.Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "tok" {
		t.Errorf("token: got %q", tok.AccessToken)
	}
	// Login installs the token for subsequent requests.
	if c.Token() != "tok" {
		t.Errorf("client token: got %q", c.Token())
	}
}

func TestDeleteAnalysis(t *testing.T) {
	var gotMethod, gotPath string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	if err := c.DeleteAnalysis(context.Background(), 9); err != nil {
		t.Fatalf("DeleteAnalysis: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/analyses/9" {
		t.Errorf("got %s %s", gotMethod, gotPath)
	}
}

func TestGenerateTimeline(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		if body["analysis_id"] != 3 {
			t.Errorf("analysis_id: got %d", body["analysis_id"])
		}
		json.NewEncoder(w).Encode(TimelineResponse{
			LifecycleSummary: "A 12-month lease",
			Events: []TimelineEvent{
				{Date: "2026-09-01", Label: "Lease start", Kind: "key_date"},
			},
		})
	})
	defer srv.Close()

	resp, err := c.GenerateTimeline(context.Background(), 3)
	if err != nil {
		t.Fatalf("GenerateTimeline: %v", err)
	}
	if len(resp.Events) != 1 || resp.Events[0].Kind != "key_date" {
		t.Errorf("unexpected timeline: %+v", resp)
	}
}
