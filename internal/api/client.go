package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Error is a failed backend request. Detail carries the server-provided
// message from the response's "detail" field when one was present.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Client talks to the analysis backend. A zero token means requests go
// out unauthenticated; the backend treats those as the anonymous user.
// Safe for concurrent use; the token may change between requests.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken attaches a bearer token to all subsequent requests.
// An empty string clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do issues a request and decodes the JSON response into out. A plain
// struct body is serialized as JSON; *multipart content passes through
// via doRaw. Non-2xx statuses become a *Error carrying the server's
// detail message. A non-JSON success body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request body: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.doRaw(ctx, method, path, reader, contentType, out)
}

// doRaw issues a request with a preassembled body.
func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Detail: errorDetail(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		// Non-JSON success body: treat as an empty result.
		return nil
	}
	return nil
}

// errorDetail extracts the "detail" field from an error body, falling
// back to the raw body text.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(body))
}

// Login exchanges credentials for a bearer token. The token endpoint
// expects an OAuth2 password form, not JSON.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tok Token
	err := c.doRaw(ctx, http.MethodPost, "/token", strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", &tok)
	if err != nil {
		return nil, err
	}
	c.SetToken(tok.AccessToken)
	return &tok, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/users/", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Analyze uploads a document for analysis. The filename's extension
// determines the part's name; validation happens before calling this.
func (c *Client) Analyze(ctx context.Context, filename string, content io.Reader) (*Analysis, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copying document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	var analysis Analysis
	err = c.doRaw(ctx, http.MethodPost, "/analyze", &buf, writer.FormDataContentType(), &analysis)
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// Dashboard lists the caller's analyses as summary rows.
func (c *Client) Dashboard(ctx context.Context) ([]DashboardItem, error) {
	var items []DashboardItem
	if err := c.do(ctx, http.MethodGet, "/analyses/dashboard", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetAnalysis retrieves the full analysis by id.
func (c *Client) GetAnalysis(ctx context.Context, id int) (*Analysis, error) {
	var analysis Analysis
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/analyses/%d", id), nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// DeleteAnalysis removes an analysis server-side. Callers must update
// local state only after this returns nil.
func (c *Client) DeleteAnalysis(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/analyses/%d", id), nil, nil)
}

// ExportPDF streams the analysis export. The caller owns the returned
// body and must close it.
func (c *Client) ExportPDF(ctx context.Context, id int) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/analyses/%d/export", c.baseURL, id), nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("export request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, "", &Error{StatusCode: resp.StatusCode, Detail: errorDetail(body)}
	}
	return resp.Body, resp.Header.Get("Content-Disposition"), nil
}

// OriginalFile streams the original uploaded document (PDF), backing
// the viewer's exact-rendering toggle. The caller must close the body.
func (c *Client) OriginalFile(ctx context.Context, id int) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/analyses/%d/file", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("file request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &Error{StatusCode: resp.StatusCode, Detail: errorDetail(body)}
	}
	return resp.Body, nil
}

// Query asks the Clause Oracle a question about a document.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.do(ctx, http.MethodPost, "/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Rewrite fetches alternative phrasings for a negotiable clause.
func (c *Client) Rewrite(ctx context.Context, req RewriteRequest) (*RewriteResponse, error) {
	var resp RewriteResponse
	if err := c.do(ctx, http.MethodPost, "/rewrite", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Simulate fetches a risk simulation for a clause.
func (c *Client) Simulate(ctx context.Context, req SimulationRequest) (*SimulationResponse, error) {
	var resp SimulationResponse
	if err := c.do(ctx, http.MethodPost, "/simulate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Benchmark compares a clause against market-standard terms.
func (c *Client) Benchmark(ctx context.Context, req BenchmarkRequest) (*BenchmarkResponse, error) {
	var resp BenchmarkResponse
	if err := c.do(ctx, http.MethodPost, "/benchmark", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Timeline fetches the stored timeline for an analysis.
func (c *Client) Timeline(ctx context.Context, analysisID int) (*TimelineResponse, error) {
	var resp TimelineResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/timeline/%d", analysisID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateTimeline asks the backend to derive a timeline for an analysis.
func (c *Client) GenerateTimeline(ctx context.Context, analysisID int) (*TimelineResponse, error) {
	var resp TimelineResponse
	err := c.do(ctx, http.MethodPost, "/timeline", map[string]int{"analysis_id": analysisID}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateReminder registers an email reminder for a timeline event.
func (c *Client) CreateReminder(ctx context.Context, req ReminderRequest) (*ReminderResponse, error) {
	var resp ReminderResponse
	if err := c.do(ctx, http.MethodPost, "/reminders", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
