package api

// KeyInfoItem is a label/value pair extracted from a document.
type KeyInfoItem struct {
	Key             string `json:"key"`
	Value           string `json:"value"`
	IsNegotiable    bool   `json:"is_negotiable"`
	IsBenchmarkable bool   `json:"is_benchmarkable"`
}

// ActionItem is an obligation or required action extracted from a document.
type ActionItem struct {
	Text            string `json:"text"`
	IsNegotiable    bool   `json:"is_negotiable"`
	IsBenchmarkable bool   `json:"is_benchmarkable"`
}

// AnchorBox is a normalized bounding box on a page image (0..1 coordinates).
type AnchorBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// AnchorMatch locates a piece of text either by character offsets in a
// page's extracted text or by bounding boxes on a page image.
type AnchorMatch struct {
	PageIndex int         `json:"page_index"`
	CharStart *int        `json:"char_start,omitempty"`
	CharEnd   *int        `json:"char_end,omitempty"`
	Boxes     []AnchorBox `json:"boxes,omitempty"`
	Strategy  string      `json:"strategy,omitempty"`
}

// Analysis is the structured result of AI-driven processing of one
// uploaded document. Immutable from the client's perspective.
type Analysis struct {
	ID             int           `json:"id"`
	Filename       string        `json:"filename"`
	Assessment     string        `json:"assessment"`
	KeyInfo        []KeyInfoItem `json:"key_info"`
	Actions        []ActionItem  `json:"identified_actions"`
	ExtractedText  []string      `json:"extracted_text"`
	PageImages     []string      `json:"page_images"`
	CreatedAt      string        `json:"created_at,omitempty"`
	RiskLevel      string        `json:"risk_level,omitempty"`
	RiskReason     string        `json:"risk_reason,omitempty"`
	Conversation   []ChatMessage `json:"conversation,omitempty"`
	RiskHighlights []AnchorMatch `json:"risk_highlights,omitempty"`
}

// DashboardItem is the summary projection of an Analysis used on the dashboard.
type DashboardItem struct {
	ID        int    `json:"id"`
	Filename  string `json:"filename"`
	CreatedAt string `json:"created_at,omitempty"`
	RiskLevel string `json:"risk_level,omitempty"`
}

// ChatMessage is one turn of the Clause Oracle conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QueryRequest asks a question about a document.
type QueryRequest struct {
	Question   string        `json:"question"`
	FullText   string        `json:"full_text"`
	History    []ChatMessage `json:"history"`
	AnalysisID int           `json:"analysis_id,omitempty"`
}

// QueryResponse carries the answer and an optional supporting quote.
type QueryResponse struct {
	Answer   string `json:"answer"`
	Citation string `json:"citation,omitempty"`
}

// RewriteRequest asks for alternative phrasings of a negotiable clause.
type RewriteRequest struct {
	ClauseKey       string `json:"clause_key"`
	ClauseText      string `json:"clause_text"`
	DocumentContext string `json:"document_context"`
}

// RewriteResponse lists the rewritten clause versions.
type RewriteResponse struct {
	RewrittenClauses []string `json:"rewritten_clauses"`
}

// SimulationRequest asks what could go wrong under a given clause.
type SimulationRequest struct {
	ClauseText      string                   `json:"clause_text"`
	DocumentContext string                   `json:"document_context"`
	KeyInfo         []map[string]interface{} `json:"key_info"`
}

// SimulationResponse carries the free-text risk simulation.
type SimulationResponse struct {
	SimulationText string `json:"simulation_text"`
}

// BenchmarkRequest compares a clause against market-standard terms.
type BenchmarkRequest struct {
	ClauseText string `json:"clause_text"`
	ClauseKey  string `json:"clause_key"`
}

// BenchmarkResponse carries the benchmark verdict and example clauses.
type BenchmarkResponse struct {
	BenchmarkResult string   `json:"benchmark_result"`
	Examples        []string `json:"examples"`
}

// TimelineEvent is one dated milestone derived from a document.
type TimelineEvent struct {
	ID          *int   `json:"id,omitempty"`
	Date        string `json:"date"`
	Label       string `json:"label"`
	Kind        string `json:"kind"` // key_date | payment_due | action_required
	Description string `json:"description"`
}

// TimelineResponse is the derived timeline for one analysis.
type TimelineResponse struct {
	LifecycleSummary string          `json:"lifecycle_summary"`
	Events           []TimelineEvent `json:"events"`
}

// ReminderRequest schedules an email reminder ahead of a timeline event.
type ReminderRequest struct {
	AnalysisID int    `json:"analysis_id"`
	EventID    int    `json:"event_id"`
	Email      string `json:"email"`
	DaysBefore int    `json:"days_before"`
}

// ReminderResponse reports whether the reminder was registered.
type ReminderResponse struct {
	Success bool `json:"success"`
}

// Token is the bearer token issued by the backend on login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is a registered account.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}
