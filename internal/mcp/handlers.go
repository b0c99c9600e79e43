package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clauselens/clauselens/internal/api"
)

// handleListAnalyses returns the dashboard list as plain text.
func (s *Server) handleListAnalyses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.client.Dashboard(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing analyses failed: %v", err)), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("No documents have been analyzed yet."), nil
	}

	var b strings.Builder
	for _, item := range items {
		risk := item.RiskLevel
		if risk == "" {
			risk = "Unrated"
		}
		fmt.Fprintf(&b, "- [%d] %s (risk: %s, uploaded: %s)\n", item.ID, item.Filename, risk, item.CreatedAt)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleGetAnalysis returns one stored analysis formatted for reading.
func (s *Server) handleGetAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("analysis_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: analysis_id"), nil
	}

	analysis, err := s.client.GetAnalysis(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading analysis %d failed: %v", id, err)), nil
	}

	return mcp.NewToolResultText(formatAnalysis(analysis)), nil
}

// handleAskDocument routes a question through the backend's query endpoint.
func (s *Server) handleAskDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("analysis_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: analysis_id"), nil
	}
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	analysis, err := s.client.GetAnalysis(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading analysis %d failed: %v", id, err)), nil
	}

	resp, err := s.client.Query(ctx, api.QueryRequest{
		Question:   question,
		FullText:   strings.Join(analysis.ExtractedText, "\n\n"),
		AnalysisID: id,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("question failed: %v", err)), nil
	}

	answer := resp.Answer
	if resp.Citation != "" {
		answer += "\n\nSupporting text: " + resp.Citation
	}
	return mcp.NewToolResultText(answer), nil
}

// handleGetTimeline returns the extracted key dates.
func (s *Server) handleGetTimeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("analysis_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: analysis_id"), nil
	}

	tl, err := s.client.Timeline(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading timeline %d failed: %v", id, err)), nil
	}
	if len(tl.Events) == 0 {
		return mcp.NewToolResultText("No key dates were found for this document."), nil
	}

	var b strings.Builder
	if tl.LifecycleSummary != "" {
		b.WriteString(tl.LifecycleSummary + "\n\n")
	}
	for _, ev := range tl.Events {
		date := ev.Date
		if date == "" {
			date = "(no date)"
		}
		fmt.Fprintf(&b, "- %s [%s] %s", date, ev.Kind, ev.Label)
		if ev.Description != "" {
			b.WriteString(": " + ev.Description)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func formatAnalysis(a *api.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Filename)
	if a.RiskLevel != "" {
		fmt.Fprintf(&b, "Risk: %s", a.RiskLevel)
		if a.RiskReason != "" {
			fmt.Fprintf(&b, " (%s)", a.RiskReason)
		}
		b.WriteString("\n\n")
	}
	if a.Assessment != "" {
		b.WriteString(a.Assessment + "\n\n")
	}
	if len(a.KeyInfo) > 0 {
		b.WriteString("## Key information\n")
		for _, item := range a.KeyInfo {
			fmt.Fprintf(&b, "- %s: %s", item.Key, item.Value)
			if item.IsNegotiable {
				b.WriteString(" [negotiable]")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if len(a.Actions) > 0 {
		b.WriteString("## Action items\n")
		for _, item := range a.Actions {
			fmt.Fprintf(&b, "- %s\n", item.Text)
		}
	}
	return b.String()
}
