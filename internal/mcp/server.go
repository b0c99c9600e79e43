// Package mcp exposes the analyzed documents to MCP clients: listing
// the dashboard, reading a stored analysis, and asking the Clause
// Oracle about a document from an agent session.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/clauselens/clauselens/internal/api"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes document-analysis tools.
type Server struct {
	client *api.Client
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server backed by the analysis API.
func NewServer(client *api.Client) *Server {
	s := &Server{client: client}

	s.mcp = server.NewMCPServer(
		"clauselens",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listAnalysesTool, s.handleListAnalyses)
	s.mcp.AddTool(getAnalysisTool, s.handleGetAnalysis)
	s.mcp.AddTool(askDocumentTool, s.handleAskDocument)
	s.mcp.AddTool(getTimelineTool, s.handleGetTimeline)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
