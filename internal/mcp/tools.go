package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listAnalysesTool defines the list_analyses MCP tool.
var listAnalysesTool = mcp.NewTool("list_analyses",
	mcp.WithDescription("List the user's analyzed documents with their risk levels and dates."),
)

// getAnalysisTool defines the get_analysis MCP tool.
var getAnalysisTool = mcp.NewTool("get_analysis",
	mcp.WithDescription("Get the full analysis of one document: assessment, key clauses, and action items."),
	mcp.WithNumber("analysis_id",
		mcp.Required(),
		mcp.Description("Numeric id of the analysis"),
	),
)

// askDocumentTool defines the ask_document MCP tool.
var askDocumentTool = mcp.NewTool("ask_document",
	mcp.WithDescription("Ask the Clause Oracle a question about an analyzed document."),
	mcp.WithNumber("analysis_id",
		mcp.Required(),
		mcp.Description("Numeric id of the analysis"),
	),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question about the document"),
	),
)

// getTimelineTool defines the get_timeline MCP tool.
var getTimelineTool = mcp.NewTool("get_timeline",
	mcp.WithDescription("Get the key dates, payments, and deadlines extracted from a document."),
	mcp.WithNumber("analysis_id",
		mcp.Required(),
		mcp.Description("Numeric id of the analysis"),
	),
)
