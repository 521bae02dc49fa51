package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/stickies/internal/storage"
)

// MCPDeps holds dependencies for the MCP server. It reuses the HTTP layer's
// collaborator interfaces so both surfaces hit the same store, grouper, and
// index.
type MCPDeps struct {
	Store   *storage.Store
	Grouper Grouper
	Indexer NoteIndexer
	Owner   string
}

// NewMCPServer creates an MCP server exposing the note surface as tools, so
// assistants can manage and group notes without the HTTP API.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"stickies",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("stickies — sticky notes with semantic search and thematic grouping."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("add_note",
			mcp.WithDescription("Create a sticky note."),
			mcp.WithString("text", mcp.Description("The note text"), mcp.Required()),
		),
		mcpAddNote(deps),
	)

	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List all sticky notes as JSON."),
		),
		mcpListNotes(deps),
	)

	s.AddTool(
		mcp.NewTool("group_notes",
			mcp.WithDescription("Cluster all stored notes into thematic groups using the local model."),
		),
		mcpGroupNotes(deps),
	)

	s.AddTool(
		mcp.NewTool("search_notes",
			mcp.WithDescription("Semantically search notes and return the closest matches."),
			mcp.WithString("query", mcp.Description("Search query"), mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 5)")),
		),
		mcpSearchNotes(deps),
	)

	return s
}

func mcpAddNote(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}
		if text == "" {
			return mcpError("text must not be empty"), nil
		}

		note := storage.Note{
			ID:        uuid.New().String(),
			Text:      text,
			Owner:     deps.Owner,
			CreatedAt: time.Now().UTC(),
		}
		if err := deps.Store.SaveNote(note); err != nil {
			return mcpError(fmt.Sprintf("failed to save note: %v", err)), nil
		}
		if err := deps.Indexer.IndexNote(ctx, note); err != nil {
			return mcpError(fmt.Sprintf("note saved but indexing failed: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Created note %s", note.ID)), nil
	}
}

func mcpListNotes(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		notes, err := deps.Store.ListNotes()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list notes: %v", err)), nil
		}
		if notes == nil {
			notes = []storage.Note{}
		}

		b, err := json.Marshal(notes)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal notes: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGroupNotes(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		notes, err := deps.Store.ListNotes()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list notes: %v", err)), nil
		}
		if len(notes) == 0 {
			return mcpError("no notes to group"), nil
		}

		result, err := deps.Grouper.Group(ctx, notes)
		if err != nil {
			return mcpError(fmt.Sprintf("grouping failed: %v", err)), nil
		}

		b, err := json.Marshal(result)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal grouping: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSearchNotes(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		limit := req.GetInt("limit", 5)
		if limit <= 0 {
			limit = 5
		}
		if limit > 50 {
			limit = 50
		}

		records, err := deps.Indexer.Search(ctx, query, limit)
		if err != nil {
			return mcpError(fmt.Sprintf("search failed: %v", err)), nil
		}

		hits := make([]noteHit, len(records))
		for i, rec := range records {
			hits[i] = noteHit{ID: rec.ID, Text: rec.Text, Owner: rec.Owner, Score: rec.Score}
		}

		b, err := json.Marshal(hits)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
