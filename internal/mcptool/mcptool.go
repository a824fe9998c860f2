// Package mcptool exposes the question-answering pipeline as an MCP tool so
// MCP-capable assistants can query the knowledge graph directly.
package mcptool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/minhtn/ragchat/internal/answerer"
	"github.com/minhtn/ragchat/internal/logger"
)

// Asker answers questions; *answerer.Answerer satisfies it.
type Asker interface {
	Ask(ctx context.Context, question string) (*answerer.Result, error)
}

// NewServer builds an MCP server with a single "ask" tool.
func NewServer(asker Asker, version string) *server.MCPServer {
	s := server.NewMCPServer("ragchat", version)

	tool := mcp.NewTool("ask",
		mcp.WithDescription("Answer a question about Vietnamese provinces using the RAG knowledge graph."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer, in natural language."),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := asker.Ask(ctx, question)
		if err != nil {
			logger.L.Error("mcp ask failed", "err", err)
			return mcp.NewToolResultError("failed to answer question"), nil
		}
		return mcp.NewToolResultText(result.Answer), nil
	})

	return s
}

// Serve runs the MCP server over SSE on addr; it blocks until the listener
// fails or is closed.
func Serve(asker Asker, version, addr string) error {
	sse := server.NewSSEServer(NewServer(asker, version))
	logger.L.Info("starting mcp server", "address", addr)
	return sse.Start(addr)
}
