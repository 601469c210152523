// ABOUTME: MCP server exposing the offline clarification classifier as tools
// ABOUTME: Tools read the live config snapshot on every call, so hot reloads apply immediately

package mcp

import (
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mauromedda/unpack/internal/config"
)

const instructions = `unpack decides whether a prompt is a personal decision that needs
clarifying questions before it can be answered well.

- needs_clarification: score a prompt (signals, confidence, category)
- classify_category: route a prompt to a question category
- classify_answers: route free-text clarification answers to a category

All tools are offline and deterministic; no model is called.`

// New builds an MCP server whose tools evaluate against store.
func New(store *config.Store, version string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		"unpack",
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions(instructions),
	)

	needs := NewNeedsClarificationTool(store)
	s.AddTool(needs.Definition(), needs.Handle)

	category := NewClassifyCategoryTool(store)
	s.AddTool(category.Definition(), category.Handle)

	answers := NewClassifyAnswersTool()
	s.AddTool(answers.Definition(), answers.Handle)

	return s
}

// ServeStdio serves s over stdin/stdout until the client disconnects.
func ServeStdio(s *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(s)
}
