// ABOUTME: MCP tool handlers: needs_clarification, classify_category, classify_answers
// ABOUTME: Each tool pairs a Definition (schema) with a Handle func, returning JSON text results

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mauromedda/unpack/internal/clarify"
	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/engine"
)

// NeedsClarificationTool handles needs_clarification.
type NeedsClarificationTool struct {
	store *config.Store
}

// NewNeedsClarificationTool creates the tool over store.
func NewNeedsClarificationTool(store *config.Store) *NeedsClarificationTool {
	return &NeedsClarificationTool{store: store}
}

// Definition returns the tool schema.
func (t *NeedsClarificationTool) Definition() mcp.Tool {
	return mcp.NewTool("needs_clarification",
		mcp.WithDescription("Score a prompt and report whether it should be clarified before answering. "+
			"Returns the matched signals, confidence, forward category and greeting flag as JSON."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The user prompt to evaluate")),
	)
}

// Handle evaluates the prompt against the live snapshot.
func (t *NeedsClarificationTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt := req.GetString("prompt", "")
	if strings.TrimSpace(prompt) == "" {
		return mcp.NewToolResultError("prompt is required"), nil
	}
	return jsonResult(engine.Evaluate(t.store.Load(), prompt))
}

// ClassifyCategoryTool handles classify_category.
type ClassifyCategoryTool struct {
	store *config.Store
}

// NewClassifyCategoryTool creates the tool over store.
func NewClassifyCategoryTool(store *config.Store) *ClassifyCategoryTool {
	return &ClassifyCategoryTool{store: store}
}

// Definition returns the tool schema.
func (t *ClassifyCategoryTool) Definition() mcp.Tool {
	return mcp.NewTool("classify_category",
		mcp.WithDescription("Route a prompt to a clarification category: "+categoryList()+"."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The user prompt to classify")),
	)
}

// Handle classifies the prompt with the live question templates.
func (t *ClassifyCategoryTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt := req.GetString("prompt", "")
	if strings.TrimSpace(prompt) == "" {
		return mcp.NewToolResultError("prompt is required"), nil
	}
	c := t.store.Load().Templates.Classify(prompt)
	return mcp.NewToolResultText(c.String()), nil
}

// ClassifyAnswersTool handles classify_answers. The answer cascade is fixed,
// so it needs no store.
type ClassifyAnswersTool struct{}

// NewClassifyAnswersTool creates the tool.
func NewClassifyAnswersTool() *ClassifyAnswersTool {
	return &ClassifyAnswersTool{}
}

// Definition returns the tool schema.
func (t *ClassifyAnswersTool) Definition() mcp.Tool {
	return mcp.NewTool("classify_answers",
		mcp.WithDescription("Route free-text clarification answers to a category. "+
			"Returns generic when no indicator is present."),
		mcp.WithArray("answers",
			mcp.Required(),
			mcp.Description("Clarification answers; a single newline-separated string is also accepted"),
			mcp.WithStringItems(),
		),
	)
}

// Handle classifies the answers.
func (t *ClassifyAnswersTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answers, err := answersArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(clarify.ClassifyFromAnswers(answers).String()), nil
}

func answersArg(req mcp.CallToolRequest) ([]string, error) {
	switch v := req.GetArguments()["answers"].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("answers[%d] must be a string", i)
			}
			out = append(out, s)
		}
		return out, nil
	case []string:
		return v, nil
	case string:
		return strings.Split(v, "\n"), nil
	case nil:
		return nil, fmt.Errorf("answers is required")
	default:
		return nil, fmt.Errorf("answers must be an array of strings")
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func categoryList() string {
	names := make([]string, 0, len(clarify.Categories()))
	for _, c := range clarify.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}
