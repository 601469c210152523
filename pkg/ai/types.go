// ABOUTME: Text-generation contract shared by every provider: one system prompt, one user message
// ABOUTME: Request carries model and sampling parameters; Response carries the generated text

package ai

import "context"

// Api identifies the wire protocol a model is served over.
type Api string

// Known API types.
const (
	ApiAnthropic Api = "anthropic"
	ApiGoogle    Api = "google"
)

// Request is a single prompt-in/text-out call.
type Request struct {
	Model       string
	MaxTokens   int
	Temperature float64
	System      string
	UserMessage string
}

// Usage reports token consumption when the provider returns it.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Response is the generated text plus provider metadata.
type Response struct {
	Text       string
	Model      string
	StopReason string
	Usage      Usage
}

// TextGenerator is the boundary to a language model. Implementations never retry;
// failures come back as *UpstreamError.
type TextGenerator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// GeneratorFunc adapts a function to TextGenerator.
type GeneratorFunc func(ctx context.Context, req Request) (*Response, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
