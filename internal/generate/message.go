// ABOUTME: Contextual opening-message generator for clarification turns
// ABOUTME: Strips surrounding quotes from the model output; falls back to a fixed sentence

package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mauromedda/unpack/internal/clarify"
	pilog "github.com/mauromedda/unpack/internal/log"
	"github.com/mauromedda/unpack/pkg/ai"
)

// FallbackMessage is returned whenever the model cannot be used.
const FallbackMessage = "Let me understand your preferences better so I can give you the most relevant advice."

const (
	messageMaxTokens   = 150
	messageTemperature = 0.8
)

var edgeQuotes = regexp.MustCompile(`^["']|["']$`)

// MessageGenerator writes the short line that introduces a set of questions.
type MessageGenerator struct {
	gen  ai.TextGenerator
	opts options
}

// NewMessageGenerator creates a generator that calls gen.
func NewMessageGenerator(gen ai.TextGenerator, opts ...Option) *MessageGenerator {
	return &MessageGenerator{gen: gen, opts: applyOptions(opts)}
}

// Generate returns a one or two sentence opening for prompt. category is only
// used for diagnostics; the model infers the topic from the prompt itself.
func (g *MessageGenerator) Generate(ctx context.Context, prompt string, category clarify.Category) string {
	resp, err := g.gen.Generate(ctx, ai.Request{
		Model:       g.opts.model,
		MaxTokens:   messageMaxTokens,
		Temperature: messageTemperature,
		System:      messageSystemPrompt,
		UserMessage: fmt.Sprintf("User's question: \"%s\"\n\nWrite a brief, direct opening message that acknowledges their specific question and explains why you need more context to help them.", prompt),
	})
	if err != nil {
		pilog.Warn("generate: contextual message failed (category %s): %v", category, err)
		return FallbackMessage
	}

	msg := StripQuotes(resp.Text)
	if msg == "" {
		return FallbackMessage
	}
	pilog.Debug("generate: message category=%s %q", category, pilog.Preview(msg, 80))
	return msg
}

// StripQuotes trims whitespace and one leading and one trailing quote character.
func StripQuotes(s string) string {
	return strings.TrimSpace(edgeQuotes.ReplaceAllString(strings.TrimSpace(s), ""))
}

const messageSystemPrompt = `You are an expert at writing direct, context-specific opening messages for clarification requests.

Your task is to write a brief, punchy opening message (1-2 sentences) that:
1. Acknowledges the user's specific question directly
2. Explains why you need more context to help them
3. Uses varied, direct language without repetitive patterns
4. Avoids generic phrases like "understand your situation" when it doesn't fit

Guidelines:
- Be specific to the topic (movies, books, places, etc.)
- Use direct, conversational language without excessive enthusiasm
- Keep it concise (1-2 sentences max)
- Avoid exclamation marks and overly optimistic language
- Be straightforward and to the point
- Vary your opening patterns - don't always use "Drop your question" format

Opening Pattern Variations:
- "Movie preferences are personal. Let me understand what you enjoy watching."
- "Finding the right place depends on many factors. Let me learn about your priorities."
- "There are many great books out there. Let me understand your reading tastes and goals."
- "Choosing the best option requires knowing your specific needs. What matters most to you?"
- "This decision depends on several factors. Tell me about your situation and goals."
- "To give you the best advice, I need to understand your preferences and constraints."
- "The right choice varies for everyone. What are your main priorities here?"
- "This is a complex decision. Let me learn about your specific circumstances."

Write a direct, context-appropriate opening message for this specific question using varied language patterns.`
