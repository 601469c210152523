// ABOUTME: Clarifying-question generator: LLM-written questions with a template fallback
// ABOUTME: The result length is always within the configured [min, max] question count

package generate

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mauromedda/unpack/internal/clarify"
	"github.com/mauromedda/unpack/internal/config"
	pilog "github.com/mauromedda/unpack/internal/log"
	"github.com/mauromedda/unpack/pkg/ai"
)

const (
	questionMaxTokens   = 500
	questionTemperature = 0.7
)

var numberedLine = regexp.MustCompile(`^\d+\.`)

// QuestionGenerator produces clarifying questions for a prompt.
type QuestionGenerator struct {
	gen  ai.TextGenerator
	opts options
}

// NewQuestionGenerator creates a generator that calls gen.
func NewQuestionGenerator(gen ai.TextGenerator, opts ...Option) *QuestionGenerator {
	return &QuestionGenerator{gen: gen, opts: applyOptions(opts)}
}

// Count draws a question count uniformly from [qc.Min, qc.Max].
func (g *QuestionGenerator) Count(qc config.QuestionCount) int {
	if qc.Max <= qc.Min {
		return qc.Min
	}
	return qc.Min + g.opts.intn(qc.Max-qc.Min+1)
}

// Generate asks the model for questions about prompt. Upstream failures and
// short answers are filled from the category's templates, then generic ones.
func (g *QuestionGenerator) Generate(ctx context.Context, prompt string, category clarify.Category, snap *config.Snapshot) []string {
	qc := snap.Backend.QuestionCount
	n := g.Count(qc)

	var questions []string
	resp, err := g.gen.Generate(ctx, ai.Request{
		Model:       g.opts.model,
		MaxTokens:   questionMaxTokens,
		Temperature: questionTemperature,
		System:      questionSystemPrompt(n),
		UserMessage: fmt.Sprintf("User's question: \"%s\"\n\nGenerate %d clarifying questions to help provide a personalized answer.", prompt, n),
	})
	if err != nil {
		pilog.Warn("generate: question generation failed, using %s templates: %v", category, err)
	} else {
		questions = ParseQuestions(resp.Text, n)
	}

	if len(questions) < qc.Min {
		questions = fill(questions, n, snap.Templates.Questions(category), snap.Templates.Questions(clarify.CategoryGeneric))
	}

	if snap.Backend.Debug.Questions() {
		pilog.Info("generate: questions prompt=%q n=%d category=%s questions=%q",
			pilog.Preview(prompt, 50), n, category, questions)
	}
	return questions
}

// ParseQuestions splits raw model output into at most n questions, dropping
// blank lines and "N." numbered lines.
func ParseQuestions(text string, n int) []string {
	var out []string
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || numberedLine.MatchString(line) {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

// fill tops questions up to n from the template lists, skipping duplicates.
func fill(questions []string, n int, lists ...[]string) []string {
	out := slices.Clone(questions)
	for _, list := range lists {
		for _, q := range list {
			if len(out) >= n {
				return out
			}
			if !slices.Contains(out, q) {
				out = append(out, q)
			}
		}
	}
	return out
}

func questionSystemPrompt(n int) string {
	return fmt.Sprintf(`You are an expert at asking clarifying questions to help people make better decisions.

Your task is to generate %[1]d specific, thoughtful clarifying questions based on the user's question. These questions should help gather context that would be useful for providing a personalized, helpful answer.

Guidelines:
1. Make questions specific to the user's actual question, not generic
2. Focus on gathering personal context, preferences, constraints, and goals
3. Ask about their current situation, experience level, and what they're trying to achieve
4. Make questions conversational and easy to understand
5. Avoid yes/no questions - ask for details and explanations
6. Each question should be on a separate line
7. Don't include numbers or bullet points, just the questions

Examples:
- For "what's the best book to read" → ask about their reading preferences, favorite genres, experience level, goals
- For "what's the best place to live" → ask about their lifestyle, priorities, budget, career, family situation
- For "what's the best restaurant" → ask about their cuisine preferences, occasion, budget, location, dietary restrictions

Generate exactly %[1]d questions that are directly relevant to this specific question.`, n)
}
