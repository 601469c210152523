// ABOUTME: Category classifier: scored forward pass over prompts, ordered cascade over answers
// ABOUTME: Per-category data (keywords, bonus words, answer words, questions, prompt clause) lives in one table

package clarify

import (
	"regexp"
	"strings"
)

const (
	keywordPoints = 2 // per matching template keyword
	contextBonus  = 3 // once, when any bonus word is present
)

// categoryRule is the fixed behaviour of one category. Template keywords and
// questions are only defaults; the live ones come from Templates.
type categoryRule struct {
	keywords    []string
	bonusWords  []string
	answerWords []string
	questions   []string
	context     string
}

var categoryRules = map[Category]categoryRule{
	CategoryCareer: {
		keywords:    []string{"career", "job", "work", "move", "relocate", "city", "location"},
		bonusWords:  []string{"job", "work", "career", "employment", "profession"},
		answerWords: []string{"career", "job", "work", "professional", "employment", "career change"},
		questions: []string{
			"What's your current career situation and experience level?",
			"What are your main career goals and priorities?",
			"What constraints or requirements do you have for this decision?",
			"What's your timeline for making this change?",
			"What factors are most important to you in this decision?",
		},
		context: "Focus on career development, professional growth, job market considerations, and work-life balance in your response.",
	},
	CategoryFinancial: {
		keywords:    []string{"buy", "purchase", "invest", "money", "financial", "budget"},
		bonusWords:  []string{"money", "budget", "cost", "price", "invest", "buy"},
		answerWords: []string{"money", "budget", "cost", "financial", "invest", "afford"},
		questions: []string{
			"What's your current financial situation and budget?",
			"What are your main financial goals and priorities?",
			"What concerns do you have about this financial decision?",
			"What's your risk tolerance for this investment?",
			"What factors are most important to you in this decision?",
		},
		context: "Focus on financial planning, budgeting, investment considerations, and cost-benefit analysis in your response.",
	},
	CategoryRelationship: {
		keywords:    []string{"relationship", "marriage", "divorce", "dating", "partner", "look for", "qualities", "values", "love"},
		bonusWords:  []string{"marriage", "divorce", "dating", "partner", "love", "family"},
		answerWords: []string{"relationship", "marriage", "partner", "family", "love", "dating"},
		questions: []string{
			"What qualities are most important to you in a partner?",
			"What values and beliefs are essential for you in a relationship?",
			"What are your deal-breakers and non-negotiables?",
			"What kind of lifestyle and future do you envision together?",
			"What past relationship experiences have taught you about what you want?",
			"How do you prefer to communicate and resolve conflicts?",
			"What are your relationship goals and timeline?",
			"What support system do you have for relationship advice?",
		},
		context: "Focus on relationship dynamics, communication, emotional considerations, and personal fulfillment in your response.",
	},
	CategoryEducation: {
		keywords:    []string{"education", "school", "study", "degree", "course", "learn"},
		bonusWords:  []string{"school", "study", "degree", "course", "learn", "university"},
		answerWords: []string{"education", "school", "study", "learn", "degree", "course"},
		questions: []string{
			"What's your current educational background and experience?",
			"What are your main learning goals and objectives?",
			"What constraints do you have for this educational decision?",
			"What's your timeline for completing this education?",
			"What factors are most important to you in choosing this path?",
		},
		context: "Focus on learning outcomes, educational opportunities, skill development, and academic considerations in your response.",
	},
	CategoryHealth: {
		keywords:    []string{"health", "medical", "doctor", "treatment", "therapy", "wellness"},
		bonusWords:  []string{"medical", "doctor", "treatment", "therapy", "wellness", "fitness"},
		answerWords: []string{"health", "medical", "doctor", "wellness", "fitness", "treatment"},
		questions: []string{
			"What's your current health situation and concerns?",
			"What are your main health goals and priorities?",
			"What constraints do you have for this health decision?",
			"What's your timeline for addressing this health matter?",
			"What factors are most important to you in this health decision?",
		},
		context: "Focus on health and wellness, medical considerations, lifestyle factors, and wellbeing in your response.",
	},
	CategoryBusiness: {
		keywords:    []string{"business", "startup", "company", "entrepreneur", "funding", "investor"},
		bonusWords:  []string{"startup", "company", "entrepreneur", "funding", "investor", "market"},
		answerWords: []string{"business", "startup", "company", "entrepreneur", "market", "funding"},
		questions: []string{
			"What's your current business situation and experience?",
			"What are your main business goals and objectives?",
			"What constraints do you have for this business decision?",
			"What's your timeline for this business move?",
			"What factors are most important to you in this business decision?",
		},
		context: "Focus on business strategy, market analysis, entrepreneurial considerations, and professional growth in your response.",
	},
	CategoryRelocation: {
		keywords:    []string{"move", "relocate", "city", "location", "place", "area", "country", "state", "abroad", "overseas"},
		answerWords: []string{"move", "relocate", "location", "city", "place", "abroad"},
		questions: []string{
			"What's your current location and where are you considering moving?",
			"What's driving your interest in relocating?",
			"What are your main priorities for the new location?",
			"What constraints or requirements do you have for this move?",
			"What's your timeline for making this change?",
			"What factors are most important to you in choosing this location?",
		},
		context: "Focus on location-specific factors, lifestyle changes, practical considerations, and quality of life in your response.",
	},
	CategoryGeneric: {
		questions: []string{
			"What's your current situation and what's driving this decision?",
			"What are your main goals and priorities for this choice?",
			"What constraints or requirements do you have?",
			"What's your timeline for making this decision?",
			"What factors are most important to you in this decision?",
			"What concerns or challenges are you facing?",
			"What would success look like for you in this situation?",
		},
		context: "Provide comprehensive advice considering all relevant factors and perspectives.",
	},
}

// scoredOrder is the forward-pass iteration order; ties keep the earlier entry.
var scoredOrder = []Category{
	CategoryCareer, CategoryFinancial, CategoryRelationship,
	CategoryEducation, CategoryHealth, CategoryBusiness,
}

// answerCascade is the fixed priority order for backward classification.
var answerCascade = []Category{
	CategoryCareer, CategoryFinancial, CategoryRelationship, CategoryEducation,
	CategoryHealth, CategoryBusiness, CategoryRelocation,
}

var (
	relocationIndicators = []string{"move", "relocate", "city", "location", "place", "area", "country", "state", "abroad", "overseas"}
	destinationPattern   = regexp.MustCompile(`\bto\s+\w+\b`)
)

// ContextClause returns the system-prompt sentence that frames answers in this category.
func (c Category) ContextClause() string {
	if rule, ok := categoryRules[c]; ok && rule.context != "" {
		return rule.context
	}
	return categoryRules[CategoryGeneric].context
}

// Template is the live keyword list and canned questions for one category.
type Template struct {
	Keywords  []string `json:"keywords" yaml:"keywords"`
	Questions []string `json:"questions" yaml:"questions"`
}

// Templates maps each category to its template.
type Templates map[Category]Template

// DefaultTemplates returns a fresh copy of the built-in templates.
func DefaultTemplates() Templates {
	out := make(Templates, len(categoryRules))
	for c, rule := range categoryRules {
		out[c] = Template{Keywords: clone(rule.keywords), Questions: clone(rule.questions)}
	}
	return out
}

// Questions returns the canned questions for c, falling back to generic when c has none.
func (t Templates) Questions(c Category) []string {
	if tpl, ok := t[c]; ok && len(tpl.Questions) > 0 {
		return tpl.Questions
	}
	if tpl, ok := t[CategoryGeneric]; ok && len(tpl.Questions) > 0 {
		return tpl.Questions
	}
	return categoryRules[CategoryGeneric].questions
}

// Classify routes a prompt to a category. Relocation indicators pre-empt everything;
// other categories score 2 per template keyword plus a one-off context bonus. The
// result is deterministic and generic when nothing scores.
func (t Templates) Classify(prompt string) Category {
	text := Normalize(prompt)

	// A relocation indicator is worth 10, above the priority floor of 8.
	if hasRelocationIndicator(text) {
		return CategoryRelocation
	}

	best, bestScore := CategoryGeneric, 0

	for _, c := range scoredOrder {
		score := keywordPoints * countContained(text, t[c].Keywords)
		if containsAny(text, categoryRules[c].bonusWords) {
			score += contextBonus
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// ClassifyFromAnswers routes free-text clarification answers through a fixed
// priority cascade: the first category with any indicator present wins.
func ClassifyFromAnswers(answers []string) Category {
	text := Normalize(strings.Join(answers, " "))
	if text == "" {
		return CategoryGeneric
	}
	for _, c := range answerCascade {
		if containsAny(text, categoryRules[c].answerWords) {
			return c
		}
	}
	return CategoryGeneric
}

func hasRelocationIndicator(text string) bool {
	return containsAny(text, relocationIndicators) || destinationPattern.MatchString(text)
}

func containsAny(text string, words []string) bool {
	_, ok := firstKeyword(words, text)
	return ok
}

func countContained(text string, words []string) int {
	n := 0
	for _, w := range words {
		if w != "" && strings.Contains(text, Normalize(w)) {
			n++
		}
	}
	return n
}
