// ABOUTME: Clarification decision types: Category enum, evaluation Result and contributing Signals
// ABOUTME: Categories round-trip through text so they can key JSON and YAML maps

package clarify

import "fmt"

// Category is the topical bucket a prompt or a set of answers is routed to.
// The zero value is CategoryGeneric, so an unset category is never undefined.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryCareer
	CategoryFinancial
	CategoryRelationship
	CategoryEducation
	CategoryHealth
	CategoryBusiness
	CategoryRelocation
)

var categoryNames = [...]string{
	CategoryGeneric:      "generic",
	CategoryCareer:       "career",
	CategoryFinancial:    "financial",
	CategoryRelationship: "relationship",
	CategoryEducation:    "education",
	CategoryHealth:       "health",
	CategoryBusiness:     "business",
	CategoryRelocation:   "relocation",
}

// String returns the wire name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("unknown(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory maps a wire name back to its Category.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return CategoryGeneric, false
}

// Categories lists every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, ok := ParseCategory(string(b))
	if !ok {
		return fmt.Errorf("unknown category %q", string(b))
	}
	*c = parsed
	return nil
}

// Result is the outcome of scoring one prompt. It is derived per call and never stored.
type Result struct {
	DecisionHit        bool     `json:"decisionHit"`
	VagueHit           bool     `json:"vagueHit"`
	KeywordHit         bool     `json:"keywordHit"`
	Confidence         float64  `json:"confidence"`
	NeedsClarification bool     `json:"needsClarification"`
	Skipped            bool     `json:"skipped,omitempty"`
	Signals            []Signal `json:"signals,omitempty"`
}

// Signal records one matcher that contributed to a Result.
type Signal struct {
	Name   string  `json:"name"`   // e.g. "decision_pattern", "fuzzy_pattern", "keyword"
	Weight float64 `json:"weight"` // contribution to confidence; zero for short-circuits
	Detail string  `json:"detail"` // the matched pattern source or keyword
}

// Signal names.
const (
	SignalSkip     = "skip_pattern"
	SignalDecision = "decision_pattern"
	SignalFuzzy    = "fuzzy_pattern"
	SignalVague    = "vague_pattern"
	SignalKeyword  = "keyword"
)
