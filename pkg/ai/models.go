// ABOUTME: Built-in model catalog; doubles as the allow-list for model selection
// ABOUTME: Claude 3 family on the Anthropic API plus one Gemini model on the Google API

package ai

// Model describes a selectable model.
type Model struct {
	ID          string `json:"-"`
	Name        string `json:"name"`
	Api         Api    `json:"api"`
	Cost        string `json:"cost"`
	Speed       string `json:"speed"`
	Quality     string `json:"quality"`
	MaxTokens   int    `json:"maxTokens"`
	Description string `json:"description"`
}

// DefaultModelID is used for auxiliary generation and when nothing else is configured.
const DefaultModelID = "claude-3-haiku-20240307"

// Built-in model definitions.
var (
	ModelClaude3Haiku = Model{
		ID:          "claude-3-haiku-20240307",
		Name:        "Claude 3 Haiku",
		Api:         ApiAnthropic,
		Cost:        "Lowest",
		Speed:       "Fastest",
		Quality:     "Good",
		MaxTokens:   200000,
		Description: "Fast and cost-effective for most tasks",
	}

	ModelClaude3Sonnet = Model{
		ID:          "claude-3-sonnet-20240229",
		Name:        "Claude 3 Sonnet",
		Api:         ApiAnthropic,
		Cost:        "Medium",
		Speed:       "Medium",
		Quality:     "High",
		MaxTokens:   200000,
		Description: "Balanced performance and quality",
	}

	ModelClaude3Opus = Model{
		ID:          "claude-3-opus-20240229",
		Name:        "Claude 3 Opus",
		Api:         ApiAnthropic,
		Cost:        "Highest",
		Speed:       "Slowest",
		Quality:     "Highest",
		MaxTokens:   200000,
		Description: "Best quality for complex reasoning",
	}

	ModelGemini20Flash = Model{
		ID:          "gemini-2.0-flash",
		Name:        "Gemini 2.0 Flash",
		Api:         ApiGoogle,
		Cost:        "Low",
		Speed:       "Fast",
		Quality:     "Good",
		MaxTokens:   1000000,
		Description: "Google alternative; requires GEMINI_API_KEY",
	}
)

// BuiltinModels returns all built-in model definitions.
func BuiltinModels() []Model {
	return []Model{
		ModelClaude3Haiku,
		ModelClaude3Sonnet,
		ModelClaude3Opus,
		ModelGemini20Flash,
	}
}

// modelIndex is a pre-built map for O(1) model lookups by ID.
var modelIndex = func() map[string]*Model {
	models := BuiltinModels()
	idx := make(map[string]*Model, len(models))
	for i := range models {
		idx[models[i].ID] = &models[i]
	}
	return idx
}()

// FindModel looks up a model by ID. Returns nil if not found.
func FindModel(id string) *Model {
	return modelIndex[id]
}

// ModelIDs returns every catalog ID in declaration order.
func ModelIDs() []string {
	models := BuiltinModels()
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	return ids
}
