// ABOUTME: Pattern library: decision, vague, fuzzy and skip matchers plus topical keywords
// ABOUTME: Sources are plain strings so they can live in config; Compile turns them into a PatternSet

package clarify

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Sources holds the uncompiled pattern lists.
type Sources struct {
	Decision []string `json:"decisionPatterns" yaml:"decisionPatterns"`
	Vague    []string `json:"vaguePatterns" yaml:"vaguePatterns"`
	Fuzzy    []string `json:"fuzzyPatterns" yaml:"fuzzyPatterns"`
	Keywords []string `json:"clarificationKeywords" yaml:"clarificationKeywords"`
	Skip     []string `json:"skipClarificationPatterns" yaml:"skipClarificationPatterns"`
}

// matcher is a compiled pattern that remembers its source for signal details.
type matcher struct {
	re     *regexp.Regexp
	source string
}

// PatternSet is the compiled, read-only form of Sources. It is never mutated after Compile.
type PatternSet struct {
	decision []matcher
	vague    []matcher
	fuzzy    []matcher
	skip     []matcher
	keywords []string
}

// Compile validates and compiles every pattern. Keywords are lowercased; blanks are dropped.
func Compile(src Sources) (*PatternSet, error) {
	var (
		ps  PatternSet
		err error
	)
	if ps.decision, err = compileAll("decisionPatterns", src.Decision); err != nil {
		return nil, err
	}
	if ps.vague, err = compileAll("vaguePatterns", src.Vague); err != nil {
		return nil, err
	}
	if ps.fuzzy, err = compileAll("fuzzyPatterns", src.Fuzzy); err != nil {
		return nil, err
	}
	if ps.skip, err = compileAll("skipClarificationPatterns", src.Skip); err != nil {
		return nil, err
	}
	for _, kw := range src.Keywords {
		kw = Normalize(kw)
		if kw != "" {
			ps.keywords = append(ps.keywords, kw)
		}
	}
	return &ps, nil
}

// MustCompile is like Compile but panics on error. Used for the built-in tables.
func MustCompile(src Sources) *PatternSet {
	ps, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return ps
}

func compileAll(list string, sources []string) ([]matcher, error) {
	out := make([]matcher, 0, len(sources))
	for i, s := range sources {
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("%s[%d] %q: %w", list, i, s, err)
		}
		out = append(out, matcher{re: re, source: s})
	}
	return out, nil
}

func firstMatch(ms []matcher, text string) (string, bool) {
	for _, m := range ms {
		if m.re.MatchString(text) {
			return m.source, true
		}
	}
	return "", false
}

func firstKeyword(keywords []string, text string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}

// Normalize trims, NFC-normalises and lowercases text before any matching.
// A Caser is stateful, so one is built per call.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(s)))
}

// DefaultSources returns a fresh copy of the built-in pattern tables.
func DefaultSources() Sources {
	return Sources{
		Decision: clone(decisionPatterns),
		Vague:    clone(vaguePatterns),
		Fuzzy:    clone(fuzzyPatterns),
		Keywords: clone(clarificationKeywords),
		Skip:     clone(skipPatterns),
	}
}

func clone(s []string) []string {
	return append([]string{}, s...)
}

var decisionPatterns = []string{
	`\bshould\s+i\b`, `\bhelp\s+me\s+decide\b`, `\bwhat\s+should\s+i\b`,
	`\bis\s+it\s+worth\b`, `\bworth\s+it\b`, `\bgood\s+idea\b`,
	`\bbad\s+idea\b`, `\badvice\b`, `\brecommend\b`, `\bsuggest\b`,
	`\bchoose\b`, `\bdecide\b`, `\bbetter\b`, `\bbest\b`,
	`\bpros\s+and\s+cons\b`, `\bcompare\b`, `\bwhich\b`,
	`\bwhat\s+do\s+you\s+think\b`, `\bopinion\b`, `\bthoughts\b`,

	// personal preference
	`\bwhat.*best.*for\s+me\b`, `\bwhat.*good.*for\s+me\b`, `\bwhat.*right.*for\s+me\b`,
	`\bwhat.*suitable.*for\s+me\b`, `\bwhat.*perfect.*for\s+me\b`,
	`\bwhat.*recommend.*for\s+me\b`, `\bwhat.*suggest.*for\s+me\b`,
	`\bwhat.*best\b`, `\bwhat.*good\b`, `\bwhat.*great\b`, `\bwhat.*perfect\b`,
	`\bwhat.*ideal\b`, `\bwhat.*right\b`, `\bwhat.*suitable\b`,
	`\bwhat.*the\s+best\b`, `\bwhat.*a\s+good\b`, `\bwhat.*a\s+great\b`,
	`\bwhat.*some\s+good\b`, `\bwhat.*some\s+great\b`, `\bwhat.*some\s+best\b`,
	`\bwhat.*like\b`, `\bwhat.*enjoy\b`, `\bwhat.*prefer\b`, `\bwhat.*love\b`,
	`\bwhat.*hate\b`, `\bwhat.*dislike\b`, `\bwhat.*avoid\b`,
	`\bhow\s+do\s+i\s+(choose|pick|select|find|get|learn|start|begin)\b`,
	`\bwhat\s+would\s+you\b`, `\bwhat\s+would\s+i\b`, `\bwhat\s+would\s+be\b`,
}

var vaguePatterns = []string{
	`\bwhat\s+do\s+you\s+think\b`, `\bopinion\b`, `\bthoughts\b`,
	`\bhow\s+about\b`, `\bwhat\s+about\b`, `\btell\s+me\s+about\b`,
	`\bwhat\s+if\b`, `\bshould\s+i\s+be\b`, `\bam\s+i\s+right\b`,
	`\bis\s+this\s+normal\b`,
	`\bwhat.*my\b`, `\bwhat.*i\b`, `\bhow.*i\b`, `\bwhy.*i\b`,
	`\bwhat.*personal\b`, `\bwhat.*individual\b`, `\bwhat.*specific\b`,
	`\bwhat.*experience\b`, `\bwhat.*tried\b`, `\bwhat.*worked\b`,
	`\bwhat.*failed\b`, `\bwhat.*success\b`, `\bwhat.*helped\b`,
	`\bwhat.*guidance\b`, `\bwhat.*direction\b`, `\bwhat.*path\b`,
	`\bwhat.*approach\b`, `\bwhat.*strategy\b`, `\bwhat.*method\b`,
}

// fuzzyPatterns tolerate common misspellings of decision words. They only run after
// every exact decision pattern has missed.
var fuzzyPatterns = []string{
	`shoul[dt]\s+i\b`, `shoud\s+i\b`, `shoul\s+i\b`,
	`hel[pv]\s+me\s+decide\b`, `help\s+me\s+decid\b`,
	`wha[st]\s+should\s+i\b`, `what\s+shoul[dt]\s+i\b`,
	`is\s+it\s+wor[th]\b`, `worth\s+i[t]\b`,
	`advi[cs]e\b`, `advise\b`,
	`recom[m]end\b`, `recomend\b`,
	`sug[g]est\b`, `sugest\b`,
	`choo[se]\b`, `chose\b`,
	`deci[de]\b`, `decid\b`,
	`bet[ter]\b`, `beter\b`,
	`be[st]\b`, `bes\b`,
	`com[pare]\b`, `comare\b`,
	`opi[ni]on\b`, `opion\b`,
	`thou[ght]s\b`, `thouts\b`,
}

var clarificationKeywords = []string{
	"career", "job", "work", "move", "relocate", "city", "location",
	"buy", "purchase", "invest", "money", "financial", "budget",
	"relationship", "marriage", "divorce", "dating", "partner",
	"education", "school", "study", "degree", "course",
	"health", "medical", "doctor", "treatment", "therapy",
	"business", "startup", "company", "entrepreneur", "funding",

	// subjective preference
	"book", "books", "movie", "movies", "music", "song", "songs",
	"restaurant", "food", "recipe", "cook", "cooking",
	"hobby", "hobbies", "activity", "activities", "sport", "sports",
	"game", "games", "app", "apps", "software", "tool", "tools",
	"skill", "skills", "learn", "learning", "practice", "practicing",
	"style", "fashion", "clothes", "clothing", "outfit", "outfits",
	"travel", "trip", "vacation", "destination", "place", "places",
	"gift", "gifts", "present", "presents", "surprise", "surprises",
	"goal", "goals", "dream", "dreams", "wish", "wishes", "hope", "hopes",
}

// skipPatterns are anchored factual-question prefixes.
var skipPatterns = []string{
	`^what\s+is\b`, `^how\s+to\b`, `^define\b`, `^explain\b`,
	`^tell\s+me\s+about\b`, `^what\s+are\b`, `^how\s+does\b`,
	`^when\s+did\b`, `^where\s+is\b`, `^who\s+is\b`, `^why\s+does\b`,
	`^calculate\b`, `^convert\b`, `^formula\b`, `^definition\b`,
	`^meaning\b`, `^difference\b`, `^similar\b`, `^example\b`,
	`^list\b`, `^show\b`, `^find\b`, `^search\b`,
}
