// ABOUTME: Casual greeting detection for whole-input small talk ("hi", "thanks", "who are you")
// ABOUTME: Greetings skip clarification and get a short greeting reply on the direct path

package clarify

import "regexp"

var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(hello|hi|hey|hiya|howdy)$`),
	regexp.MustCompile(`^(test|testing|test123)$`),
	regexp.MustCompile(`^(ok|okay|sure|yeah|yep|nope)$`),
	regexp.MustCompile(`^(thanks|thank you|thx)$`),
	regexp.MustCompile(`^(good|bad|great|awesome|cool|nice)$`),
	regexp.MustCompile(`^(yes|no|maybe|perhaps)$`),
	regexp.MustCompile(`^(what|huh|eh|um|uh)$`),
	regexp.MustCompile(`^(lol|haha|hehe|lmao)$`),
	regexp.MustCompile(`^(bye|goodbye|see ya|later)$`),
	regexp.MustCompile(`^(how are you|how's it going|what's up)$`),
	regexp.MustCompile(`^(good morning|good afternoon|good evening)$`),
	regexp.MustCompile(`^(nice to meet you|pleased to meet you)$`),
	regexp.MustCompile(`^(how can you help|what can you do)$`),
	regexp.MustCompile(`^(who are you|what are you)$`),
}

// IsCasualGreeting reports whether the whole prompt is small talk rather than a question.
func IsCasualGreeting(prompt string) bool {
	return isGreeting(Normalize(prompt))
}

func isGreeting(text string) bool {
	for _, p := range greetingPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
