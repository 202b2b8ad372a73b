package reports

import (
	"regexp"
	"strings"
)

// Public descriptions are sanitized, not rejected: offensive words are
// masked so the report itself stays usable.
var profanity = []string{
	"hijueputa", "hijo de puta", "puta", "mierda", "cabron",
	"cabrón", "pendejo", "imbecil", "imbécil", "idiota", "estupido",
	"estúpido", "malparido", "carepicha",
}

var profanityPatterns = compileProfanity()

func compileProfanity() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(profanity))
	for _, word := range profanity {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return patterns
}

func maskProfanity(text string) string {
	for _, pattern := range profanityPatterns {
		text = pattern.ReplaceAllStringFunc(text, func(match string) string {
			return strings.Repeat("*", len([]rune(match)))
		})
	}
	return text
}
