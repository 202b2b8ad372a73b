package moderation

import (
	"regexp"
	"strings"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
)

// continueScore is the validation contribution to the final fused score when
// no disqualifying issue was found.
const continueScore = 0.8

var (
	phonePattern     = regexp.MustCompile(`^[0-9\-\s\+\(\)]{8,15}$`)
	nonDigitPattern  = regexp.MustCompile(`[^0-9]`)
	uppercasePattern = regexp.MustCompile(`^[A-Z\s!]{50,}$`)
	urlPattern       = regexp.MustCompile(`https?://\S+`)
)

var fakeNumbers = map[string]struct{}{
	"12345678": {},
	"00000000": {},
	"11111111": {},
	"99999999": {},
}

// Outcome is the rule validation result: either a request to continue
// scoring with the classifiers, or a decided short-circuit verdict that is
// never re-scored.
type Outcome struct {
	Decided bool
	Score   float64
	Issues  []string
	Verdict Verdict
}

// Validate runs the deterministic checks on the submission. It is pure and
// never fails: every problem is accumulated as a named issue. Zero issues
// continue to classification, one or two issues are inconclusive and go to
// manual review, three or more reject outright without spending classifier
// calls.
func Validate(phoneNumber, description string) Outcome {
	var issues []string

	if phoneNumber == "" || len(phoneNumber) < 8 {
		issues = append(issues, "phone number too short")
	}
	if phoneNumber != "" && !phonePattern.MatchString(phoneNumber) {
		issues = append(issues, "invalid phone number format")
	}
	if phoneNumber != "" {
		digits := nonDigitPattern.ReplaceAllString(phoneNumber, "")
		if _, fake := fakeNumbers[digits]; fake {
			issues = append(issues, "obviously fake phone number")
		}
	}

	if trimmed := strings.TrimSpace(description); len(trimmed) < 10 {
		issues = append(issues, "description too short")
	}
	if len(description) > 2000 {
		issues = append(issues, "description too long")
	}
	if description != "" && looksLikeSpam(description) {
		issues = append(issues, "possible spam detected")
	}

	switch {
	case len(issues) == 0:
		return Outcome{Score: continueScore}
	case len(issues) >= 3:
		return Outcome{
			Decided: true,
			Issues:  issues,
			Verdict: Verdict{
				Action:               enums.ModerationActionRejected,
				Confidence:           0.1,
				Reason:               strings.Join(issues, ", "),
				RequiresManualReview: false,
			},
		}
	default:
		return Outcome{
			Decided: true,
			Issues:  issues,
			Verdict: Verdict{
				Action:               enums.ModerationActionFlagged,
				Confidence:           0.5,
				Reason:               strings.Join(issues, ", "),
				RequiresManualReview: true,
			},
		}
	}
}

func looksLikeSpam(description string) bool {
	if hasRepeatedRun(description, 11) {
		return true
	}
	if uppercasePattern.MatchString(description) {
		return true
	}
	return urlPattern.MatchString(description)
}

// hasRepeatedRun reports whether any single character repeats at least n
// times in a row.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}
