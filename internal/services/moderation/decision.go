package moderation

import (
	"strings"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/services/classifier"
)

const (
	approveThreshold = 0.75
	rejectThreshold  = 0.25

	toxicityPenaltyBelow = 0.3
	toxicityPenalty      = 0.2
	spamPenaltyBelow     = 0.4
	spamPenalty          = 0.15
	commonScamBonus      = 0.1
)

// commonScamTypes are scam categories frequent enough locally that a report
// naming one of them earns a small legitimacy bonus.
var commonScamTypes = map[string]struct{}{
	string(enums.ScamTypeSimpe):    {},
	string(enums.ScamTypePhishing): {},
	string(enums.ScamTypeFamiliar): {},
}

// Decide fuses the validation score with the classification bundle into the
// final verdict. Deterministic, no I/O.
//
// The adjusted score is intentionally compared against the thresholds
// without clamping, so stacked adjustments can push it past [0,1]; only the
// reported confidence is clamped afterwards.
func Decide(validation Outcome, bundle classifier.Bundle, report Report) Verdict {
	score := (validation.Score + bundle.OverallScore) / 2
	reasons := append([]string(nil), validation.Issues...)

	if bundle.Toxicity.Score < toxicityPenaltyBelow {
		score -= toxicityPenalty
		reasons = append(reasons, "toxic content suspected")
	}
	if bundle.Spam.Score < spamPenaltyBelow {
		score -= spamPenalty
		reasons = append(reasons, "spam suspected by classifier")
	}
	if _, common := commonScamTypes[report.ScamType]; common {
		score += commonScamBonus
		reasons = append(reasons, "common local scam pattern")
	}

	action := enums.ModerationActionFlagged
	manualReview := false
	switch {
	case score >= approveThreshold:
		action = enums.ModerationActionApproved
	case score <= rejectThreshold:
		action = enums.ModerationActionRejected
	default:
		manualReview = true
	}

	reason := strings.Join(reasons, ", ")
	if reason == "" {
		reason = defaultReason
	}

	details := bundle
	return Verdict{
		Action:               action,
		Confidence:           clamp01(score),
		Reason:               reason,
		RequiresManualReview: manualReview,
		Details:              &details,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
