package moderation

import (
	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/services/classifier"
)

const defaultReason = "automatic analysis completed"

// Verdict is the terminal moderation outcome. It is constructed exactly once
// per submission and consumed by the caller to decide persistence and
// broadcast behavior.
type Verdict struct {
	Action               enums.ModerationAction
	Confidence           float64
	Reason               string
	RequiresManualReview bool
	Details              *classifier.Bundle
}

// FailSafeVerdict is returned whenever the pipeline itself faults.
// Moderation failures must never silently become approvals, so the fallback
// is always a flagged verdict requiring human review.
func FailSafeVerdict() Verdict {
	return Verdict{
		Action:               enums.ModerationActionFlagged,
		Confidence:           0.5,
		Reason:               "automatic analysis error - requires manual review",
		RequiresManualReview: true,
	}
}
