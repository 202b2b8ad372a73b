package moderation

import (
	"math"
	"strings"
	"testing"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/services/classifier"
)

func bundleWithScores(sentiment, toxicity, spam float64) classifier.Bundle {
	return classifier.NewBundle(
		classifier.Signal{Score: sentiment, Label: "neutral", Confidence: 0.9},
		classifier.Signal{Score: toxicity, Label: "clean", Confidence: 0.9},
		classifier.Signal{Score: spam, Label: "ham", Confidence: 0.9},
	)
}

func continueOutcome() Outcome {
	return Outcome{Score: 0.8}
}

func TestDecideApprovesBenignReport(t *testing.T) {
	bundle := bundleWithScores(0.7, 0.9, 0.9)
	verdict := Decide(continueOutcome(), bundle, Report{ScamType: "otro"})

	if verdict.Action != enums.ModerationActionApproved {
		t.Fatalf("expected approved, got %s (confidence %v)", verdict.Action, verdict.Confidence)
	}
	if verdict.RequiresManualReview {
		t.Fatalf("approved verdict must not require manual review")
	}
	if verdict.Reason != "automatic analysis completed" {
		t.Fatalf("expected default reason, got %q", verdict.Reason)
	}
	if verdict.Details == nil || verdict.Details.OverallScore != bundle.OverallScore {
		t.Fatalf("verdict must carry the classification details")
	}
}

func TestDecideToxicityPenalty(t *testing.T) {
	base := Decide(continueOutcome(), bundleWithScores(0.5, 0.5, 0.5), Report{})
	penalized := Decide(continueOutcome(), bundleWithScores(0.5, 0.2, 0.8), Report{})

	if !strings.Contains(penalized.Reason, "toxic content suspected") {
		t.Fatalf("expected toxicity reason, got %q", penalized.Reason)
	}

	// Same overall score in both bundles, so the only difference is the 0.2
	// toxicity penalty.
	if diff := base.Confidence - penalized.Confidence; math.Abs(diff-0.2) > 1e-9 {
		t.Fatalf("expected 0.2 penalty, got diff %v", diff)
	}
}

func TestDecideSpamPenalty(t *testing.T) {
	verdict := Decide(continueOutcome(), bundleWithScores(0.5, 0.6, 0.3), Report{})

	if !strings.Contains(verdict.Reason, "spam suspected by classifier") {
		t.Fatalf("expected spam reason, got %q", verdict.Reason)
	}
}

func TestDecideCommonScamBonus(t *testing.T) {
	for _, scamType := range []string{"simpe", "phishing", "familiar"} {
		t.Run(scamType, func(t *testing.T) {
			plain := Decide(continueOutcome(), bundleWithScores(0.5, 0.5, 0.5), Report{ScamType: "otro"})
			boosted := Decide(continueOutcome(), bundleWithScores(0.5, 0.5, 0.5), Report{ScamType: scamType})

			if !strings.Contains(boosted.Reason, "common local scam pattern") {
				t.Fatalf("expected bonus reason, got %q", boosted.Reason)
			}
			if diff := boosted.Confidence - plain.Confidence; math.Abs(diff-0.1) > 1e-9 {
				t.Fatalf("expected 0.1 bonus, got diff %v", diff)
			}
		})
	}
}

func TestDecideRejectsLowScore(t *testing.T) {
	verdict := Decide(continueOutcome(), bundleWithScores(0.3, 0.1, 0.2), Report{})

	if verdict.Action != enums.ModerationActionRejected {
		t.Fatalf("expected rejected, got %s (confidence %v)", verdict.Action, verdict.Confidence)
	}
	if verdict.RequiresManualReview {
		t.Fatalf("rejected verdict must not require manual review")
	}
}

func TestDecideAmbiguousScoreIsFlagged(t *testing.T) {
	verdict := Decide(continueOutcome(), classifier.NeutralBundle(), Report{})

	if verdict.Action != enums.ModerationActionFlagged {
		t.Fatalf("expected flagged, got %s", verdict.Action)
	}
	if !verdict.RequiresManualReview {
		t.Fatalf("flagged verdict must require manual review")
	}
}

func TestDecideConfidenceIsClamped(t *testing.T) {
	verdict := Decide(continueOutcome(), bundleWithScores(1, 1, 1), Report{ScamType: "simpe"})

	if verdict.Action != enums.ModerationActionApproved {
		t.Fatalf("expected approved, got %s", verdict.Action)
	}
	if verdict.Confidence > 1 {
		t.Fatalf("confidence must be clamped to [0,1], got %v", verdict.Confidence)
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	bundle := bundleWithScores(0.7, 0.2, 0.3)
	report := Report{PhoneNumber: "22334455", Description: "desc", ScamType: "phishing"}

	first := Decide(continueOutcome(), bundle, report)
	second := Decide(continueOutcome(), bundle, report)

	if first.Action != second.Action || first.Confidence != second.Confidence || first.Reason != second.Reason {
		t.Fatalf("expected identical verdicts, got %+v vs %+v", first, second)
	}
}
