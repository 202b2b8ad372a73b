package classifier

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSentimentSignalPicksTopClass(t *testing.T) {
	tests := []struct {
		name      string
		dist      []LabelScore
		wantScore float64
		wantLabel string
	}{
		{
			name: "negative wins",
			dist: []LabelScore{
				{Label: "LABEL_0", Score: 0.8},
				{Label: "LABEL_1", Score: 0.15},
				{Label: "LABEL_2", Score: 0.05},
			},
			wantScore: 0.3,
			wantLabel: "LABEL_0",
		},
		{
			name: "positive wins",
			dist: []LabelScore{
				{Label: "LABEL_0", Score: 0.1},
				{Label: "LABEL_2", Score: 0.7},
			},
			wantScore: 0.7,
			wantLabel: "LABEL_2",
		},
		{
			name:      "unknown label keeps neutral score",
			dist:      []LabelScore{{Label: "LABEL_9", Score: 0.9}},
			wantScore: 0.5,
			wantLabel: "LABEL_9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := SentimentSignal(tt.dist)
			if signal.Score != tt.wantScore || signal.Label != tt.wantLabel {
				t.Fatalf("unexpected signal: %+v", signal)
			}
		})
	}
}

func TestSentimentSignalEmptyDistribution(t *testing.T) {
	signal := SentimentSignal(nil)
	if signal.Score != 0.5 || signal.Label != "neutral" || signal.Confidence != 0.5 {
		t.Fatalf("unexpected fallback signal: %+v", signal)
	}
}

func TestToxicitySignalInvertsScore(t *testing.T) {
	signal := ToxicitySignal([]LabelScore{{Label: "TOXIC", Score: 0.8}})

	if !almostEqual(signal.Score, 0.2) {
		t.Fatalf("expected inverted score 0.2, got %v", signal.Score)
	}
	if signal.Label != "toxic" {
		t.Fatalf("expected toxic label above 0.7, got %q", signal.Label)
	}
	if !almostEqual(signal.Confidence, 0.6) {
		t.Fatalf("expected confidence 0.6, got %v", signal.Confidence)
	}
}

func TestToxicitySignalCleanText(t *testing.T) {
	signal := ToxicitySignal([]LabelScore{{Label: "TOXIC", Score: 0.1}})

	if !almostEqual(signal.Score, 0.9) || signal.Label != "clean" {
		t.Fatalf("unexpected signal: %+v", signal)
	}
}

func TestToxicitySignalMissingClass(t *testing.T) {
	// A distribution without the toxic class counts as fully benign.
	signal := ToxicitySignal([]LabelScore{{Label: "SOMETHING_ELSE", Score: 0.9}})
	if signal.Score != 1 || signal.Label != "clean" {
		t.Fatalf("unexpected signal: %+v", signal)
	}

	empty := ToxicitySignal(nil)
	if empty.Score != 0.5 || empty.Label != "unknown" || empty.Confidence != 0 {
		t.Fatalf("unexpected empty-distribution signal: %+v", empty)
	}
}

func TestSpamSignalThresholds(t *testing.T) {
	spammy := SpamSignal([]LabelScore{{Label: "SPAM", Score: 0.9}})
	if !almostEqual(spammy.Score, 0.1) || spammy.Label != "spam" {
		t.Fatalf("unexpected spammy signal: %+v", spammy)
	}
	if !almostEqual(spammy.Confidence, 0.8) {
		t.Fatalf("expected confidence 0.8, got %v", spammy.Confidence)
	}

	hammy := SpamSignal([]LabelScore{{Label: "SPAM", Score: 0.4}})
	if !almostEqual(hammy.Score, 0.6) || hammy.Label != "ham" {
		t.Fatalf("unexpected hammy signal: %+v", hammy)
	}
}

func TestHeuristicSpamSignal(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantScore float64
		wantLabel string
	}{
		{
			name:      "clean text",
			text:      "Me llamaron para pedirme el PIN del banco.",
			wantScore: 1,
			wantLabel: "ham",
		},
		{
			name:      "two indicators",
			text:      "premio gratis para usted",
			wantScore: 0.6,
			wantLabel: "ham",
		},
		{
			name:      "saturated indicators",
			text:      "Gana dinero gratis!!! Haz click y reclama tu premio ya",
			wantScore: 0,
			wantLabel: "spam",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := HeuristicSpamSignal(tt.text)
			if !almostEqual(signal.Score, tt.wantScore) || signal.Label != tt.wantLabel {
				t.Fatalf("unexpected signal: %+v", signal)
			}
			if signal.Confidence != 0.6 {
				t.Fatalf("heuristic confidence must be fixed at 0.6, got %v", signal.Confidence)
			}
		})
	}
}

func TestBundleOverallScoreIsMean(t *testing.T) {
	bundle := NewBundle(
		Signal{Score: 0.3},
		Signal{Score: 0.6},
		Signal{Score: 0.9},
	)
	if !almostEqual(bundle.OverallScore, 0.6) {
		t.Fatalf("expected mean 0.6, got %v", bundle.OverallScore)
	}
}

func TestNeutralBundleIsExactlyHalf(t *testing.T) {
	bundle := NeutralBundle()
	if bundle.OverallScore != 0.5 {
		t.Fatalf("neutral bundle overall score must be exactly 0.5, got %v", bundle.OverallScore)
	}
	for _, signal := range []Signal{bundle.Sentiment, bundle.Toxicity, bundle.Spam} {
		if signal.Score != 0.5 || signal.Label != "unknown" || signal.Confidence != 0 {
			t.Fatalf("unexpected neutral signal: %+v", signal)
		}
	}
}
