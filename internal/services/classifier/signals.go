package classifier

import (
	"math"
	"regexp"
)

// Signal is a single classifier output normalized so that a higher score
// always means "more acceptable for publication". Toxicity and spam
// probabilities are inverted at construction time.
type Signal struct {
	Score      float64 `json:"score"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type Bundle struct {
	Sentiment    Signal  `json:"sentiment"`
	Toxicity     Signal  `json:"toxicity"`
	Spam         Signal  `json:"spam"`
	OverallScore float64 `json:"overall_score"`
}

// LabelScore is one entry of the label distribution returned by the
// inference capability.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

const (
	labelUnknown = "unknown"
	labelError   = "error"
)

func NewBundle(sentiment, toxicity, spam Signal) Bundle {
	return Bundle{
		Sentiment:    sentiment,
		Toxicity:     toxicity,
		Spam:         spam,
		OverallScore: (sentiment.Score + toxicity.Score + spam.Score) / 3,
	}
}

// NeutralBundle is the all-neutral fallback used when classification as a
// whole cannot run. Its overall score is exactly 0.5 so the decision engine
// defaults ambiguous submissions toward manual review.
func NeutralBundle() Bundle {
	neutral := Signal{Score: 0.5, Label: labelUnknown, Confidence: 0}
	return NewBundle(neutral, neutral, neutral)
}

func unknownSignal() Signal {
	return Signal{Score: 0.5, Label: labelUnknown, Confidence: 0}
}

func errorSignal() Signal {
	return Signal{Score: 0.5, Label: labelError, Confidence: 0}
}

// SentimentSignal maps a three-class polarity distribution onto a benignity
// score. The highest-confidence class wins; classes outside the known label
// set keep the neutral 0.5 score.
func SentimentSignal(dist []LabelScore) Signal {
	if len(dist) == 0 {
		return Signal{Score: 0.5, Label: "neutral", Confidence: 0.5}
	}

	top := dist[0]
	for _, candidate := range dist[1:] {
		if candidate.Score > top.Score {
			top = candidate
		}
	}

	score := 0.5
	switch top.Label {
	case "LABEL_0", "negative":
		score = 0.3
	case "LABEL_1", "neutral":
		score = 0.5
	case "LABEL_2", "positive":
		score = 0.7
	}

	return Signal{Score: score, Label: top.Label, Confidence: top.Score}
}

// ToxicitySignal inverts the raw toxic-class probability.
func ToxicitySignal(dist []LabelScore) Signal {
	if len(dist) == 0 {
		return unknownSignal()
	}

	toxic := findScore(dist, "TOXIC")
	label := "clean"
	if toxic > 0.7 {
		label = "toxic"
	}

	return Signal{
		Score:      1 - toxic,
		Label:      label,
		Confidence: math.Abs(toxic-0.5) * 2,
	}
}

// SpamSignal inverts the raw spam-class probability.
func SpamSignal(dist []LabelScore) Signal {
	if len(dist) == 0 {
		return unknownSignal()
	}

	spam := findScore(dist, "SPAM")
	label := "ham"
	if spam > 0.6 {
		label = "spam"
	}

	return Signal{
		Score:      1 - spam,
		Label:      label,
		Confidence: math.Abs(spam-0.5) * 2,
	}
}

var spamIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(gratis|free|click|premio|gana|dinero)\b`),
	regexp.MustCompile(`!{3,}`),
	regexp.MustCompile(`[A-Z]{10,}`),
}

// HeuristicSpamSignal is the local fallback used when the external spam model
// is unavailable. The fixed 0.6 confidence marks it as heuristic rather than
// model provenance.
func HeuristicSpamSignal(text string) Signal {
	count := 0
	for _, pattern := range spamIndicators {
		count += len(pattern.FindAllString(text, -1))
	}

	spamScore := math.Min(0.2*float64(count), 1)
	label := "ham"
	if spamScore > 0.5 {
		label = "spam"
	}

	return Signal{Score: 1 - spamScore, Label: label, Confidence: 0.6}
}

func findScore(dist []LabelScore, label string) float64 {
	for _, entry := range dist {
		if entry.Label == label {
			return entry.Score
		}
	}
	return 0
}
