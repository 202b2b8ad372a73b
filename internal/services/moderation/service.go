package moderation

import (
	"context"

	"go.uber.org/zap"

	"github.com/Segsoto/EstafadoresCR/internal/services/classifier"
)

// Classifier is the external scoring capability. Implementations absorb
// their own failures and always return a bundle.
type Classifier interface {
	Classify(ctx context.Context, text string) classifier.Bundle
}

// Service orchestrates the moderation pipeline: rule validation first (it may
// short-circuit), classification only when needed, then score fusion. The
// caller always receives a well-formed verdict; no error or panic escapes.
type Service struct {
	classifier Classifier
	logger     *zap.Logger
}

func NewService(c Classifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{classifier: c, logger: logger}
}

func (s *Service) Moderate(ctx context.Context, input ReportInput) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("moderation pipeline fault", zap.Any("panic", r))
			verdict = FailSafeVerdict()
		}
	}()

	report := NormalizeReport(input)

	outcome := Validate(report.PhoneNumber, report.Description)
	if outcome.Decided {
		s.logger.Info("moderation short-circuited by validation",
			zap.String("action", string(outcome.Verdict.Action)),
			zap.Strings("issues", outcome.Issues),
		)
		return outcome.Verdict
	}

	bundle := classifier.NeutralBundle()
	if s.classifier != nil {
		bundle = s.classifier.Classify(ctx, report.Description)
	} else {
		s.logger.Warn("classifier is not configured, scoring with neutral bundle")
	}

	verdict = Decide(outcome, bundle, report)
	s.logger.Info("moderation decision",
		zap.String("action", string(verdict.Action)),
		zap.Float64("confidence", verdict.Confidence),
		zap.Bool("manual_review", verdict.RequiresManualReview),
	)
	return verdict
}
