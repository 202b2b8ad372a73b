package admin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
	"github.com/Segsoto/EstafadoresCR/internal/services/broadcast"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrReportNotFound = errors.New("report not found")
)

type ReportStore interface {
	GetByID(ctx context.Context, id int64) (model.Report, error)
	AdminList(ctx context.Context, status enums.ReportStatus, limit, offset int) ([]model.Report, error)
	ListPendingReview(ctx context.Context, limit int) ([]model.Report, error)
	UpdateStatus(ctx context.Context, id int64, status enums.ReportStatus, reason string) error
	SetVerified(ctx context.Context, id int64, verified bool) error
	Delete(ctx context.Context, id int64) error
}

type VoteStore interface {
	DeleteByReport(ctx context.Context, reportID int64) error
}

type CommentStore interface {
	DeleteByReport(ctx context.Context, reportID int64) error
}

type EvidenceStorage interface {
	DeleteEvidence(ctx context.Context, key string) error
}

type Publisher interface {
	Publish(eventType string, payload any)
}

// Service covers the moderator-facing operations: working the review
// queue and correcting report state after the fact.
type Service struct {
	reports   ReportStore
	votes     VoteStore
	comments  CommentStore
	evidence  EvidenceStorage
	publisher Publisher
	logger    *zap.Logger
	notFound  func(error) bool
}

func NewService(reports ReportStore, votes VoteStore, comments CommentStore, evidence EvidenceStorage, publisher Publisher, notFound func(error) bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notFound == nil {
		notFound = func(error) bool { return false }
	}
	return &Service{
		reports:   reports,
		votes:     votes,
		comments:  comments,
		evidence:  evidence,
		publisher: publisher,
		logger:    logger,
		notFound:  notFound,
	}
}

func (s *Service) List(ctx context.Context, status enums.ReportStatus, limit, offset int) ([]model.Report, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("report store is not configured")
	}
	if status != "" && !status.Valid() {
		return nil, ErrValidation
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.reports.AdminList(ctx, status, limit, offset)
}

// PendingReview returns the flagged queue for human moderation.
func (s *Service) PendingReview(ctx context.Context, limit int) ([]model.Report, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("report store is not configured")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.reports.ListPendingReview(ctx, limit)
}

// SetStatus moves a report into the given status and broadcasts the
// change so open feeds refresh.
func (s *Service) SetStatus(ctx context.Context, id int64, status enums.ReportStatus, reason string) (model.Report, error) {
	if s.reports == nil {
		return model.Report{}, fmt.Errorf("report store is not configured")
	}
	if id <= 0 || !status.Valid() {
		return model.Report{}, ErrValidation
	}

	if err := s.reports.UpdateStatus(ctx, id, status, reason); err != nil {
		return model.Report{}, s.mapErr(err, "update report status")
	}

	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return model.Report{}, s.mapErr(err, "reload report")
	}

	s.logger.Info("report status changed",
		zap.Int64("report_id", id),
		zap.String("status", string(status)),
	)

	if s.publisher != nil {
		s.publisher.Publish(broadcast.EventStatusChanged, rep)
	}

	return rep, nil
}

func (s *Service) Approve(ctx context.Context, id int64) (model.Report, error) {
	return s.SetStatus(ctx, id, enums.ReportStatusApproved, "")
}

func (s *Service) Reject(ctx context.Context, id int64, reason string) (model.Report, error) {
	return s.SetStatus(ctx, id, enums.ReportStatusRejected, reason)
}

func (s *Service) Verify(ctx context.Context, id int64, verified bool) (model.Report, error) {
	if s.reports == nil {
		return model.Report{}, fmt.Errorf("report store is not configured")
	}
	if id <= 0 {
		return model.Report{}, ErrValidation
	}

	if err := s.reports.SetVerified(ctx, id, verified); err != nil {
		return model.Report{}, s.mapErr(err, "set report verified")
	}

	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return model.Report{}, s.mapErr(err, "reload report")
	}

	if s.publisher != nil {
		s.publisher.Publish(broadcast.EventStatusChanged, rep)
	}
	return rep, nil
}

// Delete removes a report together with its votes, comments, and
// stored evidence.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s.reports == nil {
		return fmt.Errorf("report store is not configured")
	}
	if id <= 0 {
		return ErrValidation
	}

	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return s.mapErr(err, "load report")
	}

	if s.votes != nil {
		if err := s.votes.DeleteByReport(ctx, id); err != nil {
			return fmt.Errorf("delete report votes: %w", err)
		}
	}
	if s.comments != nil {
		if err := s.comments.DeleteByReport(ctx, id); err != nil {
			return fmt.Errorf("delete report comments: %w", err)
		}
	}

	if err := s.reports.Delete(ctx, id); err != nil {
		return s.mapErr(err, "delete report")
	}

	if rep.EvidenceKey != "" && s.evidence != nil {
		if err := s.evidence.DeleteEvidence(ctx, rep.EvidenceKey); err != nil {
			s.logger.Warn("evidence cleanup failed", zap.Int64("report_id", id), zap.Error(err))
		}
	}

	s.logger.Info("report deleted", zap.Int64("report_id", id))
	return nil
}

func (s *Service) mapErr(err error, op string) error {
	if s.notFound(err) {
		return ErrReportNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
