package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
	"github.com/Segsoto/EstafadoresCR/internal/services/broadcast"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrReportNotFound = errors.New("report not found")
)

const (
	minCommentLength = 3
	maxCommentLength = 500
	defaultAuthor    = "Anónimo"
	maxAuthorLength  = 50
)

type CommentStore interface {
	Create(ctx context.Context, reportID int64, author, text string) (model.Comment, error)
	ListByReport(ctx context.Context, reportID int64) ([]model.Comment, error)
}

type ReportStore interface {
	GetByID(ctx context.Context, id int64) (model.Report, error)
}

type Publisher interface {
	Publish(eventType string, payload any)
}

type Service struct {
	comments  CommentStore
	reports   ReportStore
	publisher Publisher
	logger    *zap.Logger
	notFound  func(error) bool
}

func NewService(comments CommentStore, reports ReportStore, publisher Publisher, notFound func(error) bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notFound == nil {
		notFound = func(error) bool { return false }
	}
	return &Service{
		comments:  comments,
		reports:   reports,
		publisher: publisher,
		logger:    logger,
		notFound:  notFound,
	}
}

func (s *Service) Add(ctx context.Context, reportID int64, author, text string) (model.Comment, error) {
	if s.comments == nil || s.reports == nil {
		return model.Comment{}, fmt.Errorf("comments dependencies are not configured")
	}

	text = strings.TrimSpace(text)
	if reportID <= 0 || len([]rune(text)) < minCommentLength || len([]rune(text)) > maxCommentLength {
		return model.Comment{}, ErrValidation
	}

	author = strings.TrimSpace(author)
	if author == "" {
		author = defaultAuthor
	}
	if len([]rune(author)) > maxAuthorLength {
		author = string([]rune(author)[:maxAuthorLength])
	}

	rep, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if s.notFound(err) {
			return model.Comment{}, ErrReportNotFound
		}
		return model.Comment{}, fmt.Errorf("load report: %w", err)
	}
	if rep.Status != enums.ReportStatusApproved {
		return model.Comment{}, ErrReportNotFound
	}

	comment, err := s.comments.Create(ctx, reportID, author, text)
	if err != nil {
		return model.Comment{}, fmt.Errorf("create comment: %w", err)
	}

	s.logger.Debug("comment added", zap.Int64("report_id", reportID), zap.Int64("comment_id", comment.ID))

	if s.publisher != nil {
		s.publisher.Publish(broadcast.EventNewComment, comment)
	}

	return comment, nil
}

func (s *Service) List(ctx context.Context, reportID int64) ([]model.Comment, error) {
	if s.comments == nil {
		return nil, fmt.Errorf("comment store is not configured")
	}
	if reportID <= 0 {
		return nil, ErrValidation
	}
	return s.comments.ListByReport(ctx, reportID)
}
