package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
	"github.com/Segsoto/EstafadoresCR/internal/services/broadcast"
	"github.com/Segsoto/EstafadoresCR/internal/services/moderation"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrQueryTooShort  = errors.New("search query too short")
	ErrReportNotFound = errors.New("report not found")
)

type Store interface {
	Create(ctx context.Context, rep model.Report) (model.Report, error)
	GetByID(ctx context.Context, id int64) (model.Report, error)
	ListApproved(ctx context.Context, limit, offset int) ([]model.Report, error)
	Search(ctx context.Context, query string, limit int) ([]model.Report, error)
	Stats(ctx context.Context) (model.Stats, error)
}

type Moderator interface {
	Moderate(ctx context.Context, input moderation.ReportInput) moderation.Verdict
}

type EvidenceStorage interface {
	UploadEvidence(ctx context.Context, fileName, contentType string, body io.Reader, size int64) (string, error)
	EvidenceURL(ctx context.Context, key string) (string, error)
}

type Publisher interface {
	Publish(eventType string, payload any)
}

type Service struct {
	store     Store
	moderator Moderator
	evidence  EvidenceStorage
	publisher Publisher
	logger    *zap.Logger
	notFound  func(error) bool

	pageSize        int
	searchMinLength int
}

type EvidenceFile struct {
	FileName    string
	ContentType string
	Body        io.Reader
	Size        int64
}

type SubmitInput struct {
	PhoneNumber string
	Description string
	ScamType    string
	Evidence    *EvidenceFile
}

// SubmitResult pairs the stored report with the user-facing outcome
// message.
type SubmitResult struct {
	Report  model.Report
	Message string
}

func NewService(store Store, moderator Moderator, evidence EvidenceStorage, publisher Publisher, notFound func(error) bool, pageSize, searchMinLength int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notFound == nil {
		notFound = func(error) bool { return false }
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if searchMinLength <= 0 {
		searchMinLength = 3
	}
	return &Service{
		store:           store,
		moderator:       moderator,
		evidence:        evidence,
		publisher:       publisher,
		logger:          logger,
		notFound:        notFound,
		pageSize:        pageSize,
		searchMinLength: searchMinLength,
	}
}

// Submit runs a new report through the moderation pipeline and stores
// it with the resulting status. The submission itself never fails on
// pipeline trouble: flagged reports just wait for a human.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if s.store == nil || s.moderator == nil {
		return SubmitResult{}, fmt.Errorf("reports dependencies are not configured")
	}

	rawPhone := strings.TrimSpace(input.PhoneNumber)
	digits := normalizePhone(rawPhone)
	description := strings.TrimSpace(input.Description)
	scamType := normalizeScamType(input.ScamType)

	if digits == "" || description == "" {
		return SubmitResult{}, ErrValidation
	}

	// Format rules run against the phone as submitted; only the
	// digits are stored and searched.
	verdict := s.moderator.Moderate(ctx, moderation.ReportInput{
		PhoneNumber: rawPhone,
		Description: description,
		ScamType:    string(scamType),
	})

	rep := model.Report{
		PhoneNumber:      digits,
		Description:      description,
		ScamType:         scamType,
		Status:           statusFor(verdict.Action),
		ModerationAction: verdict.Action,
		ModerationReason: verdict.Reason,
		ModerationScore:  verdict.Confidence,
		RequiresReview:   verdict.RequiresManualReview,
	}

	if rep.Status == enums.ReportStatusApproved {
		rep.Description = maskProfanity(rep.Description)
		if key, err := s.uploadEvidence(ctx, input.Evidence); err != nil {
			s.logger.Warn("evidence upload failed", zap.Error(err))
		} else {
			rep.EvidenceKey = key
		}
	}

	created, err := s.store.Create(ctx, rep)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("store report: %w", err)
	}

	s.logger.Info("report submitted",
		zap.Int64("report_id", created.ID),
		zap.String("status", string(created.Status)),
		zap.String("moderation_action", string(verdict.Action)),
		zap.Float64("confidence", verdict.Confidence),
	)

	if created.Status == enums.ReportStatusApproved && s.publisher != nil {
		s.publisher.Publish(broadcast.EventNewReport, s.withEvidenceURL(ctx, created))
	}

	return SubmitResult{
		Report:  created,
		Message: messageFor(verdict.Action),
	}, nil
}

// List returns a page of the public feed.
func (s *Service) List(ctx context.Context, page int) ([]model.Report, error) {
	if s.store == nil {
		return nil, fmt.Errorf("report store is not configured")
	}
	if page < 1 {
		page = 1
	}

	reports, err := s.store.ListApproved(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, err
	}
	return s.withEvidenceURLs(ctx, reports), nil
}

// Search looks up approved reports by phone number or description.
func (s *Service) Search(ctx context.Context, query string) ([]model.Report, error) {
	if s.store == nil {
		return nil, fmt.Errorf("report store is not configured")
	}

	query = strings.TrimSpace(query)
	if len([]rune(query)) < s.searchMinLength {
		return nil, ErrQueryTooShort
	}

	reports, err := s.store.Search(ctx, query, s.pageSize)
	if err != nil {
		return nil, err
	}
	return s.withEvidenceURLs(ctx, reports), nil
}

func (s *Service) Get(ctx context.Context, id int64) (model.Report, error) {
	if s.store == nil {
		return model.Report{}, fmt.Errorf("report store is not configured")
	}

	rep, err := s.store.GetByID(ctx, id)
	if err != nil {
		if s.notFound(err) {
			return model.Report{}, ErrReportNotFound
		}
		return model.Report{}, err
	}
	return s.withEvidenceURL(ctx, rep), nil
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	if s.store == nil {
		return model.Stats{}, fmt.Errorf("report store is not configured")
	}
	return s.store.Stats(ctx)
}

func (s *Service) uploadEvidence(ctx context.Context, file *EvidenceFile) (string, error) {
	if file == nil || s.evidence == nil {
		return "", nil
	}
	return s.evidence.UploadEvidence(ctx, file.FileName, file.ContentType, file.Body, file.Size)
}

func (s *Service) withEvidenceURLs(ctx context.Context, reports []model.Report) []model.Report {
	for i := range reports {
		reports[i] = s.withEvidenceURL(ctx, reports[i])
	}
	return reports
}

func (s *Service) withEvidenceURL(ctx context.Context, rep model.Report) model.Report {
	if rep.EvidenceKey == "" || s.evidence == nil {
		return rep
	}
	url, err := s.evidence.EvidenceURL(ctx, rep.EvidenceKey)
	if err != nil {
		s.logger.Warn("presign evidence url failed", zap.Int64("report_id", rep.ID), zap.Error(err))
		return rep
	}
	rep.EvidenceURL = url
	return rep
}

// normalizePhone strips formatting so the stored value is digits only.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeScamType(scamType string) enums.ScamType {
	value := enums.ScamType(strings.ToLower(strings.TrimSpace(scamType)))
	if !value.Valid() {
		return enums.ScamTypeOtro
	}
	return value
}

func statusFor(action enums.ModerationAction) enums.ReportStatus {
	switch action {
	case enums.ModerationActionApproved:
		return enums.ReportStatusApproved
	case enums.ModerationActionRejected:
		return enums.ReportStatusRejected
	default:
		return enums.ReportStatusPending
	}
}

func messageFor(action enums.ModerationAction) string {
	switch action {
	case enums.ModerationActionApproved:
		return "Reporte publicado exitosamente"
	case enums.ModerationActionRejected:
		return "El reporte no cumple con los requisitos de la plataforma"
	default:
		return "Reporte recibido, será revisado por un moderador"
	}
}
