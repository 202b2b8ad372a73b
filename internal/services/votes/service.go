package votes

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
	"github.com/Segsoto/EstafadoresCR/internal/pkg/anonymize"
	"github.com/Segsoto/EstafadoresCR/internal/services/broadcast"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrAlreadyVoted   = errors.New("already voted on this report")
	ErrReportNotFound = errors.New("report not found")
)

type VoteStore interface {
	Create(ctx context.Context, reportID int64, voteType enums.VoteType, voterHash string) (model.Vote, error)
}

type ReportStore interface {
	GetByID(ctx context.Context, id int64) (model.Report, error)
	ApplyVoteDelta(ctx context.Context, id int64, up, down int) (model.VoteTally, error)
}

type Publisher interface {
	Publish(eventType string, payload any)
}

type Service struct {
	votes     VoteStore
	reports   ReportStore
	publisher Publisher
	logger    *zap.Logger

	notFound func(error) bool
	conflict func(error) bool
}

// NewService wires the vote flow. notFound and conflict translate
// store-level sentinel errors so the service stays storage-agnostic.
func NewService(votes VoteStore, reports ReportStore, publisher Publisher, notFound, conflict func(error) bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notFound == nil {
		notFound = func(error) bool { return false }
	}
	if conflict == nil {
		conflict = func(error) bool { return false }
	}
	return &Service{
		votes:     votes,
		reports:   reports,
		publisher: publisher,
		logger:    logger,
		notFound:  notFound,
		conflict:  conflict,
	}
}

// Cast records one vote per anonymized voter per report and returns
// the updated tally.
func (s *Service) Cast(ctx context.Context, reportID int64, voteType enums.VoteType, voterIP string) (model.VoteTally, error) {
	if s.votes == nil || s.reports == nil {
		return model.VoteTally{}, fmt.Errorf("votes dependencies are not configured")
	}
	if reportID <= 0 || !voteType.Valid() || voterIP == "" {
		return model.VoteTally{}, ErrValidation
	}

	rep, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if s.notFound(err) {
			return model.VoteTally{}, ErrReportNotFound
		}
		return model.VoteTally{}, fmt.Errorf("load report: %w", err)
	}
	if rep.Status != enums.ReportStatusApproved {
		return model.VoteTally{}, ErrReportNotFound
	}

	voterHash := anonymize.IPHash(voterIP)
	if _, err := s.votes.Create(ctx, reportID, voteType, voterHash); err != nil {
		if s.conflict(err) {
			return model.VoteTally{}, ErrAlreadyVoted
		}
		return model.VoteTally{}, fmt.Errorf("record vote: %w", err)
	}

	up, down := 0, 0
	if voteType == enums.VoteTypeUp {
		up = 1
	} else {
		down = 1
	}

	tally, err := s.reports.ApplyVoteDelta(ctx, reportID, up, down)
	if err != nil {
		return model.VoteTally{}, fmt.Errorf("update vote counters: %w", err)
	}

	s.logger.Debug("vote recorded",
		zap.Int64("report_id", reportID),
		zap.String("vote_type", string(voteType)),
	)

	if s.publisher != nil {
		s.publisher.Publish(broadcast.EventVoteUpdate, tally)
	}

	return tally, nil
}
