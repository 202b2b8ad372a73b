package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
)

const batchSize = 100

type ReportStore interface {
	ListRejectedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Report, error)
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

// Job purges rejected reports once they outlive the retention window,
// along with their votes, comments, and stored evidence.
type Job struct {
	reports   ReportStore
	votes     VoteStore
	comments  CommentStore
	evidence  EvidenceStorage
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewJob(reports ReportStore, votes VoteStore, comments CommentStore, evidence EvidenceStorage, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		reports:   reports,
		votes:     votes,
		comments:  comments,
		evidence:  evidence,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.reports == nil {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	stale, err := j.reports.ListRejectedBefore(ctx, cutoff, batchSize)
	if err != nil {
		return fmt.Errorf("list stale rejected reports: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	for _, rep := range stale {
		if rep.EvidenceKey != "" && j.evidence != nil {
			if err := j.evidence.DeleteEvidence(ctx, rep.EvidenceKey); err != nil {
				j.logger.Warn("failed to delete evidence object",
					zap.Error(err), zap.String("object_key", rep.EvidenceKey))
			}
		}
		if j.votes != nil {
			if err := j.votes.DeleteByReport(ctx, rep.ID); err != nil {
				return fmt.Errorf("delete votes for report %d: %w", rep.ID, err)
			}
		}
		if j.comments != nil {
			if err := j.comments.DeleteByReport(ctx, rep.ID); err != nil {
				return fmt.Errorf("delete comments for report %d: %w", rep.ID, err)
			}
		}
		if err := j.reports.Delete(ctx, rep.ID); err != nil {
			return fmt.Errorf("delete rejected report %d: %w", rep.ID, err)
		}
	}

	j.logger.Info("cleanup of rejected reports completed", zap.Int("deleted", len(stale)))
	return nil
}
