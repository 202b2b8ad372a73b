package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
)

var ErrAlreadyVoted = errors.New("voter already voted on report")

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// Create records a vote keyed by the voter's anonymized hash. The
// unique index on (report_id, voter_hash) enforces one vote per voter.
func (r *VoteRepo) Create(ctx context.Context, reportID int64, voteType enums.VoteType, voterHash string) (model.Vote, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO votes (report_id, vote_type, voter_hash, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (report_id, voter_hash) DO NOTHING
RETURNING id, report_id, vote_type, created_at`, reportID, voteType, voterHash)

	var vote model.Vote
	err := row.Scan(&vote.ID, &vote.ReportID, &vote.Type, &vote.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Vote{}, ErrAlreadyVoted
	}
	if err != nil {
		return model.Vote{}, fmt.Errorf("create vote: %w", err)
	}
	return vote, nil
}

func (r *VoteRepo) DeleteByReport(ctx context.Context, reportID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM votes WHERE report_id = $1`, reportID); err != nil {
		return fmt.Errorf("delete votes for report: %w", err)
	}
	return nil
}
