package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

const reportColumns = `
	id, phone_number, description, scam_type, status, verified,
	evidence_key, up_votes, down_votes,
	moderation_action, moderation_reason, moderation_score, requires_review,
	created_at, updated_at`

func scanReport(row pgx.Row) (model.Report, error) {
	var rep model.Report
	err := row.Scan(
		&rep.ID, &rep.PhoneNumber, &rep.Description, &rep.ScamType, &rep.Status, &rep.Verified,
		&rep.EvidenceKey, &rep.UpVotes, &rep.DownVotes,
		&rep.ModerationAction, &rep.ModerationReason, &rep.ModerationScore, &rep.RequiresReview,
		&rep.CreatedAt, &rep.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Report{}, ErrReportNotFound
	}
	if err != nil {
		return model.Report{}, fmt.Errorf("scan report: %w", err)
	}
	return rep, nil
}

func (r *ReportRepo) Create(ctx context.Context, rep model.Report) (model.Report, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO reports (
	phone_number, description, scam_type, status, verified, evidence_key,
	moderation_action, moderation_reason, moderation_score, requires_review,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7, $8, $9, NOW(), NOW())
RETURNING`+reportColumns,
		rep.PhoneNumber, rep.Description, rep.ScamType, rep.Status, rep.EvidenceKey,
		rep.ModerationAction, rep.ModerationReason, rep.ModerationScore, rep.RequiresReview,
	)

	created, err := scanReport(row)
	if err != nil {
		return model.Report{}, fmt.Errorf("create report: %w", err)
	}
	return created, nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id int64) (model.Report, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+reportColumns+` FROM reports WHERE id = $1`, id)
	return scanReport(row)
}

// ListApproved returns the public feed, newest first.
func (r *ReportRepo) ListApproved(ctx context.Context, limit, offset int) ([]model.Report, error) {
	rows, err := r.pool.Query(ctx, `
SELECT`+reportColumns+`
FROM reports
WHERE status = 'approved'
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list approved reports: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// Search matches approved reports by phone number, description, or
// scam type substring.
func (r *ReportRepo) Search(ctx context.Context, query string, limit int) ([]model.Report, error) {
	rows, err := r.pool.Query(ctx, `
SELECT`+reportColumns+`
FROM reports
WHERE status = 'approved'
  AND (phone_number ILIKE '%' || $1 || '%'
    OR description ILIKE '%' || $1 || '%'
    OR scam_type ILIKE '%' || $1 || '%')
ORDER BY created_at DESC
LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search reports: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// AdminList returns reports in any status, optionally filtered.
func (r *ReportRepo) AdminList(ctx context.Context, status enums.ReportStatus, limit, offset int) ([]model.Report, error) {
	rows, err := r.pool.Query(ctx, `
SELECT`+reportColumns+`
FROM reports
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("admin list reports: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// ListPendingReview returns reports the pipeline flagged for a human,
// oldest first so the queue drains in order.
func (r *ReportRepo) ListPendingReview(ctx context.Context, limit int) ([]model.Report, error) {
	rows, err := r.pool.Query(ctx, `
SELECT`+reportColumns+`
FROM reports
WHERE status = 'pending' AND requires_review
ORDER BY created_at ASC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending review: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

func (r *ReportRepo) UpdateStatus(ctx context.Context, id int64, status enums.ReportStatus, reason string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE reports
SET status = $2,
    moderation_reason = CASE WHEN $3 <> '' THEN $3 ELSE moderation_reason END,
    requires_review = FALSE,
    updated_at = NOW()
WHERE id = $1`, id, status, reason)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepo) SetVerified(ctx context.Context, id int64, verified bool) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE reports SET verified = $2, updated_at = NOW() WHERE id = $1`, id, verified)
	if err != nil {
		return fmt.Errorf("set report verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

// ApplyVoteDelta keeps the denormalized counters in sync with the
// votes table.
func (r *ReportRepo) ApplyVoteDelta(ctx context.Context, id int64, up, down int) (model.VoteTally, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE reports
SET up_votes = up_votes + $2,
    down_votes = down_votes + $3,
    updated_at = NOW()
WHERE id = $1
RETURNING id, up_votes, down_votes`, id, up, down)

	var tally model.VoteTally
	if err := row.Scan(&tally.ReportID, &tally.UpVotes, &tally.DownVotes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.VoteTally{}, ErrReportNotFound
		}
		return model.VoteTally{}, fmt.Errorf("apply vote delta: %w", err)
	}
	return tally, nil
}

func (r *ReportRepo) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	row := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'approved'),
	COUNT(*) FILTER (WHERE status = 'pending'),
	COUNT(*) FILTER (WHERE verified)
FROM reports`)
	if err := row.Scan(&stats.TotalReports, &stats.ApprovedReports, &stats.PendingReports, &stats.VerifiedReports); err != nil {
		return model.Stats{}, fmt.Errorf("report totals: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT scam_type, COUNT(*)
FROM reports
WHERE status = 'approved'
GROUP BY scam_type
ORDER BY COUNT(*) DESC`)
	if err != nil {
		return model.Stats{}, fmt.Errorf("report counts by scam type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.ScamTypeCount
		if err := rows.Scan(&c.ScamType, &c.Count); err != nil {
			return model.Stats{}, fmt.Errorf("scan scam type count: %w", err)
		}
		stats.ByScamType = append(stats.ByScamType, c)
	}
	if err := rows.Err(); err != nil {
		return model.Stats{}, fmt.Errorf("iterate scam type counts: %w", err)
	}

	return stats, nil
}

// ListRejectedBefore feeds the retention cleanup job.
func (r *ReportRepo) ListRejectedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Report, error) {
	rows, err := r.pool.Query(ctx, `
SELECT`+reportColumns+`
FROM reports
WHERE status = 'rejected' AND updated_at < $1
ORDER BY updated_at ASC
LIMIT $2`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list rejected before cutoff: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

func collectReports(rows pgx.Rows) ([]model.Report, error) {
	var reports []model.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}
