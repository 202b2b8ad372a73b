package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

func (r *CommentRepo) Create(ctx context.Context, reportID int64, author, text string) (model.Comment, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO comments (report_id, author, text, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, report_id, author, text, created_at`, reportID, author, text)

	var comment model.Comment
	if err := row.Scan(&comment.ID, &comment.ReportID, &comment.Author, &comment.Text, &comment.CreatedAt); err != nil {
		return model.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (r *CommentRepo) ListByReport(ctx context.Context, reportID int64) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, report_id, author, text, created_at
FROM comments
WHERE report_id = $1
ORDER BY created_at ASC`, reportID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(&comment.ID, &comment.ReportID, &comment.Author, &comment.Text, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepo) DeleteByReport(ctx context.Context, reportID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE report_id = $1`, reportID); err != nil {
		return fmt.Errorf("delete comments for report: %w", err)
	}
	return nil
}
