package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"helplink/internal/domain"
)

type AdminRepo struct {
	db       *sql.DB
	comments *CommentRepo
}

func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db, comments: NewCommentRepo(db)}
}

var _ domain.AdminRepository = (*AdminRepo)(nil)

func (r *AdminRepo) Statistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN account_type = 'beneficiary' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN account_type = 'donor' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN account_type = 'volunteer' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN account_type = 'verified_organization' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN badge = 'verified' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN badge = 'under_review' THEN 1 ELSE 0 END)
		FROM users
	`).Scan(
		&stats.Users.Total, &stats.Users.Beneficiaries, &stats.Users.Donors,
		&stats.Users.Volunteers, &stats.Users.Organizations,
		&stats.Users.Verified, &stats.Users.PendingVerification,
	)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN post_type = 'donation' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN post_type = 'request' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'closed' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END)
		FROM posts
	`).Scan(
		&stats.Posts.Total, &stats.Posts.Donation, &stats.Posts.Request,
		&stats.Posts.Active, &stats.Posts.Closed, &stats.Posts.Pending,
	)
	if err != nil {
		return nil, fmt.Errorf("post stats: %w", err)
	}

	// Aggregates over an empty table come back NULL.
	var totalAmount, avgAmount sql.NullFloat64
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(amount), AVG(amount),
		       SUM(CASE WHEN verification_status = 'pending' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN verification_status = 'ongoing' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN verification_status = 'fulfilled' THEN 1 ELSE 0 END)
		FROM donators
	`).Scan(
		&stats.Donations.Total, &totalAmount, &avgAmount,
		&stats.Donations.Pending, &stats.Donations.Ongoing, &stats.Donations.Fulfilled,
	)
	if err != nil {
		return nil, fmt.Errorf("donation stats: %w", err)
	}
	stats.Donations.TotalAmount = totalAmount.Float64
	stats.Donations.AverageAmount = avgAmount.Float64

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN support_type = 'share' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN support_type = 'volunteer' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN support_type = 'advocate' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN support_type = 'other' THEN 1 ELSE 0 END)
		FROM supporters
	`).Scan(
		&stats.Supporters.Total, &stats.Supporters.Shares,
		&stats.Supporters.Volunteers, &stats.Supporters.Advocates, &stats.Supporters.Others,
	)
	if err != nil {
		return nil, fmt.Errorf("supporter stats: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN status = 'visible' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'hidden' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'deleted' THEN 1 ELSE 0 END)
		FROM comments
	`).Scan(
		&stats.Comments.Total, &stats.Comments.Visible,
		&stats.Comments.Hidden, &stats.Comments.Deleted,
	)
	if err != nil {
		return nil, fmt.Errorf("comment stats: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN type = 'private' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN type = 'group' THEN 1 ELSE 0 END)
		FROM chats
	`).Scan(&stats.Chats.Total, &stats.Chats.Private, &stats.Chats.Group)
	if err != nil {
		return nil, fmt.Errorf("chat stats: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages`).Scan(&stats.TotalMessages)
	if err != nil {
		return nil, fmt.Errorf("message stats: %w", err)
	}

	return stats, nil
}

func (r *AdminRepo) RecentActivity(ctx context.Context, limit int) ([]*domain.ActivityItem, error) {
	query := `
		SELECT kind, id, user_id, summary, created_at FROM (
			SELECT 'user' AS kind, id, id AS user_id,
			       CONCAT(first_name, ' ', last_name, ' registered') AS summary, created_at
			FROM users
			UNION ALL
			SELECT 'post', id, user_id, title, created_at FROM posts
			UNION ALL
			SELECT 'donation', id, user_id, CONCAT('donated ', amount), created_at FROM donators
			UNION ALL
			SELECT 'supporter', id, user_id, CONCAT('pledged ', support_type), created_at FROM supporters
			UNION ALL
			SELECT 'comment', id, user_id, content, created_at FROM comments WHERE status = 'visible'
		) activity
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	items := []*domain.ActivityItem{}
	for rows.Next() {
		it := &domain.ActivityItem{}
		if err := rows.Scan(&it.Kind, &it.ID, &it.UserID, &it.Summary, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *AdminRepo) ListComments(ctx context.Context, status *domain.CommentStatus, limit, offset int) ([]*domain.Comment, error) {
	query := commentSelect + ` WHERE 1=1`
	var args []any
	if status != nil {
		query += " AND c.status = ?"
		args = append(args, *status)
	}
	query += " ORDER BY c.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return r.comments.queryComments(ctx, query, args...)
}
