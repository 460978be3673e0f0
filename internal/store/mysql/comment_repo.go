package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"helplink/internal/domain"
)

type CommentRepo struct {
	db *sql.DB
}

func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

var _ domain.CommentRepository = (*CommentRepo)(nil)

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (post_id, user_id, content, parent_id, status)
		VALUES (?, ?, ?, ?, ?)
	`, c.PostID, c.UserID, c.Content, c.ParentID, c.Status)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

const commentSelect = `
	SELECT c.id, c.post_id, c.user_id, c.content, c.parent_id, c.status, c.created_at,
	       u.first_name, u.last_name, u.profile_image
	FROM comments c
	INNER JOIN users u ON u.id = c.user_id
`

func (r *CommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, commentSelect+` WHERE c.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanComment(rows)
}

func (r *CommentRepo) ListForPost(ctx context.Context, postID int64, status domain.CommentStatus, limit, offset int) ([]*domain.Comment, error) {
	query := commentSelect + `
		WHERE c.post_id = ? AND c.parent_id IS NULL AND c.status = ?
		ORDER BY c.created_at DESC
		LIMIT ? OFFSET ?
	`
	top, err := r.queryComments(ctx, query, postID, status, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, c := range top {
		replies, err := r.queryComments(ctx, commentSelect+`
			WHERE c.parent_id = ? AND c.status = ?
			ORDER BY c.created_at
		`, c.ID, status)
		if err != nil {
			return nil, err
		}
		c.Replies = replies
	}
	return top, nil
}

func (r *CommentRepo) queryComments(ctx context.Context, query string, args ...any) ([]*domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func scanComment(rows *sql.Rows) (*domain.Comment, error) {
	c := &domain.Comment{}
	if err := rows.Scan(
		&c.ID, &c.PostID, &c.UserID, &c.Content, &c.ParentID, &c.Status, &c.CreatedAt,
		&c.FirstName, &c.LastName, &c.ProfileImage,
	); err != nil {
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return c, nil
}

func (r *CommentRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = ? WHERE id = ?`, content, id); err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (r *CommentRepo) SetStatus(ctx context.Context, id int64, status domain.CommentStatus) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE comments SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("set comment status: %w", err)
	}
	return nil
}

func (r *CommentRepo) SoftDelete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE comments SET status = 'deleted', content = '[deleted]' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("soft delete comment: %w", err)
	}
	return nil
}
