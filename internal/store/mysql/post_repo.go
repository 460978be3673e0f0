package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"helplink/internal/domain"
)

type PostRepo struct {
	db *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

var _ domain.PostRepository = (*PostRepo)(nil)

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO posts (user_id, post_type, title, description, address, latitude, longitude, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.UserID, p.PostType, p.Title, p.Description, p.Address, p.Latitude, p.Longitude, p.Status)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	for _, url := range p.Photos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_photos (post_id, photo_url) VALUES (?, ?)`, p.ID, url); err != nil {
			return fmt.Errorf("insert photo: %w", err)
		}
	}
	for _, url := range p.Videos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_videos (post_id, video_url) VALUES (?, ?)`, p.ID, url); err != nil {
			return fmt.Errorf("insert video: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const postSelect = `
	SELECT p.id, p.user_id, p.post_type, p.title, p.description, p.address,
	       p.latitude, p.longitude, p.status, p.created_at,
	       u.first_name, u.last_name, u.profile_image, u.badge,
	       (SELECT COUNT(*) FROM post_reactions pr WHERE pr.post_id = p.id),
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id AND c.status = 'visible'),
	       (SELECT COUNT(*) FROM donators d WHERE d.post_id = p.id),
	       (SELECT COUNT(*) FROM supporters s WHERE s.post_id = p.id),
	       (SELECT pr2.reaction_type FROM post_reactions pr2 WHERE pr2.post_id = p.id AND pr2.user_id = ?)
	FROM posts p
	INNER JOIN users u ON u.id = p.user_id
`

func (r *PostRepo) GetByID(ctx context.Context, id int64, viewerID *int64) (*domain.Post, error) {
	var viewer int64 // 0 matches no user, MyReaction stays nil
	if viewerID != nil {
		viewer = *viewerID
	}
	rows, err := r.db.QueryContext(ctx, postSelect+` WHERE p.id = ?`, viewer, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	p, err := scanPost(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachMedia(ctx, []*domain.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepo) List(ctx context.Context, f domain.PostFilter, viewerID *int64, limit, offset int) ([]*domain.Post, error) {
	var viewer int64
	if viewerID != nil {
		viewer = *viewerID
	}
	query := postSelect + ` WHERE 1=1`
	args := []any{viewer}
	if f.PostType != nil {
		query += " AND p.post_type = ?"
		args = append(args, *f.PostType)
	}
	if f.Status != nil {
		query += " AND p.status = ?"
		args = append(args, *f.Status)
	}
	if f.UserID != nil {
		query += " AND p.user_id = ?"
		args = append(args, *f.UserID)
	}
	query += " ORDER BY p.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if err := r.attachMedia(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func scanPost(rows *sql.Rows) (*domain.Post, error) {
	p := &domain.Post{Photos: []string{}, Videos: []string{}}
	if err := rows.Scan(
		&p.ID, &p.UserID, &p.PostType, &p.Title, &p.Description, &p.Address,
		&p.Latitude, &p.Longitude, &p.Status, &p.CreatedAt,
		&p.AuthorFirstName, &p.AuthorLastName, &p.AuthorProfileImage, &p.AuthorBadge,
		&p.ReactionCount, &p.CommentCount, &p.DonationCount, &p.SupporterCount,
		&p.MyReaction,
	); err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return p, nil
}

func (r *PostRepo) attachMedia(ctx context.Context, posts []*domain.Post) error {
	for _, p := range posts {
		photos, err := r.listURLs(ctx,
			`SELECT photo_url FROM post_photos WHERE post_id = ? ORDER BY id`, p.ID)
		if err != nil {
			return err
		}
		videos, err := r.listURLs(ctx,
			`SELECT video_url FROM post_videos WHERE post_id = ? ORDER BY id`, p.ID)
		if err != nil {
			return err
		}
		p.Photos, p.Videos = photos, videos
	}
	return nil
}

func (r *PostRepo) listURLs(ctx context.Context, query string, postID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list post media: %w", err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan post media: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (r *PostRepo) Update(ctx context.Context, id int64, patch domain.PostUpdate) error {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.Latitude != nil {
		set("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		set("longitude", *patch.Longitude)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE posts SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *PostRepo) SetStatus(ctx context.Context, id int64, status domain.PostStatus) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE posts SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("set post status: %w", err)
	}
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Dependent rows first; proofs hang off donators/supporters.
	deletes := []string{
		`DELETE FROM donator_proofs WHERE donator_id IN (SELECT id FROM donators WHERE post_id = ?)`,
		`DELETE FROM supporter_proofs WHERE supporter_id IN (SELECT id FROM supporters WHERE post_id = ?)`,
		`DELETE FROM donators WHERE post_id = ?`,
		`DELETE FROM supporters WHERE post_id = ?`,
		`DELETE FROM comments WHERE post_id = ?`,
		`DELETE FROM post_reactions WHERE post_id = ?`,
		`DELETE FROM post_photos WHERE post_id = ?`,
		`DELETE FROM post_videos WHERE post_id = ?`,
		`DELETE FROM posts WHERE id = ?`,
	}
	for _, stmt := range deletes {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
