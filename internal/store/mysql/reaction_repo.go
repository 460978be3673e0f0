package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"helplink/internal/domain"
)

type ReactionRepo struct {
	db *sql.DB
}

func NewReactionRepo(db *sql.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

var _ domain.ReactionRepository = (*ReactionRepo)(nil)

func (r *ReactionRepo) Upsert(ctx context.Context, postID, userID int64, reactionType string) error {
	query := `
		INSERT INTO post_reactions (post_id, user_id, reaction_type)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE reaction_type = VALUES(reaction_type)
	`
	if _, err := r.db.ExecContext(ctx, query, postID, userID, reactionType); err != nil {
		return fmt.Errorf("upsert reaction: %w", err)
	}
	return nil
}

func (r *ReactionRepo) Remove(ctx context.Context, postID, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM post_reactions WHERE post_id = ? AND user_id = ?`, postID, userID); err != nil {
		return fmt.Errorf("remove reaction: %w", err)
	}
	return nil
}

func (r *ReactionRepo) ListForPost(ctx context.Context, postID int64) ([]*domain.Reaction, error) {
	query := `
		SELECT pr.post_id, pr.user_id, pr.reaction_type, pr.created_at,
		       u.first_name, u.last_name, u.profile_image
		FROM post_reactions pr
		INNER JOIN users u ON u.id = pr.user_id
		WHERE pr.post_id = ?
		ORDER BY pr.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	defer rows.Close()

	var reactions []*domain.Reaction
	for rows.Next() {
		rc := &domain.Reaction{}
		if err := rows.Scan(
			&rc.PostID, &rc.UserID, &rc.ReactionType, &rc.CreatedAt,
			&rc.FirstName, &rc.LastName, &rc.ProfileImage,
		); err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		reactions = append(reactions, rc)
	}
	return reactions, rows.Err()
}
