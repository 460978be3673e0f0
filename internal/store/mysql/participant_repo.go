package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"helplink/internal/domain"
)

type ParticipantRepo struct {
	db *sql.DB
}

func NewParticipantRepo(db *sql.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

var _ domain.ParticipantRepository = (*ParticipantRepo)(nil)

func (r *ParticipantRepo) Add(ctx context.Context, chatID, userID int64) (bool, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_participants (chat_id, user_id) VALUES (?, ?)`, chatID, userID)
	if err != nil {
		if isDuplicateEntry(err) {
			// Already a member; adding again is a no-op.
			return false, nil
		}
		return false, fmt.Errorf("insert participant: %w", err)
	}
	return true, nil
}

func (r *ParticipantRepo) IsParticipant(ctx context.Context, chatID, userID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM chat_participants WHERE chat_id = ? AND user_id = ?`,
		chatID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check participant: %w", err)
	}
	return true, nil
}

func (r *ParticipantRepo) ListParticipants(ctx context.Context, chatID int64) ([]*domain.ChatParticipant, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.profile_image, cp.joined_at
		FROM chat_participants cp
		INNER JOIN users u ON u.id = cp.user_id
		WHERE cp.chat_id = ?
		ORDER BY cp.joined_at
	`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var parts []*domain.ChatParticipant
	for rows.Next() {
		p := &domain.ChatParticipant{}
		if err := rows.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.ProfileImage, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}
