package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"helplink/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO messages (chat_id, sender_id, content, message_type)
		VALUES (?, ?, ?, ?)
	`, m.ChatID, m.SenderID, m.Content, m.MessageType)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE chats SET last_message_id = ? WHERE id = ?`, m.ID, m.ChatID); err != nil {
		return fmt.Errorf("update last message: %w", err)
	}

	// One 'sent' status row per participant other than the sender.
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO message_status (message_id, user_id, status)
		SELECT ?, cp.user_id, 'sent'
		FROM chat_participants cp
		WHERE cp.chat_id = ? AND cp.user_id <> ?
	`, m.ID, m.ChatID, m.SenderID); err != nil {
		return fmt.Errorf("insert status rows: %w", err)
	}

	for _, md := range m.Media {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO message_media (message_id, media_type, media_url, thumbnail_url)
			VALUES (?, ?, ?, ?)
		`, m.ID, md.MediaType, md.MediaURL, md.ThumbnailURL)
		if err != nil {
			return fmt.Errorf("insert media: %w", err)
		}
		md.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		md.MessageID = m.ID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *MessageRepo) ListForChat(ctx context.Context, chatID, requestingUserID int64, limit, offset int) ([]*domain.Message, error) {
	query := `
		SELECT m.id, m.chat_id, m.sender_id, m.content, m.message_type, m.created_at,
		       u.first_name, u.last_name, u.profile_image,
		       ms.status, ms.seen_at
		FROM messages m
		INNER JOIN users u ON u.id = m.sender_id
		LEFT JOIN message_status ms ON ms.message_id = m.id AND ms.user_id = ?
		WHERE m.chat_id = ?
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, requestingUserID, chatID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []*domain.Message
	for rows.Next() {
		m := &domain.Message{}
		var (
			status sql.NullString
			seenAt sql.NullTime
		)
		if err := rows.Scan(
			&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.MessageType, &m.CreatedAt,
			&m.SenderFirstName, &m.SenderLastName, &m.SenderProfileImage,
			&status, &seenAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if status.Valid {
			m.Status = domain.DeliveryStatus(status.String)
			if seenAt.Valid {
				t := seenAt.Time
				m.SeenAt = &t
			}
		} else {
			// No status row means the requester sent the message; the
			// sender's own view is always seen.
			m.Status = domain.StatusSeen
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	for _, m := range msgs {
		m.Media, err = r.listMedia(ctx, m.ID)
		if err != nil {
			return nil, err
		}
	}
	return msgs, nil
}

func (r *MessageRepo) listMedia(ctx context.Context, messageID int64) ([]*domain.MessageMedia, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, message_id, media_type, media_url, thumbnail_url
		FROM message_media
		WHERE message_id = ?
		ORDER BY id
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	media := []*domain.MessageMedia{}
	for rows.Next() {
		md := &domain.MessageMedia{}
		if err := rows.Scan(&md.ID, &md.MessageID, &md.MediaType, &md.MediaURL, &md.ThumbnailURL); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		media = append(media, md)
	}
	return media, rows.Err()
}

func (r *MessageRepo) UpdateStatus(ctx context.Context, messageID, userID int64, status domain.DeliveryStatus) error {
	// The rank comparison makes regressions (seen -> delivered etc.) no-ops.
	// seen_at is stamped only on the transition into seen.
	query := `
		UPDATE message_status
		SET status = ?,
		    seen_at = CASE WHEN ? = 'seen' AND seen_at IS NULL THEN CURRENT_TIMESTAMP ELSE seen_at END
		WHERE message_id = ? AND user_id = ?
		AND CASE status WHEN 'sent' THEN 0 WHEN 'delivered' THEN 1 ELSE 2 END <= ?
	`
	if _, err := r.db.ExecContext(ctx, query,
		status, status, messageID, userID, status.Rank()); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

func (r *MessageRepo) MarkChatSeen(ctx context.Context, chatID, userID int64) error {
	query := `
		UPDATE message_status
		SET status = 'seen', seen_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
		AND status <> 'seen'
		AND message_id IN (SELECT id FROM messages WHERE chat_id = ?)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, chatID); err != nil {
		return fmt.Errorf("mark chat seen: %w", err)
	}
	return nil
}
