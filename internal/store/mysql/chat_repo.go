package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"helplink/internal/domain"
)

type ChatRepo struct {
	db *sql.DB
}

func NewChatRepo(db *sql.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

var _ domain.ChatRepository = (*ChatRepo)(nil)

func (r *ChatRepo) CreateChat(ctx context.Context, chatType domain.ChatType) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO chats (type) VALUES (?)`, chatType)
	if err != nil {
		return 0, fmt.Errorf("insert chat: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// pairKey builds the canonical private-chat key for an unordered user pair.
func pairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

func (r *ChatRepo) GetOrCreatePrivateChat(ctx context.Context, userA, userB int64) (int64, error) {
	// Existing chat: type private and the participant set is exactly the
	// pair. Both counts are required; a chat with extra members, or one the
	// pair only partially belongs to, must not match.
	const findQuery = `
		SELECT c.id
		FROM chats c
		WHERE c.type = 'private'
		AND (
			SELECT COUNT(DISTINCT cp.user_id)
			FROM chat_participants cp
			WHERE cp.chat_id = c.id AND cp.user_id IN (?, ?)
		) = 2
		AND (
			SELECT COUNT(*)
			FROM chat_participants cp
			WHERE cp.chat_id = c.id
		) = 2
		LIMIT 1
	`
	var id int64
	err := r.db.QueryRowContext(ctx, findQuery, userA, userB).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("find private chat: %w", err)
	}

	key := pairKey(userA, userB)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO chats (type, pair_key) VALUES ('private', ?)`, key)
	if err != nil {
		if isDuplicateEntry(err) {
			// Lost the race: the other side created the chat first. Return
			// the winner's row instead of failing.
			tx.Rollback()
			var winner int64
			if err := r.db.QueryRowContext(ctx,
				`SELECT id FROM chats WHERE pair_key = ?`, key).Scan(&winner); err != nil {
				return 0, fmt.Errorf("fetch winning chat: %w", err)
			}
			return winner, nil
		}
		return 0, fmt.Errorf("insert private chat: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	for _, uid := range []int64{userA, userB} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chat_participants (chat_id, user_id) VALUES (?, ?)`, id, uid); err != nil {
			return 0, fmt.Errorf("insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func (r *ChatRepo) GetByID(ctx context.Context, chatID, requestingUserID int64) (*domain.Chat, error) {
	// Membership gate: a non-participant gets "not found", never "forbidden".
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM chat_participants WHERE chat_id = ? AND user_id = ?
	`, chatID, requestingUserID).Scan(&one)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}

	c, err := r.scanChat(ctx, chatID)
	if err != nil || c == nil {
		return c, err
	}
	c.Participants, err = r.listParticipants(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ChatRepo) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Chat, error) {
	// Ordered by chat creation time, not last activity: the list does not
	// reshuffle as messages arrive.
	query := `
		SELECT c.id, c.type, c.last_message_id, c.created_at,
		       m.content, m.message_type, m.created_at
		FROM chats c
		INNER JOIN chat_participants cp ON cp.chat_id = c.id
		LEFT JOIN messages m ON m.id = c.last_message_id
		WHERE cp.user_id = ?
		ORDER BY c.created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []*domain.Chat
	for rows.Next() {
		c, err := scanChatRow(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	for _, c := range chats {
		c.Participants, err = r.listParticipants(ctx, c.ID)
		if err != nil {
			return nil, err
		}
	}
	return chats, nil
}

func (r *ChatRepo) scanChat(ctx context.Context, chatID int64) (*domain.Chat, error) {
	query := `
		SELECT c.id, c.type, c.last_message_id, c.created_at,
		       m.content, m.message_type, m.created_at
		FROM chats c
		LEFT JOIN messages m ON m.id = c.last_message_id
		WHERE c.id = ?
	`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanChatRow(rows)
}

func scanChatRow(rows *sql.Rows) (*domain.Chat, error) {
	c := &domain.Chat{}
	var (
		lastContent sql.NullString
		lastType    sql.NullString
		lastAt      sql.NullTime
	)
	if err := rows.Scan(
		&c.ID,
		&c.Type,
		&c.LastMessageID,
		&c.CreatedAt,
		&lastContent,
		&lastType,
		&lastAt,
	); err != nil {
		return nil, fmt.Errorf("scan chat: %w", err)
	}
	if lastType.Valid {
		c.LastMessage = &domain.LastMessageSummary{
			Content:     lastContent.String,
			MessageType: domain.MessageType(lastType.String),
			CreatedAt:   lastAt.Time,
		}
	}
	return c, nil
}

func (r *ChatRepo) listParticipants(ctx context.Context, chatID int64) ([]*domain.ChatParticipant, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.profile_image, cp.joined_at
		FROM chat_participants cp
		INNER JOIN users u ON u.id = cp.user_id
		WHERE cp.chat_id = ?
	`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list chat participants: %w", err)
	}
	defer rows.Close()

	var parts []*domain.ChatParticipant
	for rows.Next() {
		p := &domain.ChatParticipant{}
		if err := rows.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.ProfileImage, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan chat participant: %w", err)
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}
