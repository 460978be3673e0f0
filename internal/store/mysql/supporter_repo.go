package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"helplink/internal/domain"
)

type SupporterRepo struct {
	db *sql.DB
}

func NewSupporterRepo(db *sql.DB) *SupporterRepo {
	return &SupporterRepo{db: db}
}

var _ domain.SupporterRepository = (*SupporterRepo)(nil)

func (r *SupporterRepo) Create(ctx context.Context, s *domain.Supporter) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO supporters (post_id, user_id, support_type, message)
		VALUES (?, ?, ?, ?)
	`, s.PostID, s.UserID, s.SupportType, s.Message)
	if err != nil {
		return fmt.Errorf("insert supporter: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

const supporterSelect = `
	SELECT s.id, s.post_id, s.user_id, s.support_type, s.message, s.created_at,
	       u.first_name, u.last_name, u.profile_image, p.title
	FROM supporters s
	INNER JOIN users u ON u.id = s.user_id
	LEFT JOIN posts p ON p.id = s.post_id
`

func (r *SupporterRepo) GetByID(ctx context.Context, id int64) (*domain.Supporter, error) {
	rows, err := r.db.QueryContext(ctx, supporterSelect+` WHERE s.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get supporter: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	s, err := scanSupporter(rows)
	if err != nil {
		return nil, err
	}
	s.Proofs, err = listProofs(ctx, r.db,
		`SELECT id, image_url, created_at FROM supporter_proofs WHERE supporter_id = ? ORDER BY id`, s.ID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SupporterRepo) List(ctx context.Context, f domain.SupporterFilter, limit, offset int) ([]*domain.Supporter, error) {
	query := supporterSelect + ` WHERE 1=1`
	var args []any
	if f.PostID != nil {
		query += " AND s.post_id = ?"
		args = append(args, *f.PostID)
	}
	if f.UserID != nil {
		query += " AND s.user_id = ?"
		args = append(args, *f.UserID)
	}
	if f.SupportType != nil {
		query += " AND s.support_type = ?"
		args = append(args, *f.SupportType)
	}
	query += " ORDER BY s.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list supporters: %w", err)
	}
	defer rows.Close()

	var supporters []*domain.Supporter
	for rows.Next() {
		s, err := scanSupporter(rows)
		if err != nil {
			return nil, err
		}
		supporters = append(supporters, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list supporters: %w", err)
	}

	for _, s := range supporters {
		s.Proofs, err = listProofs(ctx, r.db,
			`SELECT id, image_url, created_at FROM supporter_proofs WHERE supporter_id = ? ORDER BY id`, s.ID)
		if err != nil {
			return nil, err
		}
	}
	return supporters, nil
}

func scanSupporter(rows *sql.Rows) (*domain.Supporter, error) {
	s := &domain.Supporter{}
	if err := rows.Scan(
		&s.ID, &s.PostID, &s.UserID, &s.SupportType, &s.Message, &s.CreatedAt,
		&s.FirstName, &s.LastName, &s.ProfileImage, &s.PostTitle,
	); err != nil {
		return nil, fmt.Errorf("scan supporter: %w", err)
	}
	return s, nil
}

func (r *SupporterRepo) Update(ctx context.Context, id int64, patch domain.SupporterUpdate) error {
	if patch.Message == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE supporters SET message = ? WHERE id = ?`, *patch.Message, id); err != nil {
		return fmt.Errorf("update supporter: %w", err)
	}
	return nil
}

func (r *SupporterRepo) AddProof(ctx context.Context, supporterID int64, imagePath string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO supporter_proofs (supporter_id, image_url) VALUES (?, ?)`,
		supporterID, imagePath); err != nil {
		return fmt.Errorf("insert proof: %w", err)
	}
	return nil
}
