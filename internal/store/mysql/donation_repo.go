package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"helplink/internal/domain"
)

type DonationRepo struct {
	db *sql.DB
}

func NewDonationRepo(db *sql.DB) *DonationRepo {
	return &DonationRepo{db: db}
}

var _ domain.DonationRepository = (*DonationRepo)(nil)

func (r *DonationRepo) Create(ctx context.Context, d *domain.Donation) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO donators (post_id, user_id, amount, message, verification_status)
		VALUES (?, ?, ?, ?, ?)
	`, d.PostID, d.UserID, d.Amount, d.Message, d.VerificationStatus)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	d.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

const donationSelect = `
	SELECT d.id, d.post_id, d.user_id, d.amount, d.message, d.verification_status, d.created_at,
	       u.first_name, u.last_name, u.profile_image, p.title
	FROM donators d
	INNER JOIN users u ON u.id = d.user_id
	LEFT JOIN posts p ON p.id = d.post_id
`

func (r *DonationRepo) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	rows, err := r.db.QueryContext(ctx, donationSelect+` WHERE d.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get donation: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	d, err := scanDonation(rows)
	if err != nil {
		return nil, err
	}
	d.Proofs, err = listProofs(ctx, r.db,
		`SELECT id, image_url, created_at FROM donator_proofs WHERE donator_id = ? ORDER BY id`, d.ID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DonationRepo) List(ctx context.Context, f domain.DonationFilter, limit, offset int) ([]*domain.Donation, error) {
	query := donationSelect + ` WHERE 1=1`
	var args []any
	if f.PostID != nil {
		query += " AND d.post_id = ?"
		args = append(args, *f.PostID)
	}
	if f.UserID != nil {
		query += " AND d.user_id = ?"
		args = append(args, *f.UserID)
	}
	if f.VerificationStatus != nil {
		query += " AND d.verification_status = ?"
		args = append(args, *f.VerificationStatus)
	}
	query += " ORDER BY d.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}

	for _, d := range donations {
		d.Proofs, err = listProofs(ctx, r.db,
			`SELECT id, image_url, created_at FROM donator_proofs WHERE donator_id = ? ORDER BY id`, d.ID)
		if err != nil {
			return nil, err
		}
	}
	return donations, nil
}

func scanDonation(rows *sql.Rows) (*domain.Donation, error) {
	d := &domain.Donation{}
	if err := rows.Scan(
		&d.ID, &d.PostID, &d.UserID, &d.Amount, &d.Message, &d.VerificationStatus, &d.CreatedAt,
		&d.FirstName, &d.LastName, &d.ProfileImage, &d.PostTitle,
	); err != nil {
		return nil, fmt.Errorf("scan donation: %w", err)
	}
	return d, nil
}

func listProofs(ctx context.Context, db *sql.DB, query string, ownerID int64) ([]*domain.Proof, error) {
	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list proofs: %w", err)
	}
	defer rows.Close()

	proofs := []*domain.Proof{}
	for rows.Next() {
		p := &domain.Proof{}
		if err := rows.Scan(&p.ID, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan proof: %w", err)
		}
		proofs = append(proofs, p)
	}
	return proofs, rows.Err()
}

func (r *DonationRepo) Update(ctx context.Context, id int64, patch domain.DonationUpdate) error {
	var (
		sets []string
		args []any
	)
	if patch.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if patch.Message != nil {
		sets = append(sets, "message = ?")
		args = append(args, *patch.Message)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE donators SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update donation: %w", err)
	}
	return nil
}

func (r *DonationRepo) SetVerificationStatus(ctx context.Context, id int64, status domain.VerificationStatus) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE donators SET verification_status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("set verification status: %w", err)
	}
	return nil
}

func (r *DonationRepo) AddProof(ctx context.Context, donationID int64, imagePath string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO donator_proofs (donator_id, image_url) VALUES (?, ?)`,
		donationID, imagePath); err != nil {
		return fmt.Errorf("insert proof: %w", err)
	}
	return nil
}
