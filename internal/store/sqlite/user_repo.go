package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"helplink/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

const userColumns = `id, first_name, last_name, email, password_hash, address, age, number,
	account_type, badge, profile_image, verification_selfie, valid_id, created_at, last_logon`

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, address, age, number,
			account_type, badge, profile_image, verification_selfie, valid_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Address, u.Age, u.Number,
		u.AccountType, u.Badge, u.ProfileImage, u.VerificationSelfie, u.ValidID)
	if err != nil {
		if isConstraintErr(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Address, &u.Age, &u.Number,
		&u.AccountType, &u.Badge,
		&u.ProfileImage, &u.VerificationSelfie, &u.ValidID,
		&u.CreatedAt, &u.LastLogon,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, id int64, patch domain.UserUpdate) error {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.FirstName != nil {
		set("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		set("last_name", *patch.LastName)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.Age != nil {
		set("age", *patch.Age)
	}
	if patch.Number != nil {
		set("number", *patch.Number)
	}
	if patch.PasswordHash != nil {
		set("password_hash", *patch.PasswordHash)
	}
	if patch.ProfileImage != nil {
		set("profile_image", *patch.ProfileImage)
	}
	if patch.VerificationSelfie != nil {
		set("verification_selfie", *patch.VerificationSelfie)
	}
	if patch.ValidID != nil {
		set("valid_id", *patch.ValidID)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateLastLogon(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_logon = CURRENT_TIMESTAMP WHERE id = ?`, id); err != nil {
		return fmt.Errorf("update last logon: %w", err)
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context, accountType *domain.AccountType, badge *domain.Badge, limit, offset int) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	var args []any
	if accountType != nil {
		query += " AND account_type = ?"
		args = append(args, *accountType)
	}
	if badge != nil {
		query += " AND badge = ?"
		args = append(args, *badge)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
			&u.Address, &u.Age, &u.Number,
			&u.AccountType, &u.Badge,
			&u.ProfileImage, &u.VerificationSelfie, &u.ValidID,
			&u.CreatedAt, &u.LastLogon,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) SetBadge(ctx context.Context, id int64, badge domain.Badge) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET badge = ? WHERE id = ?`, badge, id); err != nil {
		return fmt.Errorf("set badge: %w", err)
	}
	return nil
}

func (r *UserRepo) SetAccountType(ctx context.Context, id int64, accountType domain.AccountType) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET account_type = ? WHERE id = ?`, accountType, id); err != nil {
		return fmt.Errorf("set account type: %w", err)
	}
	return nil
}
