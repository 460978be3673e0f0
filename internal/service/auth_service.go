package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"helplink/internal/domain"
	"helplink/internal/mailer"
	"helplink/internal/security"
)

// AuthService handles registration, login, and password recovery.
type AuthService struct {
	users  domain.UserRepository
	tokens *security.TokenService
	hash   *security.PasswordHasher
	otps   OTPKeeper
	mail   mailer.Sender
}

func NewAuthService(
	users domain.UserRepository,
	tokens *security.TokenService,
	hash *security.PasswordHasher,
	otps OTPKeeper,
	mail mailer.Sender,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hash:   hash,
		otps:   otps,
		mail:   mail,
	}
}

type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Address     *string
	Age         *int
	Number      *string
	AccountType domain.AccountType

	// Object paths of already-uploaded files, if the client registered with
	// attachments.
	ProfileImage       *string
	VerificationSelfie *string
	ValidID            *string
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: first name, last name, email and password are required", domain.ErrInvalidInput)
	}
	if in.AccountType == "" {
		in.AccountType = domain.AccountBeneficiary
	}
	if !in.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", domain.ErrInvalidInput, in.AccountType)
	}

	if existing, err := s.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}

	hashed, err := s.hash.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hashed,
		Address:      in.Address,
		Age:          in.Age,
		Number:       in.Number,
		AccountType:  in.AccountType,
		Badge:        domain.BadgeUnderReview,

		ProfileImage:       in.ProfileImage,
		VerificationSelfie: in.VerificationSelfie,
		ValidID:            in.ValidID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: incorrect email or password", domain.ErrInvalidInput)
	}
	if err := s.hash.Verify(in.Password, user.PasswordHash); err != nil {
		return nil, fmt.Errorf("%w: incorrect email or password", domain.ErrInvalidInput)
	}

	if err := s.users.UpdateLastLogon(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("update last logon: %w", err)
	}

	token, err := s.tokens.CreateForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrInvalidInput)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if err := s.hash.Verify(oldPassword, user.PasswordHash); err != nil {
		return fmt.Errorf("%w: incorrect password", domain.ErrInvalidInput)
	}

	hashed, err := s.hash.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.Update(ctx, userID, domain.UserUpdate{PasswordHash: &hashed})
}

const otpPurposeReset = "password_reset"

// ForgotPassword emails a reset code to the account, if one exists. The
// response is identical either way so the endpoint cannot be used to probe
// for registered addresses.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil
	}

	code, err := GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.otps.Put(ctx, otpPurposeReset, email, code); err != nil {
		return err
	}
	if err := s.mail.SendOTP(user.Email, user.FirstName, code, otpPurposeReset); err != nil {
		// The code is stored; a delivery hiccup should not 500 the request.
		log.Printf("auth: send reset code to %s: %v", user.Email, err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrInvalidInput)
	}

	ok, err := s.otps.Verify(ctx, otpPurposeReset, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: invalid or expired code", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}

	hashed, err := s.hash.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.Update(ctx, user.ID, domain.UserUpdate{PasswordHash: &hashed})
}
