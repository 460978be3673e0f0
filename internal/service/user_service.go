package service

import (
	"context"
	"fmt"

	"helplink/internal/domain"
)

// UserService covers profile reads and updates.
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of the patch to the caller's row
// and returns the updated profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, patch domain.UserUpdate) (*domain.User, error) {
	// PasswordHash changes go through AuthService.ChangePassword.
	patch.PasswordHash = nil

	if err := s.users.Update(ctx, userID, patch); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

// SubmitCredentials stores the verification selfie and ID paths and puts the
// account back under review.
func (s *UserService) SubmitCredentials(ctx context.Context, userID int64, selfiePath, validIDPath *string) (*domain.User, error) {
	if selfiePath == nil && validIDPath == nil {
		return nil, fmt.Errorf("%w: a selfie or a valid id is required", domain.ErrInvalidInput)
	}
	patch := domain.UserUpdate{
		VerificationSelfie: selfiePath,
		ValidID:            validIDPath,
	}
	if err := s.users.Update(ctx, userID, patch); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := s.users.SetBadge(ctx, userID, domain.BadgeUnderReview); err != nil {
		return nil, fmt.Errorf("set badge: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context, accountType *domain.AccountType, badge *domain.Badge, limit, offset int) ([]*domain.User, error) {
	if accountType != nil && !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", domain.ErrInvalidInput, *accountType)
	}
	if badge != nil && !badge.Valid() {
		return nil, fmt.Errorf("%w: unknown badge %q", domain.ErrInvalidInput, *badge)
	}
	limit, offset = clampPage(limit, offset, defaultChatPageSize)
	return s.users.List(ctx, accountType, badge, limit, offset)
}
