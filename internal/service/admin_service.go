package service

import (
	"context"
	"fmt"

	"helplink/internal/domain"
)

// AdminService backs the moderation dashboard.
type AdminService struct {
	admin     domain.AdminRepository
	users     domain.UserRepository
	posts     domain.PostRepository
	comments  domain.CommentRepository
	donations domain.DonationRepository
}

func NewAdminService(
	admin domain.AdminRepository,
	users domain.UserRepository,
	posts domain.PostRepository,
	comments domain.CommentRepository,
	donations domain.DonationRepository,
) *AdminService {
	return &AdminService{
		admin:     admin,
		users:     users,
		posts:     posts,
		comments:  comments,
		donations: donations,
	}
}

func (s *AdminService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	return s.admin.Statistics(ctx)
}

func (s *AdminService) RecentActivity(ctx context.Context, limit int) ([]*domain.ActivityItem, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultChatPageSize
	}
	return s.admin.RecentActivity(ctx, limit)
}

func (s *AdminService) SetUserBadge(ctx context.Context, userID int64, badge domain.Badge) (*domain.User, error) {
	if !badge.Valid() {
		return nil, fmt.Errorf("%w: unknown badge %q", domain.ErrInvalidInput, badge)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.users.SetBadge(ctx, userID, badge); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *AdminService) SetUserAccountType(ctx context.Context, userID int64, accountType domain.AccountType) (*domain.User, error) {
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", domain.ErrInvalidInput, accountType)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.users.SetAccountType(ctx, userID, accountType); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// SetPostStatus is the moderation override; unlike the owner path it does not
// check ownership.
func (s *AdminService) SetPostStatus(ctx context.Context, postID int64, status domain.PostStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	post, err := s.posts.GetByID(ctx, postID, nil)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return domain.ErrNotFound
	}
	return s.posts.SetStatus(ctx, postID, status)
}

func (s *AdminService) SetCommentStatus(ctx context.Context, commentID int64, status domain.CommentStatus) error {
	switch status {
	case domain.CommentVisible, domain.CommentHidden, domain.CommentDeleted:
	default:
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("get comment: %w", err)
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return s.comments.SetStatus(ctx, commentID, status)
}

func (s *AdminService) ListComments(ctx context.Context, status *domain.CommentStatus, limit, offset int) ([]*domain.Comment, error) {
	limit, offset = clampPage(limit, offset, defaultChatPageSize)
	return s.admin.ListComments(ctx, status, limit, offset)
}

func (s *AdminService) SetDonationVerification(ctx context.Context, donationID int64, status domain.VerificationStatus) (*domain.Donation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	d, err := s.donations.GetByID(ctx, donationID)
	if err != nil {
		return nil, fmt.Errorf("get donation: %w", err)
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.donations.SetVerificationStatus(ctx, donationID, status); err != nil {
		return nil, err
	}
	return s.donations.GetByID(ctx, donationID)
}
