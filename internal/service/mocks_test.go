package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"helplink/internal/domain"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, id int64, patch domain.UserUpdate) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateLastLogon(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepo) List(ctx context.Context, accountType *domain.AccountType, badge *domain.Badge, limit, offset int) ([]*domain.User, error) {
	return nil, nil // Not used in these tests
}

func (m *MockUserRepo) SetBadge(ctx context.Context, id int64, badge domain.Badge) error {
	args := m.Called(ctx, id, badge)
	return args.Error(0)
}

func (m *MockUserRepo) SetAccountType(ctx context.Context, id int64, accountType domain.AccountType) error {
	return nil
}

type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) CreateChat(ctx context.Context, chatType domain.ChatType) (int64, error) {
	args := m.Called(ctx, chatType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepo) GetOrCreatePrivateChat(ctx context.Context, userA, userB int64) (int64, error) {
	args := m.Called(ctx, userA, userB)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepo) GetByID(ctx context.Context, chatID, requestingUserID int64) (*domain.Chat, error) {
	args := m.Called(ctx, chatID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}

func (m *MockChatRepo) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Chat, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Chat), args.Error(1)
}

type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) Add(ctx context.Context, chatID, userID int64) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepo) IsParticipant(ctx context.Context, chatID, userID int64) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepo) ListParticipants(ctx context.Context, chatID int64) ([]*domain.ChatParticipant, error) {
	return nil, nil
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) ListForChat(ctx context.Context, chatID, requestingUserID int64, limit, offset int) ([]*domain.Message, error) {
	args := m.Called(ctx, chatID, requestingUserID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) UpdateStatus(ctx context.Context, messageID, userID int64, status domain.DeliveryStatus) error {
	args := m.Called(ctx, messageID, userID, status)
	return args.Error(0)
}

func (m *MockMessageRepo) MarkChatSeen(ctx context.Context, chatID, userID int64) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) Create(ctx context.Context, p *domain.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPostRepo) GetByID(ctx context.Context, id int64, viewerID *int64) (*domain.Post, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostRepo) List(ctx context.Context, f domain.PostFilter, viewerID *int64, limit, offset int) ([]*domain.Post, error) {
	args := m.Called(ctx, f, viewerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Post), args.Error(1)
}

func (m *MockPostRepo) Update(ctx context.Context, id int64, patch domain.PostUpdate) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockPostRepo) SetStatus(ctx context.Context, id int64, status domain.PostStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPostRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReactionRepo struct {
	mock.Mock
}

func (m *MockReactionRepo) Upsert(ctx context.Context, postID, userID int64, reactionType string) error {
	args := m.Called(ctx, postID, userID, reactionType)
	return args.Error(0)
}

func (m *MockReactionRepo) Remove(ctx context.Context, postID, userID int64) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockReactionRepo) ListForPost(ctx context.Context, postID int64) ([]*domain.Reaction, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reaction), args.Error(1)
}

type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentRepo) ListForPost(ctx context.Context, postID int64, status domain.CommentStatus, limit, offset int) ([]*domain.Comment, error) {
	args := m.Called(ctx, postID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

func (m *MockCommentRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockCommentRepo) SetStatus(ctx context.Context, id int64, status domain.CommentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCommentRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDonationRepo struct {
	mock.Mock
}

func (m *MockDonationRepo) Create(ctx context.Context, d *domain.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDonationRepo) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationRepo) List(ctx context.Context, f domain.DonationFilter, limit, offset int) ([]*domain.Donation, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Donation), args.Error(1)
}

func (m *MockDonationRepo) Update(ctx context.Context, id int64, patch domain.DonationUpdate) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockDonationRepo) SetVerificationStatus(ctx context.Context, id int64, status domain.VerificationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDonationRepo) AddProof(ctx context.Context, donationID int64, imagePath string) error {
	args := m.Called(ctx, donationID, imagePath)
	return args.Error(0)
}

type MockSupporterRepo struct {
	mock.Mock
}

func (m *MockSupporterRepo) Create(ctx context.Context, s *domain.Supporter) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSupporterRepo) GetByID(ctx context.Context, id int64) (*domain.Supporter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supporter), args.Error(1)
}

func (m *MockSupporterRepo) List(ctx context.Context, f domain.SupporterFilter, limit, offset int) ([]*domain.Supporter, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Supporter), args.Error(1)
}

func (m *MockSupporterRepo) Update(ctx context.Context, id int64, patch domain.SupporterUpdate) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockSupporterRepo) AddProof(ctx context.Context, supporterID int64, imagePath string) error {
	args := m.Called(ctx, supporterID, imagePath)
	return args.Error(0)
}

type MockOTPKeeper struct {
	mock.Mock
}

func (m *MockOTPKeeper) Put(ctx context.Context, purpose, email, code string) error {
	args := m.Called(ctx, purpose, email, code)
	return args.Error(0)
}

func (m *MockOTPKeeper) Verify(ctx context.Context, purpose, email, code string) (bool, error) {
	args := m.Called(ctx, purpose, email, code)
	return args.Bool(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOTP(toEmail, toName, code, purpose string) error {
	args := m.Called(toEmail, toName, code, purpose)
	return args.Error(0)
}
