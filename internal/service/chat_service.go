package service

import (
	"context"
	"fmt"
	"strings"

	"helplink/internal/domain"
)

// ChatService implements the messaging core: chat creation and lookup,
// message sending with per-recipient delivery tracking, and read receipts.
//
// Authorization is membership-based and deliberately indistinguishable from
// absence: a caller who is not a participant of a chat gets ErrNotFound, the
// same answer as for a chat that does not exist.
type ChatService struct {
	chats        domain.ChatRepository
	participants domain.ParticipantRepository
	messages     domain.MessageRepository
	users        domain.UserRepository
}

func NewChatService(
	chats domain.ChatRepository,
	participants domain.ParticipantRepository,
	messages domain.MessageRepository,
	users domain.UserRepository,
) *ChatService {
	return &ChatService{
		chats:        chats,
		participants: participants,
		messages:     messages,
		users:        users,
	}
}

const (
	defaultChatPageSize    = 20
	defaultMessagePageSize = 50
	maxPageSize            = 100
)

func clampPage(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// StartPrivateChat returns the existing 1:1 chat between the caller and the
// other user, creating it if none exists. Concurrent calls for the same pair
// converge on a single chat.
func (s *ChatService) StartPrivateChat(ctx context.Context, userID, otherUserID int64) (*domain.Chat, error) {
	if userID == otherUserID {
		return nil, fmt.Errorf("%w: cannot start a chat with yourself", domain.ErrInvalidInput)
	}
	other, err := s.users.GetByID(ctx, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if other == nil {
		return nil, fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
	}

	chatID, err := s.chats.GetOrCreatePrivateChat(ctx, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("get or create private chat: %w", err)
	}
	chat, err := s.chats.GetByID(ctx, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	return chat, nil
}

// CreateGroupChat creates a group chat with the creator and the given users.
func (s *ChatService) CreateGroupChat(ctx context.Context, creatorID int64, participantIDs []int64) (*domain.Chat, error) {
	if len(participantIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", domain.ErrInvalidInput)
	}

	// Creator first, duplicates dropped.
	uniqueIDs := []int64{creatorID}
	seen := map[int64]struct{}{creatorID: {}}
	for _, id := range participantIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniqueIDs = append(uniqueIDs, id)
	}

	for _, id := range uniqueIDs {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}
		if u == nil {
			return nil, fmt.Errorf("%w: user %d does not exist", domain.ErrNotFound, id)
		}
	}

	chatID, err := s.chats.CreateChat(ctx, domain.ChatGroup)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	for _, id := range uniqueIDs {
		if _, err := s.participants.Add(ctx, chatID, id); err != nil {
			return nil, fmt.Errorf("add participant: %w", err)
		}
	}

	chat, err := s.chats.GetByID(ctx, chatID, creatorID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	return chat, nil
}

// AddParticipant adds a user to a group chat the caller belongs to. Private
// chats have a fixed membership of two and reject additions. Adding a user
// who is already a member is a no-op and reports false.
func (s *ChatService) AddParticipant(ctx context.Context, chatID, actorID, newUserID int64) (bool, error) {
	chat, err := s.chats.GetByID(ctx, chatID, actorID)
	if err != nil {
		return false, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return false, domain.ErrNotFound
	}
	if chat.Type == domain.ChatPrivate {
		return false, fmt.Errorf("%w: participants cannot be added to a private chat", domain.ErrInvalidInput)
	}

	u, err := s.users.GetByID(ctx, newUserID)
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return false, fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
	}

	added, err := s.participants.Add(ctx, chatID, newUserID)
	if err != nil {
		return false, fmt.Errorf("add participant: %w", err)
	}
	return added, nil
}

func (s *ChatService) GetChat(ctx context.Context, chatID, userID int64) (*domain.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}
	return chat, nil
}

func (s *ChatService) ListChats(ctx context.Context, userID int64, limit, offset int) ([]*domain.Chat, error) {
	limit, offset = clampPage(limit, offset, defaultChatPageSize)
	return s.chats.ListForUser(ctx, userID, limit, offset)
}

type SendMessageInput struct {
	ChatID      int64
	SenderID    int64
	Content     string
	MessageType domain.MessageType
	Media       []*domain.MessageMedia
}

// SendMessage persists a message and fans out a "sent" delivery row to every
// other participant. The returned message is re-read from the store so the
// caller sees it exactly as a subsequent listing would.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*domain.Message, error) {
	if in.MessageType == "" {
		in.MessageType = domain.MessageText
	}
	if !in.MessageType.Valid() {
		return nil, fmt.Errorf("%w: unknown message type %q", domain.ErrInvalidInput, in.MessageType)
	}
	in.Content = strings.TrimSpace(in.Content)
	// Text messages need content; for photo/video the content is an optional
	// caption and attachment presence is the boundary's concern.
	if in.MessageType == domain.MessageText && in.Content == "" {
		return nil, fmt.Errorf("%w: message content is required", domain.ErrInvalidInput)
	}

	ok, err := s.participants.IsParticipant(ctx, in.ChatID, in.SenderID)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	msg := &domain.Message{
		ChatID:      in.ChatID,
		SenderID:    in.SenderID,
		Content:     in.Content,
		MessageType: in.MessageType,
		Media:       in.Media,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	created, err := s.messages.ListForChat(ctx, in.ChatID, in.SenderID, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("read back message: %w", err)
	}
	if len(created) == 0 {
		return nil, domain.ErrInternal
	}
	return created[0], nil
}

// ListMessages returns the chat's messages newest-first, each carrying the
// caller's own delivery status.
func (s *ChatService) ListMessages(ctx context.Context, chatID, userID int64, limit, offset int) ([]*domain.Message, error) {
	ok, err := s.participants.IsParticipant(ctx, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	limit, offset = clampPage(limit, offset, defaultMessagePageSize)
	return s.messages.ListForChat(ctx, chatID, userID, limit, offset)
}

// MarkChatSeen marks every message in the chat as seen by the caller.
// Calling it again is a no-op.
func (s *ChatService) MarkChatSeen(ctx context.Context, chatID, userID int64) error {
	ok, err := s.participants.IsParticipant(ctx, chatID, userID)
	if err != nil {
		return fmt.Errorf("check participant: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return s.messages.MarkChatSeen(ctx, chatID, userID)
}

// UpdateMessageStatus records a delivery transition for the caller's copy of
// a message. Transitions only move forward; an attempt to step back from
// seen is silently ignored.
func (s *ChatService) UpdateMessageStatus(ctx context.Context, messageID, userID int64, status domain.DeliveryStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.messages.UpdateStatus(ctx, messageID, userID, status)
}
