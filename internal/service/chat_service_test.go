package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"helplink/internal/domain"
	"helplink/internal/service"
)

func newChatService() (*service.ChatService, *MockChatRepo, *MockParticipantRepo, *MockMessageRepo, *MockUserRepo) {
	chats := new(MockChatRepo)
	parts := new(MockParticipantRepo)
	msgs := new(MockMessageRepo)
	users := new(MockUserRepo)
	return service.NewChatService(chats, parts, msgs, users), chats, parts, msgs, users
}

func TestStartPrivateChat(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, chats, _, _, users := newChatService()

		users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{ID: 2}, nil)
		chats.On("GetOrCreatePrivateChat", mock.Anything, int64(1), int64(2)).Return(int64(7), nil)
		chats.On("GetByID", mock.Anything, int64(7), int64(1)).
			Return(&domain.Chat{ID: 7, Type: domain.ChatPrivate}, nil)

		chat, err := svc.StartPrivateChat(context.Background(), 1, 2)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), chat.ID)
	})

	t.Run("SelfChatRejected", func(t *testing.T) {
		svc, _, _, _, _ := newChatService()

		chat, err := svc.StartPrivateChat(context.Background(), 1, 1)
		assert.Nil(t, chat)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		svc, _, _, _, users := newChatService()
		users.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		chat, err := svc.StartPrivateChat(context.Background(), 1, 99)
		assert.Nil(t, chat)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAddParticipant(t *testing.T) {
	t.Run("PrivateChatRejected", func(t *testing.T) {
		svc, chats, _, _, _ := newChatService()
		chats.On("GetByID", mock.Anything, int64(7), int64(1)).
			Return(&domain.Chat{ID: 7, Type: domain.ChatPrivate}, nil)

		added, err := svc.AddParticipant(context.Background(), 7, 1, 3)
		assert.False(t, added)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("NonMemberSeesNotFound", func(t *testing.T) {
		svc, chats, _, _, _ := newChatService()
		chats.On("GetByID", mock.Anything, int64(7), int64(9)).Return(nil, nil)

		added, err := svc.AddParticipant(context.Background(), 7, 9, 3)
		assert.False(t, added)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("AlreadyMemberIsNoOp", func(t *testing.T) {
		svc, chats, parts, _, users := newChatService()
		chats.On("GetByID", mock.Anything, int64(8), int64(1)).
			Return(&domain.Chat{ID: 8, Type: domain.ChatGroup}, nil)
		users.On("GetByID", mock.Anything, int64(3)).Return(&domain.User{ID: 3}, nil)
		parts.On("Add", mock.Anything, int64(8), int64(3)).Return(false, nil)

		added, err := svc.AddParticipant(context.Background(), 8, 1, 3)
		assert.NoError(t, err)
		assert.False(t, added)
	})
}

func TestSendMessage(t *testing.T) {
	t.Run("EmptyContentRejected", func(t *testing.T) {
		svc, _, _, _, _ := newChatService()

		msg, err := svc.SendMessage(context.Background(), service.SendMessageInput{
			ChatID:   1,
			SenderID: 1,
			Content:  "   ",
		})
		assert.Nil(t, msg)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("EmptyTextWithAttachmentRejected", func(t *testing.T) {
		svc, _, _, _, _ := newChatService()

		msg, err := svc.SendMessage(context.Background(), service.SendMessageInput{
			ChatID:      1,
			SenderID:    1,
			Content:     "  ",
			MessageType: domain.MessageText,
			Media: []*domain.MessageMedia{
				{MediaType: "photo", MediaURL: "message_media/a.jpg"},
			},
		})
		assert.Nil(t, msg)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("CaptionlessPhotoAccepted", func(t *testing.T) {
		svc, _, parts, msgs, _ := newChatService()
		parts.On("IsParticipant", mock.Anything, int64(1), int64(2)).Return(true, nil)
		msgs.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
			return m.MessageType == domain.MessagePhoto && m.Content == ""
		})).Return(nil)
		msgs.On("ListForChat", mock.Anything, int64(1), int64(2), 1, 0).
			Return([]*domain.Message{{ID: 7, MessageType: domain.MessagePhoto, Status: domain.StatusSeen}}, nil)

		msg, err := svc.SendMessage(context.Background(), service.SendMessageInput{
			ChatID:      1,
			SenderID:    2,
			MessageType: domain.MessagePhoto,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(7), msg.ID)
	})

	t.Run("UnknownTypeRejected", func(t *testing.T) {
		svc, _, _, _, _ := newChatService()

		msg, err := svc.SendMessage(context.Background(), service.SendMessageInput{
			ChatID:      1,
			SenderID:    1,
			Content:     "hi",
			MessageType: "sticker",
		})
		assert.Nil(t, msg)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("NonParticipantSeesNotFound", func(t *testing.T) {
		svc, _, parts, _, _ := newChatService()
		parts.On("IsParticipant", mock.Anything, int64(1), int64(9)).Return(false, nil)

		msg, err := svc.SendMessage(context.Background(), service.SendMessageInput{
			ChatID:   1,
			SenderID: 9,
			Content:  "hi",
		})
		assert.Nil(t, msg)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		svc, _, parts, msgs, _ := newChatService()
		parts.On("IsParticipant", mock.Anything, int64(1), int64(2)).Return(true, nil)
		msgs.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
			return m.ChatID == 1 && m.SenderID == 2 && m.Content == "hello" &&
				m.MessageType == domain.MessageText
		})).Return(nil)
		msgs.On("ListForChat", mock.Anything, int64(1), int64(2), 1, 0).
			Return([]*domain.Message{{ID: 42, Content: "hello", Status: domain.StatusSeen}}, nil)

		msg, err := svc.SendMessage(context.Background(), service.SendMessageInput{
			ChatID:   1,
			SenderID: 2,
			Content:  "hello",
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(42), msg.ID)
		assert.Equal(t, domain.StatusSeen, msg.Status)
	})
}

func TestMarkChatSeen(t *testing.T) {
	t.Run("NonParticipantSeesNotFound", func(t *testing.T) {
		svc, _, parts, _, _ := newChatService()
		parts.On("IsParticipant", mock.Anything, int64(1), int64(9)).Return(false, nil)

		err := svc.MarkChatSeen(context.Background(), 1, 9)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		svc, _, parts, msgs, _ := newChatService()
		parts.On("IsParticipant", mock.Anything, int64(1), int64(2)).Return(true, nil)
		msgs.On("MarkChatSeen", mock.Anything, int64(1), int64(2)).Return(nil)

		err := svc.MarkChatSeen(context.Background(), 1, 2)
		assert.NoError(t, err)
	})
}

func TestUpdateMessageStatus(t *testing.T) {
	t.Run("UnknownStatusRejected", func(t *testing.T) {
		svc, _, _, _, _ := newChatService()

		err := svc.UpdateMessageStatus(context.Background(), 1, 2, "read")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Delegates", func(t *testing.T) {
		svc, _, _, msgs, _ := newChatService()
		msgs.On("UpdateStatus", mock.Anything, int64(1), int64(2), domain.StatusDelivered).Return(nil)

		err := svc.UpdateMessageStatus(context.Background(), 1, 2, domain.StatusDelivered)
		assert.NoError(t, err)
	})
}

func TestListMessages(t *testing.T) {
	t.Run("NonParticipantSeesNotFound", func(t *testing.T) {
		svc, _, parts, _, _ := newChatService()
		parts.On("IsParticipant", mock.Anything, int64(1), int64(9)).Return(false, nil)

		msgs, err := svc.ListMessages(context.Background(), 1, 9, 0, 0)
		assert.Nil(t, msgs)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ClampsPagination", func(t *testing.T) {
		svc, _, parts, msgs, _ := newChatService()
		parts.On("IsParticipant", mock.Anything, int64(1), int64(2)).Return(true, nil)
		msgs.On("ListForChat", mock.Anything, int64(1), int64(2), 50, 0).
			Return([]*domain.Message{}, nil)

		out, err := svc.ListMessages(context.Background(), 1, 2, 0, -5)
		assert.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestCreateGroupChat(t *testing.T) {
	t.Run("NoParticipantsRejected", func(t *testing.T) {
		svc, _, _, _, _ := newChatService()

		chat, err := svc.CreateGroupChat(context.Background(), 1, nil)
		assert.Nil(t, chat)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("RepoErrorPropagates", func(t *testing.T) {
		svc, chats, _, _, users := newChatService()
		users.On("GetByID", mock.Anything, mock.Anything).Return(&domain.User{ID: 1}, nil)
		chats.On("CreateChat", mock.Anything, domain.ChatGroup).
			Return(int64(0), errors.New("db down"))

		chat, err := svc.CreateGroupChat(context.Background(), 1, []int64{2})
		assert.Nil(t, chat)
		assert.Error(t, err)
	})
}
