package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helplink/internal/domain"
	"helplink/internal/store/sqlite"
)

type fixture struct {
	db    *sql.DB
	users *sqlite.UserRepo
	chats *sqlite.ChatRepo
	parts *sqlite.ParticipantRepo
	msgs  *sqlite.MessageRepo

	alice, bob, carol int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(db))

	f := &fixture{
		db:    db,
		users: sqlite.NewUserRepo(db),
		chats: sqlite.NewChatRepo(db),
		parts: sqlite.NewParticipantRepo(db),
		msgs:  sqlite.NewMessageRepo(db),
	}
	f.alice = f.createUser(t, "Alice")
	f.bob = f.createUser(t, "Bob")
	f.carol = f.createUser(t, "Carol")
	return f
}

func (f *fixture) createUser(t *testing.T, name string) int64 {
	t.Helper()
	u := &domain.User{
		FirstName:    name,
		LastName:     "Tester",
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
		AccountType:  domain.AccountBeneficiary,
		Badge:        domain.BadgeUnderReview,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func (f *fixture) send(t *testing.T, chatID, senderID int64, content string) *domain.Message {
	t.Helper()
	m := &domain.Message{
		ChatID:      chatID,
		SenderID:    senderID,
		Content:     content,
		MessageType: domain.MessageText,
	}
	require.NoError(t, f.msgs.Create(context.Background(), m))
	return m
}

func TestGetOrCreatePrivateChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id1, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)

	// Same pair in either order resolves to the same chat.
	id2, err := f.chats.GetOrCreatePrivateChat(ctx, f.bob, f.alice)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	// A different pair gets its own chat.
	id3, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.carol)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)

	// A group chat containing the pair plus a third member never matches.
	groupID, err := f.chats.CreateChat(ctx, domain.ChatGroup)
	require.NoError(t, err)
	for _, uid := range []int64{f.alice, f.bob, f.carol} {
		_, err := f.parts.Add(ctx, groupID, uid)
		require.NoError(t, err)
	}
	id4, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)
	assert.Equal(t, id1, id4)
}

func TestGetOrCreatePrivateChatCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A chat row holding the pair key but no participant rows is invisible
	// to the participant-based lookup, so the create path must collide on
	// the unique key and fall back to the existing row.
	key := fmt.Sprintf("%d:%d", f.alice, f.bob)
	res, err := f.db.Exec(`INSERT INTO chats (type, pair_key) VALUES ('private', ?)`, key)
	require.NoError(t, err)
	winner, err := res.LastInsertId()
	require.NoError(t, err)

	id, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)
	assert.Equal(t, winner, id)
}

func TestGetOrCreatePrivateChatConcurrent(t *testing.T) {
	f := newFixture(t)

	const callers = 4
	ids := make([]int64, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := f.alice, f.bob
			if i%2 == 1 {
				a, b = b, a
			}
			ids[i], errs[i] = f.chats.GetOrCreatePrivateChat(context.Background(), a, b)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestChatLookupReleasesConnection(t *testing.T) {
	f := newFixture(t)

	// The pool is capped at one connection; a lookup that doesn't give it
	// back between its internal queries would block here forever.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chatID, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		chat, err := f.chats.GetByID(ctx, chatID, f.alice)
		require.NoError(t, err)
		require.NotNil(t, chat)
		assert.Len(t, chat.Participants, 2)
	}
}

func TestChatVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chatID, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)

	chat, err := f.chats.GetByID(ctx, chatID, f.alice)
	require.NoError(t, err)
	require.NotNil(t, chat)
	assert.Equal(t, domain.ChatPrivate, chat.Type)
	assert.Len(t, chat.Participants, 2)

	// A non-participant gets the same answer as for a missing chat.
	chat, err = f.chats.GetByID(ctx, chatID, f.carol)
	require.NoError(t, err)
	assert.Nil(t, chat)

	chat, err = f.chats.GetByID(ctx, 99999, f.alice)
	require.NoError(t, err)
	assert.Nil(t, chat)
}

func TestSendMessageFanout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	groupID, err := f.chats.CreateChat(ctx, domain.ChatGroup)
	require.NoError(t, err)
	for _, uid := range []int64{f.alice, f.bob, f.carol} {
		_, err := f.parts.Add(ctx, groupID, uid)
		require.NoError(t, err)
	}

	sent := f.send(t, groupID, f.alice, "hello everyone")

	// Each recipient starts at sent; the sender reads their own copy as seen.
	for _, uid := range []int64{f.bob, f.carol} {
		msgs, err := f.msgs.ListForChat(ctx, groupID, uid, 50, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, domain.StatusSent, msgs[0].Status)
		assert.Nil(t, msgs[0].SeenAt)
	}
	msgs, err := f.msgs.ListForChat(ctx, groupID, f.alice, 50, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.StatusSeen, msgs[0].Status)
	assert.Nil(t, msgs[0].SeenAt)

	// The sender never gets a status row of their own.
	var count int
	require.NoError(t, f.db.QueryRow(
		`SELECT COUNT(*) FROM message_status WHERE message_id = ?`, sent.ID).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestLastMessagePointer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chatID, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)

	f.send(t, chatID, f.alice, "first")
	second := f.send(t, chatID, f.bob, "second")

	chat, err := f.chats.GetByID(ctx, chatID, f.alice)
	require.NoError(t, err)
	require.NotNil(t, chat.LastMessageID)
	assert.Equal(t, second.ID, *chat.LastMessageID)
	require.NotNil(t, chat.LastMessage)
	assert.Equal(t, "second", chat.LastMessage.Content)
}

func TestMessageOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chatID, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)

	f.send(t, chatID, f.alice, "one")
	f.send(t, chatID, f.bob, "two")
	f.send(t, chatID, f.alice, "three")

	msgs, err := f.msgs.ListForChat(ctx, chatID, f.alice, 50, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "three", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
	assert.Equal(t, "one", msgs[2].Content)

	page, err := f.msgs.ListForChat(ctx, chatID, f.alice, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "two", page[0].Content)
	assert.Equal(t, "one", page[1].Content)
}

func TestUpdateStatusMonotonic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chatID, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)
	msg := f.send(t, chatID, f.alice, "hello")

	require.NoError(t, f.msgs.UpdateStatus(ctx, msg.ID, f.bob, domain.StatusDelivered))
	msgs, err := f.msgs.ListForChat(ctx, chatID, f.bob, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, msgs[0].Status)
	assert.Nil(t, msgs[0].SeenAt)

	require.NoError(t, f.msgs.UpdateStatus(ctx, msg.ID, f.bob, domain.StatusSeen))
	msgs, err = f.msgs.ListForChat(ctx, chatID, f.bob, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSeen, msgs[0].Status)
	assert.NotNil(t, msgs[0].SeenAt)
	firstSeen := *msgs[0].SeenAt

	// Stepping back is silently ignored and the seen timestamp sticks.
	require.NoError(t, f.msgs.UpdateStatus(ctx, msg.ID, f.bob, domain.StatusDelivered))
	require.NoError(t, f.msgs.UpdateStatus(ctx, msg.ID, f.bob, domain.StatusSent))
	msgs, err = f.msgs.ListForChat(ctx, chatID, f.bob, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSeen, msgs[0].Status)
	require.NotNil(t, msgs[0].SeenAt)
	assert.Equal(t, firstSeen, *msgs[0].SeenAt)

	// Re-marking seen keeps the original timestamp.
	require.NoError(t, f.msgs.UpdateStatus(ctx, msg.ID, f.bob, domain.StatusSeen))
	msgs, err = f.msgs.ListForChat(ctx, chatID, f.bob, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, firstSeen, *msgs[0].SeenAt)

	// The sender has no row to update; this is a no-op, not an error.
	require.NoError(t, f.msgs.UpdateStatus(ctx, msg.ID, f.alice, domain.StatusSeen))
}

func TestMarkChatSeen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chatID, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)
	otherChatID, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.carol)
	require.NoError(t, err)

	f.send(t, chatID, f.alice, "one")
	f.send(t, chatID, f.alice, "two")
	f.send(t, otherChatID, f.alice, "elsewhere")

	require.NoError(t, f.msgs.MarkChatSeen(ctx, chatID, f.bob))

	msgs, err := f.msgs.ListForChat(ctx, chatID, f.bob, 50, 0)
	require.NoError(t, err)
	for _, m := range msgs {
		assert.Equal(t, domain.StatusSeen, m.Status)
		assert.NotNil(t, m.SeenAt)
	}

	// Messages in other chats are untouched.
	other, err := f.msgs.ListForChat(ctx, otherChatID, f.carol, 50, 0)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, domain.StatusSent, other[0].Status)

	// Idempotent.
	require.NoError(t, f.msgs.MarkChatSeen(ctx, chatID, f.bob))
}

func TestAddParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	groupID, err := f.chats.CreateChat(ctx, domain.ChatGroup)
	require.NoError(t, err)

	added, err := f.parts.Add(ctx, groupID, f.alice)
	require.NoError(t, err)
	assert.True(t, added)

	// Duplicate membership is reported, not an error.
	added, err = f.parts.Add(ctx, groupID, f.alice)
	require.NoError(t, err)
	assert.False(t, added)

	ok, err := f.parts.IsParticipant(ctx, groupID, f.alice)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.parts.IsParticipant(ctx, groupID, f.bob)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMessageMedia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chatID, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)

	m := &domain.Message{
		ChatID:      chatID,
		SenderID:    f.alice,
		Content:     "look at this",
		MessageType: domain.MessagePhoto,
		Media: []*domain.MessageMedia{
			{MediaType: "photo", MediaURL: "message_media/a.jpg"},
			{MediaType: "photo", MediaURL: "message_media/b.jpg"},
		},
	}
	require.NoError(t, f.msgs.Create(ctx, m))

	msgs, err := f.msgs.ListForChat(ctx, chatID, f.bob, 1, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Media, 2)
	assert.Equal(t, "message_media/a.jpg", msgs[0].Media[0].MediaURL)
	assert.Equal(t, m.ID, msgs[0].Media[0].MessageID)
}

func TestListChatsForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chatAB, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.bob)
	require.NoError(t, err)
	chatAC, err := f.chats.GetOrCreatePrivateChat(ctx, f.alice, f.carol)
	require.NoError(t, err)

	chats, err := f.chats.ListForUser(ctx, f.alice, 20, 0)
	require.NoError(t, err)
	assert.Len(t, chats, 2)

	chats, err = f.chats.ListForUser(ctx, f.bob, 20, 0)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, chatAB, chats[0].ID)

	chats, err = f.chats.ListForUser(ctx, f.carol, 20, 0)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, chatAC, chats[0].ID)
}
