package domain

import (
	"context"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Update applies the non-nil fields of the patch.
	Update(ctx context.Context, id int64, patch UserUpdate) error
	UpdateLastLogon(ctx context.Context, id int64) error
	List(ctx context.Context, accountType *AccountType, badge *Badge, limit, offset int) ([]*User, error)
	SetBadge(ctx context.Context, id int64, badge Badge) error
	SetAccountType(ctx context.Context, id int64, accountType AccountType) error
}

// ChatRepository creates chats and resolves them for a requesting user.
type ChatRepository interface {
	CreateChat(ctx context.Context, chatType ChatType) (int64, error)
	// GetOrCreatePrivateChat returns the id of the private chat whose
	// participant set is exactly {userA, userB}, creating it if absent.
	// Safe under concurrent calls for the same unordered pair.
	GetOrCreatePrivateChat(ctx context.Context, userA, userB int64) (int64, error)
	// GetByID returns nil when the chat does not exist or the requesting
	// user is not a participant; the two cases are indistinguishable.
	GetByID(ctx context.Context, chatID, requestingUserID int64) (*Chat, error)
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*Chat, error)
}

// ParticipantRepository manages chat membership rows.
type ParticipantRepository interface {
	// Add returns false without error when the user is already a member.
	Add(ctx context.Context, chatID, userID int64) (bool, error)
	IsParticipant(ctx context.Context, chatID, userID int64) (bool, error)
	ListParticipants(ctx context.Context, chatID int64) ([]*ChatParticipant, error)
}

// MessageRepository persists messages with their per-recipient delivery
// status rows and media attachments.
type MessageRepository interface {
	// Create inserts the message, updates the chat's last-message pointer,
	// fans out one "sent" status row per non-sender participant, and inserts
	// m.Media, all in one transaction.
	Create(ctx context.Context, m *Message) error
	// ListForChat returns messages newest-first, each enriched with media
	// and the requesting user's own delivery status.
	ListForChat(ctx context.Context, chatID, requestingUserID int64, limit, offset int) ([]*Message, error)
	// UpdateStatus applies a single-row transition; regressions (new rank
	// below current rank) are silently ignored.
	UpdateStatus(ctx context.Context, messageID, userID int64, status DeliveryStatus) error
	// MarkChatSeen transitions every non-seen status row the user has in the
	// chat to seen. Idempotent.
	MarkChatSeen(ctx context.Context, chatID, userID int64) error
}

// PostRepository defines persistence operations for listings.
type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id int64, viewerID *int64) (*Post, error)
	List(ctx context.Context, f PostFilter, viewerID *int64, limit, offset int) ([]*Post, error)
	Update(ctx context.Context, id int64, patch PostUpdate) error
	SetStatus(ctx context.Context, id int64, status PostStatus) error
	// Delete removes the post and all dependent rows in one transaction.
	Delete(ctx context.Context, id int64) error
}

// ReactionRepository manages per-user post reactions.
type ReactionRepository interface {
	// Upsert inserts or replaces the user's reaction on the post.
	Upsert(ctx context.Context, postID, userID int64, reactionType string) error
	Remove(ctx context.Context, postID, userID int64) error
	ListForPost(ctx context.Context, postID int64) ([]*Reaction, error)
}

// DonationFilter narrows donation listings.
type DonationFilter struct {
	PostID             *int64
	UserID             *int64
	VerificationStatus *VerificationStatus
}

// DonationRepository defines persistence operations for donations.
type DonationRepository interface {
	Create(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, id int64) (*Donation, error)
	List(ctx context.Context, f DonationFilter, limit, offset int) ([]*Donation, error)
	Update(ctx context.Context, id int64, patch DonationUpdate) error
	SetVerificationStatus(ctx context.Context, id int64, status VerificationStatus) error
	AddProof(ctx context.Context, donationID int64, imagePath string) error
}

// SupporterFilter narrows supporter listings.
type SupporterFilter struct {
	PostID      *int64
	UserID      *int64
	SupportType *SupportType
}

// SupporterRepository defines persistence operations for supporters.
type SupporterRepository interface {
	Create(ctx context.Context, s *Supporter) error
	GetByID(ctx context.Context, id int64) (*Supporter, error)
	List(ctx context.Context, f SupporterFilter, limit, offset int) ([]*Supporter, error)
	Update(ctx context.Context, id int64, patch SupporterUpdate) error
	AddProof(ctx context.Context, supporterID int64, imagePath string) error
}

// CommentRepository defines persistence operations for post comments.
type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	// ListForPost returns top-level comments with the given status, each
	// carrying its replies.
	ListForPost(ctx context.Context, postID int64, status CommentStatus, limit, offset int) ([]*Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	SetStatus(ctx context.Context, id int64, status CommentStatus) error
	// SoftDelete marks the comment deleted and blanks its content.
	SoftDelete(ctx context.Context, id int64) error
}

// AdminRepository provides cross-entity reporting queries.
type AdminRepository interface {
	Statistics(ctx context.Context) (*Statistics, error)
	RecentActivity(ctx context.Context, limit int) ([]*ActivityItem, error)
	ListComments(ctx context.Context, status *CommentStatus, limit, offset int) ([]*Comment, error)
}
