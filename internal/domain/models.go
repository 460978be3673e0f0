package domain

import "time"

// AccountType classifies a user account on the platform.
type AccountType string

const (
	AccountBeneficiary  AccountType = "beneficiary"
	AccountDonor        AccountType = "donor"
	AccountVolunteer    AccountType = "volunteer"
	AccountOrganization AccountType = "verified_organization"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountBeneficiary, AccountDonor, AccountVolunteer, AccountOrganization:
		return true
	}
	return false
}

// Badge is the verification state of a user account.
type Badge string

const (
	BadgeUnderReview Badge = "under_review"
	BadgeVerified    Badge = "verified"
	BadgeRejected    Badge = "rejected"
)

func (b Badge) Valid() bool {
	return b == BadgeUnderReview || b == BadgeVerified || b == BadgeRejected
}

// User represents a platform user. Image fields hold opaque storage paths,
// never URLs; URL resolution happens at the response boundary.
type User struct {
	ID                 int64       `json:"id"`
	FirstName          string      `json:"first_name"`
	LastName           string      `json:"last_name"`
	Email              string      `json:"email"`
	PasswordHash       string      `json:"-"`
	Address            *string     `json:"address,omitempty"`
	Age                *int        `json:"age,omitempty"`
	Number             *string     `json:"number,omitempty"`
	AccountType        AccountType `json:"account_type"`
	Badge              Badge       `json:"badge"`
	ProfileImage       *string     `json:"profile_image,omitempty"`
	VerificationSelfie *string     `json:"verification_selfie,omitempty"`
	ValidID            *string     `json:"valid_id,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	LastLogon          *time.Time  `json:"last_logon,omitempty"`
}

// UserUpdate is a sparse patch for a user row. Only non-nil fields are
// applied; the field set doubles as the allow-list of mutable columns.
type UserUpdate struct {
	FirstName          *string
	LastName           *string
	Address            *string
	Age                *int
	Number             *string
	PasswordHash       *string
	ProfileImage       *string
	VerificationSelfie *string
	ValidID            *string
}

// ChatType distinguishes private 1:1 chats from group chats.
type ChatType string

const (
	ChatPrivate ChatType = "private"
	ChatGroup   ChatType = "group"
)

func (t ChatType) Valid() bool {
	return t == ChatPrivate || t == ChatGroup
}

// Chat is a conversation. LastMessageID is a weak back-reference maintained
// on every send. PairKey is the canonical "min:max" participant key that
// makes private-chat creation race-safe; it is NULL for group chats.
type Chat struct {
	ID            int64     `json:"id"`
	Type          ChatType  `json:"type"`
	LastMessageID *int64    `json:"last_message_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	Participants []*ChatParticipant  `json:"participants,omitempty"`
	LastMessage  *LastMessageSummary `json:"last_message,omitempty"`
}

// ChatParticipant is a membership row expanded with the user's public fields.
type ChatParticipant struct {
	UserID       int64     `json:"user_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	JoinedAt     time.Time `json:"joined_at"`
}

// LastMessageSummary is the denormalized view of a chat's newest message.
type LastMessageSummary struct {
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
	CreatedAt   time.Time   `json:"created_at"`
}

// MessageType is the kind of payload a message carries.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessagePhoto MessageType = "photo"
	MessageVideo MessageType = "video"
)

func (t MessageType) Valid() bool {
	return t == MessageText || t == MessagePhoto || t == MessageVideo
}

// Message is immutable once created. Status and SeenAt are scoped to the
// requesting user when messages are listed; a sender has no status row of
// their own and reads back as seen with a nil SeenAt.
type Message struct {
	ID          int64       `json:"id"`
	ChatID      int64       `json:"chat_id"`
	SenderID    int64       `json:"sender_id"`
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
	CreatedAt   time.Time   `json:"created_at"`

	Media  []*MessageMedia `json:"media"`
	Status DeliveryStatus  `json:"status,omitempty"`
	SeenAt *time.Time      `json:"seen_at,omitempty"`

	SenderFirstName    string  `json:"sender_first_name,omitempty"`
	SenderLastName     string  `json:"sender_last_name,omitempty"`
	SenderProfileImage *string `json:"sender_profile_image,omitempty"`
}

// MessageMedia is an attachment owned by exactly one message. MediaURL holds
// the opaque storage path.
type MessageMedia struct {
	ID           int64   `json:"id"`
	MessageID    int64   `json:"message_id"`
	MediaType    string  `json:"media_type"`
	MediaURL     string  `json:"media_url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}

// DeliveryStatus is the per-recipient state of a message. Transitions are
// monotonic: sent -> delivered -> seen, with sent -> seen allowed directly.
// seen is terminal.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusSeen      DeliveryStatus = "seen"
)

func (s DeliveryStatus) Valid() bool {
	return s == StatusSent || s == StatusDelivered || s == StatusSeen
}

// Rank orders statuses for the monotonicity guard. Unknown values rank below
// sent so they can never overwrite anything.
func (s DeliveryStatus) Rank() int {
	switch s {
	case StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusSeen:
		return 2
	}
	return -1
}

// PostType distinguishes donation offers from aid requests.
type PostType string

const (
	PostDonation PostType = "donation"
	PostRequest  PostType = "request"
)

func (t PostType) Valid() bool {
	return t == PostDonation || t == PostRequest
}

// PostStatus is the moderation/lifecycle state of a post.
type PostStatus string

const (
	PostActive  PostStatus = "active"
	PostClosed  PostStatus = "closed"
	PostPending PostStatus = "pending"
)

func (s PostStatus) Valid() bool {
	return s == PostActive || s == PostClosed || s == PostPending
}

// Post is a donation or request listing.
type Post struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	PostType    PostType   `json:"post_type"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Status      PostStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`

	Photos []string `json:"photos"`
	Videos []string `json:"videos"`

	AuthorFirstName    string  `json:"author_first_name,omitempty"`
	AuthorLastName     string  `json:"author_last_name,omitempty"`
	AuthorProfileImage *string `json:"author_profile_image,omitempty"`
	AuthorBadge        Badge   `json:"author_badge,omitempty"`

	ReactionCount  int `json:"reaction_count"`
	CommentCount   int `json:"comment_count"`
	DonationCount  int `json:"donation_count"`
	SupporterCount int `json:"supporter_count"`

	// Viewer's own reaction, populated when a requesting user is known.
	MyReaction *string `json:"my_reaction,omitempty"`
}

// PostUpdate is a sparse patch for a post row (owner-editable fields only).
type PostUpdate struct {
	Title       *string
	Description *string
	Address     *string
	Latitude    *float64
	Longitude   *float64
}

// PostFilter narrows post listings.
type PostFilter struct {
	PostType *PostType
	Status   *PostStatus
	UserID   *int64
}

// Reaction is one user's reaction to a post; at most one per (post, user),
// re-reacting replaces the type.
type Reaction struct {
	PostID       int64     `json:"post_id"`
	UserID       int64     `json:"user_id"`
	ReactionType string    `json:"reaction_type"`
	CreatedAt    time.Time `json:"created_at"`

	FirstName    string  `json:"first_name,omitempty"`
	LastName     string  `json:"last_name,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

// VerificationStatus tracks the admin review of a pledged donation.
type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationOngoing   VerificationStatus = "ongoing"
	VerificationFulfilled VerificationStatus = "fulfilled"
)

func (s VerificationStatus) Valid() bool {
	return s == VerificationPending || s == VerificationOngoing || s == VerificationFulfilled
}

// Donation is a monetary pledge, optionally tied to a post.
type Donation struct {
	ID                 int64              `json:"id"`
	PostID             *int64             `json:"post_id,omitempty"`
	UserID             int64              `json:"user_id"`
	Amount             float64            `json:"amount"`
	Message            *string            `json:"message,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`

	Proofs []*Proof `json:"proofs,omitempty"`

	FirstName    string  `json:"first_name,omitempty"`
	LastName     string  `json:"last_name,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	PostTitle    *string `json:"post_title,omitempty"`
}

// DonationUpdate is a sparse patch for a donation row.
type DonationUpdate struct {
	Amount  *float64
	Message *string
}

// SupportType classifies non-monetary support.
type SupportType string

const (
	SupportShare     SupportType = "share"
	SupportVolunteer SupportType = "volunteer"
	SupportAdvocate  SupportType = "advocate"
	SupportOther     SupportType = "other"
)

func (t SupportType) Valid() bool {
	switch t {
	case SupportShare, SupportVolunteer, SupportAdvocate, SupportOther:
		return true
	}
	return false
}

// Supporter is a non-monetary support pledge, optionally tied to a post.
type Supporter struct {
	ID          int64       `json:"id"`
	PostID      *int64      `json:"post_id,omitempty"`
	UserID      int64       `json:"user_id"`
	SupportType SupportType `json:"support_type"`
	Message     *string     `json:"message,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`

	Proofs []*Proof `json:"proofs,omitempty"`

	FirstName    string  `json:"first_name,omitempty"`
	LastName     string  `json:"last_name,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	PostTitle    *string `json:"post_title,omitempty"`
}

// SupporterUpdate is a sparse patch for a supporter row.
type SupporterUpdate struct {
	Message *string
}

// Proof is an uploaded evidence image for a donation or support pledge.
type Proof struct {
	ID        int64     `json:"id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentVisible CommentStatus = "visible"
	CommentHidden  CommentStatus = "hidden"
	CommentDeleted CommentStatus = "deleted"
)

// Comment on a post. Deleting is a soft delete that rewrites the content;
// hiding is an admin-only moderation action.
type Comment struct {
	ID        int64         `json:"id"`
	PostID    int64         `json:"post_id"`
	UserID    int64         `json:"user_id"`
	Content   string        `json:"content"`
	ParentID  *int64        `json:"parent_id,omitempty"`
	Status    CommentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`

	Replies []*Comment `json:"replies,omitempty"`

	FirstName    string  `json:"first_name,omitempty"`
	LastName     string  `json:"last_name,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

// Statistics aggregates platform-wide counters for the admin dashboard.
type Statistics struct {
	Users         UserStats      `json:"users"`
	Posts         PostStats      `json:"posts"`
	Donations     DonationStats  `json:"donations"`
	Supporters    SupporterStats `json:"supporters"`
	Comments      CommentStats   `json:"comments"`
	Chats         ChatStats      `json:"chats"`
	TotalMessages int            `json:"total_messages"`
}

type UserStats struct {
	Total               int `json:"total_users"`
	Beneficiaries       int `json:"beneficiaries"`
	Donors              int `json:"donors"`
	Volunteers          int `json:"volunteers"`
	Organizations       int `json:"organizations"`
	Verified            int `json:"verified_users"`
	PendingVerification int `json:"pending_verification"`
}

type PostStats struct {
	Total    int `json:"total_posts"`
	Donation int `json:"donation_posts"`
	Request  int `json:"request_posts"`
	Active   int `json:"active_posts"`
	Closed   int `json:"closed_posts"`
	Pending  int `json:"pending_posts"`
}

type DonationStats struct {
	Total         int     `json:"total_donations"`
	TotalAmount   float64 `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
	Pending       int     `json:"pending_donations"`
	Ongoing       int     `json:"ongoing_donations"`
	Fulfilled     int     `json:"fulfilled_donations"`
}

type SupporterStats struct {
	Total      int `json:"total_supporters"`
	Shares     int `json:"shares"`
	Volunteers int `json:"volunteers"`
	Advocates  int `json:"advocates"`
	Others     int `json:"others"`
}

type CommentStats struct {
	Total   int `json:"total_comments"`
	Visible int `json:"visible_comments"`
	Hidden  int `json:"hidden_comments"`
	Deleted int `json:"deleted_comments"`
}

type ChatStats struct {
	Total   int `json:"total_chats"`
	Private int `json:"private_chats"`
	Group   int `json:"group_chats"`
}

// ActivityItem is one row of the admin recent-activity feed.
type ActivityItem struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
