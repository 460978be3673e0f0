package service

import (
	"context"
	"fmt"
	"strings"

	"helplink/internal/domain"
)

// PostService covers listings and everything attached to them: reactions,
// comments, donations, and non-monetary support pledges.
type PostService struct {
	posts      domain.PostRepository
	reactions  domain.ReactionRepository
	comments   domain.CommentRepository
	donations  domain.DonationRepository
	supporters domain.SupporterRepository
}

func NewPostService(
	posts domain.PostRepository,
	reactions domain.ReactionRepository,
	comments domain.CommentRepository,
	donations domain.DonationRepository,
	supporters domain.SupporterRepository,
) *PostService {
	return &PostService{
		posts:      posts,
		reactions:  reactions,
		comments:   comments,
		donations:  donations,
		supporters: supporters,
	}
}

type PostCreateInput struct {
	PostType    domain.PostType
	Title       string
	Description *string
	Address     *string
	Latitude    *float64
	Longitude   *float64
	Photos      []string
	Videos      []string
}

func (s *PostService) CreatePost(ctx context.Context, userID int64, in PostCreateInput) (*domain.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !in.PostType.Valid() {
		return nil, fmt.Errorf("%w: unknown post type %q", domain.ErrInvalidInput, in.PostType)
	}

	post := &domain.Post{
		UserID:      userID,
		PostType:    in.PostType,
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Status:      domain.PostActive,
		Photos:      in.Photos,
		Videos:      in.Videos,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID, &userID)
}

func (s *PostService) GetPost(ctx context.Context, postID int64, viewerID *int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, f domain.PostFilter, viewerID *int64, limit, offset int) ([]*domain.Post, error) {
	if f.PostType != nil && !f.PostType.Valid() {
		return nil, fmt.Errorf("%w: unknown post type %q", domain.ErrInvalidInput, *f.PostType)
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *f.Status)
	}
	limit, offset = clampPage(limit, offset, defaultChatPageSize)
	return s.posts.List(ctx, f, viewerID, limit, offset)
}

// ownedPost loads the post and checks the actor owns it.
func (s *PostService) ownedPost(ctx context.Context, postID, actorID int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID, nil)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}
	if post.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, postID, actorID int64, patch domain.PostUpdate) (*domain.Post, error) {
	if _, err := s.ownedPost(ctx, postID, actorID); err != nil {
		return nil, err
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		patch.Title = &t
	}
	if err := s.posts.Update(ctx, postID, patch); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.posts.GetByID(ctx, postID, &actorID)
}

func (s *PostService) SetPostStatus(ctx context.Context, postID, actorID int64, status domain.PostStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	if _, err := s.ownedPost(ctx, postID, actorID); err != nil {
		return err
	}
	return s.posts.SetStatus(ctx, postID, status)
}

func (s *PostService) DeletePost(ctx context.Context, postID, actorID int64) error {
	if _, err := s.ownedPost(ctx, postID, actorID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, postID)
}

// React records the user's reaction on a post; reacting again replaces the
// previous reaction type.
func (s *PostService) React(ctx context.Context, postID, userID int64, reactionType string) error {
	if reactionType == "" {
		reactionType = "like"
	}
	if _, err := s.GetPost(ctx, postID, nil); err != nil {
		return err
	}
	return s.reactions.Upsert(ctx, postID, userID, reactionType)
}

func (s *PostService) Unreact(ctx context.Context, postID, userID int64) error {
	return s.reactions.Remove(ctx, postID, userID)
}

func (s *PostService) ListReactions(ctx context.Context, postID int64) ([]*domain.Reaction, error) {
	if _, err := s.GetPost(ctx, postID, nil); err != nil {
		return nil, err
	}
	return s.reactions.ListForPost(ctx, postID)
}

type CommentCreateInput struct {
	PostID   int64
	Content  string
	ParentID *int64
}

func (s *PostService) AddComment(ctx context.Context, userID int64, in CommentCreateInput) (*domain.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, fmt.Errorf("%w: comment content is required", domain.ErrInvalidInput)
	}
	if _, err := s.GetPost(ctx, in.PostID, nil); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, fmt.Errorf("get parent comment: %w", err)
		}
		if parent == nil || parent.PostID != in.PostID {
			return nil, fmt.Errorf("%w: parent comment does not belong to this post", domain.ErrInvalidInput)
		}
		if parent.ParentID != nil {
			// Replies nest one level deep.
			in.ParentID = parent.ParentID
		}
	}

	comment := &domain.Comment{
		PostID:   in.PostID,
		UserID:   userID,
		Content:  in.Content,
		ParentID: in.ParentID,
		Status:   domain.CommentVisible,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

func (s *PostService) ListComments(ctx context.Context, postID int64, limit, offset int) ([]*domain.Comment, error) {
	if _, err := s.GetPost(ctx, postID, nil); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset, defaultChatPageSize)
	return s.comments.ListForPost(ctx, postID, domain.CommentVisible, limit, offset)
}

func (s *PostService) ownedComment(ctx context.Context, commentID, actorID int64) (*domain.Comment, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func (s *PostService) UpdateComment(ctx context.Context, commentID, actorID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", domain.ErrInvalidInput)
	}
	if _, err := s.ownedComment(ctx, commentID, actorID); err != nil {
		return nil, err
	}
	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return s.comments.GetByID(ctx, commentID)
}

func (s *PostService) DeleteComment(ctx context.Context, commentID, actorID int64) error {
	if _, err := s.ownedComment(ctx, commentID, actorID); err != nil {
		return err
	}
	return s.comments.SoftDelete(ctx, commentID)
}

type DonationCreateInput struct {
	PostID  *int64
	Amount  float64
	Message *string
}

func (s *PostService) CreateDonation(ctx context.Context, userID int64, in DonationCreateInput) (*domain.Donation, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if in.PostID != nil {
		if _, err := s.GetPost(ctx, *in.PostID, nil); err != nil {
			return nil, err
		}
	}

	d := &domain.Donation{
		PostID:             in.PostID,
		UserID:             userID,
		Amount:             in.Amount,
		Message:            in.Message,
		VerificationStatus: domain.VerificationPending,
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.donations.GetByID(ctx, d.ID)
}

func (s *PostService) ListDonations(ctx context.Context, f domain.DonationFilter, limit, offset int) ([]*domain.Donation, error) {
	limit, offset = clampPage(limit, offset, defaultChatPageSize)
	return s.donations.List(ctx, f, limit, offset)
}

func (s *PostService) ownedDonation(ctx context.Context, donationID, actorID int64) (*domain.Donation, error) {
	d, err := s.donations.GetByID(ctx, donationID)
	if err != nil {
		return nil, fmt.Errorf("get donation: %w", err)
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if d.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	return d, nil
}

func (s *PostService) UpdateDonation(ctx context.Context, donationID, actorID int64, patch domain.DonationUpdate) (*domain.Donation, error) {
	d, err := s.ownedDonation(ctx, donationID, actorID)
	if err != nil {
		return nil, err
	}
	if d.VerificationStatus != domain.VerificationPending {
		return nil, fmt.Errorf("%w: donation is already under verification", domain.ErrInvalidInput)
	}
	if patch.Amount != nil && *patch.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if err := s.donations.Update(ctx, donationID, patch); err != nil {
		return nil, fmt.Errorf("update donation: %w", err)
	}
	return s.donations.GetByID(ctx, donationID)
}

func (s *PostService) AddDonationProof(ctx context.Context, donationID, actorID int64, imagePath string) (*domain.Donation, error) {
	if _, err := s.ownedDonation(ctx, donationID, actorID); err != nil {
		return nil, err
	}
	if err := s.donations.AddProof(ctx, donationID, imagePath); err != nil {
		return nil, err
	}
	return s.donations.GetByID(ctx, donationID)
}

type SupporterCreateInput struct {
	PostID      *int64
	SupportType domain.SupportType
	Message     *string
}

func (s *PostService) CreateSupporter(ctx context.Context, userID int64, in SupporterCreateInput) (*domain.Supporter, error) {
	if in.SupportType == "" {
		in.SupportType = domain.SupportShare
	}
	if !in.SupportType.Valid() {
		return nil, fmt.Errorf("%w: unknown support type %q", domain.ErrInvalidInput, in.SupportType)
	}
	if in.PostID != nil {
		if _, err := s.GetPost(ctx, *in.PostID, nil); err != nil {
			return nil, err
		}
	}

	sp := &domain.Supporter{
		PostID:      in.PostID,
		UserID:      userID,
		SupportType: in.SupportType,
		Message:     in.Message,
	}
	if err := s.supporters.Create(ctx, sp); err != nil {
		return nil, err
	}
	return s.supporters.GetByID(ctx, sp.ID)
}

func (s *PostService) ListSupporters(ctx context.Context, f domain.SupporterFilter, limit, offset int) ([]*domain.Supporter, error) {
	if f.SupportType != nil && !f.SupportType.Valid() {
		return nil, fmt.Errorf("%w: unknown support type %q", domain.ErrInvalidInput, *f.SupportType)
	}
	limit, offset = clampPage(limit, offset, defaultChatPageSize)
	return s.supporters.List(ctx, f, limit, offset)
}

func (s *PostService) UpdateSupporter(ctx context.Context, supporterID, actorID int64, patch domain.SupporterUpdate) (*domain.Supporter, error) {
	sp, err := s.supporters.GetByID(ctx, supporterID)
	if err != nil {
		return nil, fmt.Errorf("get supporter: %w", err)
	}
	if sp == nil {
		return nil, domain.ErrNotFound
	}
	if sp.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	if err := s.supporters.Update(ctx, supporterID, patch); err != nil {
		return nil, fmt.Errorf("update supporter: %w", err)
	}
	return s.supporters.GetByID(ctx, supporterID)
}

func (s *PostService) AddSupporterProof(ctx context.Context, supporterID, actorID int64, imagePath string) (*domain.Supporter, error) {
	sp, err := s.supporters.GetByID(ctx, supporterID)
	if err != nil {
		return nil, fmt.Errorf("get supporter: %w", err)
	}
	if sp == nil {
		return nil, domain.ErrNotFound
	}
	if sp.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	if err := s.supporters.AddProof(ctx, supporterID, imagePath); err != nil {
		return nil, err
	}
	return s.supporters.GetByID(ctx, supporterID)
}
