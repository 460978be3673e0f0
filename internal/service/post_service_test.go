package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"helplink/internal/domain"
	"helplink/internal/service"
)

func newPostService() (*service.PostService, *MockPostRepo, *MockReactionRepo, *MockCommentRepo, *MockDonationRepo, *MockSupporterRepo) {
	posts := new(MockPostRepo)
	reactions := new(MockReactionRepo)
	comments := new(MockCommentRepo)
	donations := new(MockDonationRepo)
	supporters := new(MockSupporterRepo)
	svc := service.NewPostService(posts, reactions, comments, donations, supporters)
	return svc, posts, reactions, comments, donations, supporters
}

func int64p(v int64) *int64 { return &v }

func TestCreatePost(t *testing.T) {
	t.Run("EmptyTitleRejected", func(t *testing.T) {
		svc, _, _, _, _, _ := newPostService()

		post, err := svc.CreatePost(context.Background(), 1, service.PostCreateInput{
			PostType: domain.PostRequest,
			Title:    "   ",
		})
		assert.Nil(t, post)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("UnknownTypeRejected", func(t *testing.T) {
		svc, _, _, _, _, _ := newPostService()

		post, err := svc.CreatePost(context.Background(), 1, service.PostCreateInput{
			PostType: "auction",
			Title:    "Help needed",
		})
		assert.Nil(t, post)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Success", func(t *testing.T) {
		svc, posts, _, _, _, _ := newPostService()

		posts.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Post) bool {
			return p.UserID == 1 && p.Title == "Help needed" && p.Status == domain.PostActive
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Post).ID = 10
		}).Return(nil)
		posts.On("GetByID", mock.Anything, int64(10), mock.Anything).
			Return(&domain.Post{ID: 10, UserID: 1, Title: "Help needed"}, nil)

		post, err := svc.CreatePost(context.Background(), 1, service.PostCreateInput{
			PostType: domain.PostRequest,
			Title:    "  Help needed  ",
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(10), post.ID)
	})
}

func TestUpdatePostOwnership(t *testing.T) {
	t.Run("MissingPost", func(t *testing.T) {
		svc, posts, _, _, _, _ := newPostService()
		posts.On("GetByID", mock.Anything, int64(10), (*int64)(nil)).Return(nil, nil)

		_, err := svc.UpdatePost(context.Background(), 10, 1, domain.PostUpdate{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("NotOwner", func(t *testing.T) {
		svc, posts, _, _, _, _ := newPostService()
		posts.On("GetByID", mock.Anything, int64(10), (*int64)(nil)).
			Return(&domain.Post{ID: 10, UserID: 2}, nil)

		_, err := svc.UpdatePost(context.Background(), 10, 1, domain.PostUpdate{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Owner", func(t *testing.T) {
		svc, posts, _, _, _, _ := newPostService()
		posts.On("GetByID", mock.Anything, int64(10), mock.Anything).
			Return(&domain.Post{ID: 10, UserID: 1}, nil)
		posts.On("Update", mock.Anything, int64(10), mock.Anything).Return(nil)

		title := "Updated"
		post, err := svc.UpdatePost(context.Background(), 10, 1, domain.PostUpdate{Title: &title})
		assert.NoError(t, err)
		assert.Equal(t, int64(10), post.ID)
	})
}

func TestReact(t *testing.T) {
	t.Run("DefaultsToLike", func(t *testing.T) {
		svc, posts, reactions, _, _, _ := newPostService()
		posts.On("GetByID", mock.Anything, int64(10), (*int64)(nil)).
			Return(&domain.Post{ID: 10}, nil)
		reactions.On("Upsert", mock.Anything, int64(10), int64(1), "like").Return(nil)

		err := svc.React(context.Background(), 10, 1, "")
		assert.NoError(t, err)
		reactions.AssertExpectations(t)
	})

	t.Run("MissingPost", func(t *testing.T) {
		svc, posts, _, _, _, _ := newPostService()
		posts.On("GetByID", mock.Anything, int64(10), (*int64)(nil)).Return(nil, nil)

		err := svc.React(context.Background(), 10, 1, "heart")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAddComment(t *testing.T) {
	t.Run("ReplyToReplyAttachesToTopComment", func(t *testing.T) {
		svc, posts, _, comments, _, _ := newPostService()
		posts.On("GetByID", mock.Anything, int64(10), (*int64)(nil)).
			Return(&domain.Post{ID: 10}, nil)
		// Comment 6 is itself a reply to comment 5.
		comments.On("GetByID", mock.Anything, int64(6)).
			Return(&domain.Comment{ID: 6, PostID: 10, ParentID: int64p(5)}, nil)
		comments.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.ParentID != nil && *c.ParentID == 5
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Comment).ID = 7
		}).Return(nil)
		comments.On("GetByID", mock.Anything, int64(7)).
			Return(&domain.Comment{ID: 7, PostID: 10, ParentID: int64p(5)}, nil)

		c, err := svc.AddComment(context.Background(), 1, service.CommentCreateInput{
			PostID:   10,
			Content:  "me too",
			ParentID: int64p(6),
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(5), *c.ParentID)
	})

	t.Run("ParentFromOtherPostRejected", func(t *testing.T) {
		svc, posts, _, comments, _, _ := newPostService()
		posts.On("GetByID", mock.Anything, int64(10), (*int64)(nil)).
			Return(&domain.Post{ID: 10}, nil)
		comments.On("GetByID", mock.Anything, int64(6)).
			Return(&domain.Comment{ID: 6, PostID: 99}, nil)

		c, err := svc.AddComment(context.Background(), 1, service.CommentCreateInput{
			PostID:   10,
			Content:  "hello",
			ParentID: int64p(6),
		})
		assert.Nil(t, c)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("EmptyContentRejected", func(t *testing.T) {
		svc, _, _, _, _, _ := newPostService()

		c, err := svc.AddComment(context.Background(), 1, service.CommentCreateInput{
			PostID:  10,
			Content: "  ",
		})
		assert.Nil(t, c)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCreateDonation(t *testing.T) {
	t.Run("NonPositiveAmountRejected", func(t *testing.T) {
		svc, _, _, _, _, _ := newPostService()

		d, err := svc.CreateDonation(context.Background(), 1, service.DonationCreateInput{Amount: 0})
		assert.Nil(t, d)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Success", func(t *testing.T) {
		svc, posts, _, _, donations, _ := newPostService()
		posts.On("GetByID", mock.Anything, int64(10), (*int64)(nil)).
			Return(&domain.Post{ID: 10}, nil)
		donations.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Donation) bool {
			return d.Amount == 250 && d.VerificationStatus == domain.VerificationPending
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Donation).ID = 3
		}).Return(nil)
		donations.On("GetByID", mock.Anything, int64(3)).
			Return(&domain.Donation{ID: 3, Amount: 250}, nil)

		d, err := svc.CreateDonation(context.Background(), 1, service.DonationCreateInput{
			PostID: int64p(10),
			Amount: 250,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(3), d.ID)
	})
}

func TestUpdateDonation(t *testing.T) {
	t.Run("LockedOnceUnderVerification", func(t *testing.T) {
		svc, _, _, _, donations, _ := newPostService()
		donations.On("GetByID", mock.Anything, int64(3)).
			Return(&domain.Donation{ID: 3, UserID: 1, VerificationStatus: domain.VerificationOngoing}, nil)

		_, err := svc.UpdateDonation(context.Background(), 3, 1, domain.DonationUpdate{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("NotOwner", func(t *testing.T) {
		svc, _, _, _, donations, _ := newPostService()
		donations.On("GetByID", mock.Anything, int64(3)).
			Return(&domain.Donation{ID: 3, UserID: 2, VerificationStatus: domain.VerificationPending}, nil)

		_, err := svc.UpdateDonation(context.Background(), 3, 1, domain.DonationUpdate{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
