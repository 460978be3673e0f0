package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"helplink/internal/domain"
	"helplink/internal/security"
	"helplink/internal/service"
)

func newAuthService(users *MockUserRepo, otps *MockOTPKeeper, mail *MockMailer) *service.AuthService {
	tokens := security.NewTokenService("secret", time.Hour)
	hasher := security.NewPasswordHasher(4) // low cost for tests
	return service.NewAuthService(users, tokens, hasher, otps, mail)
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockOTPKeeper), new(MockMailer))

		users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "ana@example.com" &&
				u.AccountType == domain.AccountBeneficiary &&
				u.Badge == domain.BadgeUnderReview &&
				u.PasswordHash != "secret123"
		})).Return(nil)

		user, err := svc.Register(context.Background(), service.RegisterInput{
			FirstName: "Ana",
			LastName:  "Reyes",
			Email:     "Ana@Example.com",
			Password:  "secret123",
		})
		assert.NoError(t, err)
		assert.Equal(t, "ana@example.com", user.Email)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockOTPKeeper), new(MockMailer))

		users.On("GetByEmail", mock.Anything, "taken@example.com").
			Return(&domain.User{ID: 1, Email: "taken@example.com"}, nil)

		user, err := svc.Register(context.Background(), service.RegisterInput{
			FirstName: "Ana",
			LastName:  "Reyes",
			Email:     "taken@example.com",
			Password:  "secret123",
		})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("MissingFields", func(t *testing.T) {
		svc := newAuthService(new(MockUserRepo), new(MockOTPKeeper), new(MockMailer))

		user, err := svc.Register(context.Background(), service.RegisterInput{Email: "x@example.com"})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestLogin(t *testing.T) {
	hasher := security.NewPasswordHasher(4)
	hashed, _ := hasher.Hash("secret123")

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockOTPKeeper), new(MockMailer))

		users.On("GetByEmail", mock.Anything, "ana@example.com").
			Return(&domain.User{ID: 5, Email: "ana@example.com", PasswordHash: hashed}, nil)
		users.On("UpdateLastLogon", mock.Anything, int64(5)).Return(nil)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "ana@example.com",
			Password: "secret123",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockOTPKeeper), new(MockMailer))

		users.On("GetByEmail", mock.Anything, "ana@example.com").
			Return(&domain.User{ID: 5, Email: "ana@example.com", PasswordHash: hashed}, nil)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "ana@example.com",
			Password: "wrong",
		})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockOTPKeeper), new(MockMailer))

		users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("SendsCodeToKnownAccount", func(t *testing.T) {
		users := new(MockUserRepo)
		otps := new(MockOTPKeeper)
		mail := new(MockMailer)
		svc := newAuthService(users, otps, mail)

		users.On("GetByEmail", mock.Anything, "ana@example.com").
			Return(&domain.User{ID: 5, Email: "ana@example.com", FirstName: "Ana"}, nil)
		otps.On("Put", mock.Anything, "password_reset", "ana@example.com", mock.Anything).Return(nil)
		mail.On("SendOTP", "ana@example.com", "Ana", mock.Anything, "password_reset").Return(nil)

		err := svc.ForgotPassword(context.Background(), "ana@example.com")
		assert.NoError(t, err)
		otps.AssertExpectations(t)
		mail.AssertExpectations(t)
	})

	t.Run("SilentForUnknownAccount", func(t *testing.T) {
		users := new(MockUserRepo)
		otps := new(MockOTPKeeper)
		mail := new(MockMailer)
		svc := newAuthService(users, otps, mail)

		users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

		err := svc.ForgotPassword(context.Background(), "nobody@example.com")
		assert.NoError(t, err)
		otps.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mail.AssertNotCalled(t, "SendOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("InvalidCode", func(t *testing.T) {
		users := new(MockUserRepo)
		otps := new(MockOTPKeeper)
		svc := newAuthService(users, otps, new(MockMailer))

		otps.On("Verify", mock.Anything, "password_reset", "ana@example.com", "000000").
			Return(false, nil)

		err := svc.ResetPassword(context.Background(), "ana@example.com", "000000", "newpass")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		otps := new(MockOTPKeeper)
		svc := newAuthService(users, otps, new(MockMailer))

		otps.On("Verify", mock.Anything, "password_reset", "ana@example.com", "123456").
			Return(true, nil)
		users.On("GetByEmail", mock.Anything, "ana@example.com").
			Return(&domain.User{ID: 5, Email: "ana@example.com"}, nil)
		users.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(p domain.UserUpdate) bool {
			return p.PasswordHash != nil && *p.PasswordHash != "newpass"
		})).Return(nil)

		err := svc.ResetPassword(context.Background(), "ana@example.com", "123456", "newpass")
		assert.NoError(t, err)
		users.AssertExpectations(t)
	})
}

func TestChangePassword(t *testing.T) {
	hasher := security.NewPasswordHasher(4)
	hashed, _ := hasher.Hash("oldpass")

	t.Run("WrongOldPassword", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockOTPKeeper), new(MockMailer))

		users.On("GetByID", mock.Anything, int64(5)).
			Return(&domain.User{ID: 5, PasswordHash: hashed}, nil)

		err := svc.ChangePassword(context.Background(), 5, "wrong", "newpass")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockOTPKeeper), new(MockMailer))

		users.On("GetByID", mock.Anything, int64(5)).
			Return(&domain.User{ID: 5, PasswordHash: hashed}, nil)
		users.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(p domain.UserUpdate) bool {
			return p.PasswordHash != nil
		})).Return(nil)

		err := svc.ChangePassword(context.Background(), 5, "oldpass", "newpass")
		assert.NoError(t, err)
	})
}
