package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPKeeper stores one-time codes keyed by email and purpose.
type OTPKeeper interface {
	Put(ctx context.Context, purpose, email, code string) error
	// Verify consumes the code on a match so it cannot be replayed.
	Verify(ctx context.Context, purpose, email, code string) (bool, error)
}

// OTPStore keeps one-time codes in Redis with a TTL.
type OTPStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ OTPKeeper = (*OTPStore)(nil)

func NewOTPStore(rdb *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{rdb: rdb, ttl: ttl}
}

func otpKey(purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

func (s *OTPStore) Put(ctx context.Context, purpose, email, code string) error {
	if err := s.rdb.Set(ctx, otpKey(purpose, email), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (s *OTPStore) Verify(ctx context.Context, purpose, email, code string) (bool, error) {
	key := otpKey(purpose, email)
	stored, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read otp: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return true, nil
}

// GenerateOTP returns a random six-digit code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
