package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helplink/internal/security"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := security.NewTokenService("test-secret", time.Hour)

	token, err := svc.CreateForUser(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := svc.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := security.NewTokenService("secret-a", time.Hour)
	verifier := security.NewTokenService("secret-b", time.Hour)

	token, err := issuer.CreateForUser(42)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	svc := security.NewTokenService("test-secret", -time.Minute)

	token, err := svc.CreateForUser(42)
	require.NoError(t, err)

	_, err = svc.Parse(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	svc := security.NewTokenService("test-secret", time.Hour)

	_, err := svc.Parse("not.a.token")
	assert.Error(t, err)

	_, err = svc.Parse("")
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := security.NewPasswordHasher(4)

	hashed, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hashed)

	assert.NoError(t, h.Verify("hunter2", hashed))
	assert.Error(t, h.Verify("wrong", hashed))
}

func TestPasswordHashesDiffer(t *testing.T) {
	h := security.NewPasswordHasher(4)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	// bcrypt salts every hash
	assert.NotEqual(t, a, b)
}
