package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventease/internal/auth"
	"eventease/internal/domain"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	store := newTestStore(t)
	return NewAuthService(
		auth.NewPasswordAuthenticator(store),
		auth.NewJWTManager("test-secret", time.Hour),
	)
}

func TestAuthRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a session", func(t *testing.T) {
		svc := newAuthService(t)

		session, err := svc.Register(ctx, "alice@example.com", "alice", "correct-horse")
		require.NoError(t, err)

		assert.NotEmpty(t, session.Token)
		assert.Equal(t, "alice", session.User.Username)
		assert.Equal(t, "alice@example.com", session.User.Email)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		svc := newAuthService(t)

		_, err := svc.Register(ctx, "alice@example.com", "alice", "short")
		assert.True(t, domain.Is(err, domain.CodeValidation))
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		svc := newAuthService(t)

		_, err := svc.Register(ctx, "alice@example.com", "alice", "correct-horse")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "Alice@Example.com", "alice2", "correct-horse")
		assert.True(t, domain.Is(err, domain.CodeConflict))
	})
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, err := svc.Register(ctx, "alice@example.com", "alice", "correct-horse")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		session, err := svc.Login(ctx, "alice@example.com", "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, "alice", session.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrong-horse")
		assert.True(t, domain.Is(err, domain.CodeNotAuthorized))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@example.com", "correct-horse")
		assert.True(t, domain.Is(err, domain.CodeNotAuthorized))
	})
}
