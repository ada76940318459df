package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
)

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	svc := NewSessionService()

	token, err := svc.Create()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	snap, err := svc.Snapshot(token)
	require.NoError(t, err)
	require.Equal(t, domain.Anonymous, snap.State)

	alice := domain.Identity{UserID: "u1", Username: "alice", Role: domain.RoleUser}
	require.NoError(t, svc.Update(token, func(s *domain.ClientSession) error {
		s.BeginPendingFactor(alice)
		return nil
	}))

	snap, err = svc.Snapshot(token)
	require.NoError(t, err)
	require.True(t, snap.IsPendingFactor())
	require.Equal(t, alice, snap.Identity)

	require.NoError(t, svc.Update(token, func(s *domain.ClientSession) error {
		return s.CompleteAuthentication()
	}))

	snap, err = svc.Snapshot(token)
	require.NoError(t, err)
	require.True(t, snap.IsAuthenticated())

	svc.Destroy(token)
	_, err = svc.Snapshot(token)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionUnknownToken(t *testing.T) {
	t.Parallel()

	svc := NewSessionService()

	_, err := svc.Snapshot("bogus")
	require.ErrorIs(t, err, ErrSessionNotFound)

	err = svc.Update("bogus", func(*domain.ClientSession) error { return nil })
	require.ErrorIs(t, err, ErrSessionNotFound)

	// Destroying an unknown token is a no-op.
	svc.Destroy("bogus")
}

func TestSessionExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewSessionService()
	svc.Now = func() time.Time { return now }

	token, err := svc.Create()
	require.NoError(t, err)

	now = now.Add(DefaultSessionTTL + time.Second)

	_, err = svc.Snapshot(token)
	require.ErrorIs(t, err, ErrSessionNotFound)

	removed := svc.DeleteExpired(now)
	require.Equal(t, 1, removed)
	require.Zero(t, svc.DeleteExpired(now))
}
