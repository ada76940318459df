package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/storefront/internal/shop/store/drivers/memory"
)

func TestHousekeepingCleanup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.NewStore()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	sessions := NewSessionService()
	sessions.Now = func() time.Time { return now }

	twofactor := NewTwoFactorService(st, &captureSender{})
	twofactor.Now = func() time.Time { return now }

	hk := NewHousekeepingService(st, sessions, slog.Default(), time.Hour)
	hk.Now = func() time.Time { return now }

	require.NoError(t, twofactor.Issue(ctx, "u1", "a@x.com"))
	_, err := sessions.Create()
	require.NoError(t, err)

	// Nothing expired yet.
	hk.cleanup()
	_, err = twofactor.RemainingSeconds(ctx, "u1")
	require.NoError(t, err)

	now = now.Add(DefaultSessionTTL + time.Minute)
	hk.cleanup()

	_, err = twofactor.RemainingSeconds(ctx, "u1")
	require.ErrorIs(t, err, ErrNoChallenge)
	require.Zero(t, sessions.DeleteExpired(now))
}

func TestHousekeepingStartStop(t *testing.T) {
	t.Parallel()

	hk := NewHousekeepingService(memory.NewStore(), NewSessionService(), slog.Default(), time.Hour)
	hk.Start()
	hk.Stop()
}
