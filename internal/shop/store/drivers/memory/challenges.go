package memory

import (
	"context"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
	"github.com/aussiebroadwan/storefront/internal/shop/store"
)

type challengesRepo Store

func (r *challengesRepo) PutChallenge(_ context.Context, ch domain.PendingChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Replaces any prior challenge for the same user.
	r.challenges[ch.UserID] = ch
	return nil
}

func (r *challengesRepo) GetChallenge(_ context.Context, userID string) (domain.PendingChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.challenges[userID]
	if !ok {
		return domain.PendingChallenge{}, store.ErrNotFound
	}
	return ch, nil
}

func (r *challengesRepo) IncrementChallengeAttempts(_ context.Context, userID string) (domain.PendingChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.challenges[userID]
	if !ok {
		return domain.PendingChallenge{}, store.ErrNotFound
	}
	ch.Attempts++
	r.challenges[userID] = ch
	return ch, nil
}

func (r *challengesRepo) DeleteChallenge(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.challenges, userID)
	return nil
}

func (r *challengesRepo) DeleteExpiredChallenges(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for userID, ch := range r.challenges {
		if now.After(ch.ExpiresAt) {
			delete(r.challenges, userID)
			removed++
		}
	}
	return removed, nil
}
