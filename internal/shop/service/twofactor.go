package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
	"github.com/aussiebroadwan/storefront/internal/shop/store"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
)

const (
	// DefaultChallengeTTL is how long an issued code stays valid.
	DefaultChallengeTTL = 10 * time.Minute

	// DefaultMaxAttempts is the number of failed verifications allowed
	// before the challenge is destroyed.
	DefaultMaxAttempts = 3
)

var (
	// ErrNoChallenge means no live challenge exists for the user, either
	// because none was issued or a prior one was consumed or swept.
	ErrNoChallenge = errors.New("no challenge found")

	// ErrChallengeExpired means the code's validity window has passed. The
	// challenge is destroyed when this is returned.
	ErrChallengeExpired = errors.New("expired")

	// ErrTooManyAttempts means the failure budget is exhausted. The
	// challenge is destroyed when this is returned.
	ErrTooManyAttempts = errors.New("too many attempts")

	// ErrInvalidCode means the submitted code did not match. The challenge
	// survives so remaining attempts can be used.
	ErrInvalidCode = errors.New("invalid code")
)

// CodeSender delivers a one-time code to the user out of band. The HTTP
// layer never sees the code itself.
type CodeSender interface {
	SendCode(ctx context.Context, email, code string) error
}

// LogSender is the development CodeSender: it writes the code to the log
// instead of delivering it anywhere.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) SendCode(_ context.Context, email, code string) error {
	s.Logger.Info("one_time_code_issued", "email", email, "code", code)
	return nil
}

// TwoFactorService issues and verifies one-time codes. Codes are stored only
// as SHA-256 fingerprints.
type TwoFactorService struct {
	Store       store.Store
	Sender      CodeSender
	TTL         time.Duration
	MaxAttempts int

	// Now is injectable for tests.
	Now func() time.Time
}

func NewTwoFactorService(st store.Store, sender CodeSender) *TwoFactorService {
	return &TwoFactorService{
		Store:       st,
		Sender:      sender,
		TTL:         DefaultChallengeTTL,
		MaxAttempts: DefaultMaxAttempts,
		Now:         time.Now,
	}
}

// Issue generates a fresh 6-digit code for the user, replacing any live
// challenge, and hands the code to the sender for delivery.
func (s *TwoFactorService) Issue(ctx context.Context, userID, email string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	now := s.Now().UTC()
	ch := domain.PendingChallenge{
		UserID:    userID,
		Email:     email,
		CodeHash:  cryptox.FingerprintToken(code),
		Attempts:  0,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.TTL),
	}

	if err := s.Store.Challenges().PutChallenge(ctx, ch); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}

	if err := s.Sender.SendCode(ctx, email, code); err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	return nil
}

// Verify checks a submitted code against the user's live challenge. The
// checks run in a fixed order: existence, expiry, attempt budget, then the
// code itself. A matching code consumes the challenge.
func (s *TwoFactorService) Verify(ctx context.Context, userID, code string) error {
	ch, err := s.Store.Challenges().GetChallenge(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoChallenge
		}
		return fmt.Errorf("lookup challenge: %w", err)
	}

	if s.Now().After(ch.ExpiresAt) {
		_ = s.Store.Challenges().DeleteChallenge(ctx, userID)
		return ErrChallengeExpired
	}

	if ch.Attempts >= s.MaxAttempts {
		_ = s.Store.Challenges().DeleteChallenge(ctx, userID)
		return ErrTooManyAttempts
	}

	submitted := cryptox.FingerprintToken(code)
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(ch.CodeHash)) != 1 {
		if _, err := s.Store.Challenges().IncrementChallengeAttempts(ctx, userID); err != nil {
			return fmt.Errorf("record failed attempt: %w", err)
		}
		return ErrInvalidCode
	}

	if err := s.Store.Challenges().DeleteChallenge(ctx, userID); err != nil {
		return fmt.Errorf("consume challenge: %w", err)
	}
	return nil
}

// HasPendingChallenge reports whether a live challenge exists for the user.
// Expiry is not checked here; Verify and the housekeeping sweep own that.
func (s *TwoFactorService) HasPendingChallenge(ctx context.Context, userID string) (bool, error) {
	_, err := s.Store.Challenges().GetChallenge(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup challenge: %w", err)
	}
	return true, nil
}

// RemainingSeconds reports how long the user's live challenge stays valid.
// It returns ErrNoChallenge when none exists.
func (s *TwoFactorService) RemainingSeconds(ctx context.Context, userID string) (int, error) {
	ch, err := s.Store.Challenges().GetChallenge(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrNoChallenge
		}
		return 0, fmt.Errorf("lookup challenge: %w", err)
	}

	remaining := int(ch.ExpiresAt.Sub(s.Now()).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
