package service

import (
	"errors"
	"sync"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
)

// DefaultSessionTTL is how long a browser session lives without re-login.
const DefaultSessionTTL = 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	session   *domain.ClientSession
	expiresAt time.Time
}

// SessionService tracks per-client session state machines, keyed by the
// SHA-256 fingerprint of the opaque cookie token. The raw token only ever
// lives in the client's cookie.
type SessionService struct {
	TTL time.Duration

	// Now is injectable for tests.
	Now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewSessionService() *SessionService {
	return &SessionService{
		TTL:      DefaultSessionTTL,
		Now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Create mints a new anonymous session and returns the raw token to set as
// the cookie value.
func (s *SessionService) Create() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[cryptox.FingerprintToken(token)] = &sessionEntry{
		session:   &domain.ClientSession{},
		expiresAt: s.Now().Add(s.TTL),
	}
	return token, nil
}

// Snapshot resolves a token to the session's current state. Unknown and
// expired tokens both read as not found.
func (s *SessionService) Snapshot(token string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[cryptox.FingerprintToken(token)]
	if !ok || s.Now().After(entry.expiresAt) {
		return domain.Snapshot{}, ErrSessionNotFound
	}
	return entry.session.Current(), nil
}

// Update applies fn to the session's state machine under the write lock, so
// the guard-relevant transition is atomic with respect to concurrent reads.
func (s *SessionService) Update(token string, fn func(*domain.ClientSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[cryptox.FingerprintToken(token)]
	if !ok || s.Now().After(entry.expiresAt) {
		return ErrSessionNotFound
	}
	return fn(entry.session)
}

// Destroy removes the session entirely. Destroying an unknown token is a
// no-op.
func (s *SessionService) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, cryptox.FingerprintToken(token))
}

// DeleteExpired sweeps out sessions past their TTL and reports how many were
// removed.
func (s *SessionService) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}
