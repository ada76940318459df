package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/store"
)

// DefaultSweepInterval is how often expired challenges and sessions are
// swept out.
const DefaultSweepInterval = 60 * time.Second

// HousekeepingService periodically removes expired one-time-code challenges
// and browser sessions so abandoned logins do not accumulate.
type HousekeepingService struct {
	Store    store.Store
	Sessions *SessionService
	Logger   *slog.Logger
	Interval time.Duration

	// Now is injectable for tests.
	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 60 seconds.
func NewHousekeepingService(st store.Store, sessions *SessionService, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &HousekeepingService{
		Store:    st,
		Sessions: sessions,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweeper. Non-blocking; call Stop to shut it
// down gracefully.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the sweeper, blocking until any in-progress sweep ends.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup removes expired records. Each sweep is independent; a failure in
// one does not stop the other.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := s.Now()

	challenges, err := s.Store.Challenges().DeleteExpiredChallenges(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired challenges", "error", err)
	}

	sessions := s.Sessions.DeleteExpired(now)

	if challenges > 0 || sessions > 0 {
		s.Logger.Info("housekeeping sweep completed",
			"expired_challenges", challenges,
			"expired_sessions", sessions,
		)
	}
}
