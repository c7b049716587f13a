package service

import (
	"context"
	"time"

	"notecards/internal/logger"
	"notecards/internal/repository"
)

// DefaultSweepInterval is used when Run is given a non-positive tick.
const DefaultSweepInterval = 10 * time.Minute

// SessionSweeperService deletes expired sessions on a fixed tick.
type SessionSweeperService struct {
	sessions repository.SessionRepo
	log      *logger.Logger
}

func NewSessionSweeper(sessions repository.SessionRepo, log *logger.Logger) *SessionSweeperService {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionSweeperService{sessions: sessions, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SessionSweeperService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultSweepInterval
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now)
		}
	}
}

func (s *SessionSweeperService) sweep(ctx context.Context, now time.Time) int64 {
	n, err := s.sessions.DeleteExpired(ctx, now.UTC())
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warnw("session_sweep_failed", "err", err)
		}
		return 0
	}
	if n > 0 {
		s.log.Debugw("session_sweep", "deleted", n)
	}
	return n
}
