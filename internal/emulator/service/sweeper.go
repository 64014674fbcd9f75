package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store"
)

// DefaultSweepInterval is used when Sweeper.Interval is not positive.
const DefaultSweepInterval = time.Hour

// Sweeper removes refresh tokens that were rotated, revoked or expired and
// OOB codes past their deadline. Neither is reachable by clients any more.
type Sweeper struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
}

// Run sweeps once immediately and then every Interval until ctx is done.
// Failed sweeps are logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	s.Logger.Info("sweeper started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.Logger.Error("sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.Logger.Info("sweeper stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep runs one pass. Both deletions are attempted even if one fails.
func (s *Sweeper) Sweep(ctx context.Context) error {
	start := time.Now()

	var errs []error
	if err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx); err != nil {
		errs = append(errs, fmt.Errorf("refresh tokens: %w", err))
	}
	if err := s.Store.OobCodes().DeleteExpiredOobCodes(ctx); err != nil {
		errs = append(errs, fmt.Errorf("oob codes: %w", err))
	}

	s.Logger.Debug("sweep finished", "duration_ms", time.Since(start).Milliseconds(), "failures", len(errs))
	return errors.Join(errs...)
}
