package identity

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultRefreshMargin is how long before expiry the ID token is refreshed.
const DefaultRefreshMargin = 5 * time.Minute

// minRefreshInterval spaces consecutive scheduled refreshes when the backend
// issues tokens shorter-lived than the margin.
const minRefreshInterval = time.Second

// RefreshState is the state of a session's refresh scheduler.
type RefreshState int

const (
	RefreshIdle RefreshState = iota
	RefreshArmed
	RefreshRefreshing
	RefreshStopped
	RefreshClosed
)

func (s RefreshState) String() string {
	switch s {
	case RefreshArmed:
		return "armed"
	case RefreshRefreshing:
		return "refreshing"
	case RefreshStopped:
		return "stopped"
	case RefreshClosed:
		return "closed"
	default:
		return "idle"
	}
}

// refresher refreshes a session's token shortly before it expires. It stops
// for good on the first failure, including a refresh that returns a token
// with no lifetime; callers learn about it through the OnRefreshError
// callback or Session.RefreshDone.
type refresher struct {
	session *Session
	onError func(error)

	mu    sync.Mutex
	state RefreshState
	err   error

	// Internal channels for lifecycle management
	resetCh  chan struct{}
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newRefresher(s *Session, onError func(error)) *refresher {
	return &refresher{
		session: s,
		onError: onError,
		resetCh: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start launches the background loop. It does not block.
func (r *refresher) start() {
	go r.run()
}

// stop cancels the timer without waiting for the loop to exit, so it is
// safe to call from the OnRefreshError callback.
func (r *refresher) stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
	r.mu.Lock()
	r.state = RefreshClosed
	r.mu.Unlock()
}

// reset makes an armed loop recompute its deadline from the current expiry.
func (r *refresher) reset() {
	select {
	case r.resetCh <- struct{}{}:
	default:
	}
}

func (r *refresher) State() RefreshState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *refresher) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *refresher) setState(state RefreshState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RefreshClosed {
		return
	}
	r.state = state
}

// run is the main background worker loop. done is closed only after the
// error callback has returned.
func (r *refresher) run() {
	defer close(r.done)

	err := r.loop()
	if err == nil {
		r.setState(RefreshClosed)
		r.session.logger.Debug("refresh scheduler closed")
		return
	}

	r.mu.Lock()
	r.err = err
	if r.state != RefreshClosed {
		r.state = RefreshStopped
	}
	r.mu.Unlock()

	r.session.logger.Error("refresh scheduler stopped", "err", err)
	if r.onError != nil {
		r.onError(err)
	}
}

// loop returns nil when the session is closed and the refresh error
// otherwise.
func (r *refresher) loop() error {
	var floor time.Duration
	for {
		wait := max(r.session.nextRefreshIn(), floor)
		floor = 0

		r.setState(RefreshArmed)
		r.session.logger.Debug("refresh scheduled", "in", wait)

		timer := time.NewTimer(wait)
		select {
		case <-r.stopCh:
			timer.Stop()
			return nil
		case <-r.resetCh:
			timer.Stop()
			continue
		case <-timer.C:
		}

		r.setState(RefreshRefreshing)
		select {
		case <-r.stopCh:
			return nil
		case res := <-r.session.refreshChan(context.Background(), TriggerScheduled):
			if errors.Is(res.Err, ErrSessionClosed) {
				return nil
			}
			if res.Err != nil {
				return res.Err
			}
		}
		if r.session.lifetime() <= 0 {
			return ErrInvalidTokenLifetime
		}

		// The refresh we just waited for re-armed us; the deadline is
		// recomputed at the top of the loop anyway.
		select {
		case <-r.resetCh:
		default:
		}
		floor = minRefreshInterval
	}
}
