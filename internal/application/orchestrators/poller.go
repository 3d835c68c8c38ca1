package orchestrators

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"venue/internal/domain/registration"
)

// RegistrationStoreForPoll reads the recency feed the poller caches.
type RegistrationStoreForPoll interface {
	ListLatest(ctx context.Context, limit, offset int) ([]registration.Registration, error)
}

// RegistrationPoller periodically refreshes a snapshot of the latest
// registrations so dashboards can poll cheaply. It has a single owner:
// Start begins the refresh loop, Stop ends it and releases the ticker. A
// stopped poller can not be restarted; construct a new one.
type RegistrationPoller struct {
	store    RegistrationStoreForPoll
	interval time.Duration
	limit    int

	snapshot atomic.Value // []registration.Registration

	mu      sync.Mutex
	stopCh  chan struct{}
	stopped bool
}

// DefaultPollInterval is how often the snapshot refreshes when the caller
// does not choose an interval.
const DefaultPollInterval = 30 * time.Second

// NewRegistrationPoller creates a poller; it does not start refreshing.
// PRE: store is non-nil; interval > 0; limit > 0
// POST: poller holds an empty snapshot until the first refresh
func NewRegistrationPoller(store RegistrationStoreForPoll, interval time.Duration, limit int) *RegistrationPoller {
	p := &RegistrationPoller{
		store:    store,
		interval: interval,
		limit:    limit,
	}
	p.snapshot.Store([]registration.Registration(nil))
	return p
}

// Start launches the refresh loop. The first refresh happens immediately
// so callers never read a cold snapshot for a full interval.
// PRE: Stop has not been called
// POST: a single goroutine owns the ticker until Stop
func (p *RegistrationPoller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopCh != nil || p.stopped {
		return
	}
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh

	go func() {
		p.refresh()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.refresh()
			case <-stopCh:
				slog.Info("registration_poller_stopped")
				return
			}
		}
	}()
}

// Stop ends the refresh loop. Safe to call more than once.
// POST: the ticker goroutine exits; Latest keeps serving the last snapshot
func (p *RegistrationPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopCh == nil || p.stopped {
		p.stopped = true
		return
	}
	close(p.stopCh)
	p.stopped = true
}

// Latest returns the most recent snapshot. Never blocks.
// POST: returned slice must not be mutated by the caller
func (p *RegistrationPoller) Latest() []registration.Registration {
	regs, _ := p.snapshot.Load().([]registration.Registration)
	return regs
}

// Refresh forces an immediate snapshot update, for callers that just
// mutated a registration and want the feed current.
func (p *RegistrationPoller) Refresh() {
	p.refresh()
}

func (p *RegistrationPoller) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	regs, err := p.store.ListLatest(ctx, p.limit, 0)
	if err != nil {
		slog.Error("registration_poll_failed", "error", err.Error())
		return
	}
	p.snapshot.Store(regs)
}
