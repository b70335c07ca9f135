// Package status polls the recommendation service's status endpoints on a
// fixed interval and merges the results into one snapshot the dashboard
// reads. Sources fail independently: a bad health check on one tick leaves
// the previous health data in place while sync and worker data still update.
package status

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/recarr/api"
)

// DefaultInterval is the tick interval used when none is configured
const DefaultInterval = 10 * time.Second

// API is the slice of the service client the poller needs
type API interface {
	GetSyncStatus(ctx context.Context) (*api.SyncStatus, error)
	GetHealthStatus(ctx context.Context) (*api.HealthStatus, error)
	GetWorkerStatus(ctx context.Context) (map[string]api.WorkerStatus, error)
}

// Poller owns one timer with an explicit start/stop lifecycle. It ticks
// once immediately on start and then on every interval until stopped.
type Poller struct {
	api      API
	interval time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	snap    Snapshot
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPoller creates a poller; it does not start ticking until Start
func NewPoller(client API, interval time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		api:      client,
		interval: interval,
		logger:   logger,
	}
}

// Start begins polling. The first tick runs immediately. Calling Start on a
// running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	pctx, cancel := context.WithCancel(ctx)
	p.running = true
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go func() {
		defer close(done)
		p.tick(pctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-pctx.Done():
				return
			case <-ticker.C:
				p.tick(pctx)
			}
		}
	}()
}

// Stop cancels polling and waits for the loop to exit. Queries still in
// flight are cancelled and their results discarded; no tick runs after Stop
// returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
}

// Snapshot returns a copy of the current merged status
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.clone()
}

// tick queries every source concurrently and merges whatever succeeded.
// Failures are logged and otherwise ignored; the sibling results still
// land. A plain errgroup is used on purpose: errgroup.WithContext would
// cancel the remaining sources on the first failure.
func (p *Poller) tick(ctx context.Context) {
	var (
		syncStatus *api.SyncStatus
		health     *api.HealthStatus
		workers    map[string]api.WorkerStatus
	)

	var g errgroup.Group
	g.Go(func() error {
		s, err := p.api.GetSyncStatus(ctx)
		if err != nil {
			p.logger.Debug().Err(err).Msg("Sync status query failed, keeping previous data")
			return nil
		}
		syncStatus = s
		return nil
	})
	g.Go(func() error {
		h, err := p.api.GetHealthStatus(ctx)
		if err != nil {
			p.logger.Debug().Err(err).Msg("Health status query failed, keeping previous data")
			return nil
		}
		health = h
		return nil
	})
	g.Go(func() error {
		w, err := p.api.GetWorkerStatus(ctx)
		if err != nil {
			p.logger.Debug().Err(err).Msg("Worker status query failed, keeping previous data")
			return nil
		}
		workers = w
		return nil
	})
	_ = g.Wait()

	// Results from a tick that outlived Stop are discarded.
	if ctx.Err() != nil {
		return
	}

	now := time.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	if syncStatus != nil {
		p.snap.Sync = syncStatus
		p.snap.SyncUpdated = now
	}
	if health != nil {
		p.snap.Health = health
		p.snap.HealthUpdated = now
	}
	if workers != nil {
		merged := make(map[WorkerKind]api.WorkerStatus, len(workers))
		for label, w := range workers {
			merged[ParseWorkerKind(label)] = w
		}
		p.snap.Workers = merged
		p.snap.WorkersUpdated = now
	}
	p.snap.Busy = p.snap.deriveBusy()
}
