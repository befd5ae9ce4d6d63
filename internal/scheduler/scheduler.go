// Package scheduler runs the periodic sweep that drives the period engine:
// reclassification, continuation/transition, recovery, and orphan
// reconciliation. One fixed-interval loop, no overlap: if a sweep is still
// running when the next tick fires, that tick is skipped.
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"spendcycle/internal/logger"
	"spendcycle/internal/services"
)

// Scheduler drives the sweep service on a fixed interval.
type Scheduler struct {
	sweeps   services.SweepServicer
	interval time.Duration

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	running atomic.Bool
}

// New creates a Scheduler. A non-positive interval falls back to one hour.
func New(sweeps services.SweepServicer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		sweeps:   sweeps,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the sweep loop on its own goroutine, independent of any
// request handling. The first sweep runs immediately. A stopped scheduler
// can be started again.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true
	s.ticker = time.NewTicker(s.interval)
	// Stop closed the previous channel; the loop needs a fresh one.
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run()

	logger.Get().Infow("sweep scheduler started", "interval", s.interval.String())
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	logger.Get().Info("sweep scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.tick()

	for {
		select {
		case <-s.ticker.C:
			s.tick()
		case <-s.stop:
			return
		}
	}
}

// tick runs one sweep unless the previous one is still in flight.
func (s *Scheduler) tick() {
	if !s.running.CompareAndSwap(false, true) {
		logger.Get().Warn("sweep still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	s.sweeps.RunSweep()
}

// RunNow triggers an immediate sweep, used by the operational endpoints and
// tests. It respects the same re-entrancy guard as scheduled ticks.
func (s *Scheduler) RunNow() services.SweepResult {
	if !s.running.CompareAndSwap(false, true) {
		return services.SweepResult{}
	}
	defer s.running.Store(false)

	return s.sweeps.RunSweep()
}
