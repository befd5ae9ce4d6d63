package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"spendcycle/internal/calendar"
	"spendcycle/internal/models"
	"spendcycle/internal/services"
)

// fakeSweeper counts RunSweep calls and can block mid-sweep.
type fakeSweeper struct {
	runs   atomic.Int32
	block  chan struct{}
	result services.SweepResult
}

func (f *fakeSweeper) RunSweep() services.SweepResult {
	f.runs.Add(1)
	if f.block != nil {
		<-f.block
	}
	return f.result
}

func (f *fakeSweeper) ReclassifyAll(calendar.Resolver, time.Time) ([]models.BudgetPeriod, int, error) {
	return nil, 0, nil
}

func (f *fakeSweeper) ContinueCycles(calendar.Resolver, time.Time, []models.BudgetPeriod) (int, int, int, error) {
	return 0, 0, 0, nil
}

func (f *fakeSweeper) ReconcileOrphans(calendar.Resolver) (int, error) {
	return 0, nil
}

var _ services.SweepServicer = (*fakeSweeper)(nil)

func TestStartRunsImmediateSweep(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := New(sweeper, time.Hour)

	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for sweeper.runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected an immediate sweep after Start")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := New(&fakeSweeper{}, time.Hour)
	s.Start()
	s.Stop()
	s.Stop() // second call must not panic or block
}

func TestStartTwiceKeepsOneLoop(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := New(sweeper, time.Hour)

	s.Start()
	s.Start()
	s.Stop()

	if got := sweeper.runs.Load(); got != 1 {
		t.Errorf("expected exactly 1 immediate sweep, got %d", got)
	}
}

func TestRestartAfterStop(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := New(sweeper, time.Hour)

	s.Start()
	s.Stop()
	if got := sweeper.runs.Load(); got != 1 {
		t.Fatalf("expected 1 sweep before restart, got %d", got)
	}

	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for sweeper.runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("expected a restarted scheduler to sweep again")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRunNow(t *testing.T) {
	sweeper := &fakeSweeper{result: services.SweepResult{Continued: 1}}
	s := New(sweeper, time.Hour)

	result := s.RunNow()
	if result.Continued != 1 {
		t.Errorf("expected sweep result passed through, got %+v", result)
	}
	if sweeper.runs.Load() != 1 {
		t.Errorf("expected 1 run, got %d", sweeper.runs.Load())
	}
}

func TestRunNowSkipsWhileSweepInFlight(t *testing.T) {
	sweeper := &fakeSweeper{
		result: services.SweepResult{Continued: 1},
		block:  make(chan struct{}),
	}
	s := New(sweeper, time.Hour)

	done := make(chan services.SweepResult)
	go func() {
		done <- s.RunNow()
	}()
	// Wait for the goroutine to enter the sweep and block.
	for sweeper.runs.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	skipped := s.RunNow()
	if skipped != (services.SweepResult{}) {
		t.Errorf("expected overlapping RunNow to be skipped, got %+v", skipped)
	}

	close(sweeper.block)
	first := <-done
	if first.Continued != 1 {
		t.Errorf("expected blocked sweep to finish with its result, got %+v", first)
	}
	if sweeper.runs.Load() != 1 {
		t.Errorf("expected exactly 1 run, got %d", sweeper.runs.Load())
	}
}

func TestNonPositiveIntervalDefaults(t *testing.T) {
	s := New(&fakeSweeper{}, 0)
	if s.interval != time.Hour {
		t.Errorf("expected 1h default, got %s", s.interval)
	}
}
