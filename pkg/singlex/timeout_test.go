package singlex_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/ensamble/pkg/schedx"
	"github.com/Abraxas-365/ensamble/pkg/singlex"
)

func newTestScheduler(t *testing.T) *schedx.Scheduler {
	t.Helper()
	s := schedx.New(1)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestWithTimeout_TimeoutWins(t *testing.T) {
	sched := newTestScheduler(t)
	source := singlex.Never[int]()

	start := time.Now()
	_, err := singlex.WithTimeout(source, sched, 50*time.Millisecond).Await(context.Background())
	elapsed := time.Since(start)

	var te *singlex.TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if te.Duration != 50*time.Millisecond {
		t.Fatalf("TimeoutError should carry the configured duration, got %s", te.Duration)
	}
	if elapsed < 40*time.Millisecond {
		t.Fatalf("timed out too early: %s", elapsed)
	}

	// The never-completing source receives the cancellation.
	select {
	case <-source.Done():
	case <-time.After(time.Second):
		t.Fatal("source was not cancelled after the deadline")
	}
	if source.State() != singlex.StateCancelled {
		t.Fatalf("expected cancelled source, got %s", source.State())
	}
}

func TestWithTimeout_SourceWins(t *testing.T) {
	sched := newTestScheduler(t)

	v, err := singlex.WithTimeout(singlex.Succeeded(99), sched, 50*time.Millisecond).
		Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 99 {
		t.Fatalf("expected 99, got %d", v)
	}

	// No timeout may surface after the source already won.
	time.Sleep(80 * time.Millisecond)
}

func TestWithTimeout_SourceFailurePropagates(t *testing.T) {
	sched := newTestScheduler(t)
	boom := errors.New("upstream boom")

	_, err := singlex.WithTimeout(singlex.Failed[int](boom), sched, 50*time.Millisecond).
		Await(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if singlex.IsTimeout(err) {
		t.Fatal("an upstream failure must not be reported as a timeout")
	}
}

func TestWithTimeout_CancelCancelsSource(t *testing.T) {
	sched := newTestScheduler(t)
	source := singlex.Never[int]()

	bounded := singlex.WithTimeout(source, sched, time.Hour)
	bounded.Cancel()

	select {
	case <-source.Done():
	case <-time.After(time.Second):
		t.Fatal("cancelling the bounded single did not cancel the source")
	}
}

func TestIsTimeout(t *testing.T) {
	if !singlex.IsTimeout(&singlex.TimeoutError{Duration: time.Second}) {
		t.Fatal("IsTimeout should recognize TimeoutError")
	}
	if singlex.IsTimeout(errors.New("other")) {
		t.Fatal("IsTimeout must not match arbitrary errors")
	}
	if singlex.IsTimeout(singlex.ErrCancelled) {
		t.Fatal("cancellation is not a timeout")
	}
}
