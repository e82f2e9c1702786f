package lifex_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/ensamble/pkg/lifex"
	"github.com/Abraxas-365/ensamble/pkg/singlex"
)

// fakeService terminates when Close is called or when Terminate is invoked
// externally, mirroring a real server that can stop on its own.
type fakeService struct {
	name      string
	term      *singlex.Single[singlex.Void]
	closeOnce sync.Once
	closeErr  error
	mu        sync.Mutex
	closes    int
}

func newFakeService(name string) *fakeService {
	return &fakeService{name: name, term: singlex.New[singlex.Void]()}
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Termination() *singlex.Single[singlex.Void] { return s.term }

func (s *fakeService) Terminate() { s.term.Complete(singlex.Void{}) }

func (s *fakeService) Close() error {
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
	s.closeOnce.Do(func() {
		s.term.Complete(singlex.Void{})
	})
	return s.closeErr
}

func (s *fakeService) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func specFor(s *fakeService) lifex.ServiceSpec {
	return lifex.ServiceSpec{
		Name: s.name,
		Addr: "fake",
		Start: func(ctx context.Context) (lifex.ServiceHandle, error) {
			return s, nil
		},
	}
}

func TestRunAll_WaitsForEveryTermination(t *testing.T) {
	a := newFakeService("a")
	b := newFakeService("b")
	c := newFakeService("c")

	rs := lifex.NewResourceSet()
	coordinator := lifex.NewCoordinator(rs)

	done := make(chan error, 1)
	go func() {
		done <- coordinator.RunAll(context.Background(), []lifex.ServiceSpec{
			specFor(a), specFor(b), specFor(c),
		})
	}()

	a.Terminate()
	b.Terminate()

	select {
	case err := <-done:
		t.Fatalf("RunAll returned before the last termination: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	c.Terminate()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunAll did not return after the last termination")
	}
}

func TestRunAll_RollbackOnStartupFailure(t *testing.T) {
	first := newFakeService("first")
	bootErr := errors.New("port already in use")
	thirdStarted := false

	specs := []lifex.ServiceSpec{
		specFor(first),
		{
			Name: "second",
			Addr: "fake",
			Start: func(ctx context.Context) (lifex.ServiceHandle, error) {
				return nil, bootErr
			},
		},
		{
			Name: "third",
			Addr: "fake",
			Start: func(ctx context.Context) (lifex.ServiceHandle, error) {
				thirdStarted = true
				return newFakeService("third"), nil
			},
		},
	}

	rs := lifex.NewResourceSet()
	err := lifex.NewCoordinator(rs).RunAll(context.Background(), specs)

	var se *lifex.StartupError
	if !errors.As(err, &se) {
		t.Fatalf("expected StartupError, got %v", err)
	}
	if se.Service != "second" || se.Ordinal != 1 {
		t.Fatalf("error must identify the failed service: %+v", se)
	}
	if !errors.Is(err, bootErr) {
		t.Fatalf("StartupError must wrap the cause, got %v", err)
	}
	if thirdStarted {
		t.Fatal("services after the failure must never be started")
	}
	if first.closeCount() != 1 {
		t.Fatalf("already-started service closed %d times, want exactly 1", first.closeCount())
	}
}

func TestRunAll_RollbackReportsReleaseFailures(t *testing.T) {
	leaky := newFakeService("leaky")
	leaky.closeErr = errors.New("close failed")

	specs := []lifex.ServiceSpec{
		specFor(leaky),
		{
			Name: "broken",
			Addr: "fake",
			Start: func(ctx context.Context) (lifex.ServiceHandle, error) {
				return nil, errors.New("no boot")
			},
		},
	}

	err := lifex.NewCoordinator(lifex.NewResourceSet()).RunAll(context.Background(), specs)

	var se *lifex.StartupError
	if !errors.As(err, &se) {
		t.Fatalf("expected StartupError, got %v", err)
	}
	if se.Rollback == nil || len(se.Rollback.Failures) != 1 {
		t.Fatalf("rollback failures must be attached, got %+v", se.Rollback)
	}
	if se.Rollback.Failures[0].Name != "leaky" {
		t.Fatalf("unexpected rollback failure: %+v", se.Rollback.Failures[0])
	}
}

func TestRunAll_ContextCancellationReleasesServices(t *testing.T) {
	svc := newFakeService("svc")
	rs := lifex.NewResourceSet()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- lifex.NewCoordinator(rs).RunAll(ctx, []lifex.ServiceSpec{specFor(svc)})
	}()

	// Let the coordinator reach its steady-state wait, then cancel.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunAll did not return on context cancellation")
	}
	if svc.closeCount() == 0 {
		t.Fatal("service must be released on the cancellation path")
	}
}

func TestRunAll_ReleasesPreRegisteredResourcesLast(t *testing.T) {
	var order []string
	var mu sync.Mutex
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	rs := lifex.NewResourceSet()
	rs.Push("scheduler", closerFunc(func() error {
		record("scheduler")
		return nil
	}))

	svc := newFakeService("svc")
	done := make(chan error, 1)
	go func() {
		done <- lifex.NewCoordinator(rs).RunAll(context.Background(), []lifex.ServiceSpec{
			{
				Name: "svc",
				Addr: "fake",
				Start: func(ctx context.Context) (lifex.ServiceHandle, error) {
					return &tracingHandle{fakeService: svc, record: record}, nil
				},
			},
		})
	}()

	svc.Terminate()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "svc" || order[1] != "scheduler" {
		t.Fatalf("expected services before infrastructure, got %v", order)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

type tracingHandle struct {
	*fakeService
	record func(string)
}

func (h *tracingHandle) Close() error {
	h.record(h.Name())
	return h.fakeService.Close()
}
