// Package schedx provides the shared scheduler: a bounded worker pool for
// submitted work plus delayed completion signals for timeout composition.
// A Scheduler is a process-level resource; register it in a lifex.ResourceSet
// so it is drained during teardown.
package schedx

import (
	"sync"
	"time"

	"github.com/Abraxas-365/ensamble/pkg/errx"
	"github.com/Abraxas-365/ensamble/pkg/logx"
	"github.com/Abraxas-365/ensamble/pkg/singlex"
)

var schedxErrors = errx.NewRegistry("SCHEDX")

var (
	ErrClosed    = schedxErrors.Register("CLOSED", errx.TypeConflict, 409, "Scheduler is closed")
	ErrQueueFull = schedxErrors.Register("QUEUE_FULL", errx.TypeInternal, 503, "Scheduler queue is full")
)

// Scheduler dispatches submitted work on a fixed pool of workers and
// produces timer Singles via After. It implements singlex.Timer.
type Scheduler struct {
	work      chan func()
	wg        sync.WaitGroup
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// New creates a Scheduler with the given number of workers. Workers start
// immediately. A non-positive count is raised to 1.
func New(workers int) *Scheduler {
	if workers <= 0 {
		workers = 1
	}
	s := &Scheduler{
		work: make(chan func(), workers*16),
	}
	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer s.wg.Done()
			for fn := range s.work {
				fn()
			}
			logx.Tracef("schedx: worker %d drained", id)
		}(i)
	}
	return s
}

// Submit enqueues fn for execution on the pool. Returns ErrClosed after
// Close and ErrQueueFull when the backlog is saturated.
func (s *Scheduler) Submit(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return schedxErrors.New(ErrClosed)
	}
	select {
	case s.work <- fn:
		return nil
	default:
		return schedxErrors.New(ErrQueueFull)
	}
}

// After returns a Single that completes with a Void value once d has
// elapsed. Cancelling the Single stops the underlying timer; no completion
// fires afterwards. Timers ride on the runtime timer heap, not on the
// worker pool, so a saturated pool cannot delay a deadline.
func (s *Scheduler) After(d time.Duration) *singlex.Single[singlex.Void] {
	single := singlex.New[singlex.Void]()
	t := time.AfterFunc(d, func() {
		single.Complete(singlex.Void{})
	})
	single.OnCancel(func() { t.Stop() })
	return single
}

// Close stops intake and blocks until every queued unit of work has run.
// Idempotent; concurrent and repeat calls wait for the same drain.
func (s *Scheduler) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.work)
		s.mu.Unlock()
	})
	s.wg.Wait()
	return nil
}
