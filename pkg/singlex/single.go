package singlex

import (
	"context"
	"errors"
	"sync"
)

// Void is the payload of Singles that only signal completion.
type Void = struct{}

// ErrCancelled is the terminal error of a cancelled Single.
var ErrCancelled = errors.New("singlex: cancelled")

// State is the lifecycle state of a Single.
type State uint8

const (
	StatePending State = iota
	StateSucceeded
	StateFailed
	StateCancelled
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Single is an asynchronous computation that terminates exactly once with a
// value or an error. The zero value is not usable; create one with New, Go,
// Succeeded, Failed or Never.
type Single[T any] struct {
	mu       sync.Mutex
	state    State
	value    T
	err      error
	done     chan struct{}
	onCancel []func()
}

// New returns a pending Single. The producer side completes it with
// Complete or Fail; either resolves at most once.
func New[T any]() *Single[T] {
	return &Single[T]{done: make(chan struct{})}
}

// Succeeded returns a Single already resolved with v.
func Succeeded[T any](v T) *Single[T] {
	s := New[T]()
	s.Complete(v)
	return s
}

// Failed returns a Single already failed with err.
func Failed[T any](err error) *Single[T] {
	s := New[T]()
	s.Fail(err)
	return s
}

// Never returns a Single that stays pending until cancelled. Useful in tests
// and as the identity for racing combinators.
func Never[T any]() *Single[T] {
	return New[T]()
}

// Go runs fn in a goroutine and returns a Single for its result. The context
// passed to fn is cancelled when the Single is cancelled, so fn can abandon
// in-flight work.
func Go[T any](fn func(ctx context.Context) (T, error)) *Single[T] {
	s := New[T]()
	ctx, cancel := context.WithCancel(context.Background())
	s.OnCancel(cancel)
	go func() {
		defer cancel()
		v, err := fn(ctx)
		if err != nil {
			s.Fail(err)
			return
		}
		s.Complete(v)
	}()
	return s
}

// Complete resolves the Single with v. Reports whether this call made the
// terminal transition; false means the Single was already terminal.
func (s *Single[T]) Complete(v T) bool {
	s.mu.Lock()
	if s.state != StatePending {
		s.mu.Unlock()
		return false
	}
	s.state = StateSucceeded
	s.value = v
	close(s.done)
	s.mu.Unlock()
	return true
}

// Fail resolves the Single with err. Reports whether this call made the
// terminal transition.
func (s *Single[T]) Fail(err error) bool {
	s.mu.Lock()
	if s.state != StatePending {
		s.mu.Unlock()
		return false
	}
	s.state = StateFailed
	s.err = err
	close(s.done)
	s.mu.Unlock()
	return true
}

// Cancel moves a pending Single to the cancelled state and runs every
// registered OnCancel hook, propagating the cancellation upstream.
// Idempotent; a no-op on a terminal Single.
func (s *Single[T]) Cancel() {
	s.mu.Lock()
	if s.state != StatePending {
		s.mu.Unlock()
		return
	}
	s.state = StateCancelled
	s.err = ErrCancelled
	hooks := s.onCancel
	s.onCancel = nil
	close(s.done)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// OnCancel registers fn to run when the Single is cancelled. Producers use
// this to tear down the work backing the Single. If the Single is already
// cancelled fn runs immediately; if it is otherwise terminal fn is dropped.
func (s *Single[T]) OnCancel(fn func()) {
	s.mu.Lock()
	switch s.state {
	case StatePending:
		s.onCancel = append(s.onCancel, fn)
		s.mu.Unlock()
		return
	case StateCancelled:
		s.mu.Unlock()
		fn()
		return
	default:
		s.mu.Unlock()
	}
}

// State returns the current lifecycle state.
func (s *Single[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done returns a channel closed on the terminal transition. After it is
// closed, Result returns the outcome.
func (s *Single[T]) Done() <-chan struct{} {
	return s.done
}

// Result returns the outcome of a terminal Single. Calling it before Done
// is closed returns the zero value and a nil error; callers must wait on
// Done (or use Await / Subscribe) first.
func (s *Single[T]) Result() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.err
}

// Await blocks until the Single terminates or ctx is done. A ctx expiry
// cancels the Single and returns the ctx error. Safe to call multiple
// times; subsequent calls return the cached outcome.
func (s *Single[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-s.done:
		return s.Result()
	case <-ctx.Done():
		s.Cancel()
		var zero T
		return zero, ctx.Err()
	}
}

// Subscribe registers terminal callbacks: onSuccess receives the value on
// success, onFailure receives the error on failure or cancellation. Exactly
// one of the two fires, exactly once. Either callback may be nil. The
// returned function cancels the Single (idempotent).
func (s *Single[T]) Subscribe(onSuccess func(T), onFailure func(error)) (cancel func()) {
	go func() {
		<-s.done
		v, err := s.Result()
		if err != nil {
			if onFailure != nil {
				onFailure(err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(v)
		}
	}()
	return s.Cancel
}

// IsCancelled reports whether err is the cancellation sentinel.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
