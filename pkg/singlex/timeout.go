package singlex

import (
	"fmt"
	"time"
)

// Timer produces delayed completion signals. Implemented by schedx.Scheduler.
type Timer interface {
	// After returns a Single that completes once d has elapsed. Cancelling
	// it stops the timer; no signal fires afterwards.
	After(d time.Duration) *Single[Void]
}

// TimeoutError is the terminal error of a Single that lost the race against
// its deadline. It is never used for any other failure, so callers can
// distinguish "too slow" from an upstream error.
type TimeoutError struct {
	Duration time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("singlex: timed out after %s", e.Duration)
}

// IsTimeout reports whether err is a deadline-exceeded result from
// WithTimeout.
func IsTimeout(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}

// WithTimeout races source against a deadline of d scheduled on timer.
// Whichever side finishes first determines the outcome:
//
//   - source succeeds or fails first: the outcome is propagated unchanged
//     and the timer is cancelled;
//   - the deadline fires first: the result fails with a *TimeoutError and
//     source is cancelled.
//
// Ties go to the source: when both are ready the source outcome is taken,
// so a result that lands exactly on the deadline is never reported as a
// timeout. Cancelling the returned Single cancels both source and timer.
func WithTimeout[T any](source *Single[T], timer Timer, d time.Duration) *Single[T] {
	out := New[T]()
	deadline := timer.After(d)

	out.OnCancel(func() {
		source.Cancel()
		deadline.Cancel()
	})

	settleFromSource := func() {
		deadline.Cancel()
		v, err := source.Result()
		if err != nil {
			out.Fail(err)
			return
		}
		out.Complete(v)
	}

	go func() {
		select {
		case <-source.Done():
			settleFromSource()
		case <-deadline.Done():
			// Re-check the source before declaring a timeout so that a
			// simultaneously completed source wins the tie.
			select {
			case <-source.Done():
				settleFromSource()
			default:
				if _, err := deadline.Result(); err != nil {
					// Timer cancelled or failed: not a deadline. Propagate
					// whatever the source eventually does.
					<-source.Done()
					settleFromSource()
					return
				}
				if out.Fail(&TimeoutError{Duration: d}) {
					source.Cancel()
				}
			}
		}
	}()

	return out
}
