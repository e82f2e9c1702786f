// Package singlex provides the asynchronous single-result primitive used
// across the project, plus the combinators built on top of it.
//
// # Single
//
// A [Single] represents a computation that eventually succeeds with exactly
// one value or fails with exactly one error. It starts pending and makes at
// most one terminal transition: succeeded, failed, or cancelled. Cancellation
// is cooperative and only effective while the Single is still pending;
// cancelling a terminal Single is a no-op.
//
//	s := singlex.Go(func(ctx context.Context) (*User, error) {
//	    return repo.GetByID(ctx, id)
//	})
//
//	user, err := s.Await(ctx)
//
// Consumers can either block with [Single.Await] or register callbacks with
// [Single.Subscribe]; exactly one of the two callbacks fires, once.
//
// # Join
//
// [Join3] merges three differently-typed Singles into one. All three inputs
// run concurrently; their values land in fixed positional slots and the
// zipper runs exactly once, after every input has produced a value. The
// first input failure wins: the joined Single fails with that error and all
// still-pending inputs are cancelled.
//
//	full := singlex.Join3(metadata, rating, user,
//	    func(m Metadata, r Rating, u User) (FullRecommendation, error) {
//	        return assemble(m, r, u), nil
//	    })
//
// # Timeout
//
// [WithTimeout] races a Single against a deadline produced by a [Timer]
// (see the schedx package). If the deadline fires first the result fails
// with a [TimeoutError] and the source is cancelled; if the source finishes
// first the timer is cancelled. Ties go to the source: a result that arrived
// exactly on the deadline is never reported as a timeout.
//
// # Design Notes
//
// Every combinator propagates cancellation downstream-to-upstream: cancelling
// a derived Single cancels whatever it is still waiting on. No function in
// this package blocks a thread on behalf of another; waiting is expressed by
// selecting on completion channels or registering callbacks.
//
// The package has no external dependencies and relies solely on the Go
// standard library.
package singlex
