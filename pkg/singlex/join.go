package singlex

import "sync"

// collector3 accumulates the three join values in fixed positional slots.
// Owned by a single Join3 invocation; single-writer per slot, the mutex only
// orders the fill counter.
type collector3[T1, T2, T3 any] struct {
	mu     sync.Mutex
	v1     T1
	v2     T2
	v3     T3
	filled int
}

func (c *collector3[T1, T2, T3]) set(fill func(*collector3[T1, T2, T3])) (complete bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fill(c)
	c.filled++
	return c.filled == 3
}

// Join3 merges three differently-typed Singles into one. The inputs run
// concurrently; zip is invoked exactly once, after all three values are
// available, with each value matched to its originating input regardless of
// completion order. If any input fails, the joined Single fails with that
// error, the remaining pending inputs are cancelled and zip never runs.
// A non-nil error from zip fails the joined Single.
//
// Cancelling the joined Single cancels every still-pending input;
// already-terminal inputs are unaffected.
func Join3[T1, T2, T3, R any](
	a *Single[T1],
	b *Single[T2],
	c *Single[T3],
	zip func(T1, T2, T3) (R, error),
) *Single[R] {
	out := New[R]()
	col := &collector3[T1, T2, T3]{}

	cancelInputs := func() {
		a.Cancel()
		b.Cancel()
		c.Cancel()
	}
	out.OnCancel(cancelInputs)

	zipNow := func() {
		r, err := zip(col.v1, col.v2, col.v3)
		if err != nil {
			out.Fail(err)
			return
		}
		out.Complete(r)
	}

	// First failure wins. Cancellations triggered by our own short-circuit
	// arrive here as ErrCancelled and lose against the already-failed out.
	onFailure := func(err error) {
		if out.Fail(err) {
			cancelInputs()
		}
	}

	a.Subscribe(func(v T1) {
		if col.set(func(c *collector3[T1, T2, T3]) { c.v1 = v }) {
			zipNow()
		}
	}, onFailure)
	b.Subscribe(func(v T2) {
		if col.set(func(c *collector3[T1, T2, T3]) { c.v2 = v }) {
			zipNow()
		}
	}, onFailure)
	c.Subscribe(func(v T3) {
		if col.set(func(c *collector3[T1, T2, T3]) { c.v3 = v }) {
			zipNow()
		}
	}, onFailure)

	return out
}
