package singlex_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/ensamble/pkg/singlex"
)

func TestJoin3_AllSucceed(t *testing.T) {
	joined := singlex.Join3(
		singlex.Succeeded(1),
		singlex.Succeeded("two"),
		singlex.Succeeded(3.0),
		func(a int, b string, c float64) (string, error) {
			return fmt.Sprintf("%d-%s-%.0f", a, b, c), nil
		})

	v, err := joined.Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "1-two-3" {
		t.Fatalf("zipper received reordered values: %q", v)
	}
}

func TestJoin3_PositionalRegardlessOfCompletionOrder(t *testing.T) {
	a := singlex.New[string]()
	b := singlex.New[string]()
	c := singlex.New[string]()

	joined := singlex.Join3(a, b, c, func(x, y, z string) (string, error) {
		return x + y + z, nil
	})

	// Complete in reverse declaration order.
	c.Complete("c")
	b.Complete("b")
	a.Complete("a")

	v, err := joined.Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "abc" {
		t.Fatalf("expected positional order abc, got %q", v)
	}
}

func TestJoin3_FirstFailureShortCircuits(t *testing.T) {
	boom := errors.New("boom")
	a := singlex.Succeeded(1)
	b := singlex.Failed[int](boom)
	c := singlex.Never[int]()

	var zipped atomic.Bool
	joined := singlex.Join3(a, b, c, func(x, y, z int) (int, error) {
		zipped.Store(true)
		return x + y + z, nil
	})

	_, err := joined.Await(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if zipped.Load() {
		t.Fatal("zipper must never run on a failure path")
	}

	// The still-pending input is cancelled by the short-circuit.
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("pending input was not cancelled")
	}
	if c.State() != singlex.StateCancelled {
		t.Fatalf("expected cancelled input, got %s", c.State())
	}
}

func TestJoin3_CancelPropagatesToPendingInputs(t *testing.T) {
	a := singlex.Succeeded("done")
	b := singlex.Never[string]()
	c := singlex.Never[string]()

	joined := singlex.Join3(a, b, c, func(x, y, z string) (string, error) {
		return x + y + z, nil
	})
	joined.Cancel()

	for i, in := range []*singlex.Single[string]{b, c} {
		select {
		case <-in.Done():
		case <-time.After(time.Second):
			t.Fatalf("input %d not cancelled", i)
		}
		if in.State() != singlex.StateCancelled {
			t.Fatalf("input %d: expected cancelled, got %s", i, in.State())
		}
	}

	// The already-completed input is untouched.
	if a.State() != singlex.StateSucceeded {
		t.Fatalf("completed input must be unaffected, got %s", a.State())
	}
}

func TestJoin3_ZipperErrorFailsJoin(t *testing.T) {
	bad := errors.New("bad zip")
	joined := singlex.Join3(
		singlex.Succeeded(1),
		singlex.Succeeded(2),
		singlex.Succeeded(3),
		func(a, b, c int) (int, error) { return 0, bad },
	)

	_, err := joined.Await(context.Background())
	if !errors.Is(err, bad) {
		t.Fatalf("expected zipper error, got %v", err)
	}
}
