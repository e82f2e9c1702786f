package lifex_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Abraxas-365/ensamble/pkg/lifex"
)

type recordingResource struct {
	name   string
	log    *[]string
	err    error
	closed int
}

func (r *recordingResource) Close() error {
	r.closed++
	*r.log = append(*r.log, r.name)
	return r.err
}

func TestResourceSet_ReleasesInReverseOrder(t *testing.T) {
	var log []string
	rs := lifex.NewResourceSet()
	for _, name := range []string{"scheduler", "db", "service"} {
		rs.Push(name, &recordingResource{name: name, log: &log})
	}

	if err := rs.ReleaseAll(); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}
	if got := strings.Join(log, ","); got != "service,db,scheduler" {
		t.Fatalf("expected reverse-acquisition order, got %s", got)
	}
}

func TestResourceSet_ReleaseAllOnce(t *testing.T) {
	var log []string
	r := &recordingResource{name: "only", log: &log}
	rs := lifex.NewResourceSet()
	rs.Push("only", r)

	if err := rs.ReleaseAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rs.ReleaseAll(); err != nil {
		t.Fatalf("second release must be a no-op, got %v", err)
	}
	if r.closed != 1 {
		t.Fatalf("resource closed %d times, want 1", r.closed)
	}
}

func TestResourceSet_AggregatesFailures(t *testing.T) {
	var log []string
	rs := lifex.NewResourceSet()
	rs.Push("first", &recordingResource{name: "first", log: &log, err: errors.New("first failed")})
	rs.Push("second", &recordingResource{name: "second", log: &log})
	rs.Push("third", &recordingResource{name: "third", log: &log, err: errors.New("third failed")})

	err := rs.ReleaseAll()
	if err == nil {
		t.Fatal("expected aggregated release error")
	}
	if len(err.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d: %v", len(err.Failures), err)
	}
	// A failing release never stops the rest.
	if len(log) != 3 {
		t.Fatalf("expected all 3 resources released, got %d", len(log))
	}
	// Failures are reported in release order.
	if err.Failures[0].Name != "third" || err.Failures[1].Name != "first" {
		t.Fatalf("unexpected failure order: %+v", err.Failures)
	}
}

func TestResourceSet_PushAfterReleaseClosesImmediately(t *testing.T) {
	var log []string
	rs := lifex.NewResourceSet()
	if err := rs.ReleaseAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	late := &recordingResource{name: "late", log: &log}
	rs.Push("late", late)
	if late.closed != 1 {
		t.Fatal("resource pushed after release must be closed immediately")
	}
}
