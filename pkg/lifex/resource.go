package lifex

import (
	"fmt"
	"strings"
	"sync"
)

// Resource is anything acquired during startup that must be released during
// teardown: the scheduler, database handles, started services.
type Resource interface {
	Close() error
}

// ResourceFailure records one resource that failed to release.
type ResourceFailure struct {
	Name string
	Err  error
}

// ReleaseError aggregates every release failure from a ReleaseAll pass.
// Teardown never stops at the first failing resource, so operators see all
// of them, not just the first.
type ReleaseError struct {
	Failures []ResourceFailure
}

// Error implements the error interface.
func (e *ReleaseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lifex: %d resource(s) failed to release:", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, " %s: %v;", f.Name, f.Err)
	}
	return strings.TrimSuffix(b.String(), ";")
}

type namedResource struct {
	name     string
	resource Resource
}

// ResourceSet is an ordered stack of acquired resources with deterministic
// teardown: ReleaseAll releases in reverse-acquisition order, exactly once,
// and a failure releasing one resource never prevents releasing the rest.
// Push and ReleaseAll are safe for concurrent use, though the set is built
// and finalized under single-writer discipline in practice.
type ResourceSet struct {
	mu        sync.Mutex
	resources []namedResource
	released  bool
}

// NewResourceSet returns an empty set.
func NewResourceSet() *ResourceSet {
	return &ResourceSet{}
}

// Push registers r under name. Resources pushed later are released earlier.
// Pushing onto an already-released set releases r immediately so nothing
// acquired after teardown can leak.
func (rs *ResourceSet) Push(name string, r Resource) {
	rs.mu.Lock()
	if rs.released {
		rs.mu.Unlock()
		_ = r.Close()
		return
	}
	rs.resources = append(rs.resources, namedResource{name: name, resource: r})
	rs.mu.Unlock()
}

// Len returns the number of registered resources.
func (rs *ResourceSet) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.resources)
}

// ReleaseAll releases every resource in reverse-acquisition order. Failures
// are collected into a *ReleaseError; a nil return means every release
// succeeded. Subsequent calls are no-ops returning nil.
func (rs *ResourceSet) ReleaseAll() *ReleaseError {
	rs.mu.Lock()
	if rs.released {
		rs.mu.Unlock()
		return nil
	}
	rs.released = true
	resources := rs.resources
	rs.resources = nil
	rs.mu.Unlock()

	var failures []ResourceFailure
	for i := len(resources) - 1; i >= 0; i-- {
		nr := resources[i]
		if err := nr.resource.Close(); err != nil {
			failures = append(failures, ResourceFailure{Name: nr.name, Err: err})
		}
	}
	if len(failures) > 0 {
		return &ReleaseError{Failures: failures}
	}
	return nil
}
