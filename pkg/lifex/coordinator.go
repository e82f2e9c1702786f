// Package lifex coordinates the lifecycle of a set of independently-owned
// services: ordered startup, rollback on partial failure, one aggregate
// "all terminated" signal, and deterministic reverse-order teardown of every
// acquired resource.
package lifex

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Abraxas-365/ensamble/pkg/logx"
	"github.com/Abraxas-365/ensamble/pkg/singlex"
)

// ServiceHandle is a running service owned by the coordinator until
// released.
type ServiceHandle interface {
	// Name identifies the service in logs and errors.
	Name() string
	// Termination resolves once the service has stopped, however it
	// stopped. It resolves at most once.
	Termination() *singlex.Single[singlex.Void]
	// Close shuts the service down. Idempotent: repeat calls return the
	// first result and emit no second termination signal.
	Close() error
}

// ServiceSpec describes one service to start.
type ServiceSpec struct {
	Name  string
	Addr  string
	Start func(ctx context.Context) (ServiceHandle, error)
}

// StartupError reports a service that failed to start, after the already
// acquired resources were rolled back.
type StartupError struct {
	Service string
	Ordinal int
	Err     error
	// Rollback carries release failures hit while rolling back, nil when
	// the rollback was clean.
	Rollback *ReleaseError
}

// Error implements the error interface.
func (e *StartupError) Error() string {
	msg := fmt.Sprintf("lifex: starting service %q (#%d) failed: %v", e.Service, e.Ordinal, e.Err)
	if e.Rollback != nil {
		msg += fmt.Sprintf(" (rollback: %v)", e.Rollback)
	}
	return msg
}

// Unwrap returns the start failure cause.
func (e *StartupError) Unwrap() error { return e.Err }

// Coordinator starts services and owns their teardown through a shared
// ResourceSet. Resources pushed onto the set before RunAll (scheduler,
// database clients) are released after the services, preserving
// reverse-acquisition order across the whole process.
type Coordinator struct {
	resources *ResourceSet
}

// NewCoordinator creates a Coordinator releasing into rs.
func NewCoordinator(rs *ResourceSet) *Coordinator {
	return &Coordinator{resources: rs}
}

// RunAll starts every spec in order and blocks until all started services
// have terminated or ctx is cancelled.
//
// If starting spec k fails, specs after k are never started, everything
// acquired so far is released in reverse order, and the returned error is a
// *StartupError naming the failed service and carrying any rollback
// failures.
//
// On every exit path the ResourceSet is released exactly once, completely,
// with release failures aggregated into the returned error rather than
// aborting the teardown.
func (c *Coordinator) RunAll(ctx context.Context, specs []ServiceSpec) error {
	handles := make([]ServiceHandle, 0, len(specs))

	for i, spec := range specs {
		handle, err := spec.Start(ctx)
		if err != nil {
			logx.WithFields(logx.Fields{"service": spec.Name, "ordinal": i}).
				WithError(err).Error("lifex: service failed to start, rolling back")
			return &StartupError{
				Service:  spec.Name,
				Ordinal:  i,
				Err:      err,
				Rollback: c.resources.ReleaseAll(),
			}
		}
		c.resources.Push(handle.Name(), handle)
		handles = append(handles, handle)
		logx.WithFields(logx.Fields{"service": handle.Name(), "addr": spec.Addr}).
			Info("lifex: service started")
	}

	_, err := c.awaitAll(ctx, handles)
	relErr := c.resources.ReleaseAll()

	switch {
	case err != nil && relErr != nil:
		return errors.Join(err, relErr)
	case err != nil:
		return err
	case relErr != nil:
		return relErr
	default:
		logx.Info("lifex: all services terminated")
		return nil
	}
}

// awaitAll blocks on the aggregate termination signal: a Single that
// resolves only once every handle's termination has resolved. Cancellation
// of ctx cancels the wait, not the services themselves; the caller's
// ResourceSet release closes them.
func (c *Coordinator) awaitAll(ctx context.Context, handles []ServiceHandle) (singlex.Void, error) {
	if len(handles) == 0 {
		return singlex.Void{}, nil
	}

	all := singlex.New[singlex.Void]()
	var remaining atomic.Int32
	remaining.Store(int32(len(handles)))
	// Termination resolving either way counts as terminated.
	settle := func() {
		if remaining.Add(-1) == 0 {
			all.Complete(singlex.Void{})
		}
	}
	for _, h := range handles {
		h.Termination().Subscribe(func(singlex.Void) { settle() }, func(error) { settle() })
	}
	return all.Await(ctx)
}
