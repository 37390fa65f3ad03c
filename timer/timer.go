// Package timer provides the cancellable handle used to drive one turn
// of a room. A handle belongs to exactly one driver goroutine; Stop
// blocks until that goroutine has fully observed cancellation, so two
// drivers can never overlap for the same room.
package timer

import (
	"context"
	"time"
)

// Handle is the opaque, cancellable reference to a running turn driver.
type Handle struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHandle creates a handle for a driver goroutine about to start.
func NewHandle() *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	return &Handle{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Context returns the context the driver goroutine must watch.
func (h *Handle) Context() context.Context {
	return h.ctx
}

// Finish marks the driver goroutine as terminated. The driver must call
// it exactly once (deferred) before returning.
func (h *Handle) Finish() {
	close(h.done)
}

// Stop cancels the driver and blocks until it has terminated. Calling
// Stop on an already finished handle returns immediately.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Sleep pauses for d or until the handle is cancelled. It returns false
// when the sleep was interrupted by cancellation.
func (h *Handle) Sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-h.ctx.Done():
		return false
	}
}
