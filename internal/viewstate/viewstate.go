// Package viewstate holds the {data, loading, error} lifecycle shared by every page.
package viewstate

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// State is an immutable snapshot rendered by templates.
type State[T any] struct {
	Data    T
	Loading bool
	Err     string
}

// Ready reports whether data has arrived without error.
func (s State[T]) Ready() bool {
	return !s.Loading && s.Err == ""
}

// Failed reports whether the last load ended in an error.
func (s State[T]) Failed() bool {
	return s.Err != ""
}

// Ticket identifies one load. Only the ticket of the most recent Begin can
// settle the container.
type Ticket uint64

// Container is a per-page state holder.
//
// Begin always supersedes earlier loads, so a slow response for an older
// request can never overwrite a newer one. After Dispose every settle call is
// a no-op.
type Container[T any] struct {
	mu       sync.Mutex
	state    State[T]
	gen      uint64
	disposed bool
}

// New creates a container in the idle state.
func New[T any]() *Container[T] {
	return &Container[T]{}
}

// Begin marks the container loading and returns the ticket for this load.
// Data and error from the previous load are cleared.
func (c *Container[T]) Begin() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return 0
	}
	c.gen++
	var zero T
	c.state = State[T]{Data: zero, Loading: true}
	return Ticket(c.gen)
}

// Resolve stores data for ticket t. Returns false when t is stale.
func (c *Container[T]) Resolve(t Ticket, data T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(t) {
		return false
	}
	c.state = State[T]{Data: data}
	return true
}

// Reject stores an error message for ticket t. Returns false when t is stale.
func (c *Container[T]) Reject(t Ticket, msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(t) {
		return false
	}
	var zero T
	c.state = State[T]{Data: zero, Err: msg}
	return true
}

func (c *Container[T]) current(t Ticket) bool {
	return !c.disposed && t != 0 && uint64(t) == c.gen
}

// Snapshot returns the current state.
func (c *Container[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispose detaches the container from its page. Pending loads are ignored.
func (c *Container[T]) Dispose() {
	c.mu.Lock()
	c.disposed = true
	c.mu.Unlock()
}

// Disposed reports whether Dispose was called.
func (c *Container[T]) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Load runs fetch as one begin/settle cycle. A failure is logged and stored
// as errMsg; the underlying error is not shown to users.
func (c *Container[T]) Load(ctx context.Context, log zerolog.Logger, errMsg string, fetch func(ctx context.Context) (T, error)) State[T] {
	t := c.Begin()
	data, err := fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load view data")
		c.Reject(t, errMsg)
	} else {
		c.Resolve(t, data)
	}
	return c.Snapshot()
}

// Fetch is a one-shot Load for handlers that render a single page.
func Fetch[T any](ctx context.Context, log zerolog.Logger, errMsg string, fetch func(ctx context.Context) (T, error)) State[T] {
	return New[T]().Load(ctx, log, errMsg, fetch)
}
