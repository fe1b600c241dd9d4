package batch

import (
	"sync"

	"letitbit/internal/rpc"
)

// Batch accumulates calls for a single round trip
type Batch struct {
	calls []rpc.Call
	mu    sync.Mutex
}

// New creates an empty batch
func New() *Batch {
	return &Batch{
		calls: make([]rpc.Call, 0),
	}
}

// Add appends a call to the batch and returns its index in the batch
func (b *Batch) Add(call rpc.Call) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, call)
	return len(b.calls) - 1
}

// Take returns all pending calls and resets the batch
// Returns nil if the batch is empty
func (b *Batch) Take() []rpc.Call {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.calls) == 0 {
		return nil
	}

	calls := b.calls
	b.calls = make([]rpc.Call, 0)
	return calls
}

// Len returns the number of pending calls
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

// IsEmpty returns true if no calls are pending
func (b *Batch) IsEmpty() bool {
	return b.Len() == 0
}

// Routes returns the routes of calls in order
func Routes(calls []rpc.Call) []string {
	routes := make([]string, len(calls))
	for i, c := range calls {
		routes[i] = c.Route
	}
	return routes
}
