package client

import (
	"context"
	"sync"

	"github.com/pixil98/go-footfall/internal/protocol"
	"github.com/pixil98/go-footfall/internal/world"
)

// Fetcher requests cells over the shared control channel and matches the
// replies to the requests. The protocol carries no request ids; the server
// answers each connection's requests in order, so a FIFO of pending requests
// is enough.
type Fetcher struct {
	out *Outbound

	mu      sync.Mutex
	pending []chan *world.Cell // nil for requests nobody waits on
	closed  bool
}

// NewFetcher creates a Fetcher sending its requests through out.
func NewFetcher(out *Outbound) *Fetcher {
	return &Fetcher{out: out}
}

// Fetch requests cell (gx, gy) and blocks until the reply arrives. A nil cell
// with a nil error means the coordinate is outside the world. If ctx is done
// first the reply is still consumed when it arrives, then dropped.
func (f *Fetcher) Fetch(ctx context.Context, gx, gy int) (*world.Cell, error) {
	ch := make(chan *world.Cell, 1)
	if err := f.request(ctx, gx, gy, ch); err != nil {
		return nil, err
	}

	select {
	case c, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Request asks for cell (gx, gy) without waiting for the reply.
func (f *Fetcher) Request(ctx context.Context, gx, gy int) error {
	return f.request(ctx, gx, gy, nil)
}

func (f *Fetcher) request(ctx context.Context, gx, gy int, ch chan *world.Cell) error {
	return f.out.sendWith(ctx, protocol.RoomRequest{GridX: gx, GridY: gy}, func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.closed {
			return ErrClosed
		}
		f.pending = append(f.pending, ch)
		return nil
	})
}

// Resolve hands c to the oldest pending request. It reports false when there
// was no request waiting.
func (f *Fetcher) Resolve(c *world.Cell) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return false
	}
	ch := f.pending[0]
	f.pending[0] = nil
	f.pending = f.pending[1:]

	if ch != nil {
		ch <- c
	}
	return true
}

// Pending returns the number of requests waiting for a reply.
func (f *Fetcher) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Close fails every pending request and any request made afterwards.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for _, ch := range f.pending {
		if ch != nil {
			close(ch)
		}
	}
	f.pending = nil
}
