package client

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/pixil98/go-footfall/internal/protocol"
	"github.com/pixil98/go-footfall/internal/world"
)

type sender interface {
	Send(ctx context.Context, m protocol.Message) error
}

// Peer is another participant the client has seen stepping nearby.
type Peer struct {
	Id   int
	Type int
	X    int
	Y    int
}

// Facade is the client's view of the world: the local participant, its window
// of cached cells and the commands it sends upstream.
type Facade struct {
	id     int
	kind   int
	window *Window
	out    sender

	mu    sync.RWMutex
	peers map[int]Peer
}

// NewFacade creates a facade for the participant described by welcome.
func NewFacade(welcome protocol.Welcome, window *Window, out sender) *Facade {
	return &Facade{
		id:     welcome.Id,
		kind:   welcome.Type,
		window: window,
		out:    out,
		peers:  map[int]Peer{},
	}
}

// Id returns the local participant's id.
func (f *Facade) Id() int { return f.id }

// Type returns the local participant's appearance type.
func (f *Facade) Type() int { return f.kind }

// Window returns the facade's window.
func (f *Facade) Window() *Window { return f.window }

// Loading reports whether the cell the player stands in is still missing.
func (f *Facade) Loading() bool {
	return !f.window.Loaded()
}

// UpdateFootstep records a local footstep at tile (x, y) of the current cell.
// The server is only told when the local copy actually changed, since a step
// that does not advance the local time would not advance the server's either.
func (f *Facade) UpdateFootstep(ctx context.Context, x, y int, t int64) (bool, error) {
	if !f.window.StepCenter(x, y, t) {
		return false, nil
	}

	gx, gy := f.window.Center()
	err := f.out.Send(ctx, protocol.FootstepCommand{GridX: gx, GridY: gy, X: x, Y: y, Time: t})
	if err != nil {
		return true, fmt.Errorf("sending footstep: %w", err)
	}
	return true, nil
}

// SendMessage adds text to the current cell's history and sends it upstream.
func (f *Facade) SendMessage(ctx context.Context, text string) error {
	text = protocol.SanitizeText(text)
	gx, gy := f.window.Center()
	f.window.AddLine(gx, gy, text)

	if err := f.out.Send(ctx, protocol.MessageCommand{Text: text}); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

// UpdateRoom installs a fetched or pushed cell. Cells not adjacent to the
// window center are ignored.
func (f *Facade) UpdateRoom(c *world.Cell) bool {
	return f.window.Install(c)
}

// ApplyFootstep merges a footstep pushed by the server and tracks the peer
// that made it.
func (f *Facade) ApplyFootstep(ev protocol.FootstepEvent) {
	f.window.UpdateFootstep(ev.GridX, ev.GridY, ev.X, ev.Y, ev.Time)

	px, py := world.Position(ev.GridX, ev.GridY, ev.X, ev.Y)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.peers[ev.ParticipantId] = Peer{Id: ev.ParticipantId, Type: ev.Type, X: px, Y: py}
}

// ApplyMessage records a chat line pushed by the server.
func (f *Facade) ApplyMessage(ev protocol.MessageEvent) {
	f.window.AddLine(ev.GridX, ev.GridY, ev.Text)
}

// History returns the chat history of the current cell.
func (f *Facade) History() []string {
	return f.window.History()
}

// Footstep returns the footstep time at world tile (tx, ty).
func (f *Facade) Footstep(tx, ty int) int64 {
	return f.window.Footstep(tx, ty)
}

// Peers returns every peer seen so far ordered by id.
func (f *Facade) Peers() []Peer {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Peer, 0, len(f.peers))
	for _, p := range f.peers {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Peer) int { return a.Id - b.Id })
	return out
}

// PeerNearby reports whether any known peer was last seen inside the window.
func (f *Facade) PeerNearby() bool {
	for _, p := range f.Peers() {
		if f.window.Contains(p.X, p.Y) {
			return true
		}
	}
	return false
}

// CanPan reports whether the window can move in direction d.
func (f *Facade) CanPan(d Direction) bool {
	return f.window.CanShift(d)
}

// CanPanAny reports whether the window can move in at least one direction.
func (f *Facade) CanPanAny() bool {
	for _, d := range []Direction{DirectionLeft, DirectionRight, DirectionUp, DirectionDown} {
		if f.window.CanShift(d) {
			return true
		}
	}
	return false
}

// Shift moves the window one cell in direction d.
func (f *Facade) Shift(ctx context.Context, d Direction) error {
	return f.window.Shift(ctx, d)
}
