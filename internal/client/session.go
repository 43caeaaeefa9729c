package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pixil98/go-footfall/internal/protocol"
	"github.com/pixil98/go-footfall/internal/world"
)

// EventHandler is called from the session's reader goroutine after each
// message from the server has been applied.
type EventHandler func(protocol.Message)

// Session is a connected client. It owns the control and bulk connections and
// the goroutine that reads everything the server sends.
type Session struct {
	welcome protocol.Welcome

	control net.Conn
	bulk    net.Conn
	reader  *protocol.Reader
	cells   *protocol.BulkReader
	out     *Outbound
	fetcher *Fetcher
	facade  atomic.Pointer[Facade]

	onEvent EventHandler

	closeOnce sync.Once
	done      chan struct{}
	err       error
}

type SessionOpt func(*Session)

// WithEventHandler registers fn to observe every message from the server.
func WithEventHandler(fn EventHandler) SessionOpt {
	return func(s *Session) {
		s.onEvent = fn
	}
}

// Dial connects to the rendezvous address, completes the handshake and loads
// the initial window before returning.
func Dial(ctx context.Context, addr string, opts ...SessionOpt) (*Session, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("parsing address %q: %w", addr, err)
	}

	var d net.Dialer

	// Phase 1: learn which port to reconnect on.
	rendezvous, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	pa, err := protocol.NewReader(rendezvous).ReadPortAnnouncement()
	_ = rendezvous.Close()
	if err != nil {
		return nil, err
	}

	// Phase 2: the control channel.
	control, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(pa.Port)))
	if err != nil {
		return nil, fmt.Errorf("connecting control channel: %w", err)
	}
	reader := protocol.NewReader(control)
	welcome, err := reader.ReadWelcome()
	if err != nil {
		_ = control.Close()
		return nil, err
	}

	// Phase 3: the bulk channel.
	bulk, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(welcome.BulkPort)))
	if err != nil {
		_ = control.Close()
		return nil, fmt.Errorf("connecting bulk channel: %w", err)
	}

	out := NewOutbound(control)
	s := &Session{
		welcome: welcome,
		control: control,
		bulk:    bulk,
		reader:  reader,
		cells:   protocol.NewBulkReader(bulk),
		out:     out,
		fetcher: NewFetcher(out),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.readLoop(ctx)

	gx, gy := world.GridOf(welcome.X, welcome.Y)
	window, err := LoadWindow(ctx, s.fetcher, gx, gy)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.facade.Store(NewFacade(welcome, window, out))

	slog.InfoContext(ctx, "joined world", "participant", welcome.Id, "type", welcome.Type, "grid_x", gx, "grid_y", gy)
	return s, nil
}

// Welcome returns the participant details the server assigned.
func (s *Session) Welcome() protocol.Welcome { return s.welcome }

// Facade returns the session's facade.
func (s *Session) Facade() *Facade { return s.facade.Load() }

// Done is closed when the session has ended.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns why the session ended. It is only valid after Done is closed.
func (s *Session) Err() error { return s.err }

// Close ends the session.
func (s *Session) Close() error {
	s.fail(ErrClosed)
	return nil
}

func (s *Session) fail(err error) {
	s.closeOnce.Do(func() {
		s.err = err
		s.fetcher.Close()
		_ = s.control.Close()
		_ = s.bulk.Close()
		close(s.done)
	})
}

func (s *Session) readLoop(ctx context.Context) {
	for {
		msg, err := s.reader.ReadEvent()
		if err != nil {
			if errors.Is(err, protocol.ErrUnknownTag) {
				slog.DebugContext(ctx, "skipping server message", "error", err)
				continue
			}
			s.fail(fmt.Errorf("reading from server: %w", err))
			return
		}

		if err := s.apply(msg); err != nil {
			s.fail(err)
			return
		}

		if s.onEvent != nil {
			s.onEvent(msg)
		}
	}
}

func (s *Session) apply(msg protocol.Message) error {
	f := s.facade.Load()

	switch m := msg.(type) {
	case protocol.RoomNotice:
		c, err := s.cells.ReadCell()
		if err != nil && !errors.Is(err, protocol.ErrMissingPayload) {
			return err
		}
		s.fetcher.Resolve(c)
		if c != nil && f != nil {
			f.UpdateRoom(c)
		}

	case protocol.FootstepEvent:
		if f != nil && !f.Loading() {
			f.ApplyFootstep(m)
		}

	case protocol.MessageEvent:
		if f != nil && !f.Loading() {
			f.ApplyMessage(m)
		}
	}
	return nil
}
