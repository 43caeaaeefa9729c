package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-footfall/internal/protocol"
	"github.com/pixil98/go-footfall/internal/world"
)

// Session serves one client from its control reconnect until the connection
// fails or the server shuts down.
type Session struct {
	id      string
	manager *PlayerManager
	ln      net.Listener

	participant *world.Participant
	cells       *protocol.BulkWriter

	mu      sync.Mutex
	closers []io.Closer
	closed  bool
}

func newSession(m *PlayerManager, ln net.Listener) *Session {
	s := &Session{
		id:      uuid.NewString(),
		manager: m,
		ln:      ln,
	}
	s.track(ln)
	return s
}

// Id returns the session's correlation id.
func (s *Session) Id() string {
	return s.id
}

// Run completes the handshake, registers the participant and handles its
// commands. The participant is deregistered when Run returns.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.close()

	go func() {
		<-ctx.Done()
		s.close()
	}()

	m := s.manager

	control, err := s.accept(s.ln)
	if err != nil {
		return fmt.Errorf("accepting control channel: %w", err)
	}

	bulkLn, err := m.listen()
	if err != nil {
		return err
	}
	s.track(bulkLn)

	x, y := world.CellCenter(m.spawnX, m.spawnY)
	p := world.NewParticipant(m.ids.Next(), m.pickType(), x, y, control)

	welcome := protocol.Welcome{
		Id:       p.Id(),
		X:        x,
		Y:        y,
		Type:     p.Type(),
		BulkPort: bulkLn.Addr().(*net.TCPAddr).Port,
	}
	if err := p.Send(welcome.Encode()); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	bulk, err := s.accept(bulkLn)
	if err != nil {
		return fmt.Errorf("accepting bulk channel: %w", err)
	}

	s.participant = p
	s.cells = protocol.NewBulkWriter(bulk)

	if err := m.registry.Add(p); err != nil {
		return fmt.Errorf("registering participant %d: %w", p.Id(), err)
	}
	defer func() {
		if err := m.registry.Remove(p); err != nil {
			slog.WarnContext(ctx, "deregistering participant", "session", s.id, "participant", p.Id(), "error", err)
		}
	}()

	slog.InfoContext(ctx, "participant joined", "session", s.id, "participant", p.Id(), "type", p.Type(), "remote", control.RemoteAddr())
	defer slog.InfoContext(ctx, "participant left", "session", s.id, "participant", p.Id())

	return s.serve(ctx, protocol.NewReader(control))
}

func (s *Session) serve(ctx context.Context, r *protocol.Reader) error {
	for {
		msg, err := r.ReadCommand()
		if err != nil {
			if errors.Is(err, protocol.ErrUnknownTag) {
				slog.DebugContext(ctx, "skipping command", "session", s.id, "error", err)
				continue
			}
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading command: %w", err)
		}

		if err := s.dispatch(ctx, msg); err != nil {
			return err
		}
	}
}

func (s *Session) dispatch(ctx context.Context, msg protocol.Message) error {
	switch m := msg.(type) {
	case protocol.RoomRequest:
		return s.sendRoom(m.GridX, m.GridY)
	case protocol.FootstepCommand:
		s.footstep(ctx, m)
	case protocol.MessageCommand:
		s.message(ctx, m)
	}
	return nil
}

// sendRoom answers a room request with the marker line on the control channel
// and the snapshot on the bulk channel. Cells outside the world are answered
// with an empty frame so the client's request and reply queues stay paired.
func (s *Session) sendRoom(gx, gy int) error {
	c, _ := s.manager.registry.Cell(gx, gy)

	if err := s.participant.Send(protocol.RoomNotice{}.Encode()); err != nil {
		return fmt.Errorf("sending room notice: %w", err)
	}
	if err := s.cells.WriteCell(c); err != nil {
		return fmt.Errorf("sending room (%d,%d): %w", gx, gy, err)
	}
	return nil
}

func (s *Session) footstep(ctx context.Context, m protocol.FootstepCommand) {
	c, ok := s.manager.registry.Cell(m.GridX, m.GridY)
	if !ok {
		slog.DebugContext(ctx, "footstep outside world", "session", s.id, "grid_x", m.GridX, "grid_y", m.GridY)
		return
	}

	c.UpdateTime(m.X, m.Y, m.Time)
	s.participant.MoveTo(world.Position(m.GridX, m.GridY, m.X, m.Y))

	ev := protocol.FootstepEvent{
		GridX:         m.GridX,
		GridY:         m.GridY,
		X:             m.X,
		Y:             m.Y,
		Time:          m.Time,
		ParticipantId: s.participant.Id(),
		Type:          s.participant.Type(),
	}
	s.broadcast(ctx, m.GridX, m.GridY, ev)

	if mirror := s.manager.mirror; mirror != nil {
		if err := mirror.MirrorFootstep(ctx, s.id, ev); err != nil {
			slog.WarnContext(ctx, "mirroring footstep", "session", s.id, "error", err)
		}
	}
}

func (s *Session) message(ctx context.Context, m protocol.MessageCommand) {
	gx, gy := s.participant.Grid()
	c, ok := s.manager.registry.Cell(gx, gy)
	if !ok {
		slog.DebugContext(ctx, "message outside world", "session", s.id, "grid_x", gx, "grid_y", gy)
		return
	}

	text := protocol.SanitizeText(m.Text)
	c.AddLine(text)

	ev := protocol.MessageEvent{GridX: gx, GridY: gy, Text: text}
	s.broadcast(ctx, gx, gy, ev)

	if mirror := s.manager.mirror; mirror != nil {
		if err := mirror.MirrorMessage(ctx, s.id, ev); err != nil {
			slog.WarnContext(ctx, "mirroring message", "session", s.id, "error", err)
		}
	}
}

// broadcast sends ev to every other participant near cell (gx, gy). A peer
// that cannot be written to is skipped; its own session notices the failure.
func (s *Session) broadcast(ctx context.Context, gx, gy int, ev protocol.Message) {
	data := ev.Encode()
	for _, peer := range s.manager.registry.Neighbors(gx, gy, s.participant) {
		if err := peer.Send(data); err != nil {
			slog.DebugContext(ctx, "broadcasting", "session", s.id, "peer", peer.Id(), "error", err)
		}
	}
}

// accept waits up to the handshake timeout for a single connection on ln and
// then closes ln.
func (s *Session) accept(ln net.Listener) (net.Conn, error) {
	defer ln.Close()

	if d := s.manager.handshakeTimeout; d > 0 {
		if tl, ok := ln.(*net.TCPListener); ok {
			if err := tl.SetDeadline(time.Now().Add(d)); err != nil {
				return nil, fmt.Errorf("setting accept deadline: %w", err)
			}
		}
	}

	conn, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	s.track(conn)
	return conn, nil
}

// track registers c to be closed with the session. If the session is already
// closed c is closed right away.
func (s *Session) track(c io.Closer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		_ = c.Close()
		return
	}
	s.closers = append(s.closers, c)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for _, c := range s.closers {
		_ = c.Close()
	}
	s.closers = nil
}
