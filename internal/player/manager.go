package player

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pixil98/go-footfall/internal/protocol"
	"github.com/pixil98/go-footfall/internal/world"
)

const DefaultHandshakeTimeout = 30 * time.Second

// PortAllocator hands out the ports sessions listen on.
type PortAllocator interface {
	Next() int
}

// EventMirror receives every footstep and chat line a session commits.
type EventMirror interface {
	MirrorFootstep(ctx context.Context, session string, ev protocol.FootstepEvent) error
	MirrorMessage(ctx context.Context, session string, ev protocol.MessageEvent) error
}

// PlayerManager hands rendezvous connections off to sessions and tracks them
// until they end.
type PlayerManager struct {
	registry *world.Registry
	ports    PortAllocator
	ids      *world.Sequence
	mirror   EventMirror

	host             string
	spawnX           int
	spawnY           int
	handshakeTimeout time.Duration
	pickType         func() int

	mu       sync.Mutex
	stopping bool
	wg       sync.WaitGroup
}

func NewPlayerManager(registry *world.Registry, ports PortAllocator, opts ...PlayerManagerOpt) *PlayerManager {
	pm := &PlayerManager{
		registry:         registry,
		ports:            ports,
		ids:              world.NewSequence(0),
		handshakeTimeout: DefaultHandshakeTimeout,
		pickType:         func() int { return rand.IntN(world.NumTypes) },
	}

	for _, opt := range opts {
		opt(pm)
	}

	return pm
}

func (m *PlayerManager) Start(ctx context.Context) error {
	<-ctx.Done()

	m.mu.Lock()
	m.stopping = true
	m.mu.Unlock()

	// Sessions close their own sockets once their context is cancelled.
	m.wg.Wait()
	return nil
}

// Handoff reserves a port for a new session, tells the client about it on conn
// and closes conn. The session then runs on its own goroutine.
func (m *PlayerManager) Handoff(ctx context.Context, conn net.Conn) error {
	defer conn.Close()

	ln, err := m.listen()
	if err != nil {
		return err
	}

	port := ln.Addr().(*net.TCPAddr).Port
	if _, err := conn.Write(protocol.PortAnnouncement{Port: port}.Encode()); err != nil {
		_ = ln.Close()
		return fmt.Errorf("announcing port %d: %w", port, err)
	}

	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		_ = ln.Close()
		return ErrShuttingDown
	}
	m.wg.Add(1)
	m.mu.Unlock()

	s := newSession(m, ln)
	go func() {
		defer m.wg.Done()
		if err := s.Run(ctx); err != nil && ctx.Err() == nil {
			slog.WarnContext(ctx, "player session", "session", s.id, "error", err)
		}
	}()

	return nil
}

func (m *PlayerManager) listen() (net.Listener, error) {
	port := m.ports.Next()
	ln, err := net.Listen("tcp", net.JoinHostPort(m.host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("listening on port %d: %w", port, err)
	}
	return ln, nil
}

// Tick reports how many participants are connected.
func (m *PlayerManager) Tick(ctx context.Context) error {
	slog.InfoContext(ctx, "world status", "participants", m.registry.Count())
	return nil
}
