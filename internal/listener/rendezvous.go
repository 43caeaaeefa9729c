package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
)

// RendezvousListener accepts clients on the well known port and hands each one
// off to a session on a port of its own.
type RendezvousListener struct {
	host string
	port uint16
	cm   *ConnectionManager
}

func NewRendezvousListener(host string, port uint16, cm *ConnectionManager) *RendezvousListener {
	return &RendezvousListener{
		host: host,
		port: port,
		cm:   cm,
	}
}

func (l *RendezvousListener) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", net.JoinHostPort(l.host, strconv.Itoa(int(l.port))))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	slog.InfoContext(ctx, "listening for players", "port", l.port)
	return l.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled. Sessions
// started from it are cancelled when it returns.
func (l *RendezvousListener) Serve(ctx context.Context, listener net.Listener) error {
	connCtx, cancelConns := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	// Close the listener when the parent context is canceled
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			// Check if shutdown was requested
			select {
			case <-ctx.Done():
				cancelConns()
				wg.Wait()
				return nil
			default:
			}
			slog.ErrorContext(ctx, "accepting connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.cm.AcceptConnection(connCtx, conn)
		}()
	}
}
