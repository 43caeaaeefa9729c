package listener

import (
	"context"
	"log/slog"
	"net"
)

type handoffer interface {
	Handoff(ctx context.Context, conn net.Conn) error
}

type ConnectionManager struct {
	pm handoffer
}

func NewConnectionManager(pm handoffer) *ConnectionManager {
	return &ConnectionManager{
		pm: pm,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn net.Conn) {
	if err := m.pm.Handoff(ctx, conn); err != nil {
		slog.WarnContext(ctx, "handing off connection", "remote", conn.RemoteAddr(), "error", err)
	}
}
