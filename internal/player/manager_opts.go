package player

import "time"

type PlayerManagerOpt func(*PlayerManager)

// WithHost sets the address session listeners bind to.
func WithHost(host string) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.host = host
	}
}

// WithSpawn sets the cell new participants start in. They are placed at its
// center.
func WithSpawn(gx, gy int) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.spawnX = gx
		m.spawnY = gy
	}
}

// WithHandshakeTimeout bounds how long a session waits for each of the client's
// reconnects.
func WithHandshakeTimeout(d time.Duration) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.handshakeTimeout = d
	}
}

// WithMirror publishes committed events to mirror.
func WithMirror(mirror EventMirror) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.mirror = mirror
	}
}

// WithTypePicker overrides how new participants get their appearance type.
func WithTypePicker(fn func() int) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.pickType = fn
	}
}
