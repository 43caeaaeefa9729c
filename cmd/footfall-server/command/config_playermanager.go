package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-footfall/internal/player"
	"github.com/pixil98/go-footfall/internal/world"
)

type PlayerManagerConfig struct {
	HandshakeTimeout string `json:"handshake_timeout"`
	SpawnX           int    `json:"spawn_x"`
	SpawnY           int    `json:"spawn_y"`
}

func (c *PlayerManagerConfig) validate() error {
	el := errors.NewErrorList()

	if c.HandshakeTimeout != "" {
		d, err := time.ParseDuration(c.HandshakeTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing handshake_timeout: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("handshake_timeout must be positive"))
		}
	}
	if !world.InBounds(c.SpawnX, c.SpawnY) {
		el.Add(fmt.Errorf("spawn cell (%d,%d) is outside the world", c.SpawnX, c.SpawnY))
	}

	return el.Err()
}

func (c *PlayerManagerConfig) BuildPlayerManager(registry *world.Registry, ports player.PortAllocator, host string, mirror player.EventMirror) (*player.PlayerManager, error) {
	opts := []player.PlayerManagerOpt{
		player.WithHost(host),
		player.WithSpawn(c.SpawnX, c.SpawnY),
	}
	if c.HandshakeTimeout != "" {
		d, err := time.ParseDuration(c.HandshakeTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing handshake_timeout: %w", err)
		}
		opts = append(opts, player.WithHandshakeTimeout(d))
	}
	if mirror != nil {
		opts = append(opts, player.WithMirror(mirror))
	}

	return player.NewPlayerManager(registry, ports, opts...), nil
}
