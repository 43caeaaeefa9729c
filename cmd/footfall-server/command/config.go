package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-footfall/internal/driver"
)

type Config struct {
	StatusInterval string              `json:"status_interval"`
	Listener       ListenerConfig      `json:"listener"`
	PlayerManager  PlayerManagerConfig `json:"player_manager"`
	Nats           NatsConfig          `json:"nats"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.StatusInterval != "" {
		d, err := time.ParseDuration(c.StatusInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing status_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("status_interval must be at least 1 second"))
		}
	}

	if err := c.Listener.validate(); err != nil {
		el.Add(fmt.Errorf("listener: %w", err))
	}
	if err := c.PlayerManager.validate(); err != nil {
		el.Add(fmt.Errorf("player_manager: %w", err))
	}
	if err := c.Nats.validate(); err != nil {
		el.Add(fmt.Errorf("nats: %w", err))
	}

	return el.Err()
}

func (c *Config) driverOpts() ([]driver.DriverOpt, error) {
	if c.StatusInterval == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(c.StatusInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing status_interval: %w", err)
	}
	return []driver.DriverOpt{driver.WithTickLength(d)}, nil
}
