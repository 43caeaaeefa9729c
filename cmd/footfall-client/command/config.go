package command

import (
	"fmt"
	"net"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-footfall/internal/client"
	"github.com/pixil98/go-footfall/internal/display"
)

const DefaultServer = "127.0.0.1:2219"

type Config struct {
	Server    string            `json:"server"`
	PanSteps  int               `json:"pan_steps"`
	PanDelay  string            `json:"pan_delay"`
	WrapWidth int               `json:"wrap_width"`
	Templates display.Templates `json:"templates"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if _, _, err := net.SplitHostPort(c.server()); err != nil {
		el.Add(fmt.Errorf("parsing server: %w", err))
	}
	if c.PanSteps < 0 {
		el.Add(fmt.Errorf("pan_steps may not be negative"))
	}
	if c.PanDelay != "" {
		if _, err := time.ParseDuration(c.PanDelay); err != nil {
			el.Add(fmt.Errorf("parsing pan_delay: %w", err))
		}
	}
	if c.WrapWidth < 0 {
		el.Add(fmt.Errorf("wrap_width may not be negative"))
	}
	if err := c.Templates.Validate(); err != nil {
		el.Add(fmt.Errorf("templates: %w", err))
	}

	return el.Err()
}

func (c *Config) server() string {
	if c.Server == "" {
		return DefaultServer
	}
	return c.Server
}

func (c *Config) pannerOpts() ([]client.PannerOpt, error) {
	var opts []client.PannerOpt
	if c.PanSteps > 0 {
		opts = append(opts, client.WithPanSteps(c.PanSteps))
	}
	if c.PanDelay != "" {
		d, err := time.ParseDuration(c.PanDelay)
		if err != nil {
			return nil, fmt.Errorf("parsing pan_delay: %w", err)
		}
		opts = append(opts, client.WithPanDelay(d))
	}
	return opts, nil
}
