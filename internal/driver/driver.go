package driver

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/go-errors"
)

const (
	DefaultTickLength = time.Minute
)

// Manager is anything that wants periodic housekeeping.
type Manager interface {
	Tick(context.Context) error
}

// Driver ticks its managers at a fixed interval until its context ends. A
// failing tick is logged and the driver keeps going.
type Driver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				slog.WarnContext(ctx, "ticking managers", "error", err)
			}
		}
	}
}

// Tick runs every manager once, even when an earlier one fails.
func (d *Driver) Tick(ctx context.Context) error {
	el := errors.NewErrorList()
	for _, m := range d.managers {
		el.Add(m.Tick(ctx))
	}
	return el.Err()
}
