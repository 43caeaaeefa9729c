package client

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	DefaultPanSteps = 20
	DefaultPanDelay = 30 * time.Millisecond
)

type panTarget interface {
	CanPan(d Direction) bool
	Shift(ctx context.Context, d Direction) error
}

// Panner scrolls the view to a neighboring cell in fixed steps and then shifts
// the window. Only one pan runs at a time.
type Panner struct {
	target panTarget
	steps  int
	delay  time.Duration

	active    atomic.Bool
	direction atomic.Int32
}

type PannerOpt func(*Panner)

// WithPanSteps sets how many steps a pan takes.
func WithPanSteps(n int) PannerOpt {
	return func(p *Panner) {
		p.steps = n
	}
}

// WithPanDelay sets the pause between steps.
func WithPanDelay(d time.Duration) PannerOpt {
	return func(p *Panner) {
		p.delay = d
	}
}

func NewPanner(target panTarget, opts ...PannerOpt) *Panner {
	p := &Panner{
		target: target,
		steps:  DefaultPanSteps,
		delay:  DefaultPanDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Active reports whether a pan is in progress.
func (p *Panner) Active() bool {
	return p.active.Load()
}

// Suppresses reports whether movement in direction d should be ignored because
// a pan along the same axis is in progress.
func (p *Panner) Suppresses(d Direction) bool {
	if !p.active.Load() {
		return false
	}
	return Direction(p.direction.Load()).Horizontal() == d.Horizontal()
}

// Start begins panning in direction d on its own goroutine. onStep, if set, is
// called before each step. Start returns false without doing anything when a
// pan is already running or the neighbor is not loaded. The returned channel
// is closed once the pan has finished.
func (p *Panner) Start(ctx context.Context, d Direction, onStep func(d Direction, step int)) (<-chan struct{}, bool) {
	if !p.active.CompareAndSwap(false, true) {
		return nil, false
	}
	if !p.target.CanPan(d) {
		p.active.Store(false)
		return nil, false
	}
	p.direction.Store(int32(d))

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer p.active.Store(false)

		for i := 0; i < p.steps; i++ {
			if onStep != nil {
				onStep(d, i)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.delay):
			}
		}

		if err := p.target.Shift(ctx, d); err != nil {
			slog.WarnContext(ctx, "panning", "direction", d, "error", err)
		}
	}()

	return done, true
}
