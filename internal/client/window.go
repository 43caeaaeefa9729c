package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pixil98/go-footfall/internal/world"
)

// Direction is a panning direction.
type Direction int

const (
	DirectionLeft Direction = iota
	DirectionRight
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection parses the names returned by Direction.String.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "left":
		return DirectionLeft, nil
	case "right":
		return DirectionRight, nil
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func (d Direction) delta() (dx, dy int) {
	switch d {
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	case DirectionUp:
		return 0, -1
	case DirectionDown:
		return 0, 1
	default:
		return 0, 0
	}
}

// Horizontal reports whether d moves along the x axis.
func (d Direction) Horizontal() bool {
	return d == DirectionLeft || d == DirectionRight
}

type cellFetcher interface {
	Fetch(ctx context.Context, gx, gy int) (*world.Cell, error)
	Request(ctx context.Context, gx, gy int) error
}

// Window caches the cells around the local player. Slot [R][R] (R is
// world.WindowRadius) is the cell the player is in. A slot is either nil,
// meaning not fetched yet, or a complete snapshot.
type Window struct {
	fetcher cellFetcher

	mu      sync.RWMutex
	slots   [world.WindowSpan][world.WindowSpan]*world.Cell // [row][col]
	centerX int
	centerY int
}

// LoadWindow builds a window centered on cell (gx, gy), fetching every slot
// before returning.
func LoadWindow(ctx context.Context, f cellFetcher, gx, gy int) (*Window, error) {
	w := &Window{
		fetcher: f,
		centerX: gx,
		centerY: gy,
	}

	for row := 0; row < world.WindowSpan; row++ {
		for col := 0; col < world.WindowSpan; col++ {
			c, err := f.Fetch(ctx, gx+col-world.WindowRadius, gy+row-world.WindowRadius)
			if err != nil {
				return nil, fmt.Errorf("fetching initial cells: %w", err)
			}
			if c != nil {
				w.Install(c)
			}
		}
	}

	return w, nil
}

// Center returns the grid coordinate of the center slot.
func (w *Window) Center() (gx, gy int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.centerX, w.centerY
}

// Slot returns the cell at window position (col, row), or nil.
func (w *Window) Slot(col, row int) *world.Cell {
	if col < 0 || row < 0 || col >= world.WindowSpan || row >= world.WindowSpan {
		return nil
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.slots[row][col]
}

// Loaded reports whether the center cell is present.
func (w *Window) Loaded() bool {
	return w.Slot(world.WindowRadius, world.WindowRadius) != nil
}

// Install places c in the slot matching its grid coordinate. Cells outside the
// window are ignored and Install reports false.
func (w *Window) Install(c *world.Cell) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	col, row, ok := w.slotFor(c.GridX(), c.GridY())
	if !ok {
		return false
	}
	w.slots[row][col] = c
	return true
}

// cellAt returns the cached cell for grid coordinate (gx, gy), or nil.
func (w *Window) cellAt(gx, gy int) *world.Cell {
	w.mu.RLock()
	defer w.mu.RUnlock()

	col, row, ok := w.slotFor(gx, gy)
	if !ok {
		return nil
	}
	return w.slots[row][col]
}

// slotFor must be called with w.mu held.
func (w *Window) slotFor(gx, gy int) (col, row int, ok bool) {
	if !world.Within(w.centerX, w.centerY, gx, gy) {
		return 0, 0, false
	}
	return world.WindowRadius + gx - w.centerX, world.WindowRadius + gy - w.centerY, true
}

// Contains reports whether the world pixel position (px, py) falls in a cell
// covered by the window.
func (w *Window) Contains(px, py int) bool {
	gx, gy := world.GridOf(px, py)
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, _, ok := w.slotFor(gx, gy)
	return ok
}

// StepCenter records a footstep at tile (x, y) of the center cell and reports
// whether the cached time changed.
func (w *Window) StepCenter(x, y int, t int64) bool {
	gx, gy := w.Center()
	return w.UpdateFootstep(gx, gy, x, y, t)
}

// UpdateFootstep records a footstep at tile (x, y) of cell (gx, gy) if that
// cell is cached, and reports whether the cached time changed.
func (w *Window) UpdateFootstep(gx, gy, x, y int, t int64) bool {
	c := w.cellAt(gx, gy)
	if c == nil {
		return false
	}
	return c.UpdateTime(x, y, t)
}

// Footstep returns the footstep time at world tile (tx, ty). Tiles in cells
// that are not cached read as zero.
func (w *Window) Footstep(tx, ty int) int64 {
	if tx < 0 || ty < 0 {
		return 0
	}
	c := w.cellAt(tx/world.TilesX, ty/world.TilesY)
	if c == nil {
		return 0
	}
	return c.Time(tx%world.TilesX, ty%world.TilesY)
}

// AddLine appends a chat line to cell (gx, gy) if it is cached.
func (w *Window) AddLine(gx, gy int, line string) bool {
	c := w.cellAt(gx, gy)
	if c == nil {
		return false
	}
	c.AddLine(line)
	return true
}

// History returns the chat history of the center cell, or nil while it is
// not loaded.
func (w *Window) History() []string {
	gx, gy := w.Center()
	c := w.cellAt(gx, gy)
	if c == nil {
		return nil
	}
	return c.History()
}

// CanShift reports whether the neighbor of the center in direction d is loaded.
func (w *Window) CanShift(d Direction) bool {
	dx, dy := d.delta()
	if dx == 0 && dy == 0 {
		return false
	}
	return w.Slot(world.WindowRadius+dx, world.WindowRadius+dy) != nil
}

// Shift moves the window one cell in direction d. The row or column on the
// trailing side is dropped and requests are sent for the newly exposed one;
// their replies are installed as they arrive.
func (w *Window) Shift(ctx context.Context, d Direction) error {
	dx, dy := d.delta()

	w.mu.Lock()
	if (dx == 0 && dy == 0) || w.slots[world.WindowRadius+dy][world.WindowRadius+dx] == nil {
		w.mu.Unlock()
		return fmt.Errorf("shifting %s: %w", d, ErrCannotShift)
	}

	var next [world.WindowSpan][world.WindowSpan]*world.Cell
	var exposed [][2]int
	w.centerX += dx
	w.centerY += dy
	for row := 0; row < world.WindowSpan; row++ {
		for col := 0; col < world.WindowSpan; col++ {
			srcRow, srcCol := row+dy, col+dx
			if srcRow >= 0 && srcRow < world.WindowSpan && srcCol >= 0 && srcCol < world.WindowSpan {
				next[row][col] = w.slots[srcRow][srcCol]
				continue
			}
			exposed = append(exposed, [2]int{
				w.centerX + col - world.WindowRadius,
				w.centerY + row - world.WindowRadius,
			})
		}
	}
	w.slots = next
	w.mu.Unlock()

	// Requests go out after unlocking; the reader installing replies needs the lock.
	for _, g := range exposed {
		if err := w.fetcher.Request(ctx, g[0], g[1]); err != nil {
			return fmt.Errorf("requesting cell (%d,%d): %w", g[0], g[1], err)
		}
	}
	return nil
}

// String renders the grid coordinates of each slot, for debugging.
func (w *Window) String() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var sb strings.Builder
	for row := 0; row < world.WindowSpan; row++ {
		for col := 0; col < world.WindowSpan; col++ {
			if c := w.slots[row][col]; c != nil {
				fmt.Fprintf(&sb, "(%d,%d) ", c.GridX(), c.GridY())
			} else {
				sb.WriteString("(-,-) ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
