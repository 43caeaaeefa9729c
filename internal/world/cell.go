package world

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"
)

// Cell holds the footstep trail and chat history for one grid partition of
// the world. Footstep times only ever move forward: a write that is not
// strictly newer than what is stored is dropped.
type Cell struct {
	gridX int
	gridY int

	mu        sync.RWMutex
	width     int
	height    int
	footsteps []int64 // column major: index x*height+y
	history   []string
}

// NewCell creates an empty cell at grid coordinate (gx, gy).
func NewCell(gx, gy int) *Cell {
	return newCellSized(gx, gy, TilesX, TilesY)
}

func newCellSized(gx, gy, width, height int) *Cell {
	return &Cell{
		gridX:     gx,
		gridY:     gy,
		width:     width,
		height:    height,
		footsteps: make([]int64, width*height),
		history:   []string{},
	}
}

// GridX returns the cell's x coordinate in the world grid.
func (c *Cell) GridX() int { return c.gridX }

// GridY returns the cell's y coordinate in the world grid.
func (c *Cell) GridY() int { return c.gridY }

// Width returns the number of footstep tiles along x.
func (c *Cell) Width() int { return c.width }

// Height returns the number of footstep tiles along y.
func (c *Cell) Height() int { return c.height }

// UpdateTime records a footstep at tile (x, y). It reports whether the stored
// time changed; out of range tiles and stale times are ignored.
func (c *Cell) UpdateTime(x, y int, t int64) bool {
	if !c.inRange(x, y) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := x*c.height + y
	if c.footsteps[i] >= t {
		return false
	}
	c.footsteps[i] = t
	return true
}

// Time returns the last footstep time at tile (x, y). Zero means the tile was
// never stepped on or is outside the cell; callers cannot tell the two apart.
func (c *Cell) Time(x, y int) int64 {
	if !c.inRange(x, y) {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.footsteps[x*c.height+y]
}

// AddLine appends a chat line to the cell's history.
func (c *Cell) AddLine(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, line)
}

// History returns a copy of the chat history in the order lines were added.
func (c *Cell) History() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// Snapshot returns a deep copy of the cell.
func (c *Cell) Snapshot() *Cell {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := &Cell{
		gridX:     c.gridX,
		gridY:     c.gridY,
		width:     c.width,
		height:    c.height,
		footsteps: make([]int64, len(c.footsteps)),
		history:   make([]string, len(c.history)),
	}
	copy(s.footsteps, c.footsteps)
	copy(s.history, c.history)
	return s
}

func (c *Cell) inRange(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// cellWire is the serialized form of a Cell on the bulk channel.
type cellWire struct {
	GridX     int
	GridY     int
	Width     int
	Height    int
	Footsteps []int64
	History   []string
}

// GobEncode satisfies gob.GobEncoder.
func (c *Cell) GobEncode() ([]byte, error) {
	c.mu.RLock()
	w := cellWire{
		GridX:     c.gridX,
		GridY:     c.gridY,
		Width:     c.width,
		Height:    c.height,
		Footsteps: c.footsteps,
		History:   c.history,
	}
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(&w)
	c.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("encoding cell (%d,%d): %w", c.gridX, c.gridY, err)
	}
	return buf.Bytes(), nil
}

// GobDecode satisfies gob.GobDecoder.
func (c *Cell) GobDecode(data []byte) error {
	var w cellWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return fmt.Errorf("decoding cell: %w", err)
	}
	if w.Width < 0 || w.Height < 0 || len(w.Footsteps) != w.Width*w.Height {
		return fmt.Errorf("decoding cell (%d,%d): %d footsteps for %dx%d tiles", w.GridX, w.GridY, len(w.Footsteps), w.Width, w.Height)
	}

	c.gridX = w.GridX
	c.gridY = w.GridY
	c.width = w.Width
	c.height = w.Height
	c.footsteps = w.Footsteps
	c.history = w.History
	if c.history == nil {
		c.history = []string{}
	}
	return nil
}
