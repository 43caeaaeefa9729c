package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/pixil98/go-footfall/internal/world"
	"github.com/pixil98/go-testutil"
)

type fakeFetcher struct {
	mu        sync.Mutex
	cells     map[[2]int]*world.Cell
	fetched   [][2]int
	requested [][2]int
	err       error
}

func (f *fakeFetcher) Fetch(_ context.Context, gx, gy int) (*world.Cell, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, [2]int{gx, gy})
	if f.err != nil {
		return nil, f.err
	}
	return f.cells[[2]int{gx, gy}], nil
}

func (f *fakeFetcher) Request(_ context.Context, gx, gy int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, [2]int{gx, gy})
	return f.err
}

// newSeededWindow returns a window centered on (1,1) whose slots hold cells
// labeled with their own (col, row).
func newSeededWindow(f cellFetcher) *Window {
	w := &Window{fetcher: f, centerX: 1, centerY: 1}
	for row := 0; row < world.WindowSpan; row++ {
		for col := 0; col < world.WindowSpan; col++ {
			w.slots[row][col] = world.NewCell(col, row)
		}
	}
	return w
}

func TestWindow_Shift(t *testing.T) {
	tests := map[string]struct {
		dir          Direction
		expCenter    [2]int
		expRequested [][2]int
	}{
		"right": {
			dir:          DirectionRight,
			expCenter:    [2]int{2, 1},
			expRequested: [][2]int{{3, 0}, {3, 1}, {3, 2}},
		},
		"up": {
			dir:          DirectionUp,
			expCenter:    [2]int{1, 0},
			expRequested: [][2]int{{0, -1}, {1, -1}, {2, -1}},
		},
		"left": {
			dir:          DirectionLeft,
			expCenter:    [2]int{0, 1},
			expRequested: [][2]int{{-1, 0}, {-1, 1}, {-1, 2}},
		},
		"down": {
			dir:          DirectionDown,
			expCenter:    [2]int{1, 2},
			expRequested: [][2]int{{0, 3}, {1, 3}, {2, 3}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := &fakeFetcher{}
			w := newSeededWindow(f)

			if err := w.Shift(context.Background(), tt.dir); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			center := w.Slot(1, 1)
			testutil.AssertEqual(t, "center cell x", center.GridX(), tt.expCenter[0])
			testutil.AssertEqual(t, "center cell y", center.GridY(), tt.expCenter[1])

			gx, gy := w.Center()
			testutil.AssertEqual(t, "center x", gx, tt.expCenter[0])
			testutil.AssertEqual(t, "center y", gy, tt.expCenter[1])

			testutil.AssertEqual(t, "request count", len(f.requested), len(tt.expRequested))
			for i, exp := range tt.expRequested {
				testutil.AssertEqual(t, "requested", f.requested[i], exp)
			}
		})
	}
}

func TestWindow_ShiftSlidesEverySlot(t *testing.T) {
	w := newSeededWindow(&fakeFetcher{})

	if err := w.Shift(context.Background(), DirectionRight); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "layout", w.String(), strings.Join([]string{
		"(1,0) (2,0) (-,-) ",
		"(1,1) (2,1) (-,-) ",
		"(1,2) (2,2) (-,-) ",
		"",
	}, "\n"))
}

func TestWindow_CanShift(t *testing.T) {
	f := &fakeFetcher{}
	w := newSeededWindow(f)

	testutil.AssertEqual(t, "before shift", w.CanShift(DirectionRight), true)

	if err := w.Shift(context.Background(), DirectionRight); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "right column absent", w.CanShift(DirectionRight), false)
	testutil.AssertEqual(t, "left still loaded", w.CanShift(DirectionLeft), true)

	err := w.Shift(context.Background(), DirectionRight)
	testutil.AssertEqual(t, "refused", errors.Is(err, ErrCannotShift), true)

	// Replies for the requested column arrive.
	for _, g := range f.requested {
		w.Install(world.NewCell(g[0], g[1]))
	}
	testutil.AssertEqual(t, "right column fetched", w.CanShift(DirectionRight), true)
}

func TestWindow_Install(t *testing.T) {
	tests := map[string]struct {
		gx, gy int
		exp    bool
	}{
		"center":     {gx: 1, gy: 1, exp: true},
		"corner":     {gx: 0, gy: 2, exp: true},
		"two away":   {gx: 3, gy: 1, exp: false},
		"far corner": {gx: 5, gy: 5, exp: false},
		"two left":   {gx: -1, gy: 1, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := newSeededWindow(&fakeFetcher{})
			c := world.NewCell(tt.gx, tt.gy)
			c.AddLine("fresh")

			testutil.AssertEqual(t, "installed", w.Install(c), tt.exp)
			if tt.exp {
				testutil.AssertEqual(t, "history", strings.Join(w.cellAt(tt.gx, tt.gy).History(), ","), "fresh")
			}
		})
	}
}

func TestWindow_Footstep(t *testing.T) {
	w := newSeededWindow(&fakeFetcher{})

	testutil.AssertEqual(t, "step center", w.StepCenter(2, 3, 100), true)
	testutil.AssertEqual(t, "stale step", w.StepCenter(2, 3, 50), false)
	testutil.AssertEqual(t, "step neighbor", w.UpdateFootstep(2, 2, 0, 0, 7), true)
	testutil.AssertEqual(t, "step outside", w.UpdateFootstep(4, 4, 0, 0, 7), false)

	// World tile lookups: cell (1,1) tile (2,3) and cell (2,2) tile (0,0).
	testutil.AssertEqual(t, "center tile", w.Footstep(world.TilesX+2, world.TilesY+3), int64(100))
	testutil.AssertEqual(t, "neighbor tile", w.Footstep(2*world.TilesX, 2*world.TilesY), int64(7))
	testutil.AssertEqual(t, "outside tile", w.Footstep(5*world.TilesX, 0), int64(0))
	testutil.AssertEqual(t, "negative tile", w.Footstep(-1, 0), int64(0))
}

func TestWindow_History(t *testing.T) {
	w := newSeededWindow(&fakeFetcher{})

	w.AddLine(1, 1, "a")
	w.AddLine(1, 1, "b")
	w.AddLine(0, 0, "elsewhere")
	w.AddLine(1, 1, "c")

	testutil.AssertEqual(t, "history", strings.Join(w.History(), ","), "a,b,c")
	testutil.AssertEqual(t, "outside", w.AddLine(9, 9, "lost"), false)
}

func TestLoadWindow(t *testing.T) {
	f := &fakeFetcher{cells: map[[2]int]*world.Cell{}}
	for gx := 0; gx < 3; gx++ {
		for gy := 0; gy < 3; gy++ {
			f.cells[[2]int{gx, gy}] = world.NewCell(gx, gy)
		}
	}

	// Centered on the world origin: the left column and top row are outside.
	w, err := LoadWindow(context.Background(), f, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "fetch count", len(f.fetched), 9)
	testutil.AssertEqual(t, "loaded", w.Loaded(), true)
	testutil.AssertEqual(t, "can shift right", w.CanShift(DirectionRight), true)
	testutil.AssertEqual(t, "can shift down", w.CanShift(DirectionDown), true)
	testutil.AssertEqual(t, "can shift left", w.CanShift(DirectionLeft), false)
	testutil.AssertEqual(t, "can shift up", w.CanShift(DirectionUp), false)
}

func TestLoadWindow_Error(t *testing.T) {
	f := &fakeFetcher{err: ErrClosed}

	_, err := LoadWindow(context.Background(), f, 0, 0)
	testutil.AssertEqual(t, "closed", errors.Is(err, ErrClosed), true)
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{DirectionLeft, DirectionRight, DirectionUp, DirectionDown} {
		got, err := ParseDirection(strings.ToUpper(d.String()))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "direction", got, d)
	}

	_, err := ParseDirection("sideways")
	testutil.AssertErrorContains(t, err, `unknown direction "sideways"`)
}
