package world

// World geometry shared by the server and every client. None of these are
// negotiated on the wire so both sides must be built with the same values.
const (
	// WorldSize is the number of cells along each axis of the world.
	WorldSize = 10

	// CellWidth and CellHeight are the pixel dimensions of a single cell.
	CellWidth  = 640
	CellHeight = 480

	// TileSize is the pixel size of one footstep sub-cell.
	TileSize = 32

	// TilesX and TilesY are the number of footstep sub-cells in a cell.
	TilesX = CellWidth / TileSize
	TilesY = CellHeight / TileSize

	// WindowRadius is how many cells around the center a client caches. The
	// server uses the same radius to decide who hears about an update.
	WindowRadius = 1

	// WindowSpan is the number of cells along each axis of a client window.
	WindowSpan = 2*WindowRadius + 1

	// NumTypes is the number of participant appearance types.
	NumTypes = 2
)

// GridOf returns the cell containing the world pixel position (px, py).
func GridOf(px, py int) (gx, gy int) {
	return px / CellWidth, py / CellHeight
}

// Position returns the world pixel position of tile (x, y) inside cell (gx, gy).
func Position(gx, gy, x, y int) (px, py int) {
	return gx*CellWidth + x*TileSize, gy*CellHeight + y*TileSize
}

// CellCenter returns the world pixel position at the middle of cell (gx, gy).
func CellCenter(gx, gy int) (px, py int) {
	return gx*CellWidth + CellWidth/2, gy*CellHeight + CellHeight/2
}

// InBounds reports whether (gx, gy) names a cell of the world.
func InBounds(gx, gy int) bool {
	return gx >= 0 && gx < WorldSize && gy >= 0 && gy < WorldSize
}

// Within reports whether cell (gx, gy) lies inside the window centered on
// (cx, cy), i.e. within WindowRadius on both axes independently.
func Within(cx, cy, gx, gy int) bool {
	return abs(gx-cx) <= WindowRadius && abs(gy-cy) <= WindowRadius
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
