package protocol

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/pixil98/go-footfall/internal/world"
)

// cellFrame wraps each cell on the bulk channel so that a request for a
// coordinate outside the world can still be answered with exactly one frame.
type cellFrame struct {
	Cell *world.Cell
}

// BulkWriter writes cell snapshots to a bulk channel. It is owned by a single
// session and is not safe for concurrent use.
type BulkWriter struct {
	enc *gob.Encoder
}

// NewBulkWriter creates a BulkWriter on w.
func NewBulkWriter(w io.Writer) *BulkWriter {
	return &BulkWriter{enc: gob.NewEncoder(w)}
}

// WriteCell writes one frame. A nil cell is sent as an empty frame.
func (b *BulkWriter) WriteCell(c *world.Cell) error {
	if err := b.enc.Encode(&cellFrame{Cell: c}); err != nil {
		return fmt.Errorf("writing cell frame: %w", err)
	}
	return nil
}

// BulkReader reads cell snapshots from a bulk channel.
type BulkReader struct {
	dec *gob.Decoder
}

// NewBulkReader creates a BulkReader on r.
func NewBulkReader(r io.Reader) *BulkReader {
	return &BulkReader{dec: gob.NewDecoder(r)}
}

// ReadCell reads one frame. An empty frame returns ErrMissingPayload.
func (b *BulkReader) ReadCell() (*world.Cell, error) {
	var f cellFrame
	if err := b.dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("reading cell frame: %w", err)
	}
	if f.Cell == nil {
		return nil, ErrMissingPayload
	}
	return f.Cell, nil
}
