package world

import (
	"io"
	"sync"
)

// Participant is the server side state of a connected player.
type Participant struct {
	id   int
	kind int

	posMu sync.RWMutex
	x     int
	y     int

	// outMu keeps a whole message together when several sessions broadcast to
	// the same participant at once.
	outMu sync.Mutex
	out   io.Writer
}

// NewParticipant creates a participant at world pixel position (x, y) that
// receives its messages on out.
func NewParticipant(id, kind, x, y int, out io.Writer) *Participant {
	return &Participant{
		id:   id,
		kind: kind,
		x:    x,
		y:    y,
		out:  out,
	}
}

// Id returns the participant's server assigned id.
func (p *Participant) Id() int { return p.id }

// Type returns the participant's appearance type.
func (p *Participant) Type() int { return p.kind }

// Position returns the participant's world pixel position.
func (p *Participant) Position() (x, y int) {
	p.posMu.RLock()
	defer p.posMu.RUnlock()
	return p.x, p.y
}

// Grid returns the cell the participant is standing in.
func (p *Participant) Grid() (gx, gy int) {
	return GridOf(p.Position())
}

// MoveTo sets the participant's world pixel position.
func (p *Participant) MoveTo(x, y int) {
	p.posMu.Lock()
	defer p.posMu.Unlock()
	p.x = x
	p.y = y
}

// Send writes data to the participant's control channel as a single unit.
func (p *Participant) Send(data []byte) error {
	p.outMu.Lock()
	defer p.outMu.Unlock()

	_, err := p.out.Write(data)
	return err
}
