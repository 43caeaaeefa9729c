package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-footfall/internal/protocol"
)

const (
	KindFootstep = "footstep"
	KindMessage  = "message"
)

type publisher interface {
	Publish(subject string, data []byte) error
}

// FootstepRecord is the JSON body published for each footstep.
type FootstepRecord struct {
	Session     string `json:"session"`
	Participant int    `json:"participant"`
	Type        int    `json:"type"`
	GridX       int    `json:"grid_x"`
	GridY       int    `json:"grid_y"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Time        int64  `json:"time"`
}

// MessageRecord is the JSON body published for each chat line.
type MessageRecord struct {
	Session string `json:"session"`
	GridX   int    `json:"grid_x"`
	GridY   int    `json:"grid_y"`
	Text    string `json:"text"`
}

// Mirror republishes world events on per cell subjects so observers outside
// the game can follow along.
type Mirror struct {
	pub    publisher
	prefix string
}

// NewMirror creates a mirror publishing under prefix.
func NewMirror(pub publisher, prefix string) *Mirror {
	return &Mirror{pub: pub, prefix: prefix}
}

// CellSubject returns the subject events of kind for cell (gx, gy) are
// published on.
func CellSubject(prefix string, gx, gy int, kind string) string {
	return fmt.Sprintf("%s.cell.%d.%d.%s", prefix, gx, gy, kind)
}

// AllCells returns a wildcard subject matching every mirrored event.
func AllCells(prefix string) string {
	return prefix + ".cell.>"
}

func (m *Mirror) MirrorFootstep(_ context.Context, session string, ev protocol.FootstepEvent) error {
	return m.publish(CellSubject(m.prefix, ev.GridX, ev.GridY, KindFootstep), FootstepRecord{
		Session:     session,
		Participant: ev.ParticipantId,
		Type:        ev.Type,
		GridX:       ev.GridX,
		GridY:       ev.GridY,
		X:           ev.X,
		Y:           ev.Y,
		Time:        ev.Time,
	})
}

func (m *Mirror) MirrorMessage(_ context.Context, session string, ev protocol.MessageEvent) error {
	return m.publish(CellSubject(m.prefix, ev.GridX, ev.GridY, KindMessage), MessageRecord{
		Session: session,
		GridX:   ev.GridX,
		GridY:   ev.GridY,
		Text:    ev.Text,
	})
}

func (m *Mirror) publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", subject, err)
	}
	if err := m.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing %s: %w", subject, err)
	}
	return nil
}
