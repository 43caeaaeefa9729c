package protocol

import (
	"strconv"
	"strings"
)

// Line tags that open each message on the control channel.
const (
	TagRequestRoom = "REQUEST ROOM"
	TagRoom        = "ROOM"
	TagFootstep    = "FOOTSTEP"
	TagMessage     = "MESSAGE"
)

// Message is anything that can be written to the control channel.
type Message interface {
	Encode() []byte
}

// RoomRequest asks the server for a snapshot of cell (GridX, GridY).
type RoomRequest struct {
	GridX int
	GridY int
}

func (m RoomRequest) Encode() []byte {
	return lines(TagRequestRoom, itoa(m.GridX), itoa(m.GridY))
}

// FootstepCommand reports that the sender stepped on tile (X, Y) of cell
// (GridX, GridY) at Time milliseconds since the epoch.
type FootstepCommand struct {
	GridX int
	GridY int
	X     int
	Y     int
	Time  int64
}

func (m FootstepCommand) Encode() []byte {
	return lines(TagFootstep, itoa(m.GridX), itoa(m.GridY), itoa(m.X), itoa(m.Y), strconv.FormatInt(m.Time, 10))
}

// MessageCommand is a chat line said in the sender's current cell.
type MessageCommand struct {
	Text string
}

func (m MessageCommand) Encode() []byte {
	return lines(TagMessage, SanitizeText(m.Text))
}

// RoomNotice announces that the next cell on the bulk channel answers an
// earlier RoomRequest.
type RoomNotice struct{}

func (RoomNotice) Encode() []byte {
	return lines(TagRoom)
}

// FootstepEvent tells a client that another participant stepped nearby.
type FootstepEvent struct {
	GridX         int
	GridY         int
	X             int
	Y             int
	Time          int64
	ParticipantId int
	Type          int
}

func (m FootstepEvent) Encode() []byte {
	return lines(TagFootstep, itoa(m.GridX), itoa(m.GridY), itoa(m.X), itoa(m.Y),
		strconv.FormatInt(m.Time, 10), itoa(m.ParticipantId), itoa(m.Type))
}

// MessageEvent tells a client that a chat line was said in cell (GridX, GridY).
type MessageEvent struct {
	GridX int
	GridY int
	Text  string
}

func (m MessageEvent) Encode() []byte {
	return lines(TagMessage, itoa(m.GridX), itoa(m.GridY), SanitizeText(m.Text))
}

// Welcome is sent on the control channel once the client reconnects. It
// carries the new participant's identity and the port of the bulk channel.
type Welcome struct {
	Id       int
	X        int
	Y        int
	Type     int
	BulkPort int
}

func (m Welcome) Encode() []byte {
	return lines(itoa(m.Id), itoa(m.X), itoa(m.Y), itoa(m.Type), itoa(m.BulkPort))
}

// PortAnnouncement is the only thing written on the rendezvous connection.
type PortAnnouncement struct {
	Port int
}

func (m PortAnnouncement) Encode() []byte {
	return lines(itoa(m.Port))
}

// SanitizeText flattens line breaks so text always fits on one protocol line.
func SanitizeText(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

func lines(parts ...string) []byte {
	n := 0
	for _, p := range parts {
		n += len(p) + 1
	}
	b := make([]byte, 0, n)
	for _, p := range parts {
		b = append(b, p...)
		b = append(b, '\n')
	}
	return b
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
