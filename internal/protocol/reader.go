package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Reader decodes line oriented messages from a control channel.
type Reader struct {
	br *bufio.Reader
}

// NewReader creates a Reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadLine returns the next line without its terminator. A final line that
// ends at EOF without a newline is still returned.
func (r *Reader) ReadLine() (string, error) {
	s, err := r.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			return strings.TrimRight(s, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (r *Reader) readInt(field string) (int, error) {
	line, err := r.ReadLine()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", field, err)
	}
	return v, nil
}

func (r *Reader) readInt64(field string) (int64, error) {
	line, err := r.ReadLine()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", field, err)
	}
	return v, nil
}

// intFields reads one integer line per name into the matching destination.
func (r *Reader) intFields(names []string, dst ...*int) error {
	for i, name := range names {
		v, err := r.readInt(name)
		if err != nil {
			return err
		}
		*dst[i] = v
	}
	return nil
}

// ReadCommand reads the next client to server message. The result is a
// RoomRequest, FootstepCommand or MessageCommand.
func (r *Reader) ReadCommand() (Message, error) {
	tag, err := r.ReadLine()
	if err != nil {
		return nil, err
	}

	switch tag {
	case TagRequestRoom:
		var m RoomRequest
		if err := r.intFields([]string{"grid x", "grid y"}, &m.GridX, &m.GridY); err != nil {
			return nil, fmt.Errorf("reading %s: %w", tag, err)
		}
		return m, nil

	case TagFootstep:
		var m FootstepCommand
		if err := r.intFields([]string{"grid x", "grid y", "x", "y"}, &m.GridX, &m.GridY, &m.X, &m.Y); err != nil {
			return nil, fmt.Errorf("reading %s: %w", tag, err)
		}
		if m.Time, err = r.readInt64("time"); err != nil {
			return nil, fmt.Errorf("reading %s: %w", tag, err)
		}
		return m, nil

	case TagMessage:
		var m MessageCommand
		if m.Text, err = r.ReadLine(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", tag, err)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
}

// ReadEvent reads the next server to client message. The result is a
// RoomNotice, FootstepEvent or MessageEvent. For a RoomNotice the caller must
// read the matching cell from the bulk channel before reading another event.
func (r *Reader) ReadEvent() (Message, error) {
	tag, err := r.ReadLine()
	if err != nil {
		return nil, err
	}

	switch tag {
	case TagRoom:
		return RoomNotice{}, nil

	case TagFootstep:
		var m FootstepEvent
		if err := r.intFields([]string{"grid x", "grid y", "x", "y"}, &m.GridX, &m.GridY, &m.X, &m.Y); err != nil {
			return nil, fmt.Errorf("reading %s: %w", tag, err)
		}
		if m.Time, err = r.readInt64("time"); err != nil {
			return nil, fmt.Errorf("reading %s: %w", tag, err)
		}
		if err := r.intFields([]string{"participant id", "type"}, &m.ParticipantId, &m.Type); err != nil {
			return nil, fmt.Errorf("reading %s: %w", tag, err)
		}
		return m, nil

	case TagMessage:
		var m MessageEvent
		if err := r.intFields([]string{"grid x", "grid y"}, &m.GridX, &m.GridY); err != nil {
			return nil, fmt.Errorf("reading %s: %w", tag, err)
		}
		if m.Text, err = r.ReadLine(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", tag, err)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
}

// ReadPortAnnouncement reads the port written on the rendezvous connection.
func (r *Reader) ReadPortAnnouncement() (PortAnnouncement, error) {
	port, err := r.readInt("port")
	if err != nil {
		return PortAnnouncement{}, fmt.Errorf("reading port announcement: %w", err)
	}
	return PortAnnouncement{Port: port}, nil
}

// ReadWelcome reads the participant details sent after the reconnect.
func (r *Reader) ReadWelcome() (Welcome, error) {
	var m Welcome
	err := r.intFields([]string{"id", "x", "y", "type", "bulk port"}, &m.Id, &m.X, &m.Y, &m.Type, &m.BulkPort)
	if err != nil {
		return Welcome{}, fmt.Errorf("reading welcome: %w", err)
	}
	return m, nil
}
