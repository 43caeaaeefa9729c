package protocol

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestReader_ReadCommand(t *testing.T) {
	tests := map[string]struct {
		input  string
		exp    Message
		expErr string
	}{
		"room request": {
			input: "REQUEST ROOM\n4\n5\n",
			exp:   RoomRequest{GridX: 4, GridY: 5},
		},
		"footstep": {
			input: "FOOTSTEP\n1\n2\n3\n4\n1700000000123\n",
			exp:   FootstepCommand{GridX: 1, GridY: 2, X: 3, Y: 4, Time: 1700000000123},
		},
		"message": {
			input: "MESSAGE\nhello world\n",
			exp:   MessageCommand{Text: "hello world"},
		},
		"crlf line endings": {
			input: "REQUEST ROOM\r\n4\r\n5\r\n",
			exp:   RoomRequest{GridX: 4, GridY: 5},
		},
		"non numeric field": {
			input:  "FOOTSTEP\n1\nabc\n3\n4\n5\n",
			expErr: "reading FOOTSTEP: parsing grid y",
		},
		"short command": {
			input:  "REQUEST ROOM\n4\n",
			expErr: "EOF",
		},
		"unknown tag": {
			input:  "DANCE\n",
			expErr: `unknown message tag: "DANCE"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NewReader(strings.NewReader(tt.input)).ReadCommand()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "message", got, tt.exp)
		})
	}
}

func TestReader_ReadEvent(t *testing.T) {
	tests := map[string]struct {
		input  string
		exp    Message
		expErr string
	}{
		"room": {
			input: "ROOM\n",
			exp:   RoomNotice{},
		},
		"footstep": {
			input: "FOOTSTEP\n5\n5\n0\n14\n99\n7\n1\n",
			exp:   FootstepEvent{GridX: 5, GridY: 5, X: 0, Y: 14, Time: 99, ParticipantId: 7, Type: 1},
		},
		"message": {
			input: "MESSAGE\n2\n0\nhi there\n",
			exp:   MessageEvent{GridX: 2, GridY: 0, Text: "hi there"},
		},
		"footstep missing type": {
			input:  "FOOTSTEP\n5\n5\n0\n14\n99\n7\n",
			expErr: "EOF",
		},
		"bad participant id": {
			input:  "FOOTSTEP\n5\n5\n0\n14\n99\nseven\n1\n",
			expErr: "parsing participant id",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NewReader(strings.NewReader(tt.input)).ReadEvent()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "message", got, tt.exp)
		})
	}
}

func TestReader_UnknownTagKeepsAlignment(t *testing.T) {
	r := NewReader(strings.NewReader("NOISE\nMESSAGE\nstill here\n"))

	_, err := r.ReadCommand()
	testutil.AssertEqual(t, "unknown tag", errors.Is(err, ErrUnknownTag), true)

	got, err := r.ReadCommand()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "message", got, Message(MessageCommand{Text: "still here"}))
}

func TestReader_Handshake(t *testing.T) {
	// The port may arrive without a trailing newline before the socket closes.
	pa, err := NewReader(strings.NewReader("2220")).ReadPortAnnouncement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "port", pa.Port, 2220)

	w, err := NewReader(strings.NewReader("4\n320\n240\n1\n2225\n")).ReadWelcome()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "welcome", w, Welcome{Id: 4, X: 320, Y: 240, Type: 1, BulkPort: 2225})

	_, err = NewReader(strings.NewReader("4\n320\n")).ReadWelcome()
	testutil.AssertEqual(t, "short welcome", errors.Is(err, io.EOF), true)
}
