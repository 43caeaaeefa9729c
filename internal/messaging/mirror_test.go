package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pixil98/go-footfall/internal/protocol"
	"github.com/pixil98/go-testutil"
)

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func TestCellSubject(t *testing.T) {
	tests := map[string]struct {
		prefix string
		gx     int
		gy     int
		kind   string
		exp    string
	}{
		"footstep": {prefix: "footfall", gx: 3, gy: 4, kind: KindFootstep, exp: "footfall.cell.3.4.footstep"},
		"message":  {prefix: "world", gx: 0, gy: 9, kind: KindMessage, exp: "world.cell.0.9.message"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "subject", CellSubject(tt.prefix, tt.gx, tt.gy, tt.kind), tt.exp)
		})
	}
}

func TestMirror_MirrorFootstep(t *testing.T) {
	pub := &fakePublisher{}
	m := NewMirror(pub, "footfall")

	err := m.MirrorFootstep(context.Background(), "abc", protocol.FootstepEvent{
		GridX: 1, GridY: 2, X: 3, Y: 4, Time: 99, ParticipantId: 7, Type: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "published", len(pub.msgs), 1)
	testutil.AssertEqual(t, "subject", pub.msgs[0].subject, "footfall.cell.1.2.footstep")

	var got FootstepRecord
	if err := json.Unmarshal(pub.msgs[0].data, &got); err != nil {
		t.Fatalf("unmarshalling record: %v", err)
	}
	testutil.AssertEqual(t, "record", got, FootstepRecord{
		Session: "abc", Participant: 7, Type: 1, GridX: 1, GridY: 2, X: 3, Y: 4, Time: 99,
	})
}

func TestMirror_MirrorMessage(t *testing.T) {
	tests := map[string]struct {
		pubErr  error
		expErr  string
		expSubj string
	}{
		"published": {
			expSubj: "footfall.cell.5.6.message",
		},
		"publish fails": {
			pubErr: errors.New("boom"),
			expErr: "publishing footfall.cell.5.6.message: boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			pub := &fakePublisher{err: tt.pubErr}
			m := NewMirror(pub, "footfall")

			err := m.MirrorMessage(context.Background(), "abc", protocol.MessageEvent{GridX: 5, GridY: 6, Text: "hi"})
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "subject", pub.msgs[0].subject, tt.expSubj)
			var got MessageRecord
			if err := json.Unmarshal(pub.msgs[0].data, &got); err != nil {
				t.Fatalf("unmarshalling record: %v", err)
			}
			testutil.AssertEqual(t, "record", got, MessageRecord{Session: "abc", GridX: 5, GridY: 6, Text: "hi"})
		})
	}
}
