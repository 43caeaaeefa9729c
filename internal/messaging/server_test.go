package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/pixil98/go-footfall/internal/protocol"
	"github.com/pixil98/go-testutil"
)

func TestNatsServer_MirrorRoundTrip(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- s.Start(ctx) }()
	defer func() {
		cancel()
		<-stopped
	}()

	select {
	case <-s.Ready():
	case <-time.After(10 * time.Second):
		t.Fatal("nats server did not start")
	}

	got := make(chan string, 1)
	unsub, err := s.Subscribe(AllCells("footfall"), func(subject string, _ []byte) {
		got <- subject
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer unsub()

	m := NewMirror(s, "footfall")
	err = m.MirrorMessage(ctx, "abc", protocol.MessageEvent{GridX: 2, GridY: 3, Text: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case subject := <-got:
		testutil.AssertEqual(t, "subject", subject, "footfall.cell.2.3.message")
	case <-time.After(5 * time.Second):
		t.Fatal("mirrored message not received")
	}
}

func TestNatsServer_PublishBeforeStart(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = s.Publish("footfall.cell.0.0.message", []byte("{}"))
	testutil.AssertErrorContains(t, err, ErrNotStarted.Error())
}
