package client

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/pixil98/go-footfall/internal/protocol"
	"golang.org/x/sync/semaphore"
)

// Outbound serializes every write to the shared control channel. Footsteps,
// chat and cell requests may come from different goroutines; each message is
// written and flushed while holding a single token.
type Outbound struct {
	token *semaphore.Weighted
	w     *bufio.Writer
}

// NewOutbound creates an Outbound writing to w.
func NewOutbound(w io.Writer) *Outbound {
	return &Outbound{
		token: semaphore.NewWeighted(1),
		w:     bufio.NewWriter(w),
	}
}

// Send writes m to the control channel.
func (o *Outbound) Send(ctx context.Context, m protocol.Message) error {
	return o.sendWith(ctx, m, nil)
}

// sendWith runs before, if set, then writes m, all while holding the token so
// that whatever before records happens in write order. An error from before
// skips the write.
func (o *Outbound) sendWith(ctx context.Context, m protocol.Message, before func() error) error {
	if err := o.token.Acquire(ctx, 1); err != nil {
		return err
	}
	defer o.token.Release(1)

	if before != nil {
		if err := before(); err != nil {
			return err
		}
	}

	if _, err := o.w.Write(m.Encode()); err != nil {
		return fmt.Errorf("writing to server: %w", err)
	}
	if err := o.w.Flush(); err != nil {
		return fmt.Errorf("flushing to server: %w", err)
	}
	return nil
}
