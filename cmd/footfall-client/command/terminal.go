package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-footfall/internal/client"
	"github.com/pixil98/go-footfall/internal/display"
	"github.com/pixil98/go-footfall/internal/protocol"
)

const usage = `commands:
  /step <x> <y>    step on tile (x, y) of the current cell
  /pan <direction> move the view left, right, up or down
  /where           show the current cell
  /peers           list participants seen so far
  /history         show the current cell's chat
  /quit            leave
anything else is sent as chat`

// Terminal is a line based client. It reads commands from in and writes
// everything it has to show to out.
type Terminal struct {
	addr       string
	renderer   *display.Renderer
	pannerOpts []client.PannerOpt
	now        func() time.Time

	in io.Reader

	mu  sync.Mutex
	out io.Writer
}

func NewTerminal(addr string, renderer *display.Renderer, in io.Reader, out io.Writer, pannerOpts ...client.PannerOpt) *Terminal {
	return &Terminal{
		addr:       addr,
		renderer:   renderer,
		pannerOpts: pannerOpts,
		now:        time.Now,
		in:         in,
		out:        out,
	}
}

type whereView struct {
	GridX  int
	GridY  int
	Peers  int
	Nearby bool
}

func (t *Terminal) Start(ctx context.Context) error {
	session, err := client.Dial(ctx, t.addr, client.WithEventHandler(t.onEvent))
	if err != nil {
		return fmt.Errorf("joining world: %w", err)
	}
	defer session.Close()

	f := session.Facade()
	panner := client.NewPanner(f, t.pannerOpts...)
	t.printf("joined as participant %d\n%s\n", f.Id(), usage)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-session.Done():
			return fmt.Errorf("session ended: %w", session.Err())

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := t.handle(ctx, f, panner, line)
			if err != nil {
				t.printf("%v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

func (t *Terminal) handle(ctx context.Context, f *client.Facade, p *client.Panner, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		return false, f.SendMessage(ctx, line)
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit":
		return true, nil

	case "/step":
		if len(fields) != 3 {
			return false, fmt.Errorf("usage: /step <x> <y>")
		}
		x, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("parsing x: %w", err)
		}
		y, err := strconv.Atoi(fields[2])
		if err != nil {
			return false, fmt.Errorf("parsing y: %w", err)
		}
		if p.Active() {
			return false, fmt.Errorf("still panning")
		}
		if _, err := f.UpdateFootstep(ctx, x, y, t.now().UnixMilli()); err != nil {
			return false, err
		}

	case "/pan":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: /pan <direction>")
		}
		d, err := client.ParseDirection(fields[1])
		if err != nil {
			return false, err
		}
		if _, ok := p.Start(ctx, d, nil); !ok {
			return false, fmt.Errorf("cannot pan %s", d)
		}
		t.printf("%s\n", display.Capitalize(fmt.Sprintf("panning %s", d)))

	case "/where":
		gx, gy := f.Window().Center()
		s, err := t.renderer.Where(whereView{GridX: gx, GridY: gy, Peers: len(f.Peers()), Nearby: f.PeerNearby()})
		if err != nil {
			return false, err
		}
		t.printf("%s\n", s)

	case "/peers":
		for _, peer := range f.Peers() {
			s, err := t.renderer.Peer(peer)
			if err != nil {
				return false, err
			}
			t.printf("%s\n", s)
		}

	case "/history":
		t.printf("%s", t.renderer.History(f.History()))

	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}

	return false, nil
}

func (t *Terminal) onEvent(m protocol.Message) {
	var (
		s   string
		err error
	)
	switch ev := m.(type) {
	case protocol.FootstepEvent:
		s, err = t.renderer.Footstep(ev)
	case protocol.MessageEvent:
		s, err = t.renderer.Message(ev)
	default:
		return
	}
	if err != nil {
		t.printf("%v\n", err)
		return
	}
	t.printf("%s\n", s)
}

func (t *Terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}
