package display

import (
	"testing"

	"github.com/pixil98/go-footfall/internal/protocol"
	"github.com/pixil98/go-testutil"
)

func TestWrap(t *testing.T) {
	tests := map[string]struct {
		text  string
		width int
		exp   string
	}{
		"fits": {
			text:  "hello",
			width: 10,
			exp:   "hello",
		},
		"breaks on space": {
			text:  "hello world",
			width: 6,
			exp:   "hello\nworld",
		},
		"zero width uses default": {
			text:  "hello world",
			width: 0,
			exp:   "hello world",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "wrapped", Wrap(tt.text, tt.width), tt.exp)
		})
	}
}

func TestWrapLines(t *testing.T) {
	tests := map[string]struct {
		lines []string
		width int
		exp   string
	}{
		"single line": {
			lines: []string{"hi"},
			width: 20,
			exp:   "> hi\n",
		},
		"continuation indented": {
			lines: []string{"hello world"},
			width: 8,
			exp:   "> hello\n  world\n",
		},
		"several lines": {
			lines: []string{"a", "b"},
			width: 20,
			exp:   "> a\n> b\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "wrapped", WrapLines(tt.lines, tt.width, "> "), tt.exp)
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"empty":      {in: "", exp: ""},
		"lower":      {in: "left", exp: "Left"},
		"already up": {in: "Up", exp: "Up"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "capitalized", Capitalize(tt.in), tt.exp)
		})
	}
}

type whereData struct {
	GridX  int
	GridY  int
	Peers  int
	Nearby bool
}

func TestRenderer(t *testing.T) {
	r, err := NewRenderer(Templates{}, DefaultWidth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		render func() (string, error)
		exp    string
	}{
		"footstep": {
			render: func() (string, error) {
				return r.Footstep(protocol.FootstepEvent{GridX: 1, GridY: 2, X: 3, Y: 4, ParticipantId: 7})
			},
			exp: "participant 7 stepped on (3,4) in cell (1,2)",
		},
		"message": {
			render: func() (string, error) {
				return r.Message(protocol.MessageEvent{GridX: 1, GridY: 2, Text: " hi "})
			},
			exp: "[1,2] hi",
		},
		"where alone": {
			render: func() (string, error) {
				return r.Where(whereData{GridX: 5, GridY: 5, Peers: 1})
			},
			exp: "cell (5,5), 1 peer seen",
		},
		"where nearby": {
			render: func() (string, error) {
				return r.Where(whereData{GridX: 5, GridY: 5, Peers: 2, Nearby: true})
			},
			exp: "cell (5,5), 2 peers seen, someone is nearby",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tt.render()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "rendered", got, tt.exp)
		})
	}
}

func TestRenderer_History(t *testing.T) {
	r, err := NewRenderer(Templates{}, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "empty", r.History(nil), "(no messages)\n")
	testutil.AssertEqual(t, "lines", r.History([]string{"a", "b"}), "> a\n> b\n")
}

func TestTemplates_Validate(t *testing.T) {
	tests := map[string]struct {
		tmpl   Templates
		expErr string
	}{
		"defaults": {},
		"custom": {
			tmpl: Templates{Message: `{{ .Text | capitalize }}`},
		},
		"bad syntax": {
			tmpl:   Templates{Where: `{{ .GridX `},
			expErr: "parsing where template",
		},
		"unknown function": {
			tmpl:   Templates{Peer: `{{ .Id | nosuchfunc }}`},
			expErr: "parsing peer template",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.tmpl.Validate()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRenderer_CustomTemplate(t *testing.T) {
	r, err := NewRenderer(Templates{Message: `{{ .Text | capitalize }}`}, DefaultWidth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := r.Message(protocol.MessageEvent{Text: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "rendered", got, "Hello")
}
