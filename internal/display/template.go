package display

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["capitalize"] = Capitalize
	return fm
}()

// Templates holds the console output formats. Each is a text/template with
// the sprig functions available.
type Templates struct {
	Footstep string `json:"footstep"`
	Message  string `json:"message"`
	Where    string `json:"where"`
	Peer     string `json:"peer"`
}

var DefaultTemplates = Templates{
	Footstep: `participant {{ .ParticipantId }} stepped on ({{ .X }},{{ .Y }}) in cell ({{ .GridX }},{{ .GridY }})`,
	Message:  `[{{ .GridX }},{{ .GridY }}] {{ .Text | trim }}`,
	Where:    `cell ({{ .GridX }},{{ .GridY }}), {{ .Peers }} {{ .Peers | plural "peer" "peers" }} seen{{ if .Nearby }}, someone is nearby{{ end }}`,
	Peer:     `{{ .Id }} type {{ .Type }} at ({{ .X }},{{ .Y }})`,
}

// withDefaults fills unset formats from DefaultTemplates.
func (t Templates) withDefaults() Templates {
	if t.Footstep == "" {
		t.Footstep = DefaultTemplates.Footstep
	}
	if t.Message == "" {
		t.Message = DefaultTemplates.Message
	}
	if t.Where == "" {
		t.Where = DefaultTemplates.Where
	}
	if t.Peer == "" {
		t.Peer = DefaultTemplates.Peer
	}
	return t
}

// Validate checks that every template parses.
func (t Templates) Validate() error {
	_, err := NewRenderer(t, DefaultWidth)
	return err
}

// Renderer expands the console templates and wraps the result.
type Renderer struct {
	footstep *template.Template
	message  *template.Template
	where    *template.Template
	peer     *template.Template
	width    int
}

func NewRenderer(t Templates, width int) (*Renderer, error) {
	t = t.withDefaults()
	r := &Renderer{width: width}

	for _, p := range []struct {
		name string
		src  string
		dst  **template.Template
	}{
		{"footstep", t.Footstep, &r.footstep},
		{"message", t.Message, &r.message},
		{"where", t.Where, &r.where},
		{"peer", t.Peer, &r.peer},
	} {
		tmpl, err := template.New(p.name).Funcs(templateFuncs).Parse(p.src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", p.name, err)
		}
		*p.dst = tmpl
	}

	return r, nil
}

func (r *Renderer) Footstep(data any) (string, error) { return r.render(r.footstep, data) }
func (r *Renderer) Message(data any) (string, error)  { return r.render(r.message, data) }
func (r *Renderer) Where(data any) (string, error)    { return r.render(r.where, data) }
func (r *Renderer) Peer(data any) (string, error)     { return r.render(r.peer, data) }

// History wraps chat lines for display.
func (r *Renderer) History(lines []string) string {
	if len(lines) == 0 {
		return "(no messages)\n"
	}
	return WrapLines(lines, r.width, "> ")
}

func (r *Renderer) render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", tmpl.Name(), err)
	}
	return Wrap(buf.String(), r.width), nil
}
