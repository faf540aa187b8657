package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-riskform/pkg/render"
)

const notSet = "(not set)"

// Renderer implements render.Renderer as a plain text summary of the form
// and its last outcome. The session prints it after each prediction and the
// HTML server returns it to clients that ask for text/plain.
type Renderer struct {
	theme Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer.
func New(options ...Option) *Renderer {
	s := newSettings(options)
	return &Renderer{theme: s.theme}
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes the view as text.
func (r *Renderer) Render(ctx context.Context, view render.View) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(view.Title)
	b.WriteString("\n\n")

	for _, control := range view.Controls {
		b.WriteString(control.Label)
		b.WriteString(": ")
		b.WriteString(controlText(control))
		if control.Error != "" {
			b.WriteString(" [")
			b.WriteString(control.Error)
			b.WriteString("]")
		}
		b.WriteString("\n")
	}

	if view.Submit.Disabled {
		b.WriteString("\n")
		b.WriteString(r.theme.InfoPrefix)
		b.WriteString(view.Submit.Label)
		b.WriteString("\n")
	}

	if view.Error != nil {
		b.WriteString("\n")
		b.WriteString(r.theme.ErrorPrefix)
		b.WriteString(view.Error.Message)
		b.WriteString("\n")
	}

	if view.Result != nil {
		b.WriteString("\n")
		b.WriteString(view.Result.Title)
		b.WriteString("\n")
		for _, line := range view.Result.Lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(view.Result.Disclaimer)
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func controlText(control render.Control) string {
	switch control.Type {
	case render.ControlSelect, render.ControlButtons:
		if selected := control.Selected(); selected != "" {
			return selected
		}
		return notSet
	default:
		if strings.TrimSpace(control.Value) == "" {
			return notSet
		}
		return control.Value
	}
}
