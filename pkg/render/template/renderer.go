package template

import (
	"io"
)

// TemplateRenderer is the engine seam the HTML surface renders through.
// Data is converted into a template context by the engine; out receives a
// copy of the rendered text when provided.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
