package render

import (
	"context"
)

// Renderer converts a View into a byte representation (HTML, plain text).
// Implementations must be pure projections: they never mutate the form or
// submission state behind the view.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View) ([]byte, error)
}
