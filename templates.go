package riskform

import (
	"io/fs"

	"github.com/goliatone/go-riskform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the default stylesheet for mounting under /assets/.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
