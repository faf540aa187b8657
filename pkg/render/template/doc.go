// Package template defines the renderer-agnostic template engine contract.
// The pongo2 implementation lives in the gotemplate subpackage.
package template
