// Package server exposes the risk form over HTTP. GET / renders an empty
// form, POST / validates the posted fields and, when they are acceptable,
// runs one prediction and renders the outcome on the same page.
//
// The response format follows the Accept header through render.Registry, so
// the same handler serves the HTML page and the plain text summary.
package server
