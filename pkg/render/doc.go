// Package render projects the form and submission state onto a View and
// defines the Renderer contract implemented by the HTML and terminal
// surfaces. Renderers are looked up by name or negotiated by media type
// through a Registry.
package render
