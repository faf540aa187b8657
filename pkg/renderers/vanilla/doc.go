// Package vanilla renders the risk form as a server-side HTML page using the
// pongo2 engine and go-theme tokens for styling. Text returned by the
// prediction service is autoescaped and shown as sent; bluemonday vets theme
// token values before they reach the inline style block.
package vanilla
