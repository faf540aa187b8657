// Package tui is the terminal surface of the risk form: an interactive
// Session that prompts through a PromptDriver (survey by default) and a text
// Renderer for results.
package tui
