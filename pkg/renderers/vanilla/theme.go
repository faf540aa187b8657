package vanilla

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	// DefaultThemeName is the manifest bundled with the renderer.
	DefaultThemeName = "riskform"
	// PageTemplateKey lets a theme replace the page template through its
	// Templates map.
	PageTemplateKey = "riskform.page"
	// StylesheetAssetKey names the stylesheet in a theme's asset files.
	StylesheetAssetKey = "stylesheet"
)

var (
	ErrThemeNotFound   = errors.New("vanilla: theme not found")
	ErrVariantNotFound = errors.New("vanilla: theme variant not found")
)

// DefaultManifest describes the bundled look: a light palette and a dark
// variant, with the stylesheet served from /assets.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-page":         "#f3f4f6",
			"color-surface":      "#ffffff",
			"color-text":         "#111827",
			"color-subtle":       "#4b5563",
			"color-border":       "#d1d5db",
			"color-muted":        "#e5e7eb",
			"color-primary":      "#3b82f6",
			"color-on-primary":   "#ffffff",
			"color-action":       "#22c55e",
			"color-action-hover": "#16a34a",
			"color-error":        "#fee2e2",
			"color-error-text":   "#b91c1c",
			"color-result":       "#dbeafe",
			"radius":             "0.5rem",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				StylesheetAssetKey: StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-page":    "#111827",
					"color-surface": "#1f2937",
					"color-text":    "#f9fafb",
					"color-subtle":  "#9ca3af",
					"color-border":  "#374151",
					"color-muted":   "#374151",
					"color-result":  "#1e3a8a",
				},
			},
		},
	}
}

// ManifestSelector resolves theme names against an in-memory set of
// manifests. The first registered manifest answers empty names.
type ManifestSelector struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests in order.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	selector := &ManifestSelector{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		if err := selector.Register(manifest); err != nil {
			return nil, err
		}
	}
	return selector, nil
}

// Register adds a manifest. Names must be unique.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("vanilla: theme manifest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("vanilla: theme %q already registered", manifest.Name)
	}
	s.manifests[manifest.Name] = manifest
	if s.fallback == "" {
		s.fallback = manifest.Name
	}
	return nil
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = s.fallback
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q/%q", ErrVariantNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection: variant tokens, templates and asset
// files override the base manifest, and every token becomes a CSS custom
// property named "--<token>".
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)
	prefix := manifest.Assets.Prefix
	if strings.TrimSpace(variant.Assets.Prefix) != "" {
		prefix = variant.Assets.Prefix
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeStrings(manifest.Templates, variant.Templates),
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		value, ok := cssValue(vars[key])
		if !ok || strings.ContainsAny(key, ";{}<>: \t\n") {
			continue
		}
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
