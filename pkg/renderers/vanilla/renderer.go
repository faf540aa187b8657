package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-riskform/pkg/render"
	rendertemplate "github.com/goliatone/go-riskform/pkg/render/template"
	"github.com/goliatone/go-riskform/pkg/render/template/gotemplate"
)

const pageTemplate = "templates/page.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	selector         theme.ThemeSelector
	themeName        string
	themeVariant     string
	action           string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeSelector resolves themes through selector instead of the bundled
// manifest.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		if selector != nil {
			cfg.selector = selector
		}
	}
}

// WithTheme picks the theme and variant. Empty values select the defaults.
func WithTheme(name, variant string) Option {
	return func(cfg *config) {
		cfg.themeName = strings.TrimSpace(name)
		cfg.themeVariant = strings.TrimSpace(variant)
	}
}

// WithAction sets the form's POST target. Defaults to "/".
func WithAction(action string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(action) != "" {
			cfg.action = action
		}
	}
}

// Renderer draws the form page as server-rendered HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     *theme.RendererConfig
	action    string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options. The
// theme is resolved once here.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), action: "/"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	selector := cfg.selector
	if selector == nil {
		defaults, err := NewManifestSelector(DefaultManifest())
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: default theme: %w", err)
		}
		selector = defaults
	}
	selection, err := selector.Select(cfg.themeName, cfg.themeVariant)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: select theme: %w", err)
	}

	return &Renderer{
		templates: renderer,
		theme:     RendererConfig(selection),
		action:    cfg.action,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Theme returns the resolved theme configuration.
func (r *Renderer) Theme() *theme.RendererConfig {
	return r.theme
}

func (r *Renderer) Render(_ context.Context, view render.View) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(r.pageTemplate(), map[string]any{
		"view":       view,
		"theme":      r.themeContext(),
		"action":     r.action,
		"stylesheet": defaultStylesheet(),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) pageTemplate() string {
	if r.theme != nil {
		if partial := strings.TrimSpace(r.theme.Partials[PageTemplateKey]); partial != "" {
			return partial
		}
	}
	return pageTemplate
}

func (r *Renderer) themeContext() map[string]any {
	if r.theme == nil {
		return map[string]any{}
	}
	ctx := map[string]any{
		"name":           r.theme.Theme,
		"variant":        r.theme.Variant,
		"css_vars_style": cssVarsStyle(r.theme.CSSVars),
	}
	if r.theme.AssetURL != nil {
		ctx["stylesheet"] = r.theme.AssetURL(StylesheetAssetKey)
	}
	return ctx
}
