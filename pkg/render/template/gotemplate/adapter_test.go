package gotemplate_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-riskform/pkg/render/template/gotemplate"
)

var templates = fstest.MapFS{
	"hello.tmpl":          {Data: []byte(`Hello {{ name }}!`)},
	"panel.tmpl":          {Data: []byte(`{{ title }}:{% for line in lines %}[{{ line }}]{% endfor %}`)},
	"escape.tmpl":         {Data: []byte(`<p>{{ name }}</p>`)},
	"pages/outer.tmpl":    {Data: []byte(`<{% include "inner.tmpl" %}>`)},
	"pages/inner.tmpl":    {Data: []byte(`inner {{ name }}`)},
	"pages/page.html.tpl": {Data: []byte(`ext {{ name }}`)},
}

type panel struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templates)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	var written strings.Builder
	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &written)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hello Ada!" {
		t.Fatalf("unexpected result %q", result)
	}
	if written.String() != result {
		t.Fatalf("writer mismatch: %q", written.String())
	}
}

func TestEngine_StructDataUsesJSONNames(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("panel.tmpl", panel{
		Title: "Prediction Results of Ada",
		Lines: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Prediction Results of Ada:[a][b]" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestEngine_IncludeResolvesNextToParent(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("pages/outer", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<inner Ada>" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestEngine_CustomExtension(t *testing.T) {
	engine := newEngine(t, gotemplate.WithExtension("html.tpl"))

	got, err := engine.RenderTemplate("pages/page", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ext Ada" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestEngine_AutoescapesValues(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("escape", map[string]any{"name": "<b>Ada</b> a<b"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<p>&lt;b&gt;Ada&lt;/b&gt; a&lt;b</p>" {
		t.Fatalf("expected escaped output, got %q", got)
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}

func TestRenderTemplate_Missing(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
