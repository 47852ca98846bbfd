package gotemplate

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recipes/pkg/render/template"
	"github.com/goliatone/go-recipes/pkg/testsupport"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	files := fstest.MapFS{
		"pages/layout.html":  {Data: []byte(`<main>{% block content %}{% endblock %}</main>`)},
		"pages/detail.html":  {Data: []byte(`{% extends "layout.html" %}{% block content %}{{ title|trim }}{% endblock %}`)},
		"partials/item.html": {Data: []byte(`{{ item.id }}:{{ item.name }}`)},
	}
	engine, err := New(append([]Option{WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestRenderTemplateResolvesExtendsRelativeToTemplate(t *testing.T) {
	engine := newTestEngine(t)

	got, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("pages/detail", map[string]any{"title": "  Soup  "}, w)
	})
	if diff := cmp.Diff("<main>Soup</main>", got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if written != got {
		t.Fatalf("writer output mismatch: %q", written)
	}
}

func TestRenderKeepsIntegersIntact(t *testing.T) {
	engine := newTestEngine(t)

	type item struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	got, err := engine.Render("partials/item.html", map[string]any{"item": item{ID: 3, Name: "Keto"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "3:Keto" {
		t.Fatalf("expected integer to render without fraction, got %q", got)
	}
}

func TestRenderStringEscapesValues(t *testing.T) {
	engine := newTestEngine(t)

	got, err := engine.Render(`<x-input :model-value='{{ value }}'>`, map[string]any{"value": `"Grandma's"`})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	want := `<x-input :model-value='&quot;Grandma&#39;s&quot;'>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestGlobalContext(t *testing.T) {
	engine := newTestEngine(t, WithGlobalData(map[string]any{"site": "Recipes"}))

	got, err := engine.RenderString(`{{ site }}/{{ page }}`, map[string]any{"page": "list"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Recipes/list" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRegisterFilter(t *testing.T) {
	engine := newTestEngine(t)

	shout := func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return strings.ToUpper(s), nil
	}
	if err := engine.RegisterFilter("gotemplate_test_shout", shout); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	got, err := engine.RenderString(`{{ name|gotemplate_test_shout }}`, map[string]any{"name": "soup"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "SOUP" {
		t.Fatalf("unexpected output %q", got)
	}

	err = engine.RegisterFilter("gotemplate_test_shout", shout)
	if !errors.Is(err, template.ErrFilterExists) {
		t.Fatalf("expected ErrFilterExists, got %v", err)
	}
}

func TestBaseDirShadowsFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "partials"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "partials", "item.html"), []byte(`custom {{ item.name }}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	engine := newTestEngine(t, WithBaseDir(dir))
	got, err := engine.RenderTemplate("partials/item", map[string]any{"item": map[string]any{"name": "Keto"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "custom Keto" {
		t.Fatalf("expected disk template to win, got %q", got)
	}

	got, err = engine.RenderTemplate("pages/detail", map[string]any{"title": "x"})
	if err != nil {
		t.Fatalf("render fallback: %v", err)
	}
	if got != "<main>x</main>" {
		t.Fatalf("expected embedded fallback, got %q", got)
	}
}

func TestNewRequiresLoader(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without loaders")
	}
	if _, err := New(WithBaseDir(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Fatalf("expected error for missing base dir")
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	engine := newTestEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
