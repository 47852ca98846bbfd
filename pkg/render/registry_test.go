package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recipes/pkg/forms"
	"github.com/goliatone/go-recipes/pkg/render"
	"github.com/goliatone/go-recipes/pkg/testsupport"
)

type stubRenderer struct {
	name string
	err  error
	got  render.RenderOptions
}

func (s *stubRenderer) Name() string        { return s.name }
func (s *stubRenderer) ContentType() string { return "text/plain" }
func (s *stubRenderer) Render(_ context.Context, form *forms.BoundForm, options render.RenderOptions) ([]byte, error) {
	s.got = options
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.name + ":" + form.Name()), nil
}

func TestRegistryDefaultsToFirstRenderer(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(&stubRenderer{name: "hybrid"})
	registry.MustRegister(&stubRenderer{name: "tui"})

	form := testsupport.UnboundRecipe(t, nil)
	out, contentType, err := registry.Render(testsupport.Context(), "", form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "hybrid:recipe" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q (%s)", out, contentType)
	}

	if err := registry.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	out, _, err = registry.Render(testsupport.Context(), "", form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "tui:recipe" {
		t.Fatalf("expected default switched, got %q", out)
	}

	if diff := cmp.Diff([]string{"hybrid", "tui"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsDuplicatesAndUnknown(t *testing.T) {
	registry := render.NewRegistry()
	if err := registry.Register(&stubRenderer{name: "hybrid"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(&stubRenderer{name: "hybrid"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := registry.Register(&stubRenderer{}); err == nil {
		t.Fatalf("expected error for unnamed renderer")
	}
	if _, err := registry.Get("missing"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
	if err := registry.SetDefault("missing"); err == nil {
		t.Fatalf("expected SetDefault error for unknown renderer")
	}
}

func TestRegistryWrapsRendererErrors(t *testing.T) {
	boom := errors.New("boom")
	registry := render.NewRegistry()
	registry.MustRegister(&stubRenderer{name: "broken", err: boom})

	_, _, err := registry.Render(testsupport.Context(), "broken", testsupport.UnboundRecipe(t, nil), render.RenderOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped renderer error, got %v", err)
	}
}

func TestRenderOptionsNormalized(t *testing.T) {
	got := render.RenderOptions{Method: " post ", Action: "/recipes/create/"}.Normalized()
	want := render.RenderOptions{Method: "POST", Action: "/recipes/create/", SubmitLabel: "Save"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}
