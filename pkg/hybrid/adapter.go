package hybrid

import (
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-recipes/pkg/forms"
	"github.com/goliatone/go-recipes/pkg/render"
	"github.com/goliatone/go-recipes/pkg/render/template"
)

//go:embed templates
var embeddedTemplates embed.FS

// Templates exposes the built-in fragments rooted so that names such as
// "hybrid_forms/widgets/text.html" resolve directly.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// ContextProvider builds the template context for a field fragment.
type ContextProvider func(bf *forms.BoundField, meta Metadata) map[string]any

// FieldContext is the default ContextProvider. Fragments see only
// {"field": meta}.
func FieldContext(_ *forms.BoundField, meta Metadata) map[string]any {
	return map[string]any{"field": meta}
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithFragments merges entries into the fragment table.
func WithFragments(fragments Fragments) AdapterOption {
	return func(a *Adapter) {
		for kind, tpl := range fragments {
			if tpl = strings.TrimSpace(tpl); tpl != "" {
				a.fragments[kind] = tpl
			}
		}
	}
}

// WithFragment maps a single widget kind to a fragment.
func WithFragment(kind forms.WidgetKind, tpl string) AdapterOption {
	return WithFragments(Fragments{kind: tpl})
}

// WithContextProvider replaces the default FieldContext.
func WithContextProvider(provider ContextProvider) AdapterOption {
	return func(a *Adapter) {
		if provider != nil {
			a.provider = provider
		}
	}
}

// WithFormTemplate replaces the template used by RenderForm.
func WithFormTemplate(name string) AdapterOption {
	return func(a *Adapter) {
		if name = strings.TrimSpace(name); name != "" {
			a.formTemplate = name
		}
	}
}

// WithTheme applies "forms.<widget>" template overrides from a theme
// manifest and the selected variant.
func WithTheme(manifest *theme.Manifest, variant string) AdapterOption {
	return WithFragments(themeFragments(manifest, variant))
}

// Adapter renders bound fields through widget fragments. It holds no
// per-request state and is safe for concurrent use once constructed.
type Adapter struct {
	renderer     template.TemplateRenderer
	fragments    Fragments
	provider     ContextProvider
	formTemplate string
}

var _ render.Renderer = (*Adapter)(nil)

// New builds an Adapter on renderer and registers the js_boolean filter.
func New(renderer template.TemplateRenderer, opts ...AdapterOption) (*Adapter, error) {
	if renderer == nil {
		return nil, errors.New("hybrid: template renderer required")
	}

	adapter := &Adapter{
		renderer:     renderer,
		fragments:    DefaultFragments(),
		provider:     FieldContext,
		formTemplate: FormTemplate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}

	if err := renderer.RegisterFilter("js_boolean", jsBooleanFilter); err != nil && !errors.Is(err, template.ErrFilterExists) {
		return nil, fmt.Errorf("hybrid: register js_boolean: %w", err)
	}
	return adapter, nil
}

// Fragments returns a copy of the fragment table.
func (a *Adapter) Fragments() Fragments {
	return a.fragments.clone()
}

// Metadata derives the rendering metadata for bf.
func (a *Adapter) Metadata(bf *forms.BoundField) Metadata {
	return Adapt(bf, a.fragments)
}

// RenderField renders bf through its fragment and returns markup that is
// already escaped.
func (a *Adapter) RenderField(bf *forms.BoundField) (htmltemplate.HTML, error) {
	if bf == nil {
		return "", errors.New("hybrid: bound field required")
	}
	meta := a.Metadata(bf)
	data := a.provider(bf, meta)
	if data == nil {
		data = FieldContext(bf, meta)
	}
	out, err := a.renderer.RenderTemplate(meta.Template, data)
	if err != nil {
		return "", fmt.Errorf("hybrid: render field %q: %w", bf.Name(), err)
	}
	return htmltemplate.HTML(strings.TrimSpace(out)), nil
}

// RenderForm renders every field of form inside the form template, with
// hidden fields first and non-field errors above the visible fields.
func (a *Adapter) RenderForm(form *forms.BoundForm, options render.RenderOptions) (htmltemplate.HTML, error) {
	if form == nil {
		return "", errors.New("hybrid: bound form required")
	}
	options = options.Normalized()

	var hiddenFields, visibleFields []string
	for _, bf := range form.Fields() {
		markup, err := a.RenderField(bf)
		if err != nil {
			return "", err
		}
		if bf.Widget().IsHidden() {
			hiddenFields = append(hiddenFields, string(markup))
			continue
		}
		visibleFields = append(visibleFields, string(markup))
	}

	method := options.Method
	hidden := hiddenInputs(options.Hidden)
	if method != "GET" && method != "POST" {
		hidden = append(hidden, map[string]any{"name": "_method", "value": method})
		method = "POST"
	}

	nonFieldErrors := form.NonFieldErrors()
	data := map[string]any{
		"form": map[string]any{
			"name":               form.Name(),
			"action":             options.Action,
			"method":             strings.ToLower(method),
			"submitLabel":        options.SubmitLabel,
			"hidden":             hidden,
			"nonFieldErrors":     nonFieldErrors,
			"nonFieldErrorsJSON": encodeJSON(nonFieldErrors),
		},
		"fields": append(hiddenFields, visibleFields...),
	}
	out, err := a.renderer.RenderTemplate(a.formTemplate, data)
	if err != nil {
		return "", fmt.Errorf("hybrid: render form %q: %w", form.Name(), err)
	}
	return htmltemplate.HTML(out), nil
}

// Name implements render.Renderer.
func (a *Adapter) Name() string { return "hybrid" }

// ContentType implements render.Renderer.
func (a *Adapter) ContentType() string { return "text/html; charset=utf-8" }

// Render implements render.Renderer.
func (a *Adapter) Render(ctx context.Context, form *forms.BoundForm, options render.RenderOptions) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	out, err := a.RenderForm(form, options)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func hiddenInputs(values map[string]string) []map[string]any {
	fields := render.SortedHiddenFields(values)
	out := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}
