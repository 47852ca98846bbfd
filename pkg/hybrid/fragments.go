package hybrid

import (
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-recipes/pkg/forms"
)

const (
	fragmentPrefix = "hybrid_forms/widgets/"
	// FormTemplate renders a whole form around already rendered fields.
	FormTemplate = "hybrid_forms/base_form.html"
	// themeTemplatePrefix namespaces widget overrides in theme manifests,
	// e.g. "forms.select".
	themeTemplatePrefix = "forms."
)

// Fragments maps widget kinds to fragment template names.
type Fragments map[forms.WidgetKind]string

// DefaultFragments returns the built-in fragment table.
func DefaultFragments() Fragments {
	return Fragments{
		forms.WidgetText:           fragmentPrefix + "text.html",
		forms.WidgetEmail:          fragmentPrefix + "text.html",
		forms.WidgetTextarea:       fragmentPrefix + "textarea.html",
		forms.WidgetNumber:         fragmentPrefix + "number.html",
		forms.WidgetSelect:         fragmentPrefix + "select.html",
		forms.WidgetSelectMultiple: fragmentPrefix + "select.html",
		forms.WidgetRadio:          fragmentPrefix + "radio.html",
		forms.WidgetCheckbox:       fragmentPrefix + "checkbox.html",
		forms.WidgetHidden:         fragmentPrefix + "hidden.html",
	}
}

// Resolve picks the fragment for a field: its alternate template when set,
// otherwise the entry for kind, otherwise the text fragment.
func (f Fragments) Resolve(field forms.Field, kind forms.WidgetKind) string {
	if tpl := strings.TrimSpace(field.Template); tpl != "" {
		return tpl
	}
	if tpl, ok := f[kind]; ok && tpl != "" {
		return tpl
	}
	if tpl, ok := f[forms.WidgetText]; ok && tpl != "" {
		return tpl
	}
	return fragmentPrefix + "text.html"
}

func (f Fragments) clone() Fragments {
	out := make(Fragments, len(f))
	for kind, tpl := range f {
		out[kind] = tpl
	}
	return out
}

// themeFragments extracts "forms.<kind>" template overrides from a manifest
// and, when variant is set, from that variant on top.
func themeFragments(manifest *theme.Manifest, variant string) Fragments {
	out := Fragments{}
	if manifest == nil {
		return out
	}
	collect := func(templates map[string]string) {
		for key, tpl := range templates {
			kind, ok := strings.CutPrefix(key, themeTemplatePrefix)
			if !ok || strings.TrimSpace(tpl) == "" {
				continue
			}
			out[forms.WidgetKind(kind)] = strings.TrimSpace(tpl)
		}
	}
	collect(manifest.Templates)
	if v, ok := manifest.Variants[variant]; ok && variant != "" {
		collect(v.Templates)
	}
	return out
}
