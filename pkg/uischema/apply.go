package uischema

import (
	"fmt"

	"github.com/goliatone/go-recipes/pkg/forms"
)

// Apply returns a copy of form with the field overrides configured for its
// name. A nil store returns form unchanged. Overrides naming fields the form does not declare are errors.
func (s *Store) Apply(form *forms.Form) (*forms.Form, error) {
	if form == nil {
		return nil, fmt.Errorf("uischema: apply on nil form")
	}
	cfg, ok := s.Form(form.Name())
	if !ok || len(cfg.Fields) == 0 {
		return form, nil
	}

	overrides := make(map[string]forms.FieldOverride, len(cfg.Fields))
	for name, field := range cfg.Fields {
		overrides[name] = forms.FieldOverride{
			Label:     field.Label,
			HelpText:  field.HelpText,
			HideLabel: field.HideLabel,
			Template:  field.Template,
		}
	}

	out, err := form.Override(overrides)
	if err != nil {
		return nil, fmt.Errorf("uischema: form %q (file %s): %w", cfg.Name, cfg.Source, err)
	}
	return out, nil
}
