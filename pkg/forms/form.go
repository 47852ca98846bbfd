// Package forms defines form fields, binds request data to them and cleans the
// submitted values. Definitions are built once and shared; bound forms live for
// a single request.
package forms

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyFormName  = errors.New("forms: form name required")
	ErrEmptyFieldName = errors.New("forms: field name required")
	ErrDuplicateField = errors.New("forms: duplicate field")
	ErrUnknownField   = errors.New("forms: unknown field")
	ErrInvalidKind    = errors.New("forms: invalid field kind")
)

// Form is an ordered, immutable set of field definitions.
type Form struct {
	name   string
	fields []Field
	index  map[string]int
}

// New validates the definitions and returns a Form. Missing labels and
// widgets are filled with defaults derived from the field name and kind.
func New(name string, fields ...Field) (*Form, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyFormName
	}

	form := &Form{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, field := range fields {
		field = cloneField(field)
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return nil, ErrEmptyFieldName
		}
		if _, exists := form.index[field.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, field.Name)
		}
		if !validKind(field.Kind) {
			return nil, fmt.Errorf("%w: %q on field %q", ErrInvalidKind, field.Kind, field.Name)
		}
		if strings.TrimSpace(field.Label) == "" {
			field.Label = PrettyName(field.Name)
		}
		if field.Widget.Kind == "" {
			defaults := defaultWidget(field.Kind)
			field.Widget.Kind = defaults.Kind
			if field.Widget.InputType == "" {
				field.Widget.InputType = defaults.InputType
			}
		}
		form.index[field.Name] = len(form.fields)
		form.fields = append(form.fields, field)
	}
	return form, nil
}

// MustNew is like New but panics on invalid definitions.
func MustNew(name string, fields ...Field) *Form {
	form, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return form
}

// Name returns the form name.
func (f *Form) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

// Fields returns copies of the field definitions in declaration order.
func (f *Form) Fields() []Field {
	if f == nil {
		return nil
	}
	out := make([]Field, len(f.fields))
	for i, field := range f.fields {
		out[i] = cloneField(field)
	}
	return out
}

// Field returns a copy of the named definition.
func (f *Form) Field(name string) (Field, bool) {
	if f == nil {
		return Field{}, false
	}
	idx, ok := f.index[name]
	if !ok {
		return Field{}, false
	}
	return cloneField(f.fields[idx]), true
}

// FieldOverride adjusts presentation attributes of a field. Empty strings and
// a nil HideLabel leave the definition unchanged.
type FieldOverride struct {
	Label     string
	HelpText  string
	HideLabel *bool
	Template  string
}

// Override returns a copy of the form with the overrides applied. The
// receiver is not modified.
func (f *Form) Override(overrides map[string]FieldOverride) (*Form, error) {
	if f == nil {
		return nil, errors.New("forms: override on nil form")
	}
	if len(overrides) == 0 {
		return f, nil
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	out := &Form{
		name:   f.name,
		fields: make([]Field, len(f.fields)),
		index:  make(map[string]int, len(f.index)),
	}
	for i, field := range f.fields {
		out.fields[i] = cloneField(field)
	}
	for name, idx := range f.index {
		out.index[name] = idx
	}

	for _, name := range names {
		idx, ok := out.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q in form %q", ErrUnknownField, name, f.name)
		}
		override := overrides[name]
		field := &out.fields[idx]
		if label := strings.TrimSpace(override.Label); label != "" {
			field.Label = label
		}
		if help := strings.TrimSpace(override.HelpText); help != "" {
			field.HelpText = help
		}
		if override.HideLabel != nil {
			field.HideLabel = *override.HideLabel
		}
		if tpl := strings.TrimSpace(override.Template); tpl != "" {
			field.Template = tpl
		}
	}
	return out, nil
}
