package forms

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-recipes/pkg/plaintext"
)

// BoundForm joins a Form with request data or initial values. It is built per
// request and is not safe for concurrent use.
type BoundForm struct {
	form    *Form
	data    url.Values
	initial map[string]any
	bound   bool
	choices map[string][]Choice
	fields  []*BoundField
	index   map[string]*BoundField

	validated bool
	errors    ErrorMap
	cleaned   map[string]any
}

// Bind attaches submitted data to form. initial supplies values for fields the
// data does not cover, usually the record being edited. Dynamic choice sources
// are resolved with ctx.
func Bind(ctx context.Context, form *Form, data url.Values, initial map[string]any) (*BoundForm, error) {
	if data == nil {
		data = url.Values{}
	}
	return newBoundForm(ctx, form, data, initial, true)
}

// Unbound prepares form for display with initial values and no validation.
func Unbound(ctx context.Context, form *Form, initial map[string]any) (*BoundForm, error) {
	return newBoundForm(ctx, form, nil, initial, false)
}

func newBoundForm(ctx context.Context, form *Form, data url.Values, initial map[string]any, bound bool) (*BoundForm, error) {
	if form == nil {
		return nil, errors.New("forms: bind nil form")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	bf := &BoundForm{
		form:    form,
		data:    data,
		initial: initial,
		bound:   bound,
		choices: make(map[string][]Choice),
		fields:  make([]*BoundField, 0, len(form.fields)),
		index:   make(map[string]*BoundField, len(form.fields)),
	}

	for _, field := range form.fields {
		if field.hasChoices() {
			choices, err := resolveChoices(ctx, field)
			if err != nil {
				return nil, err
			}
			bf.choices[field.Name] = choices
		}
		boundField := &BoundField{form: bf, field: field}
		bf.fields = append(bf.fields, boundField)
		bf.index[field.Name] = boundField
	}
	return bf, nil
}

func resolveChoices(ctx context.Context, field Field) ([]Choice, error) {
	choices := append([]Choice(nil), field.Choices...)
	if field.Source != nil {
		loaded, err := field.Source.Choices(ctx)
		if err != nil {
			return nil, fmt.Errorf("forms: load choices for %q: %w", field.Name, err)
		}
		choices = append([]Choice(nil), loaded...)
	}
	if field.Kind == KindNullBoolean && len(choices) == 0 {
		choices = nullBooleanChoices()
	}
	if (field.Kind == KindChoice || field.Kind == KindModelChoice) && !field.Required && field.Widget.Kind == WidgetSelect {
		if _, hasBlank := findChoice(choices, ""); !hasBlank {
			choices = append([]Choice{{Value: "", Label: EmptyChoiceLabel}}, choices...)
		}
	}
	return choices, nil
}

// Form returns the definition behind the bound form.
func (f *BoundForm) Form() *Form { return f.form }

// Name returns the form name.
func (f *BoundForm) Name() string { return f.form.Name() }

// IsBound reports whether the form carries submitted data.
func (f *BoundForm) IsBound() bool { return f.bound }

// Fields returns the bound fields in declaration order.
func (f *BoundForm) Fields() []*BoundField {
	return append([]*BoundField(nil), f.fields...)
}

// Field returns the named bound field.
func (f *BoundForm) Field(name string) (*BoundField, bool) {
	field, ok := f.index[name]
	return field, ok
}

// Errors returns a copy of the error map. Unbound forms have no errors.
func (f *BoundForm) Errors() ErrorMap {
	f.Validate()
	return f.errors.clone()
}

// NonFieldErrors returns errors that are not tied to a field.
func (f *BoundForm) NonFieldErrors() []string {
	f.Validate()
	return f.errors.Get(NonFieldErrors)
}

// AddError records a message for field, or for the whole form when field is
// empty or NonFieldErrors. The field's cleaned value is discarded.
func (f *BoundForm) AddError(field, message string) {
	f.Validate()
	if field == "" {
		field = NonFieldErrors
	}
	f.errors.Add(field, message)
	delete(f.cleaned, field)
}

// IsValid reports whether the form is bound and cleaned without errors.
func (f *BoundForm) IsValid() bool {
	f.Validate()
	return f.bound && f.errors.Empty()
}

// Cleaned returns the cleaned values of every field that passed validation.
func (f *BoundForm) Cleaned() map[string]any {
	f.Validate()
	out := make(map[string]any, len(f.cleaned))
	for key, value := range f.cleaned {
		out[key] = value
	}
	return out
}

// Validate cleans the submitted data once. Subsequent calls are no-ops.
func (f *BoundForm) Validate() {
	if f.validated {
		return
	}
	f.validated = true
	f.errors = ErrorMap{}
	f.cleaned = make(map[string]any)
	if !f.bound {
		return
	}

	for _, field := range f.fields {
		value, message := field.clean()
		if message != "" {
			f.errors.Add(field.Name(), message)
			continue
		}
		f.cleaned[field.Name()] = value
	}
}

// BoundField is a field definition joined with its current value and the
// owning form's errors.
type BoundField struct {
	form  *BoundForm
	field Field
}

// Name returns the field name.
func (bf *BoundField) Name() string { return bf.field.Name }

// ID returns the element id used by renderers.
func (bf *BoundField) ID() string { return "id_" + bf.field.Name }

// Label returns the display label.
func (bf *BoundField) Label() string { return bf.field.Label }

// Definition returns a copy of the field definition.
func (bf *BoundField) Definition() Field { return cloneField(bf.field) }

// Form returns the owning bound form.
func (bf *BoundField) Form() *BoundForm { return bf.form }

// Widget returns the field widget with its resolved choices.
func (bf *BoundField) Widget() Widget {
	widget := cloneWidget(bf.field.Widget)
	if choices, ok := bf.form.choices[bf.field.Name]; ok {
		widget.Choices = append([]Choice(nil), choices...)
	}
	return widget
}

// Errors returns the field's messages from the form error map. The result is
// never nil.
func (bf *BoundField) Errors() []string {
	bf.form.Validate()
	return bf.form.errors.Get(bf.field.Name)
}

// Value returns the value to display: submitted data when the form is bound,
// otherwise the initial value, otherwise the field default. Text values are
// returned as plain text. Integer and model identifiers are int64, multiple
// selections are []any and null-booleans are bool or nil.
func (bf *BoundField) Value() any {
	if bf.form.bound {
		return bf.dataValue()
	}
	return bf.initialValue()
}

func (bf *BoundField) raw() string {
	return strings.TrimSpace(bf.form.data.Get(bf.field.Name))
}

func (bf *BoundField) dataValue() any {
	switch bf.field.Kind {
	case KindChar, KindText:
		return plainValue(bf.field.Kind, bf.form.data.Get(bf.field.Name))
	case KindInteger:
		raw := bf.raw()
		if raw == "" {
			return nil
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
		return raw
	case KindBoolean:
		return parseCheckbox(bf.form.data, bf.field.Name)
	case KindNullBoolean:
		return parseNullBoolean(bf.raw())
	case KindChoice:
		if raw := bf.raw(); raw != "" {
			return raw
		}
		return nil
	case KindModelChoice:
		if raw := bf.raw(); raw != "" {
			return normalizeID(raw)
		}
		return nil
	case KindModelMultipleChoice:
		out := []any{}
		for _, raw := range bf.form.data[bf.field.Name] {
			if raw = strings.TrimSpace(raw); raw != "" {
				out = append(out, normalizeID(raw))
			}
		}
		return out
	default:
		return bf.form.data.Get(bf.field.Name)
	}
}

func (bf *BoundField) initialValue() any {
	value, ok := bf.form.initial[bf.field.Name]
	if !ok {
		value = bf.field.Initial
	}
	value = deref(value)

	switch bf.field.Kind {
	case KindChar, KindText:
		return plainValue(bf.field.Kind, value)
	case KindInteger, KindModelChoice:
		if value == nil {
			return nil
		}
		return normalizeID(value)
	case KindBoolean:
		b, _ := value.(bool)
		return b
	case KindNullBoolean:
		switch v := value.(type) {
		case bool:
			return v
		case string:
			return parseNullBoolean(v)
		}
		return nil
	case KindModelMultipleChoice:
		return toIDSlice(value)
	default:
		return value
	}
}

func (bf *BoundField) clean() (any, string) {
	field := bf.field
	switch field.Kind {
	case KindChar, KindText:
		value, _ := bf.dataValue().(string)
		if value == "" {
			if field.Required {
				return nil, MsgRequired
			}
			return "", ""
		}
		if field.MaxLength > 0 {
			if n := utf8.RuneCountInString(value); n > field.MaxLength {
				return nil, fmt.Sprintf(MsgMaxLength, field.MaxLength, n)
			}
		}
		return value, ""
	case KindInteger:
		raw := bf.raw()
		if raw == "" {
			if field.Required {
				return nil, MsgRequired
			}
			return nil, ""
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, MsgInvalidInteger
		}
		return n, ""
	case KindBoolean:
		value := parseCheckbox(bf.form.data, field.Name)
		if field.Required && !value {
			return nil, MsgRequired
		}
		return value, ""
	case KindNullBoolean:
		value := parseNullBoolean(bf.raw())
		if field.Required && value == nil {
			return nil, MsgRequired
		}
		return value, ""
	case KindChoice, KindModelChoice:
		raw := bf.raw()
		if raw == "" {
			if field.Required {
				return nil, MsgRequired
			}
			return nil, ""
		}
		choice, ok := findChoice(bf.form.choices[field.Name], raw)
		if !ok {
			if field.Kind == KindModelChoice {
				return nil, MsgInvalidModelChoice
			}
			return nil, fmt.Sprintf(MsgInvalidChoice, raw)
		}
		if field.Kind == KindModelChoice {
			return normalizeID(choice.Value), ""
		}
		return raw, ""
	case KindModelMultipleChoice:
		out := []any{}
		for _, raw := range bf.form.data[field.Name] {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			choice, ok := findChoice(bf.form.choices[field.Name], raw)
			if !ok {
				return nil, fmt.Sprintf(MsgInvalidChoice, raw)
			}
			out = append(out, normalizeID(choice.Value))
		}
		if field.Required && len(out) == 0 {
			return nil, MsgRequired
		}
		return out, ""
	}
	return bf.dataValue(), ""
}

func plainValue(kind Kind, v any) string {
	if kind == KindText {
		return plaintext.NewText(v).String()
	}
	return plaintext.NewLine(v).String()
}

func parseCheckbox(data url.Values, name string) bool {
	values, ok := data[name]
	if !ok || len(values) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(values[0])) {
	case "", "false", "0", "off":
		return false
	}
	return true
}

func parseNullBoolean(raw string) any {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true
	case "false", "0", "off", "no":
		return false
	}
	return nil
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// normalizeID unwraps v and converts integer kinds, and strings holding
// integers, to int64.
func normalizeID(v any) any {
	v = deref(UnwrapValue(v))
	switch value := v.(type) {
	case string:
		trimmed := strings.TrimSpace(value)
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n
		}
		return trimmed
	case int64:
		return value
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	}
	return v
}

func toIDSlice(v any) []any {
	out := []any{}
	if v == nil {
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return append(out, normalizeID(v))
	}
	for i := 0; i < rv.Len(); i++ {
		if item := normalizeID(rv.Index(i).Interface()); item != nil {
			out = append(out, item)
		}
	}
	return out
}
