package hybrid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-recipes/pkg/forms"
	"github.com/goliatone/go-recipes/pkg/plaintext"
)

// Adapt derives the rendering metadata for bf. Template is resolved against
// fragments. Adapt does not modify bf and never fails: empty choices, help
// text and errors are legal empty states.
func Adapt(bf *forms.BoundField, fragments Fragments) Metadata {
	definition := bf.Definition()
	widget := bf.Widget()

	meta := Metadata{
		Name:      bf.Name(),
		ID:        bf.ID(),
		Label:     plaintext.Normalize(bf.Label()),
		Widget:    widget.Kind,
		Required:  definition.Required,
		Multi:     widget.AllowMultiple(),
		HideLabel: definition.HideLabel,
		InputType: widget.InputType,
		HelpText:  plaintext.Normalize(definition.HelpText),
		Template:  fragments.Resolve(definition, widget.Kind),
	}

	value := ExtractValue(bf)
	if literal, ok := RadioValue(definition, widget, value); ok {
		meta.Value = literal
		meta.ValueEncoding = EncodingLiteral
	} else {
		meta.Value = SerializeValue(value)
		meta.ValueEncoding = EncodingJSON
	}

	meta.Options = NormalizeOptions(widget.Choices)
	meta.OptionsJSON = encodeJSON(meta.Options)
	meta.Errors = CollectErrors(bf)
	meta.ErrorsJSON = encodeJSON(meta.Errors)
	return meta
}

// ExtractValue returns the field's current value, or the empty string when
// there is none.
func ExtractValue(bf *forms.BoundField) any {
	value := bf.Value()
	if value == nil {
		return ""
	}
	return value
}

// RadioValue pre-stringifies values of radio widgets: booleans become "true"
// or "false" and an unset boolean becomes "unknown". ok is false when the
// value is not handled here.
func RadioValue(field forms.Field, widget forms.Widget, value any) (string, bool) {
	if widget.Kind != forms.WidgetRadio {
		return "", false
	}
	switch v := value.(type) {
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case string:
		if v == "" && field.IsBoolean() {
			return "unknown", true
		}
	}
	return "", false
}

// SerializeValue encodes value as a JSON literal. Strings are quoted; numbers,
// booleans and lists keep their JSON form.
func SerializeValue(value any) string {
	if s, ok := value.(string); ok {
		return encodeJSON(s)
	}
	out := encodeJSON(value)
	if out == "null" {
		return encodeJSON("")
	}
	return out
}

// NormalizeOptions converts widget choices into Options, unwrapping wrapped
// identifiers. Already normalized input is returned unchanged, so the function
// is idempotent. Unsupported shapes yield no options.
func NormalizeOptions(choices any) []Option {
	out := []Option{}
	switch items := choices.(type) {
	case []forms.Choice:
		for _, choice := range items {
			out = append(out, Option{Value: forms.UnwrapValue(choice.Value), Name: choice.Label})
		}
	case []Option:
		for _, option := range items {
			out = append(out, Option{Value: forms.UnwrapValue(option.Value), Name: option.Name})
		}
	}
	return out
}

// CollectErrors copies the field's messages from the form error map as they
// are. The result is never nil.
func CollectErrors(bf *forms.BoundField) []string {
	errs := bf.Errors()
	out := make([]string, 0, len(errs))
	return append(out, errs...)
}

// encodeJSON marshals v without HTML escaping. Escaping is left to the
// template engine so attribute values decode back to the exact JSON.
func encodeJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		buf.Reset()
		_ = enc.Encode(fmt.Sprint(v))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
