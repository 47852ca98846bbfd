// Package hybrid renders server-side bound form fields as client-side form
// components. Each field is reduced to a Metadata value carrying everything the
// component needs, and that value is rendered through a widget fragment.
package hybrid

import (
	"github.com/goliatone/go-recipes/pkg/forms"
)

// Value encodings reported in Metadata.ValueEncoding.
const (
	// EncodingJSON marks Metadata.Value as a JSON literal: quoted strings,
	// numbers, booleans or arrays. Fragments bind it as an expression.
	EncodingJSON = "json"
	// EncodingLiteral marks a pre-stringified radio value ("true", "false" or
	// "unknown") that fragments emit as a plain attribute.
	EncodingLiteral = "literal"
)

// Option is a normalized (value, name) pair. Value is always a scalar.
type Option struct {
	Value any    `json:"value"`
	Name  string `json:"name"`
}

// Metadata is the data contract between a bound field and its widget
// fragment. It is derived at render time and never stored.
type Metadata struct {
	Name          string           `json:"name"`
	ID            string           `json:"id"`
	Label         string           `json:"label"`
	Widget        forms.WidgetKind `json:"widget"`
	Value         string           `json:"value"`
	ValueEncoding string           `json:"valueEncoding"`
	Options       []Option         `json:"options"`
	OptionsJSON   string           `json:"optionsJSON"`
	Errors        []string         `json:"errors"`
	ErrorsJSON    string           `json:"errorsJSON"`
	Required      bool             `json:"required"`
	Multi         bool             `json:"multi"`
	HideLabel     bool             `json:"hideLabel"`
	InputType     string           `json:"inputType"`
	HelpText      string           `json:"helpText"`
	Template      string           `json:"template"`
}
