package forms

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the data kind of a field. It drives value coercion and cleaning.
type Kind string

const (
	KindChar                Kind = "char"
	KindText                Kind = "text"
	KindInteger             Kind = "integer"
	KindBoolean             Kind = "boolean"
	KindNullBoolean         Kind = "nullboolean"
	KindChoice              Kind = "choice"
	KindModelChoice         Kind = "modelchoice"
	KindModelMultipleChoice Kind = "modelmultiplechoice"
)

// Validation messages.
const (
	MsgRequired           = "This field is required."
	MsgMaxLength          = "Ensure this value has at most %d characters (it has %d)."
	MsgInvalidInteger     = "Enter a whole number."
	MsgInvalidModelChoice = "Select a valid choice. That choice is not one of the available choices."
	MsgInvalidChoice      = "Select a valid choice. %s is not one of the available choices."
)

// Field is a form field definition. Definitions are immutable once the
// owning Form has been constructed.
type Field struct {
	Name      string
	Label     string
	Kind      Kind
	Required  bool
	HelpText  string
	MaxLength int
	Widget    Widget
	// Choices are static choices. Source, when set, replaces them at bind time.
	Choices []Choice
	Source  ChoiceSource
	// HideLabel asks renderers to omit the visible label.
	HideLabel bool
	// Template names an alternate fragment that replaces the widget default.
	Template string
	Initial  any
}

// IsTextual reports whether the field holds free text.
func (f Field) IsTextual() bool {
	return f.Kind == KindChar || f.Kind == KindText
}

// IsBoolean reports whether the field holds a two- or three-state boolean.
func (f Field) IsBoolean() bool {
	return f.Kind == KindBoolean || f.Kind == KindNullBoolean
}

// IsMultiple reports whether the field holds a list of values.
func (f Field) IsMultiple() bool {
	return f.Kind == KindModelMultipleChoice
}

func (f Field) hasChoices() bool {
	switch f.Kind {
	case KindChoice, KindModelChoice, KindModelMultipleChoice, KindNullBoolean:
		return true
	}
	return false
}

func validKind(kind Kind) bool {
	switch kind {
	case KindChar, KindText, KindInteger, KindBoolean, KindNullBoolean,
		KindChoice, KindModelChoice, KindModelMultipleChoice:
		return true
	}
	return false
}

// PrettyName turns a field name into a label: "is_diet_friendly" becomes
// "Is diet friendly".
func PrettyName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

func cloneField(f Field) Field {
	out := f
	out.Widget = cloneWidget(f.Widget)
	if f.Choices != nil {
		out.Choices = append([]Choice(nil), f.Choices...)
	}
	return out
}
