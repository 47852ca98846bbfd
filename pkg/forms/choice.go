package forms

import (
	"context"
	"fmt"
	"strconv"
)

// Choice is a selectable (value, label) pair. Value may be a scalar or a
// Wrapped identifier such as ModelChoiceValue.
type Choice struct {
	Value any
	Label string
}

// Wrapped is implemented by choice values that carry an identifier alongside
// other data. Unwrap returns the identifier.
type Wrapped interface {
	Unwrap() any
}

// ModelChoiceValue pairs a record identifier with the record it came from.
type ModelChoiceValue struct {
	ID       any
	Instance any
}

// Unwrap returns the record identifier.
func (v ModelChoiceValue) Unwrap() any {
	return v.ID
}

// String renders the identifier.
func (v ModelChoiceValue) String() string {
	return fmt.Sprint(v.ID)
}

// ChoiceSource loads choices at bind time, typically from a store.
type ChoiceSource interface {
	Choices(ctx context.Context) ([]Choice, error)
}

// ChoiceSourceFunc adapts a function to ChoiceSource.
type ChoiceSourceFunc func(ctx context.Context) ([]Choice, error)

// Choices calls f(ctx).
func (f ChoiceSourceFunc) Choices(ctx context.Context) ([]Choice, error) {
	return f(ctx)
}

// EmptyChoiceLabel is the label of the blank option prepended to optional
// single-choice fields.
const EmptyChoiceLabel = "---------"

// UnwrapValue strips any number of Wrapped layers from v.
func UnwrapValue(v any) any {
	for i := 0; i < 8; i++ {
		wrapped, ok := v.(Wrapped)
		if !ok {
			return v
		}
		v = wrapped.Unwrap()
	}
	return v
}

func nullBooleanChoices() []Choice {
	return []Choice{
		{Value: "unknown", Label: "Unknown"},
		{Value: "true", Label: "Yes"},
		{Value: "false", Label: "No"},
	}
}

func choiceKey(v any) string {
	switch value := UnwrapValue(v).(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}

func findChoice(choices []Choice, raw string) (Choice, bool) {
	for _, choice := range choices {
		if choiceKey(choice.Value) == raw {
			return choice, true
		}
	}
	return Choice{}, false
}
