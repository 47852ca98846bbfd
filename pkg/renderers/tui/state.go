package tui

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/goliatone/go-recipes/pkg/forms"
)

// State tracks the answers collected so far as submitted form values, along
// with the errors reported for each field. Answers are kept in the same shape
// a browser would post so they can be bound straight back onto the form.
type State struct {
	values url.Values
	errors map[string][]string
}

// NewState seeds the state with the current values and errors of form.
func NewState(form *forms.BoundForm) *State {
	s := &State{values: url.Values{}, errors: map[string][]string{}}
	if form == nil {
		return s
	}
	for _, bf := range form.Fields() {
		s.Set(bf.Name(), EncodeValue(bf.Value())...)
	}
	s.SetErrors(form.Errors())
	return s
}

// Values returns a copy of the collected answers.
func (s *State) Values() url.Values {
	out := make(url.Values, len(s.values))
	for name, values := range s.values {
		out[name] = append([]string(nil), values...)
	}
	return out
}

// Get returns the answers recorded for name.
func (s *State) Get(name string) []string {
	return s.values[name]
}

// First returns the first answer recorded for name, or "".
func (s *State) First(name string) string {
	return s.values.Get(name)
}

// Set replaces the answers for name. Empty answers clear the field.
func (s *State) Set(name string, values ...string) {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		delete(s.values, name)
		return
	}
	s.values[name] = kept
}

// ErrorsFor returns the errors attached to a field.
func (s *State) ErrorsFor(name string) []string {
	return s.errors[name]
}

// SetErrors replaces the recorded errors.
func (s *State) SetErrors(errs forms.ErrorMap) {
	s.errors = make(map[string][]string, len(errs))
	for _, name := range errs.Fields() {
		s.errors[name] = errs.Get(name)
	}
}

// EncodeValue converts a bound or cleaned value into submitted form values.
// nil yields no values and multiple selections yield one value per item.
func EncodeValue(v any) []string {
	switch value := forms.UnwrapValue(v).(type) {
	case nil:
		return nil
	case string:
		if value == "" {
			return nil
		}
		return []string{value}
	case bool:
		return []string{strconv.FormatBool(value)}
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			out = append(out, EncodeValue(item)...)
		}
		return out
	case []int64:
		out := make([]string, 0, len(value))
		for _, item := range value {
			out = append(out, strconv.FormatInt(item, 10))
		}
		return out
	case []string:
		return append([]string(nil), value...)
	case fmt.Stringer:
		return EncodeValue(value.String())
	default:
		return []string{fmt.Sprint(value)}
	}
}

func encodeMap(values map[string]any) url.Values {
	out := url.Values{}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if encoded := EncodeValue(values[key]); len(encoded) > 0 {
			out[key] = encoded
		}
	}
	return out
}

func sortedKeys(values map[string][]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
