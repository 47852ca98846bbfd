package forms

import "sort"

// NonFieldErrors is the ErrorMap key holding errors not tied to a field.
const NonFieldErrors = "__all__"

// ErrorMap maps field names to validation messages.
type ErrorMap map[string][]string

// Get returns a copy of the messages for field. The result is never nil.
func (m ErrorMap) Get(field string) []string {
	messages := m[field]
	out := make([]string, 0, len(messages))
	return append(out, messages...)
}

// Add appends message for field as given. Duplicates are skipped.
func (m ErrorMap) Add(field, message string) {
	if m == nil {
		return
	}
	for _, existing := range m[field] {
		if existing == message {
			return
		}
	}
	m[field] = append(m[field], message)
}

// Has reports whether field has at least one message.
func (m ErrorMap) Has(field string) bool {
	return len(m[field]) > 0
}

// Empty reports whether the map holds no messages at all.
func (m ErrorMap) Empty() bool {
	for _, messages := range m {
		if len(messages) > 0 {
			return false
		}
	}
	return true
}

// Fields returns the names with messages, sorted, excluding NonFieldErrors.
func (m ErrorMap) Fields() []string {
	names := make([]string, 0, len(m))
	for name, messages := range m {
		if name == NonFieldErrors || len(messages) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m ErrorMap) clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for key, messages := range m {
		out[key] = append([]string(nil), messages...)
	}
	return out
}
