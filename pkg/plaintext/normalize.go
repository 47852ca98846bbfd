// Package plaintext provides string types that never carry markup. Values are
// normalized whenever they are read: from a database row, from a request
// payload, from JSON, or when printed.
package plaintext

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// Normalize converts v to plain text. Tags are removed, the text between them is
// kept in order, script and style bodies are dropped and entities are decoded.
// A nil value normalizes to the empty string. Normalize is idempotent:
// Normalize(Normalize(v)) == Normalize(v).
func Normalize(v any) string {
	return normalizeString(coerce(v))
}

// normalizeString sanitizes and unescapes until the value stops changing.
// Every pass that changes the value removes a tag or decodes an entity, so
// the loop terminates. Angle brackets left over once markup was seen are
// dropped, so decoded "&lt;" never reintroduces them.
func normalizeString(raw string) string {
	current := strings.TrimSpace(raw)
	if current == "" {
		return ""
	}
	if !strings.ContainsAny(current, "<>&") {
		return current
	}

	policy := sanitizer()
	sawMarkup := false
	for {
		decoded := html.UnescapeString(current)
		next := strings.TrimSpace(html.UnescapeString(policy.Sanitize(current)))
		if next != strings.TrimSpace(decoded) {
			sawMarkup = true
		}
		if next != current {
			current = next
			continue
		}
		if sawMarkup && strings.ContainsAny(current, "<>") {
			current = strings.TrimSpace(angleStripper.Replace(current))
			continue
		}
		return current
	}
}

var angleStripper = strings.NewReplacer("<", "", ">", "")

func coerce(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case *string:
		if value == nil {
			return ""
		}
		return *value
	case []byte:
		return string(value)
	case Text:
		return string(value)
	case Line:
		return string(value)
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}

func sanitizer() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		// StrictPolicy skips the body of several elements; only script and
		// style bodies are dropped here.
		stripPolicy = bluemonday.StrictPolicy().AllowElementsContent(
			"frame", "frameset", "iframe", "noembed", "noframes",
			"noscript", "nostyle", "object", "title",
		)
	})
	return stripPolicy
}
