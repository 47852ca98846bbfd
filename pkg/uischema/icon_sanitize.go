package uischema

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-recipes/pkg/plaintext"
)

// Shapes a form header icon may draw. Icons are small stroke drawings, so
// gradients, filters, images and references to other documents are dropped.
var iconShapes = []string{"path", "line", "circle", "rect", "polyline", "polygon", "ellipse"}

var iconPolicy = sync.OnceValue(func() *bluemonday.Policy {
	policy := bluemonday.StrictPolicy()
	policy.AllowElements(append([]string{"svg", "g", "title"}, iconShapes...)...)

	presentation := []string{"fill", "stroke", "stroke-width", "stroke-linecap", "stroke-linejoin"}
	policy.AllowAttrs(append([]string{"xmlns", "viewBox", "width", "height", "aria-hidden", "role"}, presentation...)...).OnElements("svg")
	policy.AllowAttrs(presentation...).OnElements("g")
	policy.AllowAttrs(append([]string{
		"d", "x1", "y1", "x2", "y2", "cx", "cy", "r", "rx", "ry", "x", "y", "width", "height", "points",
	}, presentation...)...).OnElements(iconShapes...)
	return policy
})

// sanitizeIcon keeps an inline SVG icon within the drawing allowlist. Icons
// that are not SVG, such as an emoji, are reduced to escaped plain text.
func sanitizeIcon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if cleaned := strings.TrimSpace(iconPolicy().Sanitize(trimmed)); strings.HasPrefix(cleaned, "<svg") {
		return cleaned
	}
	return html.EscapeString(plaintext.Normalize(trimmed))
}
