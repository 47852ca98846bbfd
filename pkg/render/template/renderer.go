package template

import (
	"errors"
	"io"
)

// ErrFilterExists is returned by RegisterFilter when the name is taken.
var ErrFilterExists = errors.New("template: filter already registered")

// TemplateRenderer is the seam between renderers and a concrete template
// engine. Implementations must be safe for concurrent Render calls.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
