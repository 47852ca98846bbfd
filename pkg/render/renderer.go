package render

import (
	"context"

	"github.com/goliatone/go-recipes/pkg/forms"
)

// Renderer converts a bound form into a byte representation (HTML, form
// payloads, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form *forms.BoundForm, options RenderOptions) ([]byte, error)
}
