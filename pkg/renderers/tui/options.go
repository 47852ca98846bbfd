package tui

import (
	"fmt"
	"strings"
)

// OutputFormat selects how Render serializes the answers of a valid form.
type OutputFormat string

const (
	// OutputFormatFormURLEncoded is the same payload a browser would post.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatJSON is the cleaned values as a JSON object.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText is one "Label: value" line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat accepts the names used on the command line. Empty
// selects OutputFormatFormURLEncoded.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(s))); format {
	case "":
		return OutputFormatFormURLEncoded, nil
	case OutputFormatFormURLEncoded, OutputFormatJSON, OutputFormatPrettyText:
		return format, nil
	default:
		return "", fmt.Errorf("tui: unknown output format %q", s)
	}
}

// Theme holds the prefixes put in front of prompt labels and of validation
// messages.
type Theme struct {
	PromptPrefix string
	ErrorPrefix  string
}

// SubmitTransformer receives the cleaned values of a valid form before they
// are serialized. Returning an error aborts Render.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures a Renderer.
type Option func(*Renderer)

// WithPromptDriver replaces the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat sets the serialization of the answers.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithMaxAttempts bounds the prompt rounds before Render returns ErrInvalid.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithSubmitTransformer hooks into a valid submission, e.g. to store it.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme sets the prompt and error prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
