package render

import "strings"

// RenderOptions describe per-request data renderers can use to customise
// their output without touching the bound form.
type RenderOptions struct {
	// Action is the URL the form submits to. Empty posts back to the current
	// page.
	Action string
	// Method defaults to POST.
	Method string
	// SubmitLabel labels the submit control. Renderers fall back to "Save".
	SubmitLabel string
	// Hidden carries extra hidden inputs such as CSRF tokens.
	Hidden map[string]string
}

// Normalized returns a copy with defaults applied.
func (o RenderOptions) Normalized() RenderOptions {
	out := o
	out.Method = strings.ToUpper(strings.TrimSpace(out.Method))
	if out.Method == "" {
		out.Method = "POST"
	}
	out.SubmitLabel = strings.TrimSpace(out.SubmitLabel)
	if out.SubmitLabel == "" {
		out.SubmitLabel = "Save"
	}
	return out
}
