// Package tui renders bound forms as a sequence of terminal prompts and
// serializes the answers once they pass the form's own validation.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-recipes/pkg/forms"
	"github.com/goliatone/go-recipes/pkg/hybrid"
	"github.com/goliatone/go-recipes/pkg/render"
)

const defaultMaxAttempts = 3

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	maxAttempts       int
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, form encoded
// output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatFormURLEncoded,
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	format, err := ParseOutputFormat(string(r.outputFormat))
	if err != nil {
		return nil, err
	}
	r.outputFormat = format
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatJSON:
		return "application/json"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/x-www-form-urlencoded"
	}
}

// Render prompts for every visible field of form, re-prompting fields that
// fail validation, and serializes the cleaned values. Hidden fields keep
// their current value. Extra hidden values from opts are added to the
// output.
func (r *Renderer) Render(ctx context.Context, form *forms.BoundForm, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if form == nil {
		return nil, errors.New("tui: bound form is required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	state := NewState(form)
	pending := visibleFields(form.Fields())

	for attempt := 1; ; attempt++ {
		for _, bf := range pending {
			if err := r.promptField(ctx, bf, state); err != nil {
				return nil, err
			}
		}

		checked, err := forms.Bind(ctx, form.Form(), state.Values(), nil)
		if err != nil {
			return nil, fmt.Errorf("tui: bind answers: %w", err)
		}
		if checked.IsValid() {
			return r.submit(checked, opts)
		}

		errs := checked.Errors()
		state.SetErrors(errs)
		for _, msg := range checked.NonFieldErrors() {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
				return nil, err
			}
		}
		if attempt >= r.maxAttempts {
			return nil, fmt.Errorf("%w: %s", ErrInvalid, summarize(errs))
		}
		pending = invalidFields(checked)
	}
}

func (r *Renderer) promptField(ctx context.Context, bf *forms.BoundField, state *State) error {
	meta := hybrid.Adapt(bf, nil)
	name := meta.Name

	for _, msg := range state.ErrorsFor(name) {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, meta.Label, msg)); err != nil {
			return err
		}
	}

	message := r.theme.PromptPrefix + meta.Label
	switch meta.Widget {
	case forms.WidgetTextarea:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: state.First(name),
			Help:    meta.HelpText,
		})
		if err != nil {
			return err
		}
		state.Set(name, answer)

	case forms.WidgetSelect, forms.WidgetRadio:
		labels, values := optionLists(meta.Options)
		current := state.First(name)
		if current == "" && meta.ValueEncoding == hybrid.EncodingLiteral {
			current = meta.Value
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: indexOf(values, current),
			Help:         meta.HelpText,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(values) {
			state.Set(name)
			return nil
		}
		state.Set(name, values[idx])

	case forms.WidgetSelectMultiple:
		labels, values := optionLists(meta.Options)
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  labels,
			Defaults: indicesOf(values, state.Get(name)),
			Help:     meta.HelpText,
		})
		if err != nil {
			return err
		}
		state.Set(name, valuesFromIndices(values, indices)...)

	case forms.WidgetCheckbox:
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: state.First(name) == "true",
			Help:    meta.HelpText,
		})
		if err != nil {
			return err
		}
		state.Set(name, strconv.FormatBool(answer))

	default:
		cfg := InputConfig{
			Message: message,
			Default: state.First(name),
			Help:    meta.HelpText,
		}
		if meta.Widget == forms.WidgetNumber {
			cfg.Validator = validateInteger
		}
		answer, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		state.Set(name, answer)
	}
	return nil
}

func (r *Renderer) submit(form *forms.BoundForm, opts render.RenderOptions) ([]byte, error) {
	values := form.Cleaned()
	for name, value := range opts.Hidden {
		values[name] = value
	}
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(form, values)
}

func (r *Renderer) serialize(form *forms.BoundForm, values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatJSON:
		out, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(form, values)), nil
	default:
		return []byte(encodeMap(values).Encode()), nil
	}
}

func prettyPrint(form *forms.BoundForm, values map[string]any) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(values))
	for _, bf := range form.Fields() {
		seen[bf.Name()] = struct{}{}
		value, ok := values[bf.Name()]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", bf.Label(), prettyValue(value))
	}
	extra := encodeMap(values)
	for _, key := range sortedKeys(extra) {
		if _, ok := seen[key]; ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", key, strings.Join(extra[key], ", "))
	}
	return b.String()
}

func prettyValue(v any) string {
	encoded := EncodeValue(v)
	if len(encoded) == 0 {
		return "-"
	}
	return strings.Join(encoded, ", ")
}

func visibleFields(fields []*forms.BoundField) []*forms.BoundField {
	out := make([]*forms.BoundField, 0, len(fields))
	for _, bf := range fields {
		if !bf.Widget().IsHidden() {
			out = append(out, bf)
		}
	}
	return out
}

func invalidFields(form *forms.BoundForm) []*forms.BoundField {
	errs := form.Errors()
	var out []*forms.BoundField
	for _, bf := range visibleFields(form.Fields()) {
		if errs.Has(bf.Name()) {
			out = append(out, bf)
		}
	}
	return out
}

func summarize(errs forms.ErrorMap) string {
	parts := make([]string, 0, len(errs))
	for _, name := range errs.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(errs.Get(name), " ")))
	}
	if msgs := errs.Get(forms.NonFieldErrors); len(msgs) > 0 {
		parts = append(parts, strings.Join(msgs, " "))
	}
	return strings.Join(parts, "; ")
}

func optionLists(options []hybrid.Option) (labels, values []string) {
	labels = make([]string, len(options))
	values = make([]string, len(options))
	for i, option := range options {
		labels[i] = option.Name
		values[i] = strings.Join(EncodeValue(option.Value), ",")
	}
	return labels, values
}

func valuesFromIndices(options []string, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}

func validateInteger(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return errors.New(forms.MsgInvalidInteger)
	}
	return nil
}
