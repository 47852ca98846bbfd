package forms

// WidgetKind identifies how a field is presented. Renderers key their fragment
// tables on it.
type WidgetKind string

const (
	WidgetText           WidgetKind = "text"
	WidgetTextarea       WidgetKind = "textarea"
	WidgetNumber         WidgetKind = "number"
	WidgetEmail          WidgetKind = "email"
	WidgetSelect         WidgetKind = "select"
	WidgetSelectMultiple WidgetKind = "select_multiple"
	WidgetRadio          WidgetKind = "radio"
	WidgetCheckbox       WidgetKind = "checkbox"
	WidgetHidden         WidgetKind = "hidden"
)

// Widget describes the presentation of a field. Choices is only populated on
// widgets returned by BoundField.Widget, after dynamic sources are resolved.
type Widget struct {
	Kind      WidgetKind
	InputType string
	Choices   []Choice
	Attrs     map[string]string
}

// AllowMultiple reports whether the widget accepts several selected values.
func (w Widget) AllowMultiple() bool {
	return w.Kind == WidgetSelectMultiple
}

// IsHidden reports whether the widget renders without visible chrome.
func (w Widget) IsHidden() bool {
	return w.Kind == WidgetHidden
}

func defaultWidget(kind Kind) Widget {
	switch kind {
	case KindText:
		return Widget{Kind: WidgetTextarea}
	case KindInteger:
		return Widget{Kind: WidgetNumber, InputType: "number"}
	case KindBoolean:
		return Widget{Kind: WidgetCheckbox, InputType: "checkbox"}
	case KindNullBoolean:
		return Widget{Kind: WidgetRadio, InputType: "radio"}
	case KindChoice, KindModelChoice:
		return Widget{Kind: WidgetSelect}
	case KindModelMultipleChoice:
		return Widget{Kind: WidgetSelectMultiple}
	default:
		return Widget{Kind: WidgetText, InputType: "text"}
	}
}

func cloneWidget(w Widget) Widget {
	out := w
	if w.Choices != nil {
		out.Choices = append([]Choice(nil), w.Choices...)
	}
	if w.Attrs != nil {
		out.Attrs = make(map[string]string, len(w.Attrs))
		for key, value := range w.Attrs {
			out.Attrs[key] = value
		}
	}
	return out
}
