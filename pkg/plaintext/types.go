package plaintext

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is multi-line plain text. Line breaks survive normalization and
// carriage returns are folded into '\n'.
type Text string

// Line is single-line plain text. Any run of whitespace, including line
// breaks, collapses into one space.
type Line string

var (
	_ fmt.Stringer             = Text("")
	_ sql.Scanner              = (*Text)(nil)
	_ driver.Valuer            = Text("")
	_ json.Marshaler           = Text("")
	_ json.Unmarshaler         = (*Text)(nil)
	_ encoding.TextUnmarshaler = (*Text)(nil)

	_ fmt.Stringer             = Line("")
	_ sql.Scanner              = (*Line)(nil)
	_ driver.Valuer            = Line("")
	_ json.Marshaler           = Line("")
	_ json.Unmarshaler         = (*Line)(nil)
	_ encoding.TextUnmarshaler = (*Line)(nil)
)

// NewText normalizes v into a Text value.
func NewText(v any) Text {
	return Text(normalizeText(coerce(v)))
}

// NewLine normalizes v into a Line value.
func NewLine(v any) Line {
	return Line(normalizeLine(coerce(v)))
}

func normalizeText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return normalizeString(raw)
}

func normalizeLine(raw string) string {
	return strings.Join(strings.Fields(normalizeString(raw)), " ")
}

// String returns the normalized text.
func (t Text) String() string { return normalizeText(string(t)) }

// IsZero reports whether the normalized text is empty.
func (t Text) IsZero() bool { return t.String() == "" }

// Scan implements sql.Scanner. NULL scans into the empty value.
func (t *Text) Scan(src any) error {
	value, err := scanString(src)
	if err != nil {
		return fmt.Errorf("plaintext: scan text: %w", err)
	}
	*t = Text(normalizeText(value))
	return nil
}

// Value implements driver.Valuer. Empty text is stored as NULL.
func (t Text) Value() (driver.Value, error) {
	value := t.String()
	if value == "" {
		return nil, nil
	}
	return value, nil
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// UnmarshalJSON implements json.Unmarshaler. JSON null decodes to the empty value.
func (t *Text) UnmarshalJSON(data []byte) error {
	value, err := unmarshalString(data)
	if err != nil {
		return fmt.Errorf("plaintext: decode text: %w", err)
	}
	*t = Text(normalizeText(value))
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Text) UnmarshalText(data []byte) error {
	*t = Text(normalizeText(string(data)))
	return nil
}

// String returns the normalized line.
func (l Line) String() string { return normalizeLine(string(l)) }

// IsZero reports whether the normalized line is empty.
func (l Line) IsZero() bool { return l.String() == "" }

// Scan implements sql.Scanner. NULL scans into the empty value.
func (l *Line) Scan(src any) error {
	value, err := scanString(src)
	if err != nil {
		return fmt.Errorf("plaintext: scan line: %w", err)
	}
	*l = Line(normalizeLine(value))
	return nil
}

// Value implements driver.Valuer. Lines back NOT NULL columns, so the empty
// line is stored as the empty string.
func (l Line) Value() (driver.Value, error) { return l.String(), nil }

// MarshalJSON implements json.Marshaler.
func (l Line) MarshalJSON() ([]byte, error) { return json.Marshal(l.String()) }

// UnmarshalJSON implements json.Unmarshaler. JSON null decodes to the empty value.
func (l *Line) UnmarshalJSON(data []byte) error {
	value, err := unmarshalString(data)
	if err != nil {
		return fmt.Errorf("plaintext: decode line: %w", err)
	}
	*l = Line(normalizeLine(value))
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Line) UnmarshalText(data []byte) error {
	*l = Line(normalizeLine(string(data)))
	return nil
}

func scanString(src any) (string, error) {
	switch value := src.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case []byte:
		return string(value), nil
	default:
		return "", fmt.Errorf("unsupported source type %T", src)
	}
}

func unmarshalString(data []byte) (string, error) {
	if string(data) == "null" {
		return "", nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return "", err
	}
	return value, nil
}
