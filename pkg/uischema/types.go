package uischema

import theme "github.com/goliatone/go-theme"

// Store holds the form overrides and theme loaded from a schema filesystem.
type Store struct {
	forms map[string]FormConfig
	theme *theme.Manifest
}

// FormConfig captures the overrides declared for a single form.
type FormConfig struct {
	Name        string
	Source      string
	Title       string
	Subtitle    string
	SubmitLabel string
	// Icon holds sanitized SVG markup.
	Icon   string
	Fields map[string]FieldConfig
}

// FieldConfig captures the overrides declared for a single field.
type FieldConfig struct {
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	HelpText  string `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	HideLabel *bool  `json:"hideLabel,omitempty" yaml:"hideLabel,omitempty"`
	Template  string `json:"template,omitempty" yaml:"template,omitempty"`
}

type rawDocument struct {
	Forms map[string]rawForm `json:"forms" yaml:"forms"`
	Theme *rawTheme          `json:"theme,omitempty" yaml:"theme,omitempty"`
}

type rawForm struct {
	Title       string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle    string                 `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	SubmitLabel string                 `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Icon        string                 `json:"icon,omitempty" yaml:"icon,omitempty"`
	Fields      map[string]FieldConfig `json:"fields,omitempty" yaml:"fields,omitempty"`
}

type rawTheme struct {
	Name      string                `json:"name" yaml:"name"`
	Version   string                `json:"version,omitempty" yaml:"version,omitempty"`
	Tokens    map[string]string     `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Templates map[string]string     `json:"templates,omitempty" yaml:"templates,omitempty"`
	Assets    rawAssets             `json:"assets,omitempty" yaml:"assets,omitempty"`
	Variants  map[string]rawVariant `json:"variants,omitempty" yaml:"variants,omitempty"`
}

type rawAssets struct {
	Prefix string            `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Files  map[string]string `json:"files,omitempty" yaml:"files,omitempty"`
}

type rawVariant struct {
	Tokens    map[string]string `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Templates map[string]string `json:"templates,omitempty" yaml:"templates,omitempty"`
	Assets    rawAssets         `json:"assets,omitempty" yaml:"assets,omitempty"`
}

func (t rawTheme) manifest() *theme.Manifest {
	manifest := &theme.Manifest{
		Name:      t.Name,
		Version:   t.Version,
		Tokens:    copyStrings(t.Tokens),
		Templates: copyStrings(t.Templates),
		Assets:    t.Assets.assets(),
	}
	if len(t.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(t.Variants))
		for name, variant := range t.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    copyStrings(variant.Tokens),
				Templates: copyStrings(variant.Templates),
				Assets:    variant.Assets.assets(),
			}
		}
	}
	return manifest
}

func (a rawAssets) assets() theme.Assets {
	return theme.Assets{Prefix: a.Prefix, Files: copyStrings(a.Files)}
}

func copyStrings(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
