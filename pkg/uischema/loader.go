package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-recipes/pkg/plaintext"
)

// LoadFS walks the provided filesystem and parses JSON/YAML UI schema files.
// When fsys is nil or no schema files are present, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]FormConfig)}
	if fsys == nil {
		return store, nil
	}

	var themeSource string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for name, raw := range doc.Forms {
			id := strings.TrimSpace(name)
			if id == "" {
				return fmt.Errorf("uischema: file %s defines an empty form name", path)
			}
			if existing, exists := store.forms[id]; exists {
				return fmt.Errorf("uischema: duplicate form %q (files %s and %s)", id, existing.Source, path)
			}
			cfg, err := normaliseForm(raw, id, path)
			if err != nil {
				return err
			}
			store.forms[id] = cfg
		}

		if doc.Theme != nil {
			if themeSource != "" {
				return fmt.Errorf("uischema: duplicate theme (files %s and %s)", themeSource, path)
			}
			if strings.TrimSpace(doc.Theme.Name) == "" {
				return fmt.Errorf("uischema: file %s defines a theme without a name", path)
			}
			themeSource = path
			store.theme = doc.Theme.manifest()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Form returns the configuration for the named form.
func (s *Store) Form(name string) (FormConfig, bool) {
	if s == nil {
		return FormConfig{}, false
	}
	cfg, ok := s.forms[name]
	return cfg, ok
}

// Forms lists the configured form names in sorted order.
func (s *Store) Forms() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Theme returns the theme manifest declared by the schema, or nil.
func (s *Store) Theme() *theme.Manifest {
	if s == nil {
		return nil
	}
	return s.theme
}

// Empty reports whether the store holds neither forms nor a theme.
func (s *Store) Empty() bool {
	return s == nil || (len(s.forms) == 0 && s.theme == nil)
}

func parseDocument(data []byte, source string) (rawDocument, error) {
	var doc rawDocument
	if len(strings.TrimSpace(string(data))) == 0 {
		return rawDocument{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = rawDocument{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return rawDocument{}, fmt.Errorf("uischema: parse %s: invalid JSON or YAML", source)
}

func normaliseForm(raw rawForm, name, source string) (FormConfig, error) {
	cfg := FormConfig{
		Name:        name,
		Source:      source,
		Title:       plaintext.Normalize(raw.Title),
		Subtitle:    plaintext.Normalize(raw.Subtitle),
		SubmitLabel: plaintext.Normalize(raw.SubmitLabel),
		Icon:        sanitizeIcon(raw.Icon),
		Fields:      make(map[string]FieldConfig, len(raw.Fields)),
	}

	for key, field := range raw.Fields {
		fieldName := strings.TrimSpace(key)
		if fieldName == "" {
			return FormConfig{}, fmt.Errorf("uischema: form %q (file %s) defines an empty field name", name, source)
		}
		if _, exists := cfg.Fields[fieldName]; exists {
			return FormConfig{}, fmt.Errorf("uischema: form %q (file %s) defines duplicate field %q", name, source, fieldName)
		}
		cfg.Fields[fieldName] = FieldConfig{
			Label:     plaintext.Normalize(field.Label),
			HelpText:  plaintext.Normalize(field.HelpText),
			HideLabel: field.HideLabel,
			Template:  strings.TrimSpace(field.Template),
		}
	}
	return cfg, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
