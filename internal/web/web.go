// Package web renders full HTML pages: the shared layout, flash messages and
// theme tokens around the content produced by the handlers.
package web

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-recipes/internal/csrf"
	"github.com/goliatone/go-recipes/internal/flash"
	"github.com/goliatone/go-recipes/internal/requestid"
	"github.com/goliatone/go-recipes/pkg/render/template"
)

//go:embed templates
var embeddedTemplates embed.FS

// Templates exposes the page templates rooted so that "layout.html" and
// "pages/recipes/list.html" resolve directly.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// DefaultSiteName is shown in the header and the document title.
const DefaultSiteName = "Recipes"

// Option configures Pages.
type Option func(*Pages)

// WithFlash pops queued flash messages into every page.
func WithFlash(store *flash.Store) Option {
	return func(p *Pages) {
		p.flash = store
	}
}

// WithTheme exposes the manifest tokens and assets to the layout. A
// non-empty variant layers its tokens and assets over the base manifest.
func WithTheme(manifest *theme.Manifest, variant string) Option {
	return func(p *Pages) {
		p.theme = themeContext(manifest, variant)
	}
}

// WithSiteName overrides DefaultSiteName.
func WithSiteName(name string) Option {
	return func(p *Pages) {
		if name = strings.TrimSpace(name); name != "" {
			p.siteName = name
		}
	}
}

// Pages renders page templates through a template engine.
type Pages struct {
	engine   template.TemplateRenderer
	flash    *flash.Store
	theme    map[string]any
	siteName string
}

// New returns Pages rendering through engine.
func New(engine template.TemplateRenderer, opts ...Option) (*Pages, error) {
	if engine == nil {
		return nil, errors.New("web: template renderer required")
	}
	p := &Pages{
		engine:   engine,
		theme:    themeContext(nil, ""),
		siteName: DefaultSiteName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Render executes the named page with data merged over the shared layout
// context and writes it with status. Nothing is written when rendering
// fails.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	ctx := map[string]any{
		"site":      p.siteName,
		"theme":     p.theme,
		"flashes":   []flash.Message{},
		"csrfField": csrf.FieldName,
		"csrfToken": csrf.Token(r.Context()),
		"requestID": requestid.FromContext(r.Context()),
		"path":      r.URL.Path,
	}
	if p.flash != nil {
		if messages := p.flash.Pop(w, r); len(messages) > 0 {
			ctx["flashes"] = messages
		}
	}
	for key, value := range data {
		ctx[key] = value
	}

	out, err := p.engine.RenderTemplate(name, ctx)
	if err != nil {
		return fmt.Errorf("web: render %q: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write([]byte(out))
	return err
}

type token struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func themeContext(manifest *theme.Manifest, variant string) map[string]any {
	out := map[string]any{
		"name":        "",
		"variant":     "",
		"tokens":      []token{},
		"stylesheets": []string{},
		"scripts":     []string{},
	}
	if manifest == nil {
		return out
	}

	tokens := copyMap(manifest.Tokens)
	prefix := manifest.Assets.Prefix
	files := copyMap(manifest.Assets.Files)
	if v, ok := manifest.Variants[variant]; ok && variant != "" {
		for key, value := range v.Tokens {
			tokens[key] = value
		}
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
		for key, value := range v.Assets.Files {
			files[key] = value
		}
		out["variant"] = variant
	}

	names := sortedKeys(tokens)
	list := make([]token, 0, len(names))
	for _, name := range names {
		list = append(list, token{Name: name, Value: tokens[name]})
	}

	var stylesheets, scripts []string
	for _, key := range sortedKeys(files) {
		url := assetURL(prefix, files[key])
		switch path.Ext(files[key]) {
		case ".css":
			stylesheets = append(stylesheets, url)
		case ".js", ".mjs":
			scripts = append(scripts, url)
		}
	}

	out["name"] = manifest.Name
	out["tokens"] = list
	if stylesheets != nil {
		out["stylesheets"] = stylesheets
	}
	if scripts != nil {
		out["scripts"] = scripts
	}
	return out
}

func assetURL(prefix, file string) string {
	if strings.Contains(file, "://") || strings.HasPrefix(file, "//") {
		return file
	}
	if prefix == "" {
		prefix = "/"
	}
	return path.Join("/", prefix, file)
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
