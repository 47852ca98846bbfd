package recipes

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-recipes/internal/cookies"
	"github.com/goliatone/go-recipes/internal/flash"
	"github.com/goliatone/go-recipes/pkg/forms"
	"github.com/goliatone/go-recipes/pkg/hybrid"
	"github.com/goliatone/go-recipes/pkg/render/template/gotemplate"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type renderedPage struct {
	status int
	name   string
	data   map[string]any
}

// fakePages records what the handler asked for and writes the rendered form
// markup so responses can be inspected.
type fakePages struct {
	last renderedPage
}

func (p *fakePages) Render(w http.ResponseWriter, _ *http.Request, status int, name string, data map[string]any) error {
	p.last = renderedPage{status: status, name: name, data: data}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if markup, ok := data["form"].(htmltemplate.HTML); ok {
		_, err := io.WriteString(w, string(markup))
		return err
	}
	_, err := fmt.Fprintf(w, "<h1>%v</h1>", data["title"])
	return err
}

type fixture struct {
	store  *MemoryStore
	form   *forms.Form
	pages  *fakePages
	flash  *flash.Store
	router chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := NewMemoryStore()
	form, err := NewForm(store, nil)
	require.NoError(t, err)

	adapter := mustAdapter(t)

	signer, err := cookies.NewSigner(testSecret, false)
	require.NoError(t, err)
	flashes := flash.New(signer)

	pages := &fakePages{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, err := NewHandler(HandlerConfig{
		Store:    store,
		Form:     form,
		Renderer: adapter,
		Pages:    pages,
		Flash:    flashes,
		Logger:   logger,
	})
	require.NoError(t, err)

	api, err := NewAPI(context.Background(), store, form, logger)
	require.NoError(t, err)

	router := chi.NewRouter()
	handler.Routes(router)
	api.Routes(router)
	router.NotFound(handler.NotFound)

	return &fixture{store: store, form: form, pages: pages, flash: flashes, router: router}
}

func mustAdapter(t *testing.T) *hybrid.Adapter {
	t.Helper()
	engine, err := gotemplate.New(gotemplate.WithFS(hybrid.Templates()))
	require.NoError(t, err)
	adapter, err := hybrid.New(engine)
	require.NoError(t, err)
	return adapter
}

func httpRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func (f *fixture) do(t *testing.T, method, target string, data url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if data != nil {
		body = strings.NewReader(data.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if data != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) seed(t *testing.T, recipe Recipe) Recipe {
	t.Helper()
	created, err := f.store.Create(context.Background(), recipe)
	require.NoError(t, err)
	return created
}

func ptr[T any](v T) *T {
	return &v
}
