package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-recipes/internal/config"
	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/pkg/forms"
)

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func newTestApp(t *testing.T, environ map[string]string) *App {
	t.Helper()
	base := map[string]string{"SECRET_KEY": strings.Repeat("s", 32), "DEBUG": "true"}
	for key, value := range environ {
		base[key] = value
	}
	cfg, err := config.FromMap(base)
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (b *browser) do(method, target string, data url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body io.Reader
	if data != nil {
		body = strings.NewReader(data.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if data != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func TestNewUsesMemoryStoreAndSchema(t *testing.T) {
	a := newTestApp(t, nil)

	_, ok := a.Store.(*recipes.MemoryStore)
	assert.True(t, ok)

	field, ok := a.Form.Field(recipes.FieldRecipeType)
	require.True(t, ok)
	assert.Equal(t, "Type", field.Label)
	assert.Equal(t, []string{"hybrid"}, a.Renderers.List())
	assert.Error(t, a.Migrate(context.Background()))
}

func TestHandlerRequiresSecretKey(t *testing.T) {
	a := newTestApp(t, map[string]string{"SECRET_KEY": "short"})
	_, err := a.Handler(context.Background())
	assert.ErrorIs(t, err, config.ErrSecretKey)
}

func TestRecipeLifecycle(t *testing.T) {
	a := newTestApp(t, nil)
	handler, err := a.Handler(context.Background())
	require.NoError(t, err)
	b := &browser{t: t, handler: handler, cookies: map[string]*http.Cookie{}}

	rec := b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, recipes.ListPath, rec.Header().Get("Location"))

	rec = b.do(http.MethodGet, "/recipes/create/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Create Recipe · Recipes</title>")
	assert.Contains(t, body, `<radio-group-input`)
	assert.Contains(t, body, `label="Diet friendly"`)
	assert.Contains(t, body, ">Save recipe</button>")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, `href="/static/css/recipes.css"`)

	match := csrfInput.FindStringSubmatch(body)
	require.Len(t, match, 2, "csrf token not rendered")
	token := match[1]

	rec = b.do(http.MethodPost, "/recipes/create/", url.Values{recipes.FieldName: {"Soup"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = b.do(http.MethodPost, "/recipes/create/", url.Values{
		"csrf_token":      {token},
		recipes.FieldName: {""},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), forms.MsgRequired)

	rec = b.do(http.MethodPost, "/recipes/create/", url.Values{
		"csrf_token":                {token},
		recipes.FieldName:           {"<script>x</script>Pasta"},
		recipes.FieldIsDietFriendly: {"unknown"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	rec = b.do(http.MethodGet, "/recipes/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, recipes.MsgSaved)
	assert.Contains(t, body, `<a href="/recipes/1/">Pasta</a>`)
	assert.NotContains(t, body, "<script>x")

	rec = b.do(http.MethodGet, "/recipes/", nil)
	assert.NotContains(t, rec.Body.String(), recipes.MsgSaved)

	rec = b.do(http.MethodGet, "/recipes/1/delete/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `Are you sure you want to delete "Pasta"?`)

	rec = b.do(http.MethodPost, "/recipes/1/delete/", url.Values{"csrf_token": {token}})
	require.Equal(t, http.StatusFound, rec.Code)

	rec = b.do(http.MethodGet, "/recipes/", nil)
	assert.Contains(t, rec.Body.String(), recipes.MsgDeleted)
	assert.Contains(t, rec.Body.String(), "No recipes yet.")
}

func TestNotFoundAndProbes(t *testing.T) {
	a := newTestApp(t, nil)
	handler, err := a.Handler(context.Background())
	require.NoError(t, err)
	b := &browser{t: t, handler: handler, cookies: map[string]*http.Cookie{}}

	rec := b.do(http.MethodGet, "/recipes/404/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")

	rec = b.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = b.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec = b.do(http.MethodGet, "/api/openapi.json", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUISchemaDirMustExist(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{"UI_SCHEMA_DIR": t.TempDir() + "/missing"})
	require.NoError(t, err)
	_, err = New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
