package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-recipes/internal/logging"
)

type ctxKey struct{}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNew_JSONWithAttrsAndExtractors(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(
		logging.WithFormat(logging.FormatJSON),
		logging.WithOutput(&buf),
		logging.WithAttr(slog.String("service", "recipes")),
		logging.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			if v, ok := ctx.Value(ctxKey{}).(string); ok {
				return slog.String("request_id", v), true
			}
			return slog.Attr{}, false
		}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	logger.InfoContext(ctx, "saved", logging.Error(errors.New("boom")))

	rec := decode(t, &buf)
	assert.Equal(t, "saved", rec["msg"])
	assert.Equal(t, "recipes", rec["service"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "boom", rec["error"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.WithOutput(&buf), logging.WithLevel(slog.LevelWarn))
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseFormat(t *testing.T) {
	f, err := logging.ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, logging.FormatJSON, f)

	_, err = logging.ParseFormat("xml")
	assert.Error(t, err)
}

func TestErrorAttrNil(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logging.Error(nil))
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.WithFormat(logging.FormatJSON), logging.WithOutput(&buf))

	handler := logging.Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/recipes/", nil))

	rec := decode(t, &buf)
	assert.Equal(t, "http request", rec["msg"])
	assert.Equal(t, "GET", rec["method"])
	assert.Equal(t, "/recipes/", rec["path"])
	assert.EqualValues(t, http.StatusTeapot, rec["status"])
	assert.EqualValues(t, 3, rec["bytes"])
}
