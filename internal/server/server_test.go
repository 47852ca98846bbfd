package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(Config{ShutdownTimeout: time.Second}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestRunReportsListenErrors(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := New(Config{Addr: ln.Addr().String()}, nil)
	err = srv.Run(context.Background(), http.NotFoundHandler())
	assert.ErrorIs(t, err, ErrStart)
}

func TestHealthcheck(t *testing.T) {
	logger := New(Config{}, nil).logger

	rec := httptest.NewRecorder()
	Healthcheck(logger)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	ok := func(context.Context) error { return nil }
	rec = httptest.NewRecorder()
	Healthcheck(logger, ok)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "READY", rec.Body.String())

	failing := func(context.Context) error { return errors.New("db down") }
	rec = httptest.NewRecorder()
	Healthcheck(logger, ok, failing)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "NOT_READY", rec.Body.String())
}

func TestNewRouterValidatesConfig(t *testing.T) {
	_, err := NewRouter(RouterConfig{})
	assert.Error(t, err)
}
