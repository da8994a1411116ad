package statusserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"gitlab.com/slon/library/library"
	"gitlab.com/slon/library/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	l := library.New(
		library.WithMaxReaders(3),
		library.WithObserver(metrics.New(reg)),
	)
	require.NoError(t, l.RequestRead(context.Background(), "Reader-1"))
	defer l.ReleaseRead("Reader-1")

	h := NewHandler(l, reg, newTestLogger())

	t.Run("pong", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pong", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
	})

	t.Run("state", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			MaxReaders int              `json:"max_readers"`
			State      library.Snapshot `json:"state"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 3, resp.MaxReaders)
		require.Equal(t, []string{"Reader-1"}, resp.State.Admitted)
		require.Equal(t, 1, resp.State.ReadersActive)
		require.Empty(t, resp.State.Queue)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "library_readers_active 1")
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

type panickingState struct{}

func (panickingState) Snapshot() library.Snapshot { panic("broken") }
func (panickingState) MaxReaders() int            { return 1 }

func TestHandler_Recovery(t *testing.T) {
	h := NewHandler(panickingState{}, prometheus.NewRegistry(), newTestLogger())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "internal server error"))
}

func TestServer_Run(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := New(addr, library.New(), prometheus.NewRegistry(), newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/pong")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunBadAddr(t *testing.T) {
	s := New("bad-address", library.New(), prometheus.NewRegistry(), newTestLogger())
	require.Error(t, s.Run(context.Background()))
}
