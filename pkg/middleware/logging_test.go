package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	t.Run("logs method path and status", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := zap.New(core)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		wrapped := RequestLogger(logger)(handler)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		wrapped.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "HTTP request", entry.Message)
		assert.Equal(t, "GET", entry.ContextMap()["method"])
		assert.Equal(t, "/health", entry.ContextMap()["path"])
		assert.Equal(t, int64(http.StatusNotFound), entry.ContextMap()["status"])
	})

	t.Run("defaults status to 200 and counts response bytes", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := zap.New(core)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})
		wrapped := RequestLogger(logger)(handler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		wrapped.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, int64(http.StatusOK), entry.ContextMap()["status"])
		assert.Equal(t, int64(2), entry.ContextMap()["bytes"])
	})

	t.Run("server errors log at warn", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := zap.New(core)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		wrapped := RequestLogger(logger)(handler)

		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		wrapped.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Equal(t, int64(http.StatusBadGateway), entry.ContextMap()["status"])
	})

	t.Run("nil logger passes through", func(t *testing.T) {
		called := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})
		wrapped := RequestLogger(nil)(handler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		wrapped.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, called)
	})
}
