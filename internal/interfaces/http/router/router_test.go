package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerpulse/backend/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type stubRegistrar struct {
	registered bool
}

func (s *stubRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	s.registered = true
	rg.GET("/stub", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func TestRouter_Setup(t *testing.T) {
	t.Run("mounts registrars under the api version", func(t *testing.T) {
		engine := NewEngine(zap.NewNop())
		registrar := &stubRegistrar{}
		NewRouter(engine).Register(registrar).Setup()

		require.True(t, registrar.registered)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stub", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("custom api version", func(t *testing.T) {
		engine := NewEngine(zap.NewNop())
		NewRouter(engine, WithAPIVersion("v2")).Register(&stubRegistrar{}).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/stub", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stub", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouter_Health(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		engine := NewEngine(zap.NewNop())
		health := handler.NewHealthHandler(pingerFunc(func(context.Context) error { return nil }))
		NewRouter(engine, WithHealth(health)).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
		assert.Contains(t, w.Body.String(), `"database":"up"`)
	})

	t.Run("unreachable database", func(t *testing.T) {
		engine := NewEngine(zap.NewNop())
		health := handler.NewHealthHandler(pingerFunc(func(context.Context) error {
			return errors.New("connection refused")
		}))
		NewRouter(engine, WithHealth(health)).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"down"`)
	})
}
