package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingRegistrar struct {
	path string
}

func (r pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(r.path, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

func TestRouterMountsUnderVersionPrefix(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(pingRegistrar{path: "/ping"}).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterCustomAPIVersion(t *testing.T) {
	engine := gin.New()
	NewRouter(engine, WithAPIVersion("v2")).Register(pingRegistrar{path: "/ping"}).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v2/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterRegistersMultipleRegistrars(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).
		Register(pingRegistrar{path: "/a"}, pingRegistrar{path: "/b"}).
		Setup()

	for _, path := range []string{"/api/v1/a", "/api/v1/b"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
