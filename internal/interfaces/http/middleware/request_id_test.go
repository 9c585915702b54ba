package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	newEngine := func() (*gin.Engine, *string) {
		var seen string
		engine := gin.New()
		engine.Use(RequestID())
		engine.GET("/test", func(c *gin.Context) {
			seen = c.GetString("request_id")
			c.Status(http.StatusOK)
		})
		return engine, &seen
	}

	t.Run("generates an ID when none supplied", func(t *testing.T) {
		engine, seen := newEngine()

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.NotEmpty(t, *seen)
		assert.Equal(t, *seen, w.Header().Get("X-Request-ID"))
		assert.Len(t, *seen, 32)
	})

	t.Run("honors a caller-supplied ID", func(t *testing.T) {
		engine, seen := newEngine()

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "caller-id-42")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "caller-id-42", *seen)
		assert.Equal(t, "caller-id-42", w.Header().Get("X-Request-ID"))
	})

	t.Run("distinct requests get distinct IDs", func(t *testing.T) {
		engine, seen := newEngine()

		w1 := httptest.NewRecorder()
		engine.ServeHTTP(w1, httptest.NewRequest("GET", "/test", nil))
		first := *seen

		w2 := httptest.NewRecorder()
		engine.ServeHTTP(w2, httptest.NewRequest("GET", "/test", nil))

		assert.NotEqual(t, first, *seen)
	})
}
