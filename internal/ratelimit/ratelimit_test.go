package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, rateFormat string) *gin.Engine {
	t.Helper()

	middleware, err := NewHandshakeLimiter(rateFormat, nil)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/ws", middleware, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}

func get(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)

	return w
}

func TestHandshakeLimiterBlocksAfterLimit(t *testing.T) {
	router := newRouter(t, "2-M")

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1001").Code)

	w := get(router, "10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "too_many_requests")
}

func TestHandshakeLimiterIsPerIP(t *testing.T) {
	router := newRouter(t, "1-M")

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.2:1000").Code)
}

func TestHandshakeLimiterRejectsBadRate(t *testing.T) {
	_, err := NewHandshakeLimiter("lots", nil)
	assert.Error(t, err)
}
