package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitMiddleware(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	gin.SetMode(gin.TestMode)
	g := gin.New()
	// rps*window + burst = 2 allowed per window
	g.GET("/ping", RedisRateLimitMiddleware(client, 1, 1, time.Second), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	hit := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.3.3.3:1"
		g.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, hit())
	require.Equal(t, http.StatusOK, hit())
	require.Equal(t, http.StatusTooManyRequests, hit())
}

func TestRedisRateLimitMiddleware_NilClientFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/ping3", RedisRateLimitMiddleware(nil, 0.0001, 1, time.Second), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping3", nil)
	req.RemoteAddr = "10.4.4.4:1"
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping3", nil)
	req.RemoteAddr = "10.4.4.4:1"
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}
