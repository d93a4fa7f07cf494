package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	// tiny bucket so the limit trips within the test
	g.GET("/ping", RateLimitMiddleware(0.0001, 2), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	codes := []int{}
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.1.1.1:1234"
		g.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	require.Equal(t, http.StatusOK, codes[0])
	require.Equal(t, http.StatusOK, codes[1])
	require.Equal(t, http.StatusTooManyRequests, codes[2])
	require.Equal(t, http.StatusTooManyRequests, codes[3])
}

func TestRateLimitMiddleware_KeysAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/ping2", RateLimitMiddleware(0.0001, 1), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	hit := func(addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping2", nil)
		req.RemoteAddr = addr
		g.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, hit("10.2.2.1:1"))
	require.Equal(t, http.StatusTooManyRequests, hit("10.2.2.1:1"))
	// a different client still has its own bucket
	require.Equal(t, http.StatusOK, hit("10.2.2.2:1"))
}
