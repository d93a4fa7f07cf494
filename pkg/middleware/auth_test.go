package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/estatedesk/estatedesk/internal/authz"
	"github.com/estatedesk/estatedesk/internal/config"
	"github.com/estatedesk/estatedesk/internal/models"
	"github.com/estatedesk/estatedesk/internal/sessions"
	"github.com/estatedesk/estatedesk/internal/tokens"
)

func authTestEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		a, ok := Actor(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "actor missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": a})
	})
	return g
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "mw-secret"}}
	g := authTestEngine(cfg)

	u := &models.User{ID: "u-9", Role: authz.RoleAgent}
	raw, err := tokens.GenerateAccessToken(cfg, u, time.Minute)
	require.NoError(t, err)

	// missing header
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// malformed header
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// invalid token
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// valid token
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "u-9")
}

func TestAuthMiddleware_BlacklistedToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	sessions.SetBlacklistClient(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	defer sessions.SetBlacklistClient(nil)

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "mw-secret"}}
	g := authTestEngine(cfg)

	u := &models.User{ID: "u-9", Role: authz.RoleAgent}
	raw, err := tokens.GenerateAccessToken(cfg, u, time.Minute)
	require.NoError(t, err)
	require.NoError(t, sessions.BlacklistAccessToken(context.Background(), raw, time.Minute))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
