package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/estatedesk/estatedesk/internal/authz"
	"github.com/estatedesk/estatedesk/internal/config"
	"github.com/estatedesk/estatedesk/internal/sessions"
	"github.com/estatedesk/estatedesk/internal/tokens"
)

// ActorKey is the gin context key the authenticated actor is stored under.
const ActorKey = "actor"

// Actor returns the authenticated actor from the request context. The bool is
// false on routes that did not pass AuthMiddleware.
func Actor(c *gin.Context) (authz.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return authz.Actor{}, false
	}
	a, ok := v.(authz.Actor)
	return a, ok
}

// AuthMiddleware verifies Bearer access tokens, rejects blacklisted tokens and
// stores the actor in the request context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var raw string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &raw); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid Authorization header"})
			return
		}

		if listed, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), raw); err == nil && listed {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "token revoked"})
			return
		}

		actor, err := tokens.ParseAccessToken(cfg, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}
