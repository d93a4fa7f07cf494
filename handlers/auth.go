package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/estatedesk/estatedesk/internal/config"
	"github.com/estatedesk/estatedesk/internal/models"
	"github.com/estatedesk/estatedesk/internal/sessions"
	"github.com/estatedesk/estatedesk/internal/tokens"
	"github.com/estatedesk/estatedesk/internal/users"
	"github.com/estatedesk/estatedesk/pkg/middleware"
)

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"role":       u.Role,
		"phone":      u.Phone,
		"status":     u.Status,
	}
}

// RegisterAuthRoutes wires registration, login and token lifecycle endpoints.
func RegisterAuthRoutes(r *gin.Engine, cfg *config.Config, userSvc *users.Service, sessionSvc *sessions.Service, authn gin.HandlerFunc) {
	r.POST("/api/auth/register", func(c *gin.Context) {
		var req struct {
			FirstName string `json:"first_name" binding:"required"`
			LastName  string `json:"last_name" binding:"required"`
			Email     string `json:"email" binding:"required,email"`
			Password  string `json:"password" binding:"required,min=8"`
			Phone     string `json:"phone"`
			Role      string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		u, err := userSvc.Register(c.Request.Context(), users.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     strings.ToLower(strings.TrimSpace(req.Email)),
			Password:  req.Password,
			Phone:     req.Phone,
			Role:      req.Role,
		})
		if err != nil {
			if errors.Is(err, users.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": userPayload(u)})
	})

	r.POST("/api/auth/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		u, err := userSvc.Authenticate(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
		if err != nil {
			if errors.Is(err, users.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			return
		}
		access, err := tokens.GenerateAccessToken(cfg, u, cfg.JWT.AccessTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			return
		}
		refresh, err := sessionSvc.CreateSession(c.Request.Context(), u.ID, cfg.JWT.RefreshTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"access_token":  access,
			"refresh_token": refresh,
			"user":          userPayload(u),
		}})
	})

	r.POST("/api/auth/refresh", func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		sess, err := sessionSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			return
		}
		if sess == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid refresh token"})
			return
		}
		u, err := userSvc.GetByID(c.Request.Context(), sess.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid refresh token"})
			return
		}
		access, err := tokens.GenerateAccessToken(cfg, u, cfg.JWT.AccessTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"access_token": access}})
	})

	r.POST("/api/auth/logout", authn, func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.ShouldBindJSON(&req)
		if req.RefreshToken != "" {
			_ = sessionSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken)
		}
		// revoke the presented access token for its remaining lifetime
		auth := c.GetHeader("Authorization")
		if raw, ok := strings.CutPrefix(auth, "Bearer "); ok && raw != "" {
			_ = sessions.BlacklistAccessToken(c.Request.Context(), raw, cfg.JWT.AccessTokenTTL)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
	})

	r.GET("/api/v1/me", authn, func(c *gin.Context) {
		actor, ok := middleware.Actor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authenticated"})
			return
		}
		u, err := userSvc.GetByID(c.Request.Context(), actor.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": userPayload(u)})
	})

	r.GET("/api/agents", authn, func(c *gin.Context) {
		list, err := userSvc.ListAgents(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			return
		}
		out := make([]gin.H, 0, len(list))
		for _, u := range list {
			out = append(out, userPayload(u))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
	})
}
