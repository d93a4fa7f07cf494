package lead

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/estatedesk/estatedesk/pkg/middleware"
)

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidSource):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}

// RegisterRoutes wires the lead API. Every route requires authentication.
func RegisterRoutes(r *gin.Engine, svc *Service, authn gin.HandlerFunc) {
	g := r.Group("/api/leads", authn)

	g.GET("", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		list, err := svc.List(c.Request.Context(), actor, Filter{
			Status: c.Query("status"),
			Source: c.Query("source"),
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
	})

	g.GET("/:id", func(c *gin.Context) {
		l, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": l})
	})

	g.POST("", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			FirstName        string             `json:"first_name" binding:"required"`
			LastName         string             `json:"last_name" binding:"required"`
			Email            string             `json:"email" binding:"required,email"`
			Phone            string             `json:"phone"`
			Source           string             `json:"source" binding:"required"`
			PropertyInterest []PropertyInterest `json:"property_interest"`
			Requirements     Requirements       `json:"requirements"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		l, err := svc.Create(c.Request.Context(), actor, CreateInput{
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Email:            req.Email,
			Phone:            req.Phone,
			Source:           req.Source,
			PropertyInterest: req.PropertyInterest,
			Requirements:     req.Requirements,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": l})
	})

	g.PUT("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			FirstName        *string            `json:"first_name"`
			LastName         *string            `json:"last_name"`
			Email            *string            `json:"email"`
			Phone            *string            `json:"phone"`
			Status           *string            `json:"status"`
			PropertyInterest []PropertyInterest `json:"property_interest"`
			Requirements     *Requirements      `json:"requirements"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		l, err := svc.Update(c.Request.Context(), actor, c.Param("id"), UpdateInput{
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Email:            req.Email,
			Phone:            req.Phone,
			Status:           req.Status,
			PropertyInterest: req.PropertyInterest,
			Requirements:     req.Requirements,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": l})
	})

	g.POST("/:id/communications", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Channel string `json:"channel" binding:"required"`
			Notes   string `json:"notes"`
			Outcome string `json:"outcome"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		l, err := svc.AddCommunication(c.Request.Context(), actor, c.Param("id"), CommunicationInput{
			Channel: req.Channel,
			Notes:   req.Notes,
			Outcome: req.Outcome,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": l})
	})

	g.POST("/:id/notes", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Content string `json:"content" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		l, err := svc.AddNote(c.Request.Context(), actor, c.Param("id"), req.Content)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": l})
	})

	g.PUT("/:id/assign", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			AgentID string `json:"agent_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		l, err := svc.AssignAgent(c.Request.Context(), actor, c.Param("id"), req.AgentID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": l})
	})

	g.DELETE("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		if err := svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "lead deleted"})
	})
}
