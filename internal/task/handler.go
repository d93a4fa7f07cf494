package task

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/estatedesk/estatedesk/pkg/middleware"
)

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}

// RegisterRoutes wires the task API. Every route requires authentication.
func RegisterRoutes(r *gin.Engine, svc *Service, authn gin.HandlerFunc) {
	g := r.Group("/api/tasks", authn)

	g.GET("", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		list, err := svc.List(c.Request.Context(), actor, Filter{
			Status:   c.Query("status"),
			Priority: c.Query("priority"),
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
	})

	g.GET("/:id", func(c *gin.Context) {
		t, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": t})
	})

	g.POST("", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Title       string     `json:"title" binding:"required"`
			Description string     `json:"description"`
			DueDate     *time.Time `json:"due_date"`
			Priority    string     `json:"priority"`
			AssignedTo  string     `json:"assigned_to" binding:"required"`
			RelatedTo   *RelatedTo `json:"related_to"`
			Reminders   []Reminder `json:"reminders"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		t, err := svc.Create(c.Request.Context(), actor, CreateInput{
			Title:       req.Title,
			Description: req.Description,
			DueDate:     req.DueDate,
			Priority:    req.Priority,
			AssignedTo:  req.AssignedTo,
			RelatedTo:   req.RelatedTo,
			Reminders:   req.Reminders,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": t})
	})

	g.PUT("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Title       *string    `json:"title"`
			Description *string    `json:"description"`
			DueDate     *time.Time `json:"due_date"`
			Priority    *string    `json:"priority"`
			AssignedTo  *string    `json:"assigned_to"`
			RelatedTo   *RelatedTo `json:"related_to"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		t, err := svc.Update(c.Request.Context(), actor, c.Param("id"), UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			DueDate:     req.DueDate,
			Priority:    req.Priority,
			AssignedTo:  req.AssignedTo,
			RelatedTo:   req.RelatedTo,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": t})
	})

	g.PUT("/:id/status", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		t, err := svc.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": t})
	})

	g.DELETE("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		if err := svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "task deleted"})
	})
}
