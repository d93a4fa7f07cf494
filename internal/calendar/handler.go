package calendar

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/estatedesk/estatedesk/pkg/middleware"
)

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidSpan), errors.Is(err, ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// RegisterRoutes wires the calendar API. Every route requires authentication.
func RegisterRoutes(r *gin.Engine, svc *Service, authn gin.HandlerFunc) {
	g := r.Group("/api/calendar", authn)

	g.GET("", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), Filter{
			From:     parseTime(c.Query("from")),
			To:       parseTime(c.Query("to")),
			Attendee: c.Query("attendee"),
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
	})

	g.GET("/:id", func(c *gin.Context) {
		e, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": e})
	})

	g.POST("", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Title       string     `json:"title" binding:"required"`
			Description string     `json:"description"`
			Start       time.Time  `json:"start" binding:"required"`
			End         time.Time  `json:"end" binding:"required"`
			Attendees   []string   `json:"attendees"`
			RelatedTo   *RelatedTo `json:"related_to"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		e, err := svc.Create(c.Request.Context(), actor, CreateInput{
			Title:       req.Title,
			Description: req.Description,
			Start:       req.Start,
			End:         req.End,
			Attendees:   req.Attendees,
			RelatedTo:   req.RelatedTo,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": e})
	})

	g.PUT("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Title       *string    `json:"title"`
			Description *string    `json:"description"`
			Start       *time.Time `json:"start"`
			End         *time.Time `json:"end"`
			Attendees   []string   `json:"attendees"`
			RelatedTo   *RelatedTo `json:"related_to"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		e, err := svc.Update(c.Request.Context(), actor, c.Param("id"), UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			Start:       req.Start,
			End:         req.End,
			Attendees:   req.Attendees,
			RelatedTo:   req.RelatedTo,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": e})
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
		e, err := svc.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": e})
	})

	g.DELETE("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		if err := svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "event deleted"})
	})
}
