package deal

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/estatedesk/estatedesk/pkg/middleware"
)

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidStage), errors.Is(err, ErrInvalidType):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPropertyMissing), errors.Is(err, ErrLeadMissing):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}

// RegisterRoutes wires the deal API. Every route requires authentication.
func RegisterRoutes(r *gin.Engine, svc *Service, authn gin.HandlerFunc) {
	g := r.Group("/api/deals", authn)

	g.GET("", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		list, err := svc.List(c.Request.Context(), actor, Filter{
			Stage:    c.Query("stage"),
			DealType: c.Query("deal_type"),
			AgentID:  c.Query("agent"),
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
	})

	g.GET("/:id", func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
	})

	g.POST("", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			PropertyID  string     `json:"property_id" binding:"required"`
			LeadID      string     `json:"lead_id" binding:"required"`
			DealType    string     `json:"deal_type" binding:"required"`
			Value       float64    `json:"value" binding:"required"`
			Commission  float64    `json:"commission"`
			ClosingDate *time.Time `json:"closing_date"`
			Notes       string     `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		d, err := svc.Create(c.Request.Context(), actor, CreateInput{
			PropertyID:  req.PropertyID,
			LeadID:      req.LeadID,
			DealType:    req.DealType,
			Value:       req.Value,
			Commission:  req.Commission,
			ClosingDate: req.ClosingDate,
			Notes:       req.Notes,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": d})
	})

	g.PUT("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Value       *float64   `json:"value"`
			Commission  *float64   `json:"commission"`
			ClosingDate *time.Time `json:"closing_date"`
			Notes       *string    `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		d, err := svc.Update(c.Request.Context(), actor, c.Param("id"), UpdateInput{
			Value:       req.Value,
			Commission:  req.Commission,
			ClosingDate: req.ClosingDate,
			Notes:       req.Notes,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
	})

	g.PUT("/:id/stage", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Stage string `json:"stage" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		d, err := svc.UpdateStage(c.Request.Context(), actor, c.Param("id"), req.Stage)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
	})

	g.POST("/:id/documents", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			DocumentType string `json:"document_type" binding:"required"`
			DocumentURL  string `json:"document_url" binding:"required"`
			Notes        string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		d, err := svc.AddDocument(c.Request.Context(), actor, c.Param("id"), DocumentInput{
			Type:  req.DocumentType,
			URL:   req.DocumentURL,
			Notes: req.Notes,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
	})

	g.DELETE("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		if err := svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "deal deleted"})
	})
}
