package agent

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/estatedesk/estatedesk/pkg/middleware"
)

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, ErrProfileExists):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}

// RegisterRoutes wires the agent profile API. The directory listing of agent
// accounts lives on the auth routes; these cover the profile records.
func RegisterRoutes(r *gin.Engine, svc *Service, authn gin.HandlerFunc) {
	g := r.Group("/api/agents", authn)

	g.GET("/:id", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
	})

	g.POST("", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			UserID          string   `json:"user_id" binding:"required"`
			LicenseNumber   string   `json:"license_number" binding:"required"`
			Specializations []string `json:"specializations"`
			AreasServed     []string `json:"areas_served"`
			Bio             string   `json:"bio"`
			ProfileImage    string   `json:"profile_image"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		p, err := svc.Create(c.Request.Context(), actor, CreateInput{
			UserID:          req.UserID,
			LicenseNumber:   req.LicenseNumber,
			Specializations: req.Specializations,
			AreasServed:     req.AreasServed,
			Bio:             req.Bio,
			ProfileImage:    req.ProfileImage,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
	})

	g.PUT("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			LicenseNumber   *string  `json:"license_number"`
			Specializations []string `json:"specializations"`
			AreasServed     []string `json:"areas_served"`
			Bio             *string  `json:"bio"`
			ProfileImage    *string  `json:"profile_image"`
			Status          *string  `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		p, err := svc.Update(c.Request.Context(), actor, c.Param("id"), UpdateInput{
			LicenseNumber:   req.LicenseNumber,
			Specializations: req.Specializations,
			AreasServed:     req.AreasServed,
			Bio:             req.Bio,
			ProfileImage:    req.ProfileImage,
			Status:          req.Status,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
	})

	g.PUT("/:id/performance", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			TotalDeals         *int     `json:"total_deals"`
			DealsClosed        *int     `json:"deals_closed"`
			TotalValue         *float64 `json:"total_value"`
			LeadConversionRate *float64 `json:"lead_conversion_rate"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		p, err := svc.UpdateMetrics(c.Request.Context(), actor, c.Param("id"), MetricsInput{
			TotalDeals:         req.TotalDeals,
			DealsClosed:        req.DealsClosed,
			TotalValue:         req.TotalValue,
			LeadConversionRate: req.LeadConversionRate,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
	})

	g.DELETE("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		if err := svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "agent profile deleted"})
	})
}
