package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/estatedesk/estatedesk/internal/authz"
	"github.com/estatedesk/estatedesk/internal/property"
	"github.com/estatedesk/estatedesk/internal/property/repository"
	"github.com/estatedesk/estatedesk/internal/storage"
	"github.com/estatedesk/estatedesk/pkg/middleware"
)

const presignedURLExpiry = 15 * time.Minute

// writeErr maps service errors onto the response envelope.
func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, property.ErrMissingIdentifiers), errors.Is(err, property.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, property.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, property.ErrNotFound), errors.Is(err, property.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}

// RegisterPropertyRoutes wires the property API. Lookup routes and the public
// verification check need no token; everything that mutates goes through authn.
// store may be nil when object storage is not configured; the upload-url route
// then reports 503.
func RegisterPropertyRoutes(r *gin.Engine, svc *property.Service, store *storage.DocumentStore, authn gin.HandlerFunc) {
	r.GET("/api/properties", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), repository.Filter{
			Status:        c.Query("status"),
			OwnerID:       c.Query("owner"),
			GeohashPrefix: c.Query("near"),
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
	})

	r.GET("/api/properties/:id", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
	})

	// Public record check for prospective buyers.
	r.POST("/api/properties/verify", func(c *gin.Context) {
		var req struct {
			TitleNumber      string                `json:"title_number"`
			SurveyPlanNumber string                `json:"survey_plan_number"`
			Coordinates      *property.Coordinates `json:"coordinates"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		p, res, err := svc.VerifyByDetails(c.Request.Context(), req.TitleNumber, req.SurveyPlanNumber, req.Coordinates)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"property": p, "verification": res}})
	})

	auth := r.Group("/api/properties", authn)

	auth.POST("", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			OwnerName        string   `json:"owner_name" binding:"required"`
			Email            string   `json:"email"`
			Phone            string   `json:"phone"`
			TitleNumber      string   `json:"title_number"`
			SurveyPlanNumber string   `json:"survey_plan_number"`
			Address          string   `json:"address" binding:"required"`
			Lat              float64  `json:"lat"`
			Lng              float64  `json:"lng"`
			PropertyType     string   `json:"property_type"`
			Size             float64  `json:"size"`
			Price            float64  `json:"price"`
			Description      string   `json:"description"`
			Images           []string `json:"images"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		p, err := svc.Create(c.Request.Context(), actor, property.CreateInput{
			OwnerName:        req.OwnerName,
			Email:            req.Email,
			Phone:            req.Phone,
			TitleNumber:      req.TitleNumber,
			SurveyPlanNumber: req.SurveyPlanNumber,
			Address:          req.Address,
			Lat:              req.Lat,
			Lng:              req.Lng,
			PropertyType:     req.PropertyType,
			Size:             req.Size,
			Price:            req.Price,
			Description:      req.Description,
			Images:           req.Images,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
	})

	auth.PUT("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			OwnerName    *string  `json:"owner_name"`
			Email        *string  `json:"email"`
			Phone        *string  `json:"phone"`
			Address      *string  `json:"address"`
			Lat          *float64 `json:"lat"`
			Lng          *float64 `json:"lng"`
			PropertyType *string  `json:"property_type"`
			Size         *float64 `json:"size"`
			Price        *float64 `json:"price"`
			Description  *string  `json:"description"`
			Images       []string `json:"images"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		p, err := svc.Update(c.Request.Context(), actor, c.Param("id"), property.UpdateInput{
			OwnerName:    req.OwnerName,
			Email:        req.Email,
			Phone:        req.Phone,
			Address:      req.Address,
			Lat:          req.Lat,
			Lng:          req.Lng,
			PropertyType: req.PropertyType,
			Size:         req.Size,
			Price:        req.Price,
			Description:  req.Description,
			Images:       req.Images,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
	})

	auth.DELETE("/:id", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		if err := svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "property deleted"})
	})

	auth.POST("/:id/documents", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Type      string `json:"type" binding:"required"`
			Name      string `json:"name" binding:"required"`
			URL       string `json:"url"`
			ObjectKey string `json:"object_key"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		p, err := svc.UploadDocument(c.Request.Context(), actor, c.Param("id"), property.DocumentInput{
			Type:      req.Type,
			Name:      req.Name,
			URL:       req.URL,
			ObjectKey: req.ObjectKey,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
	})

	auth.POST("/:id/documents/upload-url", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Filename string `json:"filename" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		// 404 and 403 before leaking whether storage is even configured
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		if !authz.CanMutate(actor, false, p.OwnerID) {
			writeErr(c, property.ErrForbidden)
			return
		}
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "object storage not configured"})
			return
		}
		key := storage.ObjectKey(p.ID, req.Filename)
		url, err := store.PresignedUploadURL(c.Request.Context(), key, presignedURLExpiry)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"upload_url": url, "object_key": key}})
	})

	auth.GET("/:id/documents/download-url", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		key := c.Query("object_key")
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "object_key is required"})
			return
		}
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		if !authz.CanMutate(actor, false, p.OwnerID) {
			writeErr(c, property.ErrForbidden)
			return
		}
		// only keys under this property's namespace can be requested here
		if !strings.HasPrefix(key, storage.ObjectKey(p.ID, "")) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "object_key does not belong to this property"})
			return
		}
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "object storage not configured"})
			return
		}
		url, err := store.PresignedDownloadURL(c.Request.Context(), key, presignedURLExpiry)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"download_url": url, "object_key": key}})
	})

	auth.PUT("/:id/documents/verify", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			DocumentIndex *int   `json:"document_index" binding:"required"`
			Status        string `json:"status" binding:"required"`
			Notes         string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		p, err := svc.VerifyDocument(c.Request.Context(), actor, c.Param("id"), *req.DocumentIndex, req.Status, req.Notes)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
	})

	auth.PUT("/:id/verification", func(c *gin.Context) {
		actor, _ := middleware.Actor(c)
		var req struct {
			Status string `json:"status" binding:"required"`
			Notes  string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		p, err := svc.OverrideStatus(c.Request.Context(), actor, c.Param("id"), req.Status, req.Notes)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
	})
}
