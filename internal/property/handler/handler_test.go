package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatedesk/estatedesk/internal/authz"
	"github.com/estatedesk/estatedesk/internal/property"
	"github.com/estatedesk/estatedesk/internal/property/repository"
	"github.com/estatedesk/estatedesk/pkg/middleware"
)

// actorFromHeader is a test stand-in for the JWT middleware: it reads
// "X-Actor" as "<id>:<role>".
func actorFromHeader(c *gin.Context) {
	h := c.GetHeader("X-Actor")
	if h == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing token"})
		return
	}
	id, role, _ := strings.Cut(h, ":")
	c.Set(middleware.ActorKey, authz.Actor{ID: id, Role: role})
	c.Next()
}

func newRouter(t *testing.T) (*gin.Engine, *property.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := property.NewService(repository.NewMemoryRepo())
	r := gin.New()
	RegisterPropertyRoutes(r, svc, nil, actorFromHeader)
	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path, actor string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Actor", actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seed(t *testing.T, svc *property.Service) *property.Property {
	t.Helper()
	p, err := svc.Create(context.Background(), authz.Actor{ID: "owner-1", Role: authz.RolePropertyOwner},
		property.CreateInput{
			OwnerName:   "Ada Obi",
			TitleNumber: "LA-2021-0042",
			Address:     "12 Marina Rd, Lagos",
			Lat:         6.4550,
			Lng:         3.3841,
		})
	require.NoError(t, err)
	return p
}

func TestCreateProperty(t *testing.T) {
	r, _ := newRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/properties", "owner-1:property_owner", gin.H{
		"owner_name": "Ada Obi",
		"address":    "12 Marina Rd, Lagos",
		"lat":        6.4550,
		"lng":        3.3841,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    property.Property `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "owner-1", resp.Data.OwnerID)
	assert.Equal(t, property.StatusPending, resp.Data.VerificationStatus)
}

func TestCreatePropertyValidation(t *testing.T) {
	r, _ := newRouter(t)
	// owner_name and address are required
	w := doJSON(t, r, http.MethodPost, "/api/properties", "owner-1:property_owner", gin.H{"lat": 1.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePropertyRequiresAuth(t *testing.T) {
	r, _ := newRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/properties", "", gin.H{"owner_name": "x", "address": "y"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPropertyPublic(t *testing.T) {
	r, svc := newRouter(t)
	p := seed(t, svc)

	w := doJSON(t, r, http.MethodGet, "/api/properties/"+p.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/properties/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPropertiesWithFilters(t *testing.T) {
	r, svc := newRouter(t)
	p := seed(t, svc)

	w := doJSON(t, r, http.MethodGet, "/api/properties?status=pending&near="+p.Geohash[:4], "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []property.Property `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, p.ID, resp.Data[0].ID)

	w = doJSON(t, r, http.MethodGet, "/api/properties?status=verified", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestVerifyEndpoint(t *testing.T) {
	r, svc := newRouter(t)
	seed(t, svc)

	t.Run("match without coordinates", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/properties/verify", "", gin.H{"title_number": "LA-2021-0042"})
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data struct {
				Verification property.VerificationResult `json:"verification"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, property.ResultVerified, resp.Data.Verification.Status)
		assert.Equal(t, "Property details match the records", resp.Data.Verification.Message)
	})

	t.Run("coordinates too far off", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/properties/verify", "", gin.H{
			"title_number": "LA-2021-0042",
			"coordinates":  gin.H{"lat": 6.4650, "lng": 3.3841},
		})
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data struct {
				Verification property.VerificationResult `json:"verification"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, property.ResultFlagged, resp.Data.Verification.Status)
		require.NotNil(t, resp.Data.Verification.Distance)
		assert.Greater(t, *resp.Data.Verification.Distance, 100)
	})

	t.Run("no identifiers", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/properties/verify", "", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown identifiers", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/properties/verify", "", gin.H{"title_number": "NO-SUCH"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateForbiddenMapsTo403(t *testing.T) {
	r, svc := newRouter(t)
	p := seed(t, svc)

	w := doJSON(t, r, http.MethodPut, "/api/properties/"+p.ID, "stranger:agent", gin.H{"price": 1.0})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/properties/"+p.ID, "owner-1:property_owner", gin.H{"price": 1.0})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadAndVerifyDocumentFlow(t *testing.T) {
	r, svc := newRouter(t)
	p := seed(t, svc)

	w := doJSON(t, r, http.MethodPost, "/api/properties/"+p.ID+"/documents", "owner-1:property_owner", gin.H{
		"type": "deed", "name": "deed.pdf", "url": "https://cdn.example.com/deed.pdf",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// non-admin reviewer is rejected
	w = doJSON(t, r, http.MethodPut, "/api/properties/"+p.ID+"/documents/verify", "owner-1:property_owner", gin.H{
		"document_index": 0, "status": "verified",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// bad index after the property was found
	w = doJSON(t, r, http.MethodPut, "/api/properties/"+p.ID+"/documents/verify", "admin-1:admin", gin.H{
		"document_index": 5, "status": "verified",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/properties/"+p.ID+"/documents/verify", "admin-1:admin", gin.H{
		"document_index": 0, "status": "verified", "notes": "clean",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data property.Property `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, property.StatusVerified, resp.Data.VerificationStatus)
}

func TestStatusOverrideEndpoint(t *testing.T) {
	r, svc := newRouter(t)
	p := seed(t, svc)

	w := doJSON(t, r, http.MethodPut, "/api/properties/"+p.ID+"/verification", "admin-1:admin", gin.H{
		"status": "flagged", "notes": "boundary dispute",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/properties/"+p.ID+"/verification", "admin-1:admin", gin.H{
		"status": "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadURLOwnershipAndStorage(t *testing.T) {
	r, svc := newRouter(t)
	p := seed(t, svc)

	// strangers cannot request presigned URLs for someone else's property
	w := doJSON(t, r, http.MethodPost, "/api/properties/"+p.ID+"/documents/upload-url", "stranger:agent", gin.H{
		"filename": "deed.pdf",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the owner clears the gate but storage is not configured here
	w = doJSON(t, r, http.MethodPost, "/api/properties/"+p.ID+"/documents/upload-url", "owner-1:property_owner", gin.H{
		"filename": "deed.pdf",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDownloadURLOwnershipAndStorage(t *testing.T) {
	r, svc := newRouter(t)
	p := seed(t, svc)
	key := "properties/" + p.ID + "/deed.pdf"

	w := doJSON(t, r, http.MethodGet, "/api/properties/"+p.ID+"/documents/download-url", "owner-1:property_owner", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code) // object_key required

	w = doJSON(t, r, http.MethodGet, "/api/properties/"+p.ID+"/documents/download-url?object_key="+key, "stranger:agent", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// keys outside the property's namespace are rejected
	w = doJSON(t, r, http.MethodGet, "/api/properties/"+p.ID+"/documents/download-url?object_key=properties/other/deed.pdf", "owner-1:property_owner", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/properties/"+p.ID+"/documents/download-url?object_key="+key, "owner-1:property_owner", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/properties/nope/documents/download-url?object_key="+key, "admin-1:admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProperty(t *testing.T) {
	r, svc := newRouter(t)
	p := seed(t, svc)

	w := doJSON(t, r, http.MethodDelete, "/api/properties/"+p.ID, "stranger:client", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/properties/"+p.ID, "admin-1:admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/properties/"+p.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
