package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatedesk/estatedesk/internal/config"
	"github.com/estatedesk/estatedesk/internal/sessions"
	"github.com/estatedesk/estatedesk/internal/users"
	"github.com/estatedesk/estatedesk/pkg/middleware"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	userSvc := users.NewService(users.NewMemoryRepository())
	sessionSvc := sessions.NewService(sessions.NewMemoryRepository())
	r := gin.New()
	RegisterAuthRoutes(r, cfg, userSvc, sessionSvc, middleware.AuthMiddleware(cfg))
	return r
}

func post(t *testing.T, r *gin.Engine, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, email, role string) {
	t.Helper()
	w := post(t, r, "/api/auth/register", "", gin.H{
		"first_name": "Ada",
		"last_name":  "Obi",
		"email":      email,
		"password":   "hunter2hunter2",
		"role":       role,
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

type loginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func login(t *testing.T, r *gin.Engine, email string) loginData {
	t.Helper()
	w := post(t, r, "/api/auth/login", "", gin.H{"email": email, "password": "hunter2hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data loginData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestRegisterValidation(t *testing.T) {
	r := newAuthRouter(t)

	w := post(t, r, "/api/auth/register", "", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newAuthRouter(t)
	registerUser(t, r, "ada@example.com", "")

	w := post(t, r, "/api/auth/register", "", gin.H{
		"first_name": "Ada", "last_name": "Obi",
		"email": "ada@example.com", "password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	r := newAuthRouter(t)
	registerUser(t, r, "ada@example.com", "agent")

	data := login(t, r, "ada@example.com")
	assert.NotEmpty(t, data.AccessToken)
	assert.Len(t, data.RefreshToken, 64)
	assert.Equal(t, "agent", data.User.Role)

	w := get(t, r, "/api/v1/me", data.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ada@example.com", resp.Data.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	r := newAuthRouter(t)
	registerUser(t, r, "ada@example.com", "")

	w := post(t, r, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	r := newAuthRouter(t)
	w := get(t, r, "/api/v1/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh(t *testing.T) {
	r := newAuthRouter(t)
	registerUser(t, r, "ada@example.com", "")
	data := login(t, r, "ada@example.com")

	w := post(t, r, "/api/auth/refresh", "", gin.H{"refresh_token": data.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)

	w = post(t, r, "/api/auth/refresh", "", gin.H{"refresh_token": "bogus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	r := newAuthRouter(t)
	registerUser(t, r, "ada@example.com", "")
	data := login(t, r, "ada@example.com")

	w := post(t, r, "/api/auth/logout", data.AccessToken, gin.H{"refresh_token": data.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	w = post(t, r, "/api/auth/refresh", "", gin.H{"refresh_token": data.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAgentDirectory(t *testing.T) {
	r := newAuthRouter(t)
	registerUser(t, r, "agent@example.com", "agent")
	registerUser(t, r, "client@example.com", "")
	data := login(t, r, "client@example.com")

	w := get(t, r, "/api/agents", data.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "agent@example.com", resp.Data[0].Email)
}
