package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>estatedesk — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the main API surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "estatedesk", "version": "v0.1.0" },
  "paths": {
    "/api/auth/register": {
      "post": { "summary": "Register an account", "responses": { "201": { "description": "user created" }, "409": { "description": "email already registered" } } }
    },
    "/api/auth/login": {
      "post": { "summary": "Login with email and password", "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid credentials" } } }
    },
    "/api/auth/refresh": {
      "post": { "summary": "Refresh access token", "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/api/auth/logout": {
      "post": { "summary": "Logout and invalidate tokens", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Get the authenticated user", "responses": { "200": { "description": "user profile" } } }
    },
    "/api/agents": {
      "get": { "summary": "Agent directory", "responses": { "200": { "description": "agents" } } },
      "post": { "summary": "Open an agent profile", "responses": { "201": { "description": "profile created" }, "409": { "description": "profile already exists" } } }
    },
    "/api/agents/{id}": {
      "get": { "summary": "Get an agent profile", "responses": { "200": { "description": "profile" } } },
      "put": { "summary": "Update an agent profile", "responses": { "200": { "description": "updated profile" } } },
      "delete": { "summary": "Delete an agent profile (admin)", "responses": { "200": { "description": "deleted" } } }
    },
    "/api/agents/{id}/performance": {
      "put": { "summary": "Update performance metrics (admin)", "responses": { "200": { "description": "updated profile" } } }
    },
    "/api/properties": {
      "get": { "summary": "List properties (status, owner, near filters)", "responses": { "200": { "description": "properties" } } },
      "post": { "summary": "List a new property", "responses": { "201": { "description": "property created" } } }
    },
    "/api/properties/verify": {
      "post": { "summary": "Verify a property by title or survey plan number", "responses": { "200": { "description": "verification result" }, "400": { "description": "no identifier supplied" }, "404": { "description": "no matching record" } } }
    },
    "/api/properties/{id}/documents": {
      "post": { "summary": "Attach a document", "responses": { "201": { "description": "document attached" } } }
    },
    "/api/properties/{id}/documents/upload-url": {
      "post": { "summary": "Issue a presigned upload URL (owner)", "responses": { "200": { "description": "upload URL" } } }
    },
    "/api/properties/{id}/documents/download-url": {
      "get": { "summary": "Issue a presigned download URL (owner)", "responses": { "200": { "description": "download URL" } } }
    },
    "/api/properties/{id}/documents/verify": {
      "put": { "summary": "Record a document verification decision (admin)", "responses": { "200": { "description": "updated property" } } }
    },
    "/api/properties/{id}/verification": {
      "put": { "summary": "Override property verification status (admin)", "responses": { "200": { "description": "updated property" } } }
    },
    "/api/leads": {
      "get": { "summary": "List leads", "responses": { "200": { "description": "leads" } } },
      "post": { "summary": "Capture a lead", "responses": { "201": { "description": "lead created" } } }
    },
    "/api/deals": {
      "get": { "summary": "List deals", "responses": { "200": { "description": "deals" } } },
      "post": { "summary": "Open a deal", "responses": { "201": { "description": "deal created" } } }
    },
    "/api/tasks": {
      "get": { "summary": "List tasks", "responses": { "200": { "description": "tasks" } } },
      "post": { "summary": "Create a task", "responses": { "201": { "description": "task created" } } }
    },
    "/api/calendar": {
      "get": { "summary": "List calendar events", "responses": { "200": { "description": "events" } } },
      "post": { "summary": "Schedule an event", "responses": { "201": { "description": "event created" } } }
    },
    "/api/calendar/{id}/status": {
      "put": { "summary": "Update event status", "responses": { "200": { "description": "updated event" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
