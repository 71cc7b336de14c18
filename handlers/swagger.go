package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the matching API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>golfmatch-api — Swagger</title>
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

// Minimal OpenAPI document describing the main endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "golfmatch-api", "version": "v0.1.0" },
  "paths": {
    "/api/auth/line": {
      "post": { "summary": "Exchange a LIFF ID token for a custom token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"idToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "custom token returned" }, "401": { "description": "ID token invalid" } } }
    },
    "/api/auth/refresh": {
      "post": { "summary": "Refresh the custom token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "new custom token" }, "401": { "description": "invalid refresh" } } }
    },
    "/api/auth/logout": {
      "post": { "summary": "Logout and invalidate the refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/profile/{userId}": {
      "get": { "summary": "Get a user profile", "responses": { "200": { "description": "profile" }, "404": { "description": "not found" } } },
      "put": { "summary": "Save the caller's profile", "responses": { "200": { "description": "saved profile" }, "403": { "description": "not the profile owner" } } }
    },
    "/api/schedules": {
      "get": { "summary": "List golf schedules of a month", "parameters": [{"name":"month","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "schedules" } } },
      "post": { "summary": "Create a golf schedule", "responses": { "201": { "description": "created" } } }
    },
    "/api/schedules/{id}/join": {
      "post": { "summary": "Join a recruiting post", "responses": { "200": { "description": "remaining slots" }, "409": { "description": "full, duplicate or concurrent edit" } } }
    },
    "/api/mahjong": {
      "get": { "summary": "List mahjong schedules of a month", "responses": { "200": { "description": "schedules" } } },
      "post": { "summary": "Create a mahjong schedule", "responses": { "201": { "description": "created" } } }
    },
    "/api/notify/bulk": {
      "post": { "summary": "Broadcast a new-post announcement", "responses": { "200": { "description": "delivery result" }, "400": { "description": "no targeting mode" } } }
    },
    "/api/notify/line": {
      "post": { "summary": "Push a join notification to the post owner", "responses": { "200": { "description": "delivery result" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
