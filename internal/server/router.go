package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sowforge/sowforge/internal/handlers"
)

// NewRouter wires the full REST surface.
func NewRouter(h *handlers.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	api := r.Group("/api")

	api.POST("/projects", h.CreateProject)
	api.GET("/projects", h.ListProjects)
	api.GET("/projects/:projectId", h.GetProject)
	api.PUT("/projects/:projectId", h.UpdateProject)
	api.DELETE("/projects/:projectId", h.DeleteProject)

	api.GET("/projects/:projectId/documents/:docId", h.GetSourceDocument)
	api.POST("/projects/:projectId/source_documents/:docId/regenerate", h.RetriggerAnalysis)

	api.GET("/projects/:projectId/sows/:sowId", h.GetSow)
	api.PUT("/projects/:projectId/sows/:sowId", h.UpdateSow)

	api.GET("/templates", h.ListTemplates)
	api.GET("/templates/:templateId", h.GetTemplate)
	api.PUT("/templates/:templateId", h.UpdateTemplate)

	api.GET("/prompts", h.ListPrompts)
	api.GET("/prompts/:promptId", h.GetPrompt)
	api.PUT("/prompts/:promptId", h.UpdatePrompt)

	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.UpdateSettings)

	api.POST("/generate-sow", h.GenerateSow)
	api.POST("/create-google-doc", h.CreateGoogleDoc)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}

// requestLogger tags every request with an id and logs its outcome.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("requestId", requestID)

		c.Next()

		slog.Info("Request handled.",
			"requestId", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"durationMs", time.Since(start).Milliseconds(),
		)
	}
}
