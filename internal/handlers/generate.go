package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sowforge/sowforge/internal/models"
	"github.com/sowforge/sowforge/internal/sow"
)

// GenerateSow runs the SOW generation workflow in-process and maps the
// orchestrator's error contract onto HTTP semantics. Internal error detail is
// logged, never returned.
func (h *Handlers) GenerateSow(c *gin.Context) {
	var req models.GenerateSowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, message("Missing 'projectId' or 'templateId' in request body."))
		return
	}

	sowID, err := h.generator.GenerateSow(c.Request.Context(), h.cfg, req.ProjectID, req.TemplateID)
	if err != nil {
		switch {
		case errors.Is(err, sow.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, message("Missing 'projectId' or 'templateId' in request body."))
		case errors.Is(err, sow.ErrNoAnalyzedDocuments):
			c.JSON(http.StatusBadRequest, message("No successfully analyzed documents found in this project."))
		default:
			logError(c, err, "Error during SOW generation")
			c.JSON(http.StatusInternalServerError, message("Could not generate SOW."))
		}
		return
	}

	c.JSON(http.StatusOK, models.GenerateSowResponse{Message: "SOW generated successfully.", SowID: sowID})
}

// CreateGoogleDoc proxies the export request to the external doc-creation
// function. The integration itself lives outside this service.
func (h *Handlers) CreateGoogleDoc(c *gin.Context) {
	var req struct {
		ProjectID string `json:"projectId"`
		SowID     string `json:"sowId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == "" {
		c.JSON(http.StatusBadRequest, message("Missing 'projectId' in request body."))
		return
	}

	funcURL := h.cfg.CreateGoogleDocFuncURL
	if funcURL == "" {
		logError(c, errors.New("create_google_doc_func_url is not configured"), "Error proxying to doc-creation function")
		c.JSON(http.StatusInternalServerError, message("Could not proxy to Google Doc creation function."))
		return
	}

	body, err := json.Marshal(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, message("Invalid request body."))
		return
	}

	// The function only accepts authenticated calls, so the request goes out
	// with an ID token minted for its URL.
	client, err := h.proxyClient(c.Request.Context(), funcURL)
	if err != nil {
		logError(c, err, "Error creating ID-token client")
		c.JSON(http.StatusInternalServerError, message("Could not proxy to Google Doc creation function."))
		return
	}

	proxyReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, funcURL, bytes.NewReader(body))
	if err != nil {
		logError(c, err, "Error building doc-creation request")
		c.JSON(http.StatusInternalServerError, message("Could not proxy to Google Doc creation function."))
		return
	}
	proxyReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(proxyReq)
	if err != nil {
		logError(c, err, "Error proxying to doc-creation function")
		c.JSON(http.StatusInternalServerError, message("Could not proxy to Google Doc creation function."))
		return
	}
	defer resp.Body.Close()

	c.DataFromReader(resp.StatusCode, resp.ContentLength, resp.Header.Get("Content-Type"), resp.Body, nil)
}
