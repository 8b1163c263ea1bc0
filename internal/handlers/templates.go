package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sowforge/sowforge/internal/models"
	"github.com/sowforge/sowforge/internal/store"
)

// ListTemplates returns template metadata only; bodies stay in GCS until a
// single template is opened.
func (h *Handlers) ListTemplates(c *gin.Context) {
	templates, err := h.store.Templates(c.Request.Context())
	if err != nil {
		logError(c, err, "Error fetching templates")
		c.JSON(http.StatusInternalServerError, message("Could not fetch templates."))
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}
	c.JSON(http.StatusOK, templates)
}

// GetTemplate returns the metadata together with the markdown body resolved
// through gcs_path.
func (h *Handlers) GetTemplate(c *gin.Context) {
	ctx := c.Request.Context()
	template, err := h.store.Template(ctx, c.Param("templateId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, message("Template metadata not found."))
			return
		}
		logError(c, err, "Error fetching template metadata")
		c.JSON(http.StatusInternalServerError, message("Could not fetch template content."))
		return
	}

	body, err := h.objects.Download(ctx, h.cfg.TemplatesBucket, template.GCSPath)
	if err != nil {
		logError(c, err, "Error fetching template body")
		c.JSON(http.StatusInternalServerError, message("Could not fetch template content."))
		return
	}

	c.JSON(http.StatusOK, models.TemplateDetail{Metadata: *template, MarkdownContent: string(body)})
}

// UpdateTemplate writes the markdown body to GCS (at the existing gcs_path)
// and the metadata to Firestore. The two writes are independent; the body is
// written first so metadata never points at content that failed to land.
func (h *Handlers) UpdateTemplate(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, message("Invalid request body."))
		return
	}

	markdown, hasMarkdown := body["markdownContent"]
	delete(body, "markdownContent")

	var fields map[string]any
	if len(body) > 0 {
		var err error
		fields, err = allowFields(body, "name", "description")
		if err != nil {
			c.JSON(http.StatusBadRequest, message(err.Error()))
			return
		}
	}
	if !hasMarkdown && fields == nil {
		c.JSON(http.StatusBadRequest, message("no updatable fields provided"))
		return
	}

	ctx := c.Request.Context()
	templateID := c.Param("templateId")

	if hasMarkdown {
		content, ok := markdown.(string)
		if !ok {
			c.JSON(http.StatusBadRequest, message("markdownContent must be a string."))
			return
		}
		template, err := h.store.Template(ctx, templateID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, message("Template not found."))
				return
			}
			logError(c, err, "Error fetching template for update")
			c.JSON(http.StatusInternalServerError, message("Could not update template."))
			return
		}
		if err := h.objects.Upload(ctx, h.cfg.TemplatesBucket, template.GCSPath, []byte(content), "text/markdown"); err != nil {
			logError(c, err, "Error writing template body")
			c.JSON(http.StatusInternalServerError, message("Could not update template."))
			return
		}
	}

	if fields != nil {
		if err := h.store.UpdateTemplate(ctx, templateID, fields); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, message("Template not found."))
				return
			}
			logError(c, err, "Error updating template metadata")
			c.JSON(http.StatusInternalServerError, message("Could not update template."))
			return
		}
	}

	c.JSON(http.StatusOK, message("Template updated successfully."))
}
