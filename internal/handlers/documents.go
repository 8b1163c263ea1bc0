package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sowforge/sowforge/internal/store"
)

// GetSourceDocument returns one source document with its analysis payload.
func (h *Handlers) GetSourceDocument(c *gin.Context) {
	doc, err := h.store.SourceDocument(c.Request.Context(), c.Param("projectId"), c.Param("docId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, message("Source document not found."))
			return
		}
		logError(c, err, "Error fetching source document")
		c.JSON(http.StatusInternalServerError, message("Could not fetch source document."))
		return
	}
	c.JSON(http.StatusOK, doc)
}

// RetriggerAnalysis marks the document RE_ANALYZING and replays the upload
// notification so the analysis pipeline picks it up again.
func (h *Handlers) RetriggerAnalysis(c *gin.Context) {
	err := h.trigger.Retrigger(c.Request.Context(), c.Param("projectId"), c.Param("docId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, message("Document not found."))
			return
		}
		logError(c, err, "Error triggering re-analysis")
		c.JSON(http.StatusInternalServerError, message("Could not trigger re-analysis."))
		return
	}
	c.JSON(http.StatusOK, message("Re-analysis triggered successfully."))
}
