package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/sowforge/sowforge/internal/models"
	"github.com/sowforge/sowforge/internal/store"
)

// GetSow returns one generated SOW plus the owning project's name for the
// editor header.
func (h *Handlers) GetSow(c *gin.Context) {
	projectID, sowID := c.Param("projectId"), c.Param("sowId")
	ctx := c.Request.Context()

	var project *models.Project
	var generated *models.GeneratedSow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		project, err = h.store.Project(gctx, projectID)
		return err
	})
	g.Go(func() (err error) {
		generated, err = h.store.GeneratedSow(gctx, projectID, sowID)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, message("Project or SOW not found."))
			return
		}
		logError(c, err, "Error fetching SOW")
		c.JSON(http.StatusInternalServerError, message("Could not fetch SOW details."))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": gin.H{"id": project.ID, "name": project.ProjectName},
		"sow":     generated,
	})
}

// UpdateSow accepts edits to the generated text only; everything else on the
// record is immutable.
func (h *Handlers) UpdateSow(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, message("Invalid request body."))
		return
	}

	fields, err := allowFields(body, "generatedSowText")
	if err != nil {
		c.JSON(http.StatusBadRequest, message(err.Error()))
		return
	}

	if err := h.store.UpdateGeneratedSow(c.Request.Context(), c.Param("projectId"), c.Param("sowId"), fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, message("SOW not found."))
			return
		}
		logError(c, err, "Error updating SOW")
		c.JSON(http.StatusInternalServerError, message("Could not update SOW."))
		return
	}
	c.JSON(http.StatusOK, message("SOW updated successfully."))
}
