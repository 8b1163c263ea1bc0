package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sowforge/sowforge/internal/store"
)

// GetSettings returns the raw global_config document for the admin UI.
func (h *Handlers) GetSettings(c *gin.Context) {
	cfg, err := h.store.Settings(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, message("Global config not found."))
			return
		}
		logError(c, err, "Error fetching settings")
		c.JSON(http.StatusInternalServerError, message("Could not fetch settings."))
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateSettings merges scalar values into global_config. Components that
// re-read settings per request pick the change up immediately; the startup
// snapshot keeps its old values until restart.
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, message("Invalid request body."))
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, message("No settings provided."))
		return
	}
	for key, value := range body {
		switch value.(type) {
		case string, float64, bool:
		default:
			c.JSON(http.StatusBadRequest, message("Invalid value for setting: "+key))
			return
		}
	}

	if err := h.store.MergeSettings(c.Request.Context(), body); err != nil {
		logError(c, err, "Error updating settings")
		c.JSON(http.StatusInternalServerError, message("Could not update settings."))
		return
	}
	c.JSON(http.StatusOK, message("Settings updated successfully."))
}
