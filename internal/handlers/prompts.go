package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sowforge/sowforge/internal/models"
	"github.com/sowforge/sowforge/internal/store"
)

func (h *Handlers) ListPrompts(c *gin.Context) {
	prompts, err := h.store.Prompts(c.Request.Context())
	if err != nil {
		logError(c, err, "Error fetching prompts")
		c.JSON(http.StatusInternalServerError, message("Could not fetch prompts."))
		return
	}
	if prompts == nil {
		prompts = []models.Prompt{}
	}
	c.JSON(http.StatusOK, prompts)
}

func (h *Handlers) GetPrompt(c *gin.Context) {
	prompt, err := h.store.Prompt(c.Request.Context(), c.Param("promptId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, message("Prompt not found."))
			return
		}
		logError(c, err, "Error fetching prompt")
		c.JSON(http.StatusInternalServerError, message("Could not fetch prompt."))
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (h *Handlers) UpdatePrompt(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, message("Invalid request body."))
		return
	}

	fields, err := allowFields(body, "name", "prompt_text")
	if err != nil {
		c.JSON(http.StatusBadRequest, message(err.Error()))
		return
	}

	if err := h.store.UpdatePrompt(c.Request.Context(), c.Param("promptId"), fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, message("Prompt not found."))
			return
		}
		logError(c, err, "Error updating prompt")
		c.JSON(http.StatusInternalServerError, message("Could not update prompt."))
		return
	}
	c.JSON(http.StatusOK, message("Prompt updated successfully."))
}
