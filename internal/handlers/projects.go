package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/sowforge/sowforge/internal/models"
	"github.com/sowforge/sowforge/internal/store"
)

// CreateProject creates the project record, one PENDING_UPLOAD source
// document per file, and a signed write URL for each so the browser uploads
// straight to the uploads bucket.
func (h *Handlers) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, message("Invalid request body."))
		return
	}
	if req.ProjectName == "" || len(req.Files) == 0 {
		c.JSON(http.StatusBadRequest, message("projectName and files are required."))
		return
	}

	ctx := c.Request.Context()
	projectID, err := h.store.CreateProject(ctx, req.ProjectName)
	if err != nil {
		logError(c, err, "Error creating new SOW project")
		c.JSON(http.StatusInternalServerError, message("Could not create SOW project."))
		return
	}

	ttl := time.Duration(h.cfg.SignedURLExpirationMinutes) * time.Minute
	uploadInfo := make([]models.UploadInfo, 0, len(req.Files))
	for _, file := range req.Files {
		if file.Filename == "" {
			c.JSON(http.StatusBadRequest, message("Every file needs a filename."))
			return
		}
		docID, err := h.store.CreateSourceDocument(ctx, projectID, &models.SourceDocument{
			OriginalFilename: file.Filename,
			DisplayName:      file.Filename,
			Category:         file.Category,
			Status:           models.DocStatusPendingUpload,
		})
		if err != nil {
			logError(c, err, "Error creating source document record")
			c.JSON(http.StatusInternalServerError, message("Could not create SOW project."))
			return
		}

		objectPath := fmt.Sprintf("%s/%s/%s", projectID, docID, file.Filename)
		url, err := h.objects.SignedWriteURL(h.cfg.UploadsBucket, objectPath, file.ContentType, ttl)
		if err != nil {
			logError(c, err, "Error signing upload URL")
			c.JSON(http.StatusInternalServerError, message("Could not create SOW project."))
			return
		}
		uploadInfo = append(uploadInfo, models.UploadInfo{DocID: docID, SignedURL: url, Filename: file.Filename})
	}

	c.JSON(http.StatusCreated, models.CreateProjectResponse{ProjectID: projectID, UploadInfo: uploadInfo})
}

// ListProjects returns all projects, newest first.
func (h *Handlers) ListProjects(c *gin.Context) {
	projects, err := h.store.Projects(c.Request.Context())
	if err != nil {
		logError(c, err, "Error fetching SOW projects")
		c.JSON(http.StatusInternalServerError, message("Could not fetch SOW projects."))
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	c.JSON(http.StatusOK, projects)
}

// GetProject returns the project together with both subcollections, fetched
// in parallel.
func (h *Handlers) GetProject(c *gin.Context) {
	projectID := c.Param("projectId")
	ctx := c.Request.Context()

	var detail models.ProjectDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		project, err := h.store.Project(gctx, projectID)
		if err != nil {
			return err
		}
		detail.Project = *project
		return nil
	})
	g.Go(func() error {
		docs, err := h.store.SourceDocuments(gctx, projectID)
		if err != nil {
			return err
		}
		detail.SourceDocuments = docs
		return nil
	})
	g.Go(func() error {
		sows, err := h.store.GeneratedSows(gctx, projectID)
		if err != nil {
			return err
		}
		detail.GeneratedSows = sows
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, message("Project not found."))
			return
		}
		logError(c, err, "Error fetching project details")
		c.JSON(http.StatusInternalServerError, message("Could not fetch project details."))
		return
	}

	if detail.SourceDocuments == nil {
		detail.SourceDocuments = []models.SourceDocument{}
	}
	if detail.GeneratedSows == nil {
		detail.GeneratedSows = []models.GeneratedSow{}
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateProject accepts projectName and status only.
func (h *Handlers) UpdateProject(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, message("Invalid request body."))
		return
	}

	fields, err := allowFields(body, "projectName", "status")
	if err != nil {
		c.JSON(http.StatusBadRequest, message(err.Error()))
		return
	}

	if err := h.store.UpdateProject(c.Request.Context(), c.Param("projectId"), fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, message("Project not found."))
			return
		}
		logError(c, err, "Error updating project")
		c.JSON(http.StatusInternalServerError, message("Could not update project."))
		return
	}
	c.JSON(http.StatusOK, message("Project updated successfully."))
}

// DeleteProject deletes the project record. Subcollections and uploaded
// objects are not cleaned up; see store.DeleteProject.
func (h *Handlers) DeleteProject(c *gin.Context) {
	if err := h.store.DeleteProject(c.Request.Context(), c.Param("projectId")); err != nil {
		logError(c, err, "Error deleting project")
		c.JSON(http.StatusInternalServerError, message("Could not delete project."))
		return
	}
	c.JSON(http.StatusOK, message("Project deleted successfully."))
}

// allowFields filters a JSON body to a fixed set of updatable fields and
// rejects anything unexpected.
func allowFields(body map[string]any, allowed ...string) (map[string]any, error) {
	fields := make(map[string]any, len(body))
	for key, value := range body {
		ok := false
		for _, name := range allowed {
			if key == name {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("unexpected field: %s", key)
		}
		fields[key] = value
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	return fields, nil
}
