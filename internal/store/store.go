// Package store is the typed gateway to the document database. The rest of
// the service only sees these operations, never raw Firestore handles, so
// tests can substitute fakes.
package store

import (
	"context"
	"errors"

	"github.com/sowforge/sowforge/internal/models"
	"github.com/sowforge/sowforge/internal/settings"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the full gateway surface.
type Store interface {
	CreateProject(ctx context.Context, projectName string) (string, error)
	Projects(ctx context.Context) ([]models.Project, error)
	Project(ctx context.Context, projectID string) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID string, fields map[string]any) error
	DeleteProject(ctx context.Context, projectID string) error

	CreateSourceDocument(ctx context.Context, projectID string, doc *models.SourceDocument) (string, error)
	SourceDocuments(ctx context.Context, projectID string) ([]models.SourceDocument, error)
	SourceDocument(ctx context.Context, projectID, docID string) (*models.SourceDocument, error)
	UpdateSourceDocument(ctx context.Context, projectID, docID string, fields map[string]any) error

	CreateGeneratedSow(ctx context.Context, projectID string, sow *models.GeneratedSow) (string, error)
	GeneratedSows(ctx context.Context, projectID string) ([]models.GeneratedSow, error)
	GeneratedSow(ctx context.Context, projectID, sowID string) (*models.GeneratedSow, error)
	UpdateGeneratedSow(ctx context.Context, projectID, sowID string, fields map[string]any) error

	Templates(ctx context.Context) ([]models.Template, error)
	Template(ctx context.Context, templateID string) (*models.Template, error)
	UpdateTemplate(ctx context.Context, templateID string, fields map[string]any) error

	Prompts(ctx context.Context) ([]models.Prompt, error)
	Prompt(ctx context.Context, promptID string) (*models.Prompt, error)
	UpdatePrompt(ctx context.Context, promptID string, fields map[string]any) error

	Settings(ctx context.Context) (*settings.Settings, error)
	MergeSettings(ctx context.Context, fields map[string]any) error
}
