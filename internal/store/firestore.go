package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sowforge/sowforge/internal/models"
	"github.com/sowforge/sowforge/internal/settings"
)

// Collection names.
const (
	projectsCollection  = "sow_projects"
	sourceDocsSubcol    = "source_documents"
	generatedSowSubcol  = "generated_sow"
	templatesCollection = "templates"
	promptsCollection   = "prompts"
)

// Firestore implements Store on top of a Firestore client.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

var _ Store = (*Firestore)(nil)

func (s *Firestore) projectRef(projectID string) *firestore.DocumentRef {
	return s.client.Collection(projectsCollection).Doc(projectID)
}

// --- Projects ---

func (s *Firestore) CreateProject(ctx context.Context, projectName string) (string, error) {
	ref := s.client.Collection(projectsCollection).NewDoc()
	_, err := ref.Set(ctx, models.Project{
		ProjectName: projectName,
		Status:      models.ProjectStatusDrafting,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create project: %w", err)
	}
	return ref.ID, nil
}

func (s *Firestore) Projects(ctx context.Context) ([]models.Project, error) {
	it := s.client.Collection(projectsCollection).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer it.Stop()

	var projects []models.Project
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		var p models.Project
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("failed to decode project %s: %w", doc.Ref.ID, err)
		}
		p.ID = doc.Ref.ID
		projects = append(projects, p)
	}
	return projects, nil
}

func (s *Firestore) Project(ctx context.Context, projectID string) (*models.Project, error) {
	doc, err := s.projectRef(projectID).Get(ctx)
	if err != nil {
		return nil, wrapGetErr("project", projectID, err)
	}
	var p models.Project
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", projectID, err)
	}
	p.ID = doc.Ref.ID
	return &p, nil
}

func (s *Firestore) UpdateProject(ctx context.Context, projectID string, fields map[string]any) error {
	updates := toUpdates(fields)
	updates = append(updates, firestore.Update{Path: "lastUpdatedAt", Value: firestore.ServerTimestamp})
	if _, err := s.projectRef(projectID).Update(ctx, updates); err != nil {
		return wrapGetErr("project", projectID, err)
	}
	return nil
}

// DeleteProject removes the project document only. Subcollection records and
// uploaded objects are left behind; Firestore does not cascade deletes and no
// transaction spans them. Known limitation.
func (s *Firestore) DeleteProject(ctx context.Context, projectID string) error {
	if _, err := s.projectRef(projectID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	return nil
}

// --- Source documents ---

func (s *Firestore) CreateSourceDocument(ctx context.Context, projectID string, doc *models.SourceDocument) (string, error) {
	ref := s.projectRef(projectID).Collection(sourceDocsSubcol).NewDoc()
	if _, err := ref.Set(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create source document: %w", err)
	}
	return ref.ID, nil
}

func (s *Firestore) SourceDocuments(ctx context.Context, projectID string) ([]models.SourceDocument, error) {
	it := s.projectRef(projectID).Collection(sourceDocsSubcol).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer it.Stop()

	var docs []models.SourceDocument
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list source documents of project %s: %w", projectID, err)
		}
		var d models.SourceDocument
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("failed to decode source document %s: %w", snap.Ref.ID, err)
		}
		d.ID = snap.Ref.ID
		docs = append(docs, d)
	}
	return docs, nil
}

func (s *Firestore) SourceDocument(ctx context.Context, projectID, docID string) (*models.SourceDocument, error) {
	snap, err := s.projectRef(projectID).Collection(sourceDocsSubcol).Doc(docID).Get(ctx)
	if err != nil {
		return nil, wrapGetErr("source document", docID, err)
	}
	var d models.SourceDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode source document %s: %w", docID, err)
	}
	d.ID = snap.Ref.ID
	return &d, nil
}

func (s *Firestore) UpdateSourceDocument(ctx context.Context, projectID, docID string, fields map[string]any) error {
	updates := toUpdates(fields)
	updates = append(updates, firestore.Update{Path: "lastUpdatedAt", Value: firestore.ServerTimestamp})
	ref := s.projectRef(projectID).Collection(sourceDocsSubcol).Doc(docID)
	if _, err := ref.Update(ctx, updates); err != nil {
		return wrapGetErr("source document", docID, err)
	}
	return nil
}

// --- Generated SOWs ---

func (s *Firestore) CreateGeneratedSow(ctx context.Context, projectID string, sow *models.GeneratedSow) (string, error) {
	ref := s.projectRef(projectID).Collection(generatedSowSubcol).NewDoc()
	if _, err := ref.Set(ctx, sow); err != nil {
		return "", fmt.Errorf("failed to create generated SOW: %w", err)
	}
	return ref.ID, nil
}

func (s *Firestore) GeneratedSows(ctx context.Context, projectID string) ([]models.GeneratedSow, error) {
	it := s.projectRef(projectID).Collection(generatedSowSubcol).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer it.Stop()

	var sows []models.GeneratedSow
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list generated SOWs of project %s: %w", projectID, err)
		}
		var g models.GeneratedSow
		if err := snap.DataTo(&g); err != nil {
			return nil, fmt.Errorf("failed to decode generated SOW %s: %w", snap.Ref.ID, err)
		}
		g.ID = snap.Ref.ID
		sows = append(sows, g)
	}
	return sows, nil
}

func (s *Firestore) GeneratedSow(ctx context.Context, projectID, sowID string) (*models.GeneratedSow, error) {
	snap, err := s.projectRef(projectID).Collection(generatedSowSubcol).Doc(sowID).Get(ctx)
	if err != nil {
		return nil, wrapGetErr("generated SOW", sowID, err)
	}
	var g models.GeneratedSow
	if err := snap.DataTo(&g); err != nil {
		return nil, fmt.Errorf("failed to decode generated SOW %s: %w", sowID, err)
	}
	g.ID = snap.Ref.ID
	return &g, nil
}

func (s *Firestore) UpdateGeneratedSow(ctx context.Context, projectID, sowID string, fields map[string]any) error {
	ref := s.projectRef(projectID).Collection(generatedSowSubcol).Doc(sowID)
	if _, err := ref.Update(ctx, toUpdates(fields)); err != nil {
		return wrapGetErr("generated SOW", sowID, err)
	}
	return nil
}

// --- Templates ---

func (s *Firestore) Templates(ctx context.Context) ([]models.Template, error) {
	it := s.client.Collection(templatesCollection).OrderBy("name", firestore.Asc).Documents(ctx)
	defer it.Stop()

	var templates []models.Template
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list templates: %w", err)
		}
		var t models.Template
		if err := snap.DataTo(&t); err != nil {
			return nil, fmt.Errorf("failed to decode template %s: %w", snap.Ref.ID, err)
		}
		t.ID = snap.Ref.ID
		templates = append(templates, t)
	}
	return templates, nil
}

func (s *Firestore) Template(ctx context.Context, templateID string) (*models.Template, error) {
	snap, err := s.client.Collection(templatesCollection).Doc(templateID).Get(ctx)
	if err != nil {
		return nil, wrapGetErr("template", templateID, err)
	}
	var t models.Template
	if err := snap.DataTo(&t); err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", templateID, err)
	}
	t.ID = snap.Ref.ID
	return &t, nil
}

func (s *Firestore) UpdateTemplate(ctx context.Context, templateID string, fields map[string]any) error {
	ref := s.client.Collection(templatesCollection).Doc(templateID)
	if _, err := ref.Update(ctx, toUpdates(fields)); err != nil {
		return wrapGetErr("template", templateID, err)
	}
	return nil
}

// --- Prompts ---

func (s *Firestore) Prompts(ctx context.Context) ([]models.Prompt, error) {
	it := s.client.Collection(promptsCollection).Documents(ctx)
	defer it.Stop()

	var prompts []models.Prompt
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list prompts: %w", err)
		}
		var p models.Prompt
		if err := snap.DataTo(&p); err != nil {
			return nil, fmt.Errorf("failed to decode prompt %s: %w", snap.Ref.ID, err)
		}
		p.ID = snap.Ref.ID
		prompts = append(prompts, p)
	}
	return prompts, nil
}

func (s *Firestore) Prompt(ctx context.Context, promptID string) (*models.Prompt, error) {
	snap, err := s.client.Collection(promptsCollection).Doc(promptID).Get(ctx)
	if err != nil {
		return nil, wrapGetErr("prompt", promptID, err)
	}
	var p models.Prompt
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode prompt %s: %w", promptID, err)
	}
	p.ID = snap.Ref.ID
	return &p, nil
}

func (s *Firestore) UpdatePrompt(ctx context.Context, promptID string, fields map[string]any) error {
	ref := s.client.Collection(promptsCollection).Doc(promptID)
	if _, err := ref.Update(ctx, toUpdates(fields)); err != nil {
		return wrapGetErr("prompt", promptID, err)
	}
	return nil
}

// --- Settings ---

func (s *Firestore) Settings(ctx context.Context) (*settings.Settings, error) {
	snap, err := s.client.Collection(settings.Collection).Doc(settings.DocumentID).Get(ctx)
	if err != nil {
		return nil, wrapGetErr("settings", settings.DocumentID, err)
	}
	var cfg settings.Settings
	if err := snap.DataTo(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode global settings: %w", err)
	}
	return &cfg, nil
}

func (s *Firestore) MergeSettings(ctx context.Context, fields map[string]any) error {
	ref := s.client.Collection(settings.Collection).Doc(settings.DocumentID)
	if _, err := ref.Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update global settings: %w", err)
	}
	return nil
}

// --- Helpers ---

func toUpdates(fields map[string]any) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	return updates
}

func wrapGetErr(kind, id string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("failed to access %s %s: %w", kind, id, err)
}
