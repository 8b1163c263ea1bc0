package sow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sowforge/sowforge/internal/models"
	"github.com/sowforge/sowforge/internal/settings"
)

// FallbackProjectName is used when a project record has no name.
const FallbackProjectName = "Untitled Project"

// noAnalyzedDocsMessage is the human-readable error persisted on the project
// when generation is attempted with nothing to aggregate.
const noAnalyzedDocsMessage = "No successfully analyzed documents found."

// Store is the slice of the document-store gateway the generation workflow
// needs.
type Store interface {
	Project(ctx context.Context, projectID string) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID string, fields map[string]any) error
	SourceDocuments(ctx context.Context, projectID string) ([]models.SourceDocument, error)
	SourceDocument(ctx context.Context, projectID, docID string) (*models.SourceDocument, error)
	UpdateSourceDocument(ctx context.Context, projectID, docID string, fields map[string]any) error
	Template(ctx context.Context, templateID string) (*models.Template, error)
	Prompt(ctx context.Context, promptID string) (*models.Prompt, error)
	CreateGeneratedSow(ctx context.Context, projectID string, sow *models.GeneratedSow) (string, error)
}

// ObjectDownloader reads objects from storage.
type ObjectDownloader interface {
	Download(ctx context.Context, bucket, path string) ([]byte, error)
}

// TextGenerator is the generation invoker's contract. Implemented by
// *Invoker; faked in tests.
type TextGenerator interface {
	Invoke(ctx context.Context, prompt, modelID string, params GenerationParams) (string, error)
}

// Orchestrator sequences the SOW generation workflow: aggregate analyses,
// compose the prompt, invoke the model, persist the result. Every failure
// after the precondition check is recorded durably on the project so its
// state is never ambiguous.
type Orchestrator struct {
	store   Store
	objects ObjectDownloader
	gen     TextGenerator
}

func NewOrchestrator(st Store, objects ObjectDownloader, gen TextGenerator) *Orchestrator {
	return &Orchestrator{store: st, objects: objects, gen: gen}
}

// GenerateSow runs the full workflow for one project+template pair and
// returns the id of the newly written GeneratedSow record.
//
// Error contract: ErrInvalidInput for missing ids, ErrNoAnalyzedDocuments
// when nothing qualifies for aggregation (status recorded on the project),
// ConfigError when the system itself is misconfigured (status NOT touched),
// and a wrapped upstream error for everything else (status recorded).
func (o *Orchestrator) GenerateSow(ctx context.Context, cfg *settings.Settings, projectID, templateID string) (string, error) {
	if projectID == "" || templateID == "" {
		return "", fmt.Errorf("%w: projectId and templateId are required", ErrInvalidInput)
	}

	logCtx := slog.With("projectId", projectID, "templateId", templateID)
	logCtx.Info("SOW generation started.")

	docs, err := o.store.SourceDocuments(ctx, projectID)
	if err != nil {
		return "", o.recordFailure(ctx, projectID, fmt.Errorf("failed to load source documents: %w", err))
	}

	// Precondition failures are deliberately written through to the project:
	// the caller gets a 400, but the project state still reflects the
	// attempt.
	if !hasAnalyzedDocuments(docs) {
		o.writeFailedStatus(ctx, projectID, noAnalyzedDocsMessage)
		return "", ErrNoAnalyzedDocuments
	}

	aggregated := Aggregate(docs)
	logCtx.Info("Aggregated analysis results.",
		"requirements", len(aggregated.Requirements), "summaries", len(aggregated.Summaries))

	// A missing or empty generation prompt means the deployment is broken,
	// not the request; surface it without touching project state.
	prompt, err := o.store.Prompt(ctx, cfg.SowGenerationPromptID)
	if err != nil {
		return "", &ConfigError{Reason: fmt.Sprintf("generation prompt %q could not be loaded", cfg.SowGenerationPromptID), Err: err}
	}
	if prompt.PromptText == "" {
		return "", &ConfigError{Reason: fmt.Sprintf("generation prompt %q has empty prompt_text", cfg.SowGenerationPromptID)}
	}

	project, err := o.store.Project(ctx, projectID)
	if err != nil {
		return "", o.recordFailure(ctx, projectID, fmt.Errorf("failed to load project: %w", err))
	}
	projectName := project.ProjectName
	if projectName == "" {
		projectName = FallbackProjectName
	}

	template, err := o.store.Template(ctx, templateID)
	if err != nil {
		return "", o.recordFailure(ctx, projectID, fmt.Errorf("failed to load template: %w", err))
	}
	templateBody, err := o.objects.Download(ctx, cfg.TemplatesBucket, template.GCSPath)
	if err != nil {
		return "", o.recordFailure(ctx, projectID, fmt.Errorf("failed to download template body: %w", err))
	}

	title := cfg.SowTitlePrefix + " " + projectName
	finalPrompt, err := ComposePrompt(prompt.PromptText, string(templateBody), aggregated, title, cfg.AIReviewTagFormat)
	if err != nil {
		if IsConfigError(err) {
			return "", err
		}
		return "", o.recordFailure(ctx, projectID, err)
	}

	logCtx.Info("Sending merge prompt to the generative model.", "model", cfg.SowGenerationModel)
	sowText, err := o.gen.Invoke(ctx, finalPrompt, cfg.SowGenerationModel, GenerationParams{
		Temperature:     float32(cfg.SowGenerationTemperature),
		MaxOutputTokens: int32(cfg.SowGenerationMaxTokens),
	})
	if err != nil {
		return "", o.recordFailure(ctx, projectID, err)
	}

	sowID, err := o.store.CreateGeneratedSow(ctx, projectID, &models.GeneratedSow{
		TemplateID:       templateID,
		TemplateName:     template.Name,
		GeneratedSowText: sowText,
	})
	if err != nil {
		return "", o.recordFailure(ctx, projectID, fmt.Errorf("failed to persist generated SOW: %w", err))
	}

	// Status flips to SOW_GENERATED only now that the record is durable.
	if err := o.store.UpdateProject(ctx, projectID, map[string]any{"status": models.ProjectStatusSowGenerated}); err != nil {
		return "", o.recordFailure(ctx, projectID, fmt.Errorf("failed to update project status: %w", err))
	}

	logCtx.Info("SOW generation complete.", "sowId", sowID)
	return sowID, nil
}

// recordFailure writes the terminal failed state with the cause's message,
// best effort. A failed status write is logged but never masks the original
// error.
func (o *Orchestrator) recordFailure(ctx context.Context, projectID string, cause error) error {
	slog.Error("SOW generation failed.", "projectId", projectID, "error", cause)
	o.writeFailedStatus(ctx, projectID, cause.Error())
	return cause
}

func (o *Orchestrator) writeFailedStatus(ctx context.Context, projectID, message string) {
	err := o.store.UpdateProject(ctx, projectID, map[string]any{
		"status":       models.ProjectStatusSowGenFailed,
		"errorMessage": message,
	})
	if err != nil {
		slog.Error("Failed to record SOW generation failure on project.", "projectId", projectID, "error", err)
	}
}
