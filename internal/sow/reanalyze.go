package sow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sowforge/sowforge/internal/models"
	"github.com/sowforge/sowforge/internal/settings"
)

const defaultPublishTimeout = 10 * time.Second

// Publisher sends one message to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, data []byte) error
}

// Trigger re-runs the external analysis pipeline for a single source
// document by replaying the GCS upload notification it originally consumed.
type Trigger struct {
	store          Store
	settings       *settings.Provider
	publisher      Publisher
	publishTimeout time.Duration
}

func NewTrigger(st Store, provider *settings.Provider, publisher Publisher) *Trigger {
	return &Trigger{
		store:          st,
		settings:       provider,
		publisher:      publisher,
		publishTimeout: defaultPublishTimeout,
	}
}

// Retrigger marks the document RE_ANALYZING and publishes the notification
// the analysis pipeline listens for.
//
// Settings are reloaded fresh on every call: buckets and topics are editable
// live through the admin UI, and acting on a stale snapshot here would
// replay the event into the wrong place.
//
// The status write is optimistic and is not rolled back if the publish
// fails; the document can be left marked RE_ANALYZING with no trigger in
// flight, and the operator retries.
func (t *Trigger) Retrigger(ctx context.Context, projectID, docID string) error {
	cfg, err := t.settings.Load(ctx)
	if err != nil {
		return &ConfigError{Reason: "failed to load global settings", Err: err}
	}
	if cfg.UploadsTopic == "" {
		return &ConfigError{Reason: "eventarc_gcs_uploads_topic is not configured"}
	}

	doc, err := t.store.SourceDocument(ctx, projectID, docID)
	if err != nil {
		return err
	}

	if err := t.store.UpdateSourceDocument(ctx, projectID, docID, map[string]any{
		"status": models.DocStatusReAnalyzing,
	}); err != nil {
		return fmt.Errorf("failed to mark document for re-analysis: %w", err)
	}

	event := models.ReanalysisEvent{
		Bucket: cfg.UploadsBucket,
		Name:   fmt.Sprintf("%s/%s/%s", projectID, docID, doc.OriginalFilename),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode re-analysis event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, t.publishTimeout)
	defer cancel()
	if err := t.publisher.Publish(publishCtx, cfg.UploadsTopic, payload); err != nil {
		return fmt.Errorf("failed to publish re-analysis event: %w", err)
	}

	slog.Info("Re-analysis triggered.", "projectId", projectID, "docId", docID, "object", event.Name)
	return nil
}
