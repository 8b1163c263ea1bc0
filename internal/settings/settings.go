// Package settings loads the global configuration singleton from Firestore.
// The document is editable live through the admin UI, so callers that must
// not act on stale values (the re-analysis trigger) reload it per request
// instead of using the snapshot taken at startup.
package settings

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Firestore location of the singleton record.
const (
	Collection = "settings"
	DocumentID = "global_config"
)

// Defaults applied when the corresponding key is absent.
const (
	DefaultTitlePrefix     = "SOW Draft for"
	DefaultAIReviewTag     = "[DRAFT-AI: {content}]"
	DefaultTemperature     = 0.4
	DefaultMaxOutputTokens = 8192
	DefaultSignedURLTTLMin = 15
)

// Settings is the settings/global_config document.
type Settings struct {
	GCPProjectID     string `firestore:"gcp_project_id" json:"gcp_project_id"`
	VertexAILocation string `firestore:"vertex_ai_location" json:"vertex_ai_location"`

	UploadsBucket       string `firestore:"gcs_uploads_bucket" json:"gcs_uploads_bucket"`
	TemplatesBucket     string `firestore:"gcs_templates_bucket" json:"gcs_templates_bucket"`
	ProcessedTextBucket string `firestore:"gcs_processed_text_bucket" json:"gcs_processed_text_bucket"`

	UploadsTopic string `firestore:"eventarc_gcs_uploads_topic" json:"eventarc_gcs_uploads_topic"`

	SowGenerationModel       string  `firestore:"sow_generation_model" json:"sow_generation_model"`
	SowGenerationTemperature float64 `firestore:"sow_generation_model_temperature" json:"sow_generation_model_temperature"`
	SowGenerationMaxTokens   int64   `firestore:"sow_generation_max_tokens" json:"sow_generation_max_tokens"`
	SowGenerationPromptID    string  `firestore:"sow_generation_prompt_id" json:"sow_generation_prompt_id"`
	SowTitlePrefix           string  `firestore:"sow_title_prefix" json:"sow_title_prefix"`
	AIReviewTagFormat        string  `firestore:"ai_review_tag_format" json:"ai_review_tag_format"`

	SignedURLExpirationMinutes int64 `firestore:"gcs_signed_url_expiration_minutes" json:"gcs_signed_url_expiration_minutes"`

	CreateGoogleDocFuncURL string `firestore:"create_google_doc_func_url" json:"create_google_doc_func_url"`
}

// Source fetches the raw settings document. Implemented by the Firestore
// store; faked in tests.
type Source interface {
	Settings(ctx context.Context) (*Settings, error)
}

// Provider loads and validates Settings on demand. It holds no cache itself;
// the server decides how long a snapshot lives.
type Provider struct {
	source Source
}

func NewProvider(source Source) *Provider {
	return &Provider{source: source}
}

// Load fetches a fresh Settings snapshot, applies defaults, and validates the
// required keys. A missing required key is a configuration error: the process
// must refuse to serve rather than limp along.
func (p *Provider) Load(ctx context.Context) (*Settings, error) {
	s, err := p.source.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load global settings: %w", err)
	}
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.SowTitlePrefix == "" {
		s.SowTitlePrefix = DefaultTitlePrefix
	}
	if s.AIReviewTagFormat == "" {
		s.AIReviewTagFormat = DefaultAIReviewTag
	}
	if s.SowGenerationTemperature == 0 {
		s.SowGenerationTemperature = DefaultTemperature
	}
	if s.SowGenerationMaxTokens == 0 {
		s.SowGenerationMaxTokens = DefaultMaxOutputTokens
	}
	if s.SignedURLExpirationMinutes == 0 {
		s.SignedURLExpirationMinutes = DefaultSignedURLTTLMin
	}
}

func (s *Settings) validate() error {
	required := map[string]string{
		"gcp_project_id":           s.GCPProjectID,
		"vertex_ai_location":       s.VertexAILocation,
		"gcs_uploads_bucket":       s.UploadsBucket,
		"gcs_templates_bucket":     s.TemplatesBucket,
		"sow_generation_model":     s.SowGenerationModel,
		"sow_generation_prompt_id": s.SowGenerationPromptID,
	}

	var missing []string
	for key, value := range required {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("required settings missing from %s/%s: %s", Collection, DocumentID, strings.Join(missing, ", "))
	}
	return nil
}
