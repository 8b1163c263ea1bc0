package settings

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	settings *Settings
	err      error
}

func (s *stubSource) Settings(ctx context.Context) (*Settings, error) {
	if s.err != nil {
		return nil, s.err
	}
	copied := *s.settings
	return &copied, nil
}

func validSettings() *Settings {
	return &Settings{
		GCPProjectID:          "test-project",
		VertexAILocation:      "us-central1",
		UploadsBucket:         "uploads",
		TemplatesBucket:       "templates",
		SowGenerationModel:    "gemini-1.5-pro",
		SowGenerationPromptID: "sow_generation_prompt",
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	p := NewProvider(&stubSource{settings: validSettings()})

	s, err := p.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DefaultTitlePrefix, s.SowTitlePrefix)
	assert.Equal(t, DefaultAIReviewTag, s.AIReviewTagFormat)
	assert.Equal(t, DefaultTemperature, s.SowGenerationTemperature)
	assert.Equal(t, int64(DefaultMaxOutputTokens), s.SowGenerationMaxTokens)
	assert.Equal(t, int64(DefaultSignedURLTTLMin), s.SignedURLExpirationMinutes)
}

func TestLoad_KeepsExplicitValues(t *testing.T) {
	in := validSettings()
	in.SowTitlePrefix = "Statement of Work:"
	in.SowGenerationTemperature = 0.9
	in.SowGenerationMaxTokens = 2048
	p := NewProvider(&stubSource{settings: in})

	s, err := p.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Statement of Work:", s.SowTitlePrefix)
	assert.Equal(t, 0.9, s.SowGenerationTemperature)
	assert.Equal(t, int64(2048), s.SowGenerationMaxTokens)
}

func TestLoad_MissingRequiredKeys(t *testing.T) {
	in := validSettings()
	in.UploadsBucket = ""
	in.SowGenerationModel = ""
	p := NewProvider(&stubSource{settings: in})

	_, err := p.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings/global_config")

	// Missing keys are reported sorted so the message is stable.
	assert.Contains(t, err.Error(), "gcs_uploads_bucket, sow_generation_model")
}

func TestLoad_SourceErrorPropagates(t *testing.T) {
	cause := fmt.Errorf("firestore unavailable")
	p := NewProvider(&stubSource{err: cause})

	_, err := p.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}
