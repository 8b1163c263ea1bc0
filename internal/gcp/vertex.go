package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// ContentGenerator is the slice of *genai.GenerativeModel the invoker needs.
// Tests substitute a fake; production code gets the real model from
// VertexClient.GenerativeModel.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// VertexClient wraps the Vertex AI genai client. Unlike a fixed set of
// pre-configured models, SOW generation picks its model name and tuning
// parameters from the live global settings, so models are built per call.
type VertexClient struct {
	baseClient *genai.Client
}

// NewVertexClient creates the shared genai client.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &VertexClient{baseClient: baseClient}, nil
}

// GenerativeModel returns a model configured with the given generation
// parameters.
func (c *VertexClient) GenerativeModel(name string, temperature float32, maxOutputTokens int32) ContentGenerator {
	model := c.baseClient.GenerativeModel(name)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: genai.Ptr(maxOutputTokens),
	}
	return model
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
