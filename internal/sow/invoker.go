package sow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sowforge/sowforge/internal/gcp"
)

// Generation defaults. The model call is the single longest-latency step of
// the whole workflow, so it carries its own client-side timeout.
const (
	defaultInvokeTimeout = 90 * time.Second
	defaultMaxAttempts   = 3
)

// GenerationParams are the tuning parameters for one generation call.
type GenerationParams struct {
	Temperature     float32
	MaxOutputTokens int32
}

// ModelProvider builds a configured generative model per call. Implemented by
// gcp.VertexClient; faked in tests.
type ModelProvider interface {
	GenerativeModel(name string, temperature float32, maxOutputTokens int32) gcp.ContentGenerator
}

// Invoker wraps the generative endpoint with a timeout, bounded retry for
// transient provider errors, and post-processing of the raw model output.
type Invoker struct {
	models      ModelProvider
	timeout     time.Duration
	maxAttempts int
}

func NewInvoker(models ModelProvider) *Invoker {
	return &Invoker{
		models:      models,
		timeout:     defaultInvokeTimeout,
		maxAttempts: defaultMaxAttempts,
	}
}

// Invoke sends the composed prompt as a single user-role message and returns
// the cleaned SOW text. Transient provider errors are retried with backoff;
// permanent ones (bad model id, malformed prompt, safety block) are not. A
// response with no usable text part is a hard failure.
func (inv *Invoker) Invoke(ctx context.Context, prompt, modelID string, params GenerationParams) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	model := inv.models.GenerativeModel(modelID, params.Temperature, params.MaxOutputTokens)

	backoff := gax.Backoff{Initial: time.Second, Max: 10 * time.Second, Multiplier: 2}
	var resp *genai.GenerateContentResponse
	var err error
	for attempt := 1; ; attempt++ {
		resp, err = model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			break
		}
		if attempt >= inv.maxAttempts || !isTransient(err) {
			return "", fmt.Errorf("failed to generate content from model %s: %w", modelID, err)
		}
		slog.Warn("Transient error from generative model, retrying.", "model", modelID, "attempt", attempt, "error", err)
		if sleepErr := gax.Sleep(ctx, backoff.Pause()); sleepErr != nil {
			return "", fmt.Errorf("failed to generate content from model %s: %w", modelID, err)
		}
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("model %s returned a response with no text content", modelID)
	}
	return CleanGeneratedText(text), nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			builder.WriteString(string(txt))
		}
	}
	return builder.String()
}

// CleanGeneratedText strips whitespace and markdown code-fence markers from
// the model output. The model is prompted to return raw markdown but
// sometimes wraps it in a fenced block; fences are removed everywhere, not
// just at the boundaries, so the operation is idempotent.
func CleanGeneratedText(text string) string {
	text = strings.ReplaceAll(text, "```markdown", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// isTransient reports whether a provider error is worth retrying. Anything
// else (InvalidArgument, NotFound, PermissionDenied) is permanent and must
// surface immediately.
func isTransient(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Internal:
		return true
	}
	return false
}
