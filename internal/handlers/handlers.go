// Package handlers implements the REST façade. Handlers are thin: decode,
// delegate, map errors to status codes, encode. Error detail is logged
// server-side and never echoed to clients.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"

	"github.com/sowforge/sowforge/internal/settings"
	"github.com/sowforge/sowforge/internal/store"
)

// ObjectStore is the storage surface the handlers need.
type ObjectStore interface {
	Download(ctx context.Context, bucket, path string) ([]byte, error)
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error
	SignedWriteURL(bucket, path, contentType string, ttl time.Duration) (string, error)
}

// SowGenerator runs the generation workflow. Implemented by
// *sow.Orchestrator.
type SowGenerator interface {
	GenerateSow(ctx context.Context, cfg *settings.Settings, projectID, templateID string) (string, error)
}

// Retriggerer re-runs analysis for one document. Implemented by
// *sow.Trigger.
type Retriggerer interface {
	Retrigger(ctx context.Context, projectID, docID string) error
}

// Handlers holds the dependencies shared by all route handlers.
type Handlers struct {
	store     store.Store
	objects   ObjectStore
	settings  *settings.Provider
	cfg       *settings.Settings
	generator SowGenerator
	trigger   Retriggerer

	// proxyClient builds an authenticated client for the external doc-export
	// function. Swapped out in tests.
	proxyClient func(ctx context.Context, audience string) (*http.Client, error)
}

// New builds the handler set. cfg is the validated settings snapshot taken at
// startup; components that must not act on stale settings reload through the
// provider instead.
func New(st store.Store, objects ObjectStore, provider *settings.Provider, cfg *settings.Settings, generator SowGenerator, trigger Retriggerer) *Handlers {
	return &Handlers{
		store:       st,
		objects:     objects,
		settings:    provider,
		cfg:         cfg,
		generator:   generator,
		trigger:     trigger,
		proxyClient: newIDTokenClient,
	}
}

func newIDTokenClient(ctx context.Context, audience string) (*http.Client, error) {
	client, err := idtoken.NewClient(ctx, audience)
	if err != nil {
		return nil, err
	}
	client.Timeout = 60 * time.Second
	return client, nil
}

// message is the uniform error/success envelope.
func message(text string) gin.H {
	return gin.H{"message": text}
}

// logError records the failure with request context attached.
func logError(c *gin.Context, err error, msg string) {
	slog.Error(msg, "error", err, "method", c.Request.Method, "path", c.Request.URL.Path)
}
