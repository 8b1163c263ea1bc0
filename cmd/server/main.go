package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/sowforge/sowforge/internal/config"
	"github.com/sowforge/sowforge/internal/gcp"
	"github.com/sowforge/sowforge/internal/handlers"
	"github.com/sowforge/sowforge/internal/server"
	"github.com/sowforge/sowforge/internal/settings"
	"github.com/sowforge/sowforge/internal/sow"
	"github.com/sowforge/sowforge/internal/store"
)

func main() {
	ctx := context.Background()
	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load bootstrap configuration.", "error", err)
		os.Exit(1)
	}

	opts, err := gcp.ClientOptions(ctx, cfg.ProjectID, cfg.CredentialsSecret)
	if err != nil {
		slog.Error("Failed to resolve GCP credentials.", "error", err)
		os.Exit(1)
	}

	fsClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		slog.Error("Failed to create Firestore client.", "error", err)
		os.Exit(1)
	}
	defer fsClient.Close()
	st := store.NewFirestore(fsClient)

	// Global settings gate startup: a deployment with missing keys must not
	// serve traffic.
	provider := settings.NewProvider(st)
	globalCfg, err := provider.Load(ctx)
	if err != nil {
		slog.Error("Failed to load global settings.", "error", err)
		os.Exit(1)
	}
	slog.Info("Global settings loaded and validated.")

	objects, err := gcp.NewObjectStore(ctx, opts...)
	if err != nil {
		slog.Error("Failed to create storage client.", "error", err)
		os.Exit(1)
	}
	defer objects.Close()

	publisher, err := gcp.NewPublisher(ctx, cfg.ProjectID, opts...)
	if err != nil {
		slog.Error("Failed to create Pub/Sub client.", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	vertex, err := gcp.NewVertexClient(ctx, globalCfg.GCPProjectID, globalCfg.VertexAILocation)
	if err != nil {
		slog.Error("Failed to create Vertex AI client.", "error", err)
		os.Exit(1)
	}
	defer vertex.Close()

	orchestrator := sow.NewOrchestrator(st, objects, sow.NewInvoker(vertex))
	trigger := sow.NewTrigger(st, provider, publisher)

	h := handlers.New(st, objects, provider, globalCfg, orchestrator, trigger)
	r := server.NewRouter(h)

	slog.Info("SOW-Forge server starting.", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("Server exited.", "error", err)
		os.Exit(1)
	}
}

// setupLogging emits JSON in production for Cloud Logging and text locally.
func setupLogging() {
	var handler slog.Handler
	if gcp.RunningOnCloudRun() {
		gin.SetMode(gin.ReleaseMode)
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}
