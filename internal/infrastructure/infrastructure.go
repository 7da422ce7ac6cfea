// Package infrastructure provides core service initialization for application startup.
// It assembles the long-lived collaborators (storage, OCR, generation, prompts,
// metrics) that the pipeline requires, each created exactly once.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/stagedoc/internal/config"
	"github.com/JaimeStill/stagedoc/internal/metrics"
	"github.com/JaimeStill/stagedoc/internal/prompts"
	"github.com/JaimeStill/stagedoc/internal/workflow"
	"github.com/JaimeStill/stagedoc/pkg/generation"
	"github.com/JaimeStill/stagedoc/pkg/lifecycle"
	"github.com/JaimeStill/stagedoc/pkg/ocr"
	"github.com/JaimeStill/stagedoc/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Storage    storage.System
	OCR        ocr.System
	Generation generation.System
	Prompts    *prompts.Library
	Metrics    *metrics.Recorder
	Workflow   workflow.Config
}

var (
	newOCR        = ocr.New
	newGeneration = generation.New
)

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// Systems already created are closed when a later one fails.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	store, err := storage.New(ctx, &cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	extractor, err := newOCR(ctx, &cfg.OCR, &cfg.Agent, logger)
	if err != nil {
		return nil, fmt.Errorf("ocr init failed: %w", err)
	}

	gen, err := newGeneration(&cfg.Agent, logger)
	if err != nil {
		return nil, closeOnError(extractor, logger, fmt.Errorf("generation init failed: %w", err))
	}

	lib, err := prompts.LoadLibrary(cfg.Workflow.PromptsFile)
	if err != nil {
		return nil, closeOnError(extractor, logger, fmt.Errorf("prompts init failed: %w", err))
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Storage:    store,
		OCR:        extractor,
		Generation: gen,
		Prompts:    lib,
		Metrics:    metrics.New(),
		Workflow:   cfg.Workflow,
	}, nil
}

// Close releases systems that hold clients. Use it when the
// Infrastructure is abandoned before Start; after Start the shutdown hooks
// do the same work.
func (i *Infrastructure) Close() error {
	return i.OCR.Close()
}

func closeOnError(extractor ocr.System, logger *slog.Logger, err error) error {
	if cerr := extractor.Close(); cerr != nil {
		logger.Error("ocr close failed", "error", cerr)
	}
	return err
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.OCR.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("ocr start failed: %w", err)
	}
	if err := i.Generation.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("generation start failed: %w", err)
	}
	return nil
}

// WorkflowRuntime binds the infrastructure collaborators into a pipeline runtime.
func (i *Infrastructure) WorkflowRuntime(logger *slog.Logger) *workflow.Runtime {
	return &workflow.Runtime{
		Fetcher:   i.Storage,
		Extractor: i.OCR,
		Generator: i.Generation,
		Prompts:   i.Prompts,
		Config:    i.Workflow,
		Logger:    logger.With("system", "workflow"),
	}
}
