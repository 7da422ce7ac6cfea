package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/stagedoc/internal/metrics"
	"github.com/JaimeStill/stagedoc/internal/prompts"
	"github.com/JaimeStill/stagedoc/internal/workflow"
	"github.com/JaimeStill/stagedoc/pkg/locator"
	"github.com/JaimeStill/stagedoc/pkg/middleware"
)

// System defines the public contract for analysis operations.
type System interface {
	Handler() *Handler

	AnalyzeImage(ctx context.Context, req ImageRequest) (*workflow.ImageAnalysis, error)
	AnalyzeBatch(ctx context.Context, locators []string) (*BatchResult, error)
	Stages() []prompts.StageDescriptor
}

type analysisSystem struct {
	rt      *workflow.Runtime
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// New creates the analysis system. recorder may be nil.
func New(rt *workflow.Runtime, recorder *metrics.Recorder, logger *slog.Logger) System {
	return &analysisSystem{
		rt:      rt,
		metrics: recorder,
		logger:  logger.With("system", "analysis"),
	}
}

func (s *analysisSystem) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *analysisSystem) Stages() []prompts.StageDescriptor {
	return prompts.Stages()
}

func (s *analysisSystem) AnalyzeImage(ctx context.Context, req ImageRequest) (*workflow.ImageAnalysis, error) {
	ref, err := resolve(req)
	if err != nil {
		return nil, err
	}

	return workflow.AnalyzeImage(ctx, s.rt, ref)
}

func (s *analysisSystem) AnalyzeBatch(ctx context.Context, locators []string) (*BatchResult, error) {
	id, err := uuid.Parse(middleware.RequestIDFrom(ctx))
	if err != nil {
		id = uuid.New()
	}
	logger := s.logger.With("request_id", id)
	start := time.Now()

	rt := *s.rt
	rt.Logger = logger

	result, err := workflow.Execute(ctx, &rt, locators)
	elapsed := time.Since(start)

	if err != nil {
		s.observeFailure(err, len(locators), elapsed)
		return nil, err
	}

	for _, st := range result.Stages {
		s.metrics.ObserveStage(st.Success)
	}
	s.metrics.ObserveBatch(metrics.OutcomeOK, elapsed)

	logger.InfoContext(
		ctx, "batch complete",
		"succeeded", result.Succeeded(),
		"stages", len(result.Stages),
		"duration", elapsed,
	)

	return newBatchResult(id, result), nil
}

func (s *analysisSystem) observeFailure(err error, n int, elapsed time.Duration) {
	switch {
	case errors.Is(err, workflow.ErrValidation):
		s.metrics.ObserveBatch(metrics.OutcomeValidation, elapsed)
	case errors.Is(err, workflow.ErrBatchFailure):
		for range n {
			s.metrics.ObserveStage(false)
		}
		s.metrics.ObserveBatch(metrics.OutcomeBatchFailure, elapsed)
	case errors.Is(err, workflow.ErrAggregation):
		s.metrics.ObserveBatch(metrics.OutcomeAggregationFailure, elapsed)
	default:
		s.metrics.ObserveBatch(metrics.OutcomeError, elapsed)
	}
}

func resolve(req ImageRequest) (locator.Reference, error) {
	switch {
	case req.Locator != "":
		return locator.Parse(req.Locator)
	case req.Container != "":
		return locator.FromParts(req.Container, req.Key)
	default:
		return locator.Reference{}, fmt.Errorf("%w: locator or container and key required", ErrInvalidRequest)
	}
}
