// Package ocr extracts text from image bytes. The google provider calls
// Cloud Vision text detection; the agent provider asks a vision-capable
// model to transcribe the image.
package ocr

import (
	"context"
	"fmt"
	"log/slog"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/stagedoc/pkg/lifecycle"
)

// System extracts text from images. Implementations hold one long-lived
// client or agent created in New.
type System interface {
	// Start registers lifecycle hooks (client shutdown) with the coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Extract returns the text found in image. Empty text is a valid result.
	Extract(ctx context.Context, image []byte) (string, error)
	// Provider reports the configured provider name.
	Provider() string
	// Close releases the client. It is safe to call more than once and is
	// also run by the shutdown hook registered in Start.
	Close() error
}

// New creates the extraction system selected by cfg.Provider. agentCfg is
// only used by the agent provider and may be nil otherwise.
func New(ctx context.Context, cfg *Config, agentCfg *gaconfig.AgentConfig, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "ocr", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderGoogle:
		g, err := newGoogle(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderAgent:
		if agentCfg == nil {
			return nil, fmt.Errorf("agent provider requires an agent configuration")
		}
		v, err := newVisionAgent(agentCfg, cfg, logger)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown ocr provider %q", cfg.Provider)
	}
}
