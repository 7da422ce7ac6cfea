package workflow

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/stagedoc/internal/prompts"
)

// Fetcher retrieves object bytes from a storage container.
type Fetcher interface {
	Fetch(ctx context.Context, container, key string) ([]byte, error)
}

// Extractor extracts text from image bytes.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (string, error)
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure systems.
type Runtime struct {
	Fetcher   Fetcher
	Extractor Extractor
	Generator Generator
	Prompts   *prompts.Library
	Config    Config
	Logger    *slog.Logger
}
