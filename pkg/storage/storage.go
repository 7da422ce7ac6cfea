// Package storage fetches image bytes from object storage. S3 and Azure Blob
// Storage providers share one System contract addressed by container and key.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/stagedoc/pkg/lifecycle"
)

// System reads objects from a storage provider. Clients are created once in
// New and reused across requests.
type System interface {
	// Start registers a startup hook that reports provider readiness.
	Start(lc *lifecycle.Coordinator) error
	// Fetch returns the full contents of the object at container/key.
	// Returns ErrNotFound if the object or container does not exist and
	// ErrAccessDenied if the credentials are rejected.
	Fetch(ctx context.Context, container, key string) ([]byte, error)
	// Provider reports the configured provider name.
	Provider() string
}

// New creates the storage system selected by cfg.Provider.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderS3:
		s, err := newS3(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderAzure:
		a, err := newAzure(cfg, logger)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// validateKey rejects empty keys and keys with a ".." segment. Dots inside
// a segment are ordinary key characters.
func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if slices.Contains(strings.Split(key, "/"), "..") {
		return ErrInvalidKey
	}
	return nil
}

// readLimited reads body up to limit bytes, failing with ErrTooLarge when
// the object is bigger.
func readLimited(body io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit %s", ErrTooLarge, humanize.Bytes(uint64(limit)))
	}
	return data, nil
}

func startHook(lc *lifecycle.Coordinator, logger *slog.Logger) {
	lc.OnStartup(func() {
		logger.Info("storage provider ready")
	})
}
