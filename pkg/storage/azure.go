package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/stagedoc/pkg/lifecycle"
)

type azure struct {
	client  *azblob.Client
	maxSize int64
	logger  *slog.Logger
}

// newAzure authenticates with the connection string when present, otherwise
// with the default Azure credential chain against AccountURL.
func newAzure(cfg *Config, logger *slog.Logger) (*azure, error) {
	var (
		client *azblob.Client
		err    error
	)

	if cfg.ConnectionString != "" {
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	} else {
		cred, credErr := azidentity.NewDefaultAzureCredential(nil)
		if credErr != nil {
			return nil, fmt.Errorf("create azure credential: %w", credErr)
		}
		client, err = azblob.NewClient(cfg.AccountURL, cred, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:  client,
		maxSize: cfg.MaxObjectBytes(),
		logger:  logger,
	}, nil
}

func (a *azure) Provider() string {
	return ProviderAzure
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")
	startHook(lc, a.logger)
	return nil
}

func (a *azure) Fetch(ctx context.Context, container, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, container, key, nil)
	if err != nil {
		return nil, classifyAzureError(err, container, key)
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body, a.maxSize)
	if err != nil {
		return nil, fmt.Errorf("read blob %s/%s: %w", container, key, err)
	}

	a.logger.DebugContext(
		ctx, "blob fetched",
		"container", container,
		"key", key,
		"size", humanize.Bytes(uint64(len(data))),
	)

	return data, nil
}

func classifyAzureError(err error, container, key string) error {
	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound):
		return fmt.Errorf("%w: %s/%s", ErrNotFound, container, key)
	case bloberror.HasCode(err, bloberror.AuthorizationFailure, bloberror.AuthenticationFailed):
		return fmt.Errorf("%w: %s/%s", ErrAccessDenied, container, key)
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s/%s", ErrNotFound, container, key)
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("%w: %s/%s", ErrAccessDenied, container, key)
		}
	}

	return fmt.Errorf("download blob %s/%s: %w", container, key, err)
}
