package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/JaimeStill/stagedoc/pkg/lifecycle"
)

type google struct {
	client    *vision.ImageAnnotatorClient
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

func newGoogle(ctx context.Context, cfg *Config, logger *slog.Logger) (*google, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}

	return &google{
		client: client,
		logger: logger,
	}, nil
}

func (g *google) Provider() string {
	return ProviderGoogle
}

func (g *google) Start(lc *lifecycle.Coordinator) error {
	g.logger.Info("starting ocr system")

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := g.Close(); err != nil {
			g.logger.Error("vision client close failed", "error", err)
			return
		}
		g.logger.Info("vision client closed")
	})

	return nil
}

func (g *google) Close() error {
	g.closeOnce.Do(func() {
		g.closeErr = g.client.Close()
	})
	return g.closeErr
}

func (g *google) Extract(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}

	resp, err := g.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_TEXT_DETECTION},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: annotate image: %w", ErrExtraction, err)
	}

	return textFromResponse(resp)
}

func textFromResponse(resp *visionpb.BatchAnnotateImagesResponse) (string, error) {
	responses := resp.GetResponses()
	if len(responses) == 0 {
		return "", &ServiceError{Provider: ProviderGoogle, Message: "empty annotation response"}
	}

	r := responses[0]
	if msg := r.GetError().GetMessage(); msg != "" {
		return "", &ServiceError{Provider: ProviderGoogle, Message: msg}
	}

	return r.GetFullTextAnnotation().GetText(), nil
}
