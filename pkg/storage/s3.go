package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/stagedoc/pkg/lifecycle"
)

type s3Store struct {
	client  *s3.Client
	maxSize int64
	logger  *slog.Logger
}

// newS3 loads the AWS configuration once. Static keys from Config take
// precedence over the default credential chain.
func newS3(ctx context.Context, cfg *Config, logger *slog.Logger) (*s3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Store{
		client:  client,
		maxSize: cfg.MaxObjectBytes(),
		logger:  logger,
	}, nil
}

func (s *s3Store) Provider() string {
	return ProviderS3
}

func (s *s3Store) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting storage system")
	startHook(lc, s.logger)
	return nil
}

func (s *s3Store) Fetch(ctx context.Context, container, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Error(err, container, key)
	}
	defer out.Body.Close()

	data, err := readLimited(out.Body, s.maxSize)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", container, key, err)
	}

	s.logger.DebugContext(
		ctx, "object fetched",
		"bucket", container,
		"key", key,
		"size", humanize.Bytes(uint64(len(data))),
	)

	return data, nil
}

func mapS3Error(err error, bucket, key string) error {
	var (
		noKey    *types.NoSuchKey
		noBucket *types.NoSuchBucket
		apiErr   smithy.APIError
	)

	switch {
	case errors.As(err, &noKey), errors.As(err, &noBucket):
		return fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	case errors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case "NotFound":
			return fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %s/%s: %s", ErrAccessDenied, bucket, key, apiErr.ErrorMessage())
		}
	}

	return fmt.Errorf("get object %s/%s: %w", bucket, key, err)
}
