package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/doctrail/doctrail/artifact"
)

// Store implements artifact.Store for AWS S3 and S3-compatible services.
type Store struct {
	client *s3.Client
	bucket string
	logger *slog.Logger
}

// Config holds configuration for S3 storage.
type Config struct {
	// Region is the AWS region for the bucket.
	Region string
	// Endpoint is an optional custom endpoint (for MinIO, LocalStack, etc.).
	Endpoint string
	// UsePathStyle enables path-style addressing (required for MinIO).
	UsePathStyle bool
}

// DefaultConfig returns the default S3 configuration.
func DefaultConfig() Config {
	return Config{Region: "us-east-1"}
}

var _ artifact.Store = (*Store)(nil)

// NewStore creates a new S3 artifact store.
func NewStore(ctx context.Context, bucket string, cfg Config) (*Store, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &Store{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		bucket: bucket,
		logger: slog.Default().With("component", "s3-artifact-store"),
	}, nil
}

// NewStoreWithClient creates a store with a pre-configured client.
func NewStoreWithClient(client *s3.Client, bucket string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		logger: slog.Default().With("component", "s3-artifact-store"),
	}
}

// Put uploads the content under a fresh key.
func (s *Store) Put(ctx context.Context, identity, name string, content []byte) (string, error) {
	key := artifact.NewKey(identity, name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		s.logger.Error("put object failed", "bucket", s.bucket, "key", key, "err", err)
		return "", fmt.Errorf("%w: %v", artifact.ErrPutFailed, err)
	}
	return key, nil
}

// Get downloads the content stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", artifact.ErrObjectNotFound, key)
		}
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}
