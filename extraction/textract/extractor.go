package textract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/extraction"
)

// Extractor implements extraction.TextExtractor using AWS Textract.
type Extractor struct {
	client *textract.Client
	logger *slog.Logger
}

// Config holds configuration for the Textract client.
type Config struct {
	// Region is the AWS region. Empty uses the default chain.
	Region string
	// Endpoint is an optional custom endpoint (for LocalStack etc).
	Endpoint string
}

var _ extraction.TextExtractor = (*Extractor)(nil)

// NewExtractor creates a Textract-backed extractor.
//
// Returns extraction.TextExtractor to enforce abstraction and keep
// callers decoupled from the AWS implementation.
func NewExtractor(ctx context.Context, cfg Config) (extraction.TextExtractor, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*textract.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *textract.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &Extractor{
		client: textract.NewFromConfig(awsCfg, clientOpts...),
		logger: slog.Default().With("component", "textract-extractor"),
	}, nil
}

// NewExtractorWithClient creates an extractor with a pre-configured client.
func NewExtractorWithClient(client *textract.Client) *Extractor {
	return &Extractor{
		client: client,
		logger: slog.Default().With("component", "textract-extractor"),
	}
}

// Extract runs synchronous text detection over the document bytes and
// adapts the detected blocks into the canonical record. LINE blocks
// become text blocks; KEY_VALUE_SET blocks are not requested by the
// detect-text API, so key/values stay empty here and are derived by the
// field parsers downstream.
func (e *Extractor) Extract(ctx context.Context, content []byte, mediaType string) (*extraction.Extraction, error) {
	if err := extraction.CheckMediaType(mediaType); err != nil {
		return nil, err
	}

	out, err := e.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: content},
	})
	if err != nil {
		e.logger.Error("textract detection failed", "err", err)
		return nil, fmt.Errorf("%w: %v", core.ErrCapabilityUnavailable, err)
	}

	result := &extraction.Extraction{}
	var confidenceSum float32
	var lines int
	for _, block := range out.Blocks {
		if block.BlockType != types.BlockTypeLine {
			continue
		}
		result.TextBlocks = append(result.TextBlocks, aws.ToString(block.Text))
		if block.Confidence != nil {
			confidenceSum += *block.Confidence
			lines++
		}
	}
	if lines > 0 {
		// Textract reports percentages
		result.Confidence = confidenceSum / float32(lines) / 100
	}

	e.logger.Debug("extracted document text",
		"lines", len(result.TextBlocks),
		"confidence", result.Confidence)
	return result, nil
}
