package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/doctrail/doctrail/artifact"
	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/extraction"
	"github.com/doctrail/doctrail/insight"
	"github.com/doctrail/doctrail/storage"
	"github.com/doctrail/doctrail/tabular"
)

// defaultCallTimeout bounds each external capability call (extraction,
// summarization, sentiment).
const defaultCallTimeout = 60 * time.Second

// detailLimit bounds the detail stored on an event.
const detailLimit = 256

// Pipeline orchestrates the ingestion flows. It is safe for concurrent
// use; every submission is independent.
type Pipeline struct {
	files       storage.FileRepository
	documents   storage.DocumentRepository
	events      storage.EventRepository
	store       artifact.Store
	generator   insight.Generator
	extractor   extraction.TextExtractor
	validator   *tabular.Validator
	callTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithCallTimeout bounds each external capability call.
// Default is 60 seconds.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d > 0 {
			p.callTimeout = d
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithValidator replaces the default validator, e.g. to designate
// required columns.
func WithValidator(v *tabular.Validator) Option {
	return func(p *Pipeline) error {
		if v != nil {
			p.validator = v
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	files storage.FileRepository,
	documents storage.DocumentRepository,
	events storage.EventRepository,
	store artifact.Store,
	generator insight.Generator,
	extractor extraction.TextExtractor,
	opts ...Option,
) (*Pipeline, error) {
	if files == nil {
		return nil, ErrFileRepositoryRequired
	}
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if events == nil {
		return nil, ErrEventRepositoryRequired
	}
	if store == nil {
		return nil, ErrArtifactStoreRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	p := &Pipeline{
		files:       files,
		documents:   documents,
		events:      events,
		store:       store,
		generator:   generator,
		extractor:   extractor,
		validator:   tabular.NewValidator(),
		callTimeout: defaultCallTimeout,
		logger:      slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// record appends the invocation's single event to the log. Every
// accepted submission passes through here exactly once.
func (p *Pipeline) record(ctx context.Context, typ core.EventType, identity string, outcome core.Outcome, resultID core.ID, detail string) (*core.Event, error) {
	event := &core.Event{
		Type:     typ,
		Identity: identity,
		Outcome:  outcome,
		ResultId: resultID,
		Detail:   clipDetail(detail),
	}
	return p.events.AppendEvent(ctx, event)
}

// boundCall derives a context with the pipeline's call timeout.
func (p *Pipeline) boundCall(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.callTimeout)
}

func clipDetail(detail string) string {
	if len(detail) > detailLimit {
		return detail[:detailLimit]
	}
	return detail
}
