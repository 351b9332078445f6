package storage

import (
	"context"
	"time"

	"github.com/doctrail/doctrail/core"
)

// Repository provides common storage operations shared across all
// repositories. Implementations must be thread-safe and support
// concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// FileRepository provides operations for uploaded tabular files and
// their rows. A file owns its rows: they are written in the same
// transaction and deleted together.
type FileRepository interface {
	Repository

	// SaveFileWithRows persists the file record and all of its rows
	// atomically. Either everything lands or nothing does. Generates the
	// file ID from sequence, stamps InsertedAt, and sets FileId on every
	// row. Returns the file with ID and timestamp populated.
	SaveFileWithRows(ctx context.Context, file *core.UploadedFile, rows []*core.UploadedRow) (*core.UploadedFile, error)

	// GetFile retrieves a single file record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetFile(ctx context.Context, id core.ID) (*core.UploadedFile, error)

	// GetRows retrieves all rows of a file, ordered by row index.
	// Returns an empty slice for a file with no rows.
	GetRows(ctx context.Context, fileID core.ID) ([]*core.UploadedRow, error)

	// DeleteFile removes a file record and all of its rows.
	// Returns ErrNotFound if the file doesn't exist.
	DeleteFile(ctx context.Context, id core.ID) error

	// ListFilesByUploader retrieves files uploaded by an identity,
	// newest first. Returns up to limit records; limit <= 0 means all.
	ListFilesByUploader(ctx context.Context, identity string, limit int) ([]*core.UploadedFile, error)

	// ListFiles retrieves all file records, newest first.
	// Returns up to limit records; limit <= 0 means all.
	ListFiles(ctx context.Context, limit int) ([]*core.UploadedFile, error)

	// UpdateFileSummary replaces the summary of an existing file record.
	// Everything else about the record is immutable.
	// Returns ErrNotFound if the record doesn't exist.
	UpdateFileSummary(ctx context.Context, id core.ID, summary string) error
}

// DocumentRepository provides operations for document analysis results.
type DocumentRepository interface {
	Repository

	// SaveDocument persists a document analysis result. Generates the ID
	// from sequence and stamps InsertedAt. Returns the record with ID and
	// timestamp populated.
	SaveDocument(ctx context.Context, doc *core.DocumentAnalysis) (*core.DocumentAnalysis, error)

	// GetDocument retrieves a single analysis result by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.DocumentAnalysis, error)

	// ListDocuments retrieves all analysis results, newest first.
	// Returns up to limit records; limit <= 0 means all.
	ListDocuments(ctx context.Context, limit int) ([]*core.DocumentAnalysis, error)

	// UpdateDocumentEnrichment replaces the summary and sentiment of an
	// existing analysis result. Everything else is immutable.
	// Returns ErrNotFound if the record doesn't exist.
	UpdateDocumentEnrichment(ctx context.Context, id core.ID, summary string, sentiment core.SentimentLabel, score float32) error
}

// EventFilter restricts an event query. Zero-valued members match
// everything; set members combine with AND.
type EventFilter struct {
	// Type restricts to one event type when non-nil.
	Type *core.EventType
	// Identity restricts to events recorded for one identity (exact match).
	Identity string
	// From is the inclusive lower bound on Timestamp.
	From time.Time
	// To is the exclusive upper bound on Timestamp. Zero means unbounded.
	To time.Time
}

// EventRepository provides operations for the append-only event log.
// Events are never updated or deleted.
type EventRepository interface {
	Repository

	// AppendEvent appends one event to the log. Generates the ID from
	// sequence and stamps Timestamp if unset. Returns the event with ID
	// and timestamp populated.
	AppendEvent(ctx context.Context, event *core.Event) (*core.Event, error)

	// QueryEvents retrieves events matching the filter, newest first.
	QueryEvents(ctx context.Context, filter EventFilter) ([]*core.Event, error)
}
