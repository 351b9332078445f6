package pipeline

import "errors"

var (
	// ErrFileRepositoryRequired is returned when a file repository is not provided.
	ErrFileRepositoryRequired = errors.New("file repository required")

	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrEventRepositoryRequired is returned when an event repository is not provided.
	ErrEventRepositoryRequired = errors.New("event repository required")

	// ErrArtifactStoreRequired is returned when an artifact store is not provided.
	ErrArtifactStoreRequired = errors.New("artifact store required")

	// ErrGeneratorRequired is returned when an insight generator is not provided.
	ErrGeneratorRequired = errors.New("insight generator required")

	// ErrExtractorRequired is returned when a text extractor is not provided.
	ErrExtractorRequired = errors.New("text extractor required")
)
