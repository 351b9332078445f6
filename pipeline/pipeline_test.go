package pipeline

import (
	"context"
	"testing"

	"github.com/doctrail/doctrail/artifact/local"
	extractionmock "github.com/doctrail/doctrail/extraction/mock"
	insightmock "github.com/doctrail/doctrail/insight/mock"
	"github.com/doctrail/doctrail/storage"
	"github.com/doctrail/doctrail/storage/badger"
	"github.com/stretchr/testify/require"
)

// testFixture bundles a pipeline with its collaborators so tests can
// assert on repositories and mocks directly.
type testFixture struct {
	pipeline  *Pipeline
	files     storage.FileRepository
	documents storage.DocumentRepository
	events    storage.EventRepository
	generator *insightmock.MockGenerator
	extractor *extractionmock.MockExtractor
}

func newTestPipeline(t *testing.T, opts ...Option) *testFixture {
	t.Helper()

	fileRepo, docRepo, eventRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		eventRepo.Close()
		docRepo.Close()
		fileRepo.Close()
		backend.Close()
	})

	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)

	generator := insightmock.NewMockGenerator()
	extractor := extractionmock.NewMockExtractor()

	p, err := NewPipeline(fileRepo, docRepo, eventRepo, store, generator, extractor, opts...)
	require.NoError(t, err)

	return &testFixture{
		pipeline:  p,
		files:     fileRepo,
		documents: docRepo,
		events:    eventRepo,
		generator: generator,
		extractor: extractor,
	}
}

func (f *testFixture) eventCount(t *testing.T) int {
	t.Helper()
	events, err := f.events.QueryEvents(context.Background(), storage.EventFilter{})
	require.NoError(t, err)
	return len(events)
}

func TestNewPipelineRequiresCollaborators(t *testing.T) {
	fileRepo, docRepo, eventRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		eventRepo.Close()
		docRepo.Close()
		fileRepo.Close()
		backend.Close()
	}()

	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	generator := insightmock.NewMockGenerator()
	extractor := extractionmock.NewMockExtractor()

	_, err = NewPipeline(nil, docRepo, eventRepo, store, generator, extractor)
	require.ErrorIs(t, err, ErrFileRepositoryRequired)

	_, err = NewPipeline(fileRepo, nil, eventRepo, store, generator, extractor)
	require.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewPipeline(fileRepo, docRepo, nil, store, generator, extractor)
	require.ErrorIs(t, err, ErrEventRepositoryRequired)

	_, err = NewPipeline(fileRepo, docRepo, eventRepo, nil, generator, extractor)
	require.ErrorIs(t, err, ErrArtifactStoreRequired)

	_, err = NewPipeline(fileRepo, docRepo, eventRepo, store, nil, extractor)
	require.ErrorIs(t, err, ErrGeneratorRequired)

	_, err = NewPipeline(fileRepo, docRepo, eventRepo, store, generator, nil)
	require.ErrorIs(t, err, ErrExtractorRequired)
}
