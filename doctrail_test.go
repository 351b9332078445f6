package doctrail

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/doctrail/doctrail/core"
	extractionmock "github.com/doctrail/doctrail/extraction/mock"
	insightmock "github.com/doctrail/doctrail/insight/mock"
	"github.com/doctrail/doctrail/pipeline"
	"github.com/doctrail/doctrail/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()

	db, err := NewDatabase(filepath.Join(dir, "db"),
		WithArtifactDir(filepath.Join(dir, "artifacts")),
		WithGenerator(insightmock.NewMockGenerator()),
		WithExtractor(extractionmock.NewMockExtractor()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleCSVSubmission() pipeline.TabularSubmission {
	return pipeline.TabularSubmission{
		Filename: "expenses.csv",
		Content:  []byte("item,amount\nwidget,10\ngadget,20\n"),
		Identity: "alice",
	}
}

func sampleDocSubmission() pipeline.DocumentSubmission {
	return pipeline.DocumentSubmission{
		Filename: "scan.pdf",
		Content:  []byte("%PDF-1.7 fake"),
		Identity: "bob",
	}
}

func TestDatabaseEndToEnd(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	p, err := db.NewPipeline()
	require.NoError(t, err)

	// One CSV upload and one document analysis.
	csvResult, err := p.SubmitTabular(ctx, sampleCSVSubmission())
	require.NoError(t, err)
	assert.NotZero(t, csvResult.File.Id)

	docResult, err := p.SubmitDocument(ctx, sampleDocSubmission())
	require.NoError(t, err)
	assert.NotZero(t, docResult.Document.Id)

	// The artifact store holds both originals.
	content, err := db.ArtifactStore().Get(ctx, csvResult.File.StorageKey)
	require.NoError(t, err)
	assert.NotEmpty(t, content)

	// History sees both invocations, newest first.
	events, err := db.NewHistoryService().Query(ctx, storage.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, core.EventTypeDocumentAnalysis, events[0].Type)
	assert.Equal(t, core.EventTypeCSVUpload, events[1].Type)
}

func TestDatabasePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db")
	ctx := context.Background()

	db, err := NewDatabase(dbPath,
		WithArtifactDir(filepath.Join(dir, "artifacts")),
		WithGenerator(insightmock.NewMockGenerator()),
		WithExtractor(extractionmock.NewMockExtractor()),
	)
	require.NoError(t, err)

	p, err := db.NewPipeline()
	require.NoError(t, err)
	result, err := p.SubmitTabular(ctx, sampleCSVSubmission())
	require.NoError(t, err)
	fileID := result.File.Id
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath,
		WithArtifactDir(filepath.Join(dir, "artifacts")),
		WithGenerator(insightmock.NewMockGenerator()),
		WithExtractor(extractionmock.NewMockExtractor()),
	)
	require.NoError(t, err)
	defer db.Close()

	file, err := db.FileRepository().GetFile(ctx, fileID)
	require.NoError(t, err)
	assert.Equal(t, "expenses.csv", file.OriginalFilename)

	rows, err := db.FileRepository().GetRows(ctx, fileID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
