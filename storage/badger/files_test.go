package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/storage"
)

func TestSaveFileWithRowsBasics(t *testing.T) {
	// Create in-memory repositories
	fileRepo, docRepo, eventRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		eventRepo.Close()
		docRepo.Close()
		fileRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	file := &core.UploadedFile{
		OriginalFilename: "expenses.csv",
		StorageKey:       "uploads/alice/1-x/expenses.csv",
		UploadedBy:       "alice",
		Outcome:          core.ValidationPass,
		Summary:          "clean file",
		UploadedAt:       time.Now().UTC(),
	}
	rows := []*core.UploadedRow{
		{Index: 1, Values: []core.Field{{Name: "a", Value: "1"}}},
		{Index: 2, Values: []core.Field{{Name: "a", Value: "2"}}, Violations: []string{core.RuleEmptiness}},
	}

	saved, err := fileRepo.SaveFileWithRows(ctx, file, rows)
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}
	if saved.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if saved.InsertedAt.IsZero() {
		t.Fatal("Expected InsertedAt to be set")
	}

	// Every row must carry the file's ID
	got, err := fileRepo.GetRows(ctx, saved.Id)
	if err != nil {
		t.Fatalf("Failed to get rows: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(got))
	}
	for _, row := range got {
		if row.FileId != saved.Id {
			t.Fatalf("Expected FileId %d, got %d", saved.Id, row.FileId)
		}
	}
	if got[0].Index != 1 || got[1].Index != 2 {
		t.Fatalf("Expected rows ordered by index, got %d, %d", got[0].Index, got[1].Index)
	}

	retrieved, err := fileRepo.GetFile(ctx, saved.Id)
	if err != nil {
		t.Fatalf("Failed to get file: %v", err)
	}
	if retrieved.OriginalFilename != "expenses.csv" {
		t.Fatalf("Expected 'expenses.csv', got '%s'", retrieved.OriginalFilename)
	}
}

func TestGetFileNotFound(t *testing.T) {
	fileRepo, docRepo, eventRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { eventRepo.Close(); docRepo.Close(); fileRepo.Close(); backend.Close() }()

	_, err = fileRepo.GetFile(context.Background(), 9999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteFileCascades(t *testing.T) {
	fileRepo, docRepo, eventRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { eventRepo.Close(); docRepo.Close(); fileRepo.Close(); backend.Close() }()

	ctx := context.Background()

	file := &core.UploadedFile{OriginalFilename: "data.csv", UploadedBy: "bob", Outcome: core.ValidationPass}
	rows := []*core.UploadedRow{
		{Index: 1, Values: []core.Field{{Name: "x", Value: "1"}}},
		{Index: 2, Values: []core.Field{{Name: "x", Value: "2"}}},
	}
	saved, err := fileRepo.SaveFileWithRows(ctx, file, rows)
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}

	if err := fileRepo.DeleteFile(ctx, saved.Id); err != nil {
		t.Fatalf("Failed to delete file: %v", err)
	}

	_, err = fileRepo.GetFile(ctx, saved.Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	got, err := fileRepo.GetRows(ctx, saved.Id)
	if err != nil {
		t.Fatalf("Failed to get rows: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Expected 0 rows after delete, got %d", len(got))
	}

	listed, err := fileRepo.ListFilesByUploader(ctx, "bob", 0)
	if err != nil {
		t.Fatalf("Failed to list files: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("Expected empty uploader index after delete, got %d entries", len(listed))
	}

	if err := fileRepo.DeleteFile(ctx, saved.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListFilesByUploader(t *testing.T) {
	fileRepo, docRepo, eventRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { eventRepo.Close(); docRepo.Close(); fileRepo.Close(); backend.Close() }()

	ctx := context.Background()

	for i, identity := range []string{"alice", "bob", "alice", "alice"} {
		file := &core.UploadedFile{
			OriginalFilename: "f.csv",
			UploadedBy:       identity,
			Outcome:          core.ValidationPass,
			Summary:          string(rune('a' + i)),
		}
		if _, err := fileRepo.SaveFileWithRows(ctx, file, nil); err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}
	}

	listed, err := fileRepo.ListFilesByUploader(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("Failed to list files: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("Expected 3 files for alice, got %d", len(listed))
	}
	// Newest first
	for i := 1; i < len(listed); i++ {
		if listed[i].Id > listed[i-1].Id {
			t.Fatal("Expected files in descending ID order")
		}
	}

	limited, err := fileRepo.ListFilesByUploader(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("Failed to list files: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("Expected 2 files with limit, got %d", len(limited))
	}
}

func TestListFilesAndUpdateSummary(t *testing.T) {
	fileRepo, docRepo, eventRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { eventRepo.Close(); docRepo.Close(); fileRepo.Close(); backend.Close() }()

	ctx := context.Background()

	var ids []core.ID
	for i := 0; i < 12; i++ {
		file := &core.UploadedFile{
			OriginalFilename: "f.csv",
			UploadedBy:       "alice",
			Outcome:          core.ValidationPass,
			Summary:          "summary unavailable",
		}
		saved, err := fileRepo.SaveFileWithRows(ctx, file, nil)
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}
		ids = append(ids, saved.Id)
	}

	// Twelve records crosses the "upfile:10" < "upfile:2" lexicographic
	// boundary, so this verifies the numeric sort.
	listed, err := fileRepo.ListFiles(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to list files: %v", err)
	}
	if len(listed) != 12 {
		t.Fatalf("Expected 12 files, got %d", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].Id >= listed[i-1].Id {
			t.Fatal("Expected files in descending ID order")
		}
	}

	limited, err := fileRepo.ListFiles(ctx, 5)
	if err != nil {
		t.Fatalf("Failed to list files: %v", err)
	}
	if len(limited) != 5 {
		t.Fatalf("Expected 5 files with limit, got %d", len(limited))
	}

	if err := fileRepo.UpdateFileSummary(ctx, ids[0], "three rows, all valid"); err != nil {
		t.Fatalf("Failed to update summary: %v", err)
	}
	updated, err := fileRepo.GetFile(ctx, ids[0])
	if err != nil {
		t.Fatalf("Failed to get file: %v", err)
	}
	if updated.Summary != "three rows, all valid" {
		t.Fatalf("Expected updated summary, got '%s'", updated.Summary)
	}
	if updated.OriginalFilename != "f.csv" {
		t.Fatal("Expected other fields untouched")
	}

	if err := fileRepo.UpdateFileSummary(ctx, 9999, "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDocumentBasics(t *testing.T) {
	fileRepo, docRepo, eventRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { eventRepo.Close(); docRepo.Close(); fileRepo.Close(); backend.Close() }()

	ctx := context.Background()

	doc := &core.DocumentAnalysis{
		Filename:       "invoice.pdf",
		Classification: core.ClassificationInvoice,
		Fields:         []core.Field{{Name: "total", Value: "99.00"}},
		Summary:        "Invoice for services",
		Sentiment:      core.SentimentNeutral,
		UploadedBy:     "carol",
	}

	saved, err := docRepo.SaveDocument(ctx, doc)
	if err != nil {
		t.Fatalf("Failed to save document: %v", err)
	}
	if saved.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	retrieved, err := docRepo.GetDocument(ctx, saved.Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if retrieved.Classification != core.ClassificationInvoice {
		t.Fatalf("Expected invoice classification, got %v", retrieved.Classification)
	}

	_, err = docRepo.GetDocument(ctx, 9999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDocumentListAndUpdateEnrichment(t *testing.T) {
	fileRepo, docRepo, eventRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { eventRepo.Close(); docRepo.Close(); fileRepo.Close(); backend.Close() }()

	ctx := context.Background()

	var first core.ID
	for i := 0; i < 3; i++ {
		doc := &core.DocumentAnalysis{
			Filename:       "scan.pdf",
			Classification: core.ClassificationUnknown,
			Summary:        "summary unavailable",
			Sentiment:      core.SentimentNeutral,
			UploadedBy:     "carol",
		}
		saved, err := docRepo.SaveDocument(ctx, doc)
		if err != nil {
			t.Fatalf("Failed to save document: %v", err)
		}
		if i == 0 {
			first = saved.Id
		}
	}

	listed, err := docRepo.ListDocuments(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].Id >= listed[i-1].Id {
			t.Fatal("Expected documents in descending ID order")
		}
	}

	limited, err := docRepo.ListDocuments(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("Expected 2 documents with limit, got %d", len(limited))
	}

	err = docRepo.UpdateDocumentEnrichment(ctx, first, "invoice from acme", core.SentimentPositive, 0.9)
	if err != nil {
		t.Fatalf("Failed to update enrichment: %v", err)
	}
	updated, err := docRepo.GetDocument(ctx, first)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if updated.Summary != "invoice from acme" {
		t.Fatalf("Expected updated summary, got '%s'", updated.Summary)
	}
	if updated.Sentiment != core.SentimentPositive || updated.SentimentScore != 0.9 {
		t.Fatalf("Expected updated sentiment, got %v/%v", updated.Sentiment, updated.SentimentScore)
	}
	if updated.Classification != core.ClassificationUnknown {
		t.Fatal("Expected other fields untouched")
	}

	err = docRepo.UpdateDocumentEnrichment(ctx, 9999, "x", core.SentimentNeutral, 0)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
