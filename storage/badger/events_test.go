package badger

import (
	"context"
	"testing"
	"time"

	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/storage"
)

func newEventRepo(t *testing.T) storage.EventRepository {
	t.Helper()
	fileRepo, docRepo, eventRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	t.Cleanup(func() {
		eventRepo.Close()
		docRepo.Close()
		fileRepo.Close()
		backend.Close()
	})
	return eventRepo
}

func TestAppendEventBasics(t *testing.T) {
	repo := newEventRepo(t)
	ctx := context.Background()

	event := &core.Event{
		Type:     core.EventTypeCSVUpload,
		Identity: "alice",
		Outcome:  core.OutcomeSuccess,
		ResultId: 7,
		Detail:   "3 rows persisted",
	}

	appended, err := repo.AppendEvent(ctx, event)
	if err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	if appended.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if appended.Timestamp.IsZero() {
		t.Fatal("Expected timestamp to be set")
	}

	events, err := repo.QueryEvents(ctx, storage.EventFilter{})
	if err != nil {
		t.Fatalf("Failed to query events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].Detail != "3 rows persisted" {
		t.Fatalf("Expected detail to round-trip, got '%s'", events[0].Detail)
	}
}

func TestAppendEventRejectsInvalid(t *testing.T) {
	repo := newEventRepo(t)
	ctx := context.Background()

	_, err := repo.AppendEvent(ctx, &core.Event{Identity: "alice", Outcome: core.OutcomeSuccess})
	if err == nil {
		t.Fatal("Expected error for missing event type")
	}

	_, err = repo.AppendEvent(ctx, &core.Event{Type: core.EventTypeCSVUpload, Identity: "alice"})
	if err == nil {
		t.Fatal("Expected error for missing outcome")
	}
}

func TestQueryEventsNewestFirst(t *testing.T) {
	repo := newEventRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		_, err := repo.AppendEvent(ctx, &core.Event{
			Type:      core.EventTypeCSVUpload,
			Identity:  "alice",
			Timestamp: now.Add(time.Duration(i) * time.Minute),
			Outcome:   core.OutcomeSuccess,
		})
		if err != nil {
			t.Fatalf("Failed to append event: %v", err)
		}
	}

	events, err := repo.QueryEvents(ctx, storage.EventFilter{})
	if err != nil {
		t.Fatalf("Failed to query events: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("Expected 5 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Fatal("Expected events in newest-first order")
		}
	}
}

func TestQueryEventsFilters(t *testing.T) {
	repo := newEventRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	fixtures := []struct {
		typ      core.EventType
		identity string
		offset   time.Duration
		outcome  core.Outcome
	}{
		{core.EventTypeCSVUpload, "alice", 0, core.OutcomeSuccess},
		{core.EventTypeDocumentAnalysis, "alice", time.Minute, core.OutcomeFailure},
		{core.EventTypeCSVUpload, "bob", 2 * time.Minute, core.OutcomeSuccess},
		{core.EventTypeDocumentAnalysis, "bob", 3 * time.Minute, core.OutcomePartial},
	}
	for _, f := range fixtures {
		_, err := repo.AppendEvent(ctx, &core.Event{
			Type:      f.typ,
			Identity:  f.identity,
			Timestamp: now.Add(f.offset),
			Outcome:   f.outcome,
		})
		if err != nil {
			t.Fatalf("Failed to append event: %v", err)
		}
	}

	// Filter by type
	csvType := core.EventTypeCSVUpload
	events, err := repo.QueryEvents(ctx, storage.EventFilter{Type: &csvType})
	if err != nil {
		t.Fatalf("Failed to query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 csv events, got %d", len(events))
	}

	// Filter by identity
	events, err = repo.QueryEvents(ctx, storage.EventFilter{Identity: "bob"})
	if err != nil {
		t.Fatalf("Failed to query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events for bob, got %d", len(events))
	}

	// Filters combine with AND
	docType := core.EventTypeDocumentAnalysis
	events, err = repo.QueryEvents(ctx, storage.EventFilter{Type: &docType, Identity: "bob"})
	if err != nil {
		t.Fatalf("Failed to query events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].Outcome != core.OutcomePartial {
		t.Fatalf("Expected partial outcome, got %v", events[0].Outcome)
	}

	// Time window: From inclusive, To exclusive
	events, err = repo.QueryEvents(ctx, storage.EventFilter{
		From: now.Add(time.Minute),
		To:   now.Add(3 * time.Minute),
	})
	if err != nil {
		t.Fatalf("Failed to query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events in window, got %d", len(events))
	}

	// Inverted window is invalid
	_, err = repo.QueryEvents(ctx, storage.EventFilter{From: now.Add(time.Hour), To: now})
	if err != storage.ErrInvalidQuery {
		t.Fatalf("Expected ErrInvalidQuery, got %v", err)
	}
}
