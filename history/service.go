// Package history exposes read access to the append-only event log:
// filtered queries and spreadsheet export for offline review.
package history

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/storage"
	"github.com/xuri/excelize/v2"
)

// exportColumns is the fixed column set of spreadsheet exports. Order
// is part of the export contract.
var exportColumns = []string{"timestamp", "type", "identity", "outcome", "detail"}

const exportSheet = "Events"

// Service answers questions about past pipeline invocations. It is a
// read-only view: nothing here mutates the log, and lookups are not
// themselves recorded as events.
type Service struct {
	events storage.EventRepository
	logger *slog.Logger
}

// NewService creates a history service over the given event repository.
func NewService(events storage.EventRepository) *Service {
	return &Service{
		events: events,
		logger: slog.Default().With("component", "history"),
	}
}

// Query retrieves events matching the filter, newest first.
func (s *Service) Query(ctx context.Context, filter storage.EventFilter) ([]*core.Event, error) {
	return s.events.QueryEvents(ctx, filter)
}

// ExportXLSX renders the events matching the filter as an XLSX
// workbook. The rows are exactly the rows Query returns, in the same
// newest-first order, under the fixed header.
func (s *Service) ExportXLSX(ctx context.Context, filter storage.EventFilter) ([]byte, error) {
	events, err := s.events.QueryEvents(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, event := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			event.Timestamp.UTC().Format(time.RFC3339),
			event.Type.String(),
			event.Identity,
			event.Outcome.String(),
			event.Detail,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}

	s.logger.Debug("exported events", "count", len(events))
	return buf.Bytes(), nil
}
