package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/insight"
	"github.com/doctrail/doctrail/tabular"
)

// sampleRowLimit bounds how many rows go into the summarization input.
const sampleRowLimit = 5

// TabularSubmission is one CSV upload.
type TabularSubmission struct {
	Filename string
	Content  []byte
	Identity string
	// ParamA and ParamB are free-form context passed through to the
	// insight generator.
	ParamA string
	ParamB string
	// UploadedAt defaults to the submission time when zero.
	UploadedAt time.Time
}

// TabularResult is the outcome of an accepted CSV upload.
type TabularResult struct {
	File     *core.UploadedFile
	Rows     []*core.UploadedRow
	Report   *tabular.Report
	Event    *core.Event
	Degraded bool
}

// SubmitTabular runs one CSV upload through parsing, validation,
// archival, summarization and persistence.
//
// A file rejected by parsing or by the content rule produces no event
// and persists nothing; the returned error wraps core.ErrRejectedInput.
// An accepted file always yields exactly one appended event, whatever
// else happens downstream.
func (p *Pipeline) SubmitTabular(ctx context.Context, sub TabularSubmission) (*TabularResult, error) {
	if strings.TrimSpace(sub.Identity) == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrRejectedInput, core.ErrEmptyIdentity)
	}
	if strings.TrimSpace(sub.Filename) == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrRejectedInput, core.ErrEmptyFilename)
	}

	table, err := tabular.Parse(sub.Content)
	if err != nil {
		return nil, err
	}

	report, rows := p.validator.Run(table)
	if !report.Accepted {
		return nil, fmt.Errorf("%w: %s", core.ErrRejectedInput, report.Results[0].Message)
	}

	key, err := p.store.Put(ctx, sub.Identity, sub.Filename, sub.Content)
	if err != nil {
		p.logger.Error("artifact archival failed", "filename", sub.Filename, "err", err)
		p.recordFailure(ctx, core.EventTypeCSVUpload, sub.Identity, "archival failed: "+err.Error())
		return nil, fmt.Errorf("%w: %v", core.ErrPersistenceFailed, err)
	}

	summary, degraded := p.summarize(ctx, buildValidationInput(sub.Filename, report, rows), insight.Params{
		ParamA: sub.ParamA,
		ParamB: sub.ParamB,
	})

	file := &core.UploadedFile{
		OriginalFilename: sub.Filename,
		StorageKey:       key,
		UploadedBy:       sub.Identity,
		ParamA:           sub.ParamA,
		ParamB:           sub.ParamB,
		Outcome:          report.FileOutcome(),
		Summary:          summary,
		UploadedAt:       sub.UploadedAt,
	}

	saved, err := p.files.SaveFileWithRows(ctx, file, rows)
	if err != nil {
		p.logger.Error("file persistence failed", "filename", sub.Filename, "err", err)
		p.recordFailure(ctx, core.EventTypeCSVUpload, sub.Identity, "persistence failed: "+err.Error())
		return nil, fmt.Errorf("%w: %v", core.ErrPersistenceFailed, err)
	}

	outcome := core.OutcomeSuccess
	if degraded {
		outcome = core.OutcomePartial
	}
	event, err := p.record(ctx, core.EventTypeCSVUpload, sub.Identity, outcome, saved.Id, summary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrEventLogFailed, err)
	}

	p.logger.Info("csv upload processed",
		"file_id", saved.Id,
		"rows", len(rows),
		"outcome", saved.Outcome.String(),
		"degraded", degraded)

	return &TabularResult{
		File:     saved,
		Rows:     rows,
		Report:   report,
		Event:    event,
		Degraded: degraded,
	}, nil
}

// summarize calls the generator with the pipeline's timeout and
// substitutes the degraded placeholder on any failure.
func (p *Pipeline) summarize(ctx context.Context, input string, params insight.Params) (string, bool) {
	sctx, cancel := p.boundCall(ctx)
	defer cancel()

	summary, err := p.generator.Summarize(sctx, input, params)
	if err != nil {
		p.logger.Warn("summarization degraded", "err", err)
		return insight.DegradedSummary, true
	}
	return insight.Truncate(summary), false
}

// recordFailure appends a failure event on a path that is about to
// return an error. The append error is logged, not returned: the
// original failure is the one the caller needs.
func (p *Pipeline) recordFailure(ctx context.Context, typ core.EventType, identity, detail string) {
	if _, err := p.record(ctx, typ, identity, core.OutcomeFailure, 0, detail); err != nil {
		p.logger.Error("failed to append failure event", "err", err)
	}
}

// buildValidationInput renders the validation run as text for the
// summarization prompt. Invalid rows contribute their violation counts
// but not their values.
func buildValidationInput(filename string, report *tabular.Report, rows []*core.UploadedRow) string {
	var b strings.Builder

	valid := 0
	for _, row := range rows {
		if row.Valid() {
			valid++
		}
	}
	fmt.Fprintf(&b, "File: %s\n", filename)
	fmt.Fprintf(&b, "Rows: %d total, %d valid\n", len(rows), valid)
	fmt.Fprintf(&b, "Validation outcome: %s\n", report.FileOutcome().String())

	for _, result := range report.Results {
		fmt.Fprintf(&b, "Rule %s: %s\n", result.Rule, result.Message)
	}

	b.WriteString("Sample rows:\n")
	count := 0
	for _, row := range rows {
		if !row.Valid() {
			continue
		}
		if count == sampleRowLimit {
			break
		}
		var pairs []string
		for _, f := range row.Values {
			pairs = append(pairs, f.Name+"="+f.Value)
		}
		fmt.Fprintf(&b, "row %d: %s\n", row.Index, strings.Join(pairs, ", "))
		count++
	}

	return b.String()
}
