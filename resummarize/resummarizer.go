// Copyright 2026 Doctrail Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resummarize

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/insight"
	"github.com/doctrail/doctrail/storage"
)

// sampleRowLimit bounds how many rows go into the summarization input.
const sampleRowLimit = 5

// Config holds configuration for a resummarization run.
type Config struct {
	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per generator call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// FileResummarizer regenerates summaries for uploaded file records that
// carry the degraded placeholder.
type FileResummarizer struct {
	files     storage.FileRepository
	generator insight.Generator
	config    *Config
	progress  io.Writer
}

// NewFileResummarizer creates a new file resummarizer.
// progress: where to write progress output (typically os.Stderr)
func NewFileResummarizer(files storage.FileRepository, generator insight.Generator, config *Config, progress io.Writer) *FileResummarizer {
	if config == nil {
		config = DefaultConfig()
	}

	return &FileResummarizer{
		files:     files,
		generator: generator,
		config:    config,
		progress:  progress,
	}
}

// Run regenerates the summary of every degraded file record and writes
// it back. Returns the number of records updated. A generator failure
// that survives the retries aborts the run; records already updated
// stay updated.
func (r *FileResummarizer) Run(ctx context.Context) (int, error) {
	all, err := r.files.ListFiles(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list files: %w", err)
	}

	var degraded []*core.UploadedFile
	for _, file := range all {
		if file.Summary == insight.DegradedSummary {
			degraded = append(degraded, file)
		}
	}
	if len(degraded) == 0 {
		fmt.Fprintf(r.progress, "No degraded file records found\n")
		return 0, nil
	}

	fmt.Fprintf(r.progress, "Resummarizing %d of %d file records\n", len(degraded), len(all))

	tracker := NewProgressTracker(r.progress, len(degraded), r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for _, file := range degraded {
		rows, err := r.files.GetRows(ctx, file.Id)
		if err != nil {
			return processed, fmt.Errorf("failed to load rows for file %d: %w", file.Id, err)
		}

		input := buildFileInput(file, rows)
		params := insight.Params{ParamA: file.ParamA, ParamB: file.ParamB}

		var summary string
		err = RetryWithBackoff(ctx, func() error {
			var err error
			summary, err = r.generator.Summarize(ctx, input, params)
			return err
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return processed, fmt.Errorf("failed to summarize file %d after %d attempts: %w", file.Id, r.config.MaxRetries, err)
		}

		if err := r.files.UpdateFileSummary(ctx, file.Id, insight.Truncate(summary)); err != nil {
			return processed, fmt.Errorf("failed to update file %d: %w", file.Id, err)
		}

		processed++
		tracker.Update(processed)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Resummarization complete. Updated %d records in %v\n",
		processed, elapsed.Round(time.Second))

	return processed, nil
}

// DocumentResummarizer regenerates summaries and sentiment for document
// analysis records that carry the degraded placeholder. Records whose
// extraction failed have no stored text and are skipped.
type DocumentResummarizer struct {
	documents storage.DocumentRepository
	generator insight.Generator
	config    *Config
	progress  io.Writer
}

// NewDocumentResummarizer creates a new document resummarizer.
func NewDocumentResummarizer(documents storage.DocumentRepository, generator insight.Generator, config *Config, progress io.Writer) *DocumentResummarizer {
	if config == nil {
		config = DefaultConfig()
	}

	return &DocumentResummarizer{
		documents: documents,
		generator: generator,
		config:    config,
		progress:  progress,
	}
}

// Run regenerates summary and sentiment for every degraded document
// record that still has extracted text, and writes them back. Returns
// the number of records updated.
func (r *DocumentResummarizer) Run(ctx context.Context) (int, error) {
	all, err := r.documents.ListDocuments(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list documents: %w", err)
	}

	var degraded []*core.DocumentAnalysis
	skipped := 0
	for _, doc := range all {
		if doc.Summary != insight.DegradedSummary {
			continue
		}
		if len(doc.TextBlocks) == 0 {
			skipped++
			continue
		}
		degraded = append(degraded, doc)
	}
	if len(degraded) == 0 {
		fmt.Fprintf(r.progress, "No degraded document records found (%d without text skipped)\n", skipped)
		return 0, nil
	}

	fmt.Fprintf(r.progress, "Resummarizing %d of %d document records (%d without text skipped)\n",
		len(degraded), len(all), skipped)

	tracker := NewProgressTracker(r.progress, len(degraded), r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for _, doc := range degraded {
		input := strings.Join(doc.TextBlocks, "\n")

		var summary string
		err = RetryWithBackoff(ctx, func() error {
			var err error
			summary, err = r.generator.Summarize(ctx, input, insight.Params{})
			return err
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return processed, fmt.Errorf("failed to summarize document %d after %d attempts: %w", doc.Id, r.config.MaxRetries, err)
		}

		var sentiment insight.Sentiment
		err = RetryWithBackoff(ctx, func() error {
			var err error
			sentiment, err = r.generator.Sentiment(ctx, input)
			return err
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return processed, fmt.Errorf("failed to score document %d after %d attempts: %w", doc.Id, r.config.MaxRetries, err)
		}

		err = r.documents.UpdateDocumentEnrichment(ctx, doc.Id, insight.Truncate(summary), sentiment.Label, sentiment.Score)
		if err != nil {
			return processed, fmt.Errorf("failed to update document %d: %w", doc.Id, err)
		}

		processed++
		tracker.Update(processed)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Resummarization complete. Updated %d records in %v\n",
		processed, elapsed.Round(time.Second))

	return processed, nil
}

// buildFileInput renders a stored file record as text for the
// summarization prompt. Unlike the upload path there is no validation
// report to hand, so rule activity is aggregated from the persisted
// row violations.
func buildFileInput(file *core.UploadedFile, rows []*core.UploadedRow) string {
	var b strings.Builder

	valid := 0
	violations := make(map[string]int)
	for _, row := range rows {
		if row.Valid() {
			valid++
		}
		for _, rule := range row.Violations {
			violations[rule]++
		}
	}

	fmt.Fprintf(&b, "File: %s\n", file.OriginalFilename)
	fmt.Fprintf(&b, "Rows: %d total, %d valid\n", len(rows), valid)
	fmt.Fprintf(&b, "Validation outcome: %s\n", file.Outcome.String())

	rules := make([]string, 0, len(violations))
	for rule := range violations {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	for _, rule := range rules {
		fmt.Fprintf(&b, "Rule %s: flagged %d rows\n", rule, violations[rule])
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
