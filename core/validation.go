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


package core

import (
	"fmt"
	"time"
)

// ValidateEvent validates an Event according to domain rules.
//
// Validation rules:
//   - Type must be a known EventType
//   - Outcome must be a known Outcome
//   - Identity must not be empty
//   - Timestamp must not be in the future
//
// NOT validated:
//   - ID (0 is valid from database sequences)
//   - ResultId (0 is valid for failed invocations with no result entity)
func ValidateEvent(event *Event) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}

	if err := ValidateEventType(event.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	if err := ValidateOutcome(event.Outcome); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	if event.Identity == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptyIdentity)
	}

	if !IsValidTimestamp(event.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateUploadedFile validates an UploadedFile according to domain rules.
//
// Validation rules:
//   - OriginalFilename must not be empty
//   - UploadedBy must not be empty
//   - UploadedAt must not be in the future
//
// NOT validated (populated by the pipeline):
//   - StorageKey (set after the artifact store accepts the bytes)
//   - Summary (set after the insight generator runs, may be degraded)
//   - ID (0 is valid from database sequences)
func ValidateUploadedFile(file *UploadedFile) error {
	if file == nil {
		return fmt.Errorf("%w: file is nil", ErrInvalidUploadedFile)
	}

	if file.OriginalFilename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUploadedFile, ErrEmptyFilename)
	}

	if file.UploadedBy == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUploadedFile, ErrEmptyIdentity)
	}

	if !IsValidTimestamp(file.UploadedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidUploadedFile, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateUploadedRow validates an UploadedRow according to domain rules.
//
// Validation rules:
//   - Index must be >= 1 (row indices are 1-based)
//
// NOT validated:
//   - FileId (0 is valid before the owning file is saved)
//   - Violations (empty means the row is valid)
func ValidateUploadedRow(row *UploadedRow) error {
	if row == nil {
		return fmt.Errorf("%w: row is nil", ErrInvalidUploadedRow)
	}

	if row.Index < 1 {
		return fmt.Errorf("%w: index %d is not 1-based", ErrInvalidUploadedRow, row.Index)
	}

	return nil
}

// ValidateDocumentAnalysis validates a DocumentAnalysis according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - UploadedBy must not be empty
//   - SentimentScore must be in [0,1]
//
// NOT validated (degraded results are persisted too):
//   - Classification (Unknown is a valid terminal value)
//   - Fields, TextBlocks, Summary (may be empty on extraction failure)
func ValidateDocumentAnalysis(doc *DocumentAnalysis) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocumentAnalysis)
	}

	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentAnalysis, ErrEmptyFilename)
	}

	if doc.UploadedBy == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentAnalysis, ErrEmptyIdentity)
	}

	if doc.SentimentScore < 0 || doc.SentimentScore > 1 {
		return fmt.Errorf("%w: sentiment score %f out of range", ErrInvalidDocumentAnalysis, doc.SentimentScore)
	}

	return nil
}

// ValidateEventType validates that an EventType has a valid value.
func ValidateEventType(t EventType) error {
	if t != EventTypeCSVUpload && t != EventTypeDocumentAnalysis {
		return fmt.Errorf("%w: value %d", ErrInvalidEventType, t)
	}
	return nil
}

// ValidateOutcome validates that an Outcome has a valid value.
func ValidateOutcome(o Outcome) error {
	if o != OutcomeSuccess && o != OutcomeFailure && o != OutcomePartial {
		return fmt.Errorf("%w: value %d", ErrInvalidOutcome, o)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
