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

import "errors"

// Pipeline error taxonomy. These sentinels split failures into the classes
// the pipeline treats differently: rejected input is surfaced before
// anything is persisted, capability failures degrade the result, and
// persistence or event-log failures fail the whole submission.
var (
	// ErrRejectedInput indicates malformed input: an unparseable header,
	// an empty file, or an unsupported media type. Nothing is persisted
	// and no event is appended.
	ErrRejectedInput = errors.New("input rejected")

	// ErrCapabilityUnavailable indicates an external extraction or
	// generation capability failed or timed out.
	ErrCapabilityUnavailable = errors.New("external capability unavailable")

	// ErrPersistenceFailed indicates structured or binary storage failed.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrEventLogFailed indicates the audit event could not be appended.
	// The event log is the source of truth for "did this happen", so the
	// submission itself is considered failed.
	ErrEventLogFailed = errors.New("event log append failed")
)

// Domain validation errors
var (
	// ErrInvalidEvent indicates an Event failed validation.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidEventType indicates an invalid EventType value.
	ErrInvalidEventType = errors.New("invalid event type")

	// ErrInvalidOutcome indicates an invalid Outcome value.
	ErrInvalidOutcome = errors.New("invalid outcome")

	// ErrInvalidUploadedFile indicates an UploadedFile failed validation.
	ErrInvalidUploadedFile = errors.New("invalid uploaded file")

	// ErrInvalidUploadedRow indicates an UploadedRow failed validation.
	ErrInvalidUploadedRow = errors.New("invalid uploaded row")

	// ErrInvalidDocumentAnalysis indicates a DocumentAnalysis failed validation.
	ErrInvalidDocumentAnalysis = errors.New("invalid document analysis")

	// ErrEmptyIdentity indicates the uploading identity is missing.
	ErrEmptyIdentity = errors.New("identity cannot be empty")

	// ErrEmptyFilename indicates the original filename is missing.
	ErrEmptyFilename = errors.New("filename cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
