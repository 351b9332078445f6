package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated from database sequences.
type ID uint64

// Fingerprint is a 64-bit content hash used to detect identical payloads.
type Fingerprint uint64

// FingerprintOf computes a deterministic fingerprint of text content using
// BLAKE2b hashing. Identical content always produces the same fingerprint.
func FingerprintOf(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// EventType identifies the kind of pipeline invocation an event records.
type EventType int

const (
	// EventTypeCSVUpload is a tabular (CSV) submission.
	EventTypeCSVUpload EventType = iota + 1
	// EventTypeDocumentAnalysis is a scanned-document submission.
	EventTypeDocumentAnalysis
)

// String returns the stable wire name of the event type.
func (t EventType) String() string {
	switch t {
	case EventTypeCSVUpload:
		return "csv_upload"
	case EventTypeDocumentAnalysis:
		return "document_analysis"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a pipeline invocation.
type Outcome int

const (
	// OutcomeSuccess means every stage completed normally.
	OutcomeSuccess Outcome = iota + 1
	// OutcomeFailure means a required stage failed.
	OutcomeFailure
	// OutcomePartial means the result was persisted with degraded output.
	OutcomePartial
)

// String returns the stable wire name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Classification is the closed set of document categories.
type Classification int

const (
	// ClassificationUnknown is the fallback category, including ties.
	ClassificationUnknown Classification = iota
	// ClassificationInvoice marks invoice-like documents.
	ClassificationInvoice
	// ClassificationInformation marks free-form informational documents.
	ClassificationInformation
)

// String returns the stable wire name of the classification.
func (c Classification) String() string {
	switch c {
	case ClassificationInvoice:
		return "invoice"
	case ClassificationInformation:
		return "information"
	default:
		return "unknown"
	}
}

// SentimentLabel is the closed set of sentiment categories.
type SentimentLabel int

const (
	// SentimentNeutral is the default label.
	SentimentNeutral SentimentLabel = iota
	// SentimentPositive marks positive text.
	SentimentPositive
	// SentimentNegative marks negative text.
	SentimentNegative
)

// String returns the stable wire name of the sentiment label.
func (s SentimentLabel) String() string {
	switch s {
	case SentimentPositive:
		return "positive"
	case SentimentNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// ValidationOutcome is the file-level result of the validation engine.
type ValidationOutcome int

const (
	// ValidationPass means no rule flagged any row.
	ValidationPass ValidationOutcome = iota + 1
	// ValidationPassWithWarnings means some rows were flagged but the file
	// was accepted.
	ValidationPassWithWarnings
	// ValidationFail means the file was rejected before persistence.
	ValidationFail
)

// String returns the stable wire name of the validation outcome.
func (v ValidationOutcome) String() string {
	switch v {
	case ValidationPass:
		return "pass"
	case ValidationPassWithWarnings:
		return "pass_with_warnings"
	case ValidationFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Validation rule names. Emptiness and duplicates are warning rules: they
// flag a row without invalidating it. Schema and required-field violations
// mark the row invalid and exclude it from downstream summarization input.
const (
	RuleContent           = "content"
	RuleEmptiness         = "emptiness"
	RuleDuplicates        = "duplicates"
	RuleSchemaConsistency = "schema_consistency"
	RuleRequiredFields    = "required_fields"
)

// Field is one name/value pair of an ordered mapping. Ordered mappings are
// kept as slices so column order survives serialization round trips.
type Field struct {
	Name  string
	Value string
}

// UploadedFile is the metadata record for one tabular submission.
// It owns its UploadedRow entities: they are created in the same
// transaction and deleted together with the file.
type UploadedFile struct {
	Id               ID
	OriginalFilename string
	StorageKey       string
	UploadedBy       string
	ParamA           string
	ParamB           string
	Outcome          ValidationOutcome
	Summary          string // AI-generated summary of the validation run
	UploadedAt       time.Time
	InsertedAt       time.Time
}

// UploadedRow is one CSV data row. Immutable after creation.
type UploadedRow struct {
	FileId     ID
	Index      int // 1-based, stable across the file
	Values     []Field
	Violations []string // names of violated rules, empty if valid
}

// Valid reports whether the row is usable downstream. Warning rules
// (emptiness, duplicates) flag the row but do not invalidate it.
func (r *UploadedRow) Valid() bool {
	for _, v := range r.Violations {
		if v == RuleSchemaConsistency || v == RuleRequiredFields {
			return false
		}
	}
	return true
}

// Fingerprint computes the content fingerprint of the row's values,
// ignoring the row index. Used for duplicate detection.
func (r *UploadedRow) Fingerprint() Fingerprint {
	var b []byte
	for _, f := range r.Values {
		b = append(b, f.Name...)
		b = append(b, 0x1f)
		b = append(b, f.Value...)
		b = append(b, 0x1e)
	}
	return FingerprintOf(string(b))
}

// DocumentAnalysis is the structured result of one document submission.
type DocumentAnalysis struct {
	Id             ID
	Filename       string
	StorageKey     string
	Classification Classification
	Fields         []Field // schema varies by classification
	TextBlocks     []string
	Summary        string
	Sentiment      SentimentLabel
	SentimentScore float32 // in [0,1], 0 when unavailable
	UploadedBy     string
	InsertedAt     time.Time
}

// Event is one append-only record of a pipeline invocation. Events are
// never mutated or deleted. ResultId is a soft reference: the event
// survives deletion of the result it points at.
type Event struct {
	Id        ID
	Type      EventType
	Identity  string
	Timestamp time.Time
	Outcome   Outcome
	ResultId  ID
	Detail    string
}
