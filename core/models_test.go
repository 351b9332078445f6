package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintOf_Deterministic(t *testing.T) {
	a := FingerprintOf("some content")
	b := FingerprintOf("some content")
	assert.Equal(t, a, b)

	c := FingerprintOf("other content")
	assert.NotEqual(t, a, c)
}

func TestUploadedRow_Fingerprint_IgnoresIndex(t *testing.T) {
	values := []Field{{Name: "name", Value: "a"}, {Name: "amount", Value: "1"}}
	first := &UploadedRow{Index: 1, Values: values}
	second := &UploadedRow{Index: 2, Values: values}

	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}

func TestUploadedRow_Fingerprint_SensitiveToValues(t *testing.T) {
	first := &UploadedRow{Index: 1, Values: []Field{{Name: "name", Value: "a"}}}
	second := &UploadedRow{Index: 1, Values: []Field{{Name: "name", Value: "b"}}}

	assert.NotEqual(t, first.Fingerprint(), second.Fingerprint())
}

func TestUploadedRow_Fingerprint_FieldBoundaries(t *testing.T) {
	// "ab"+"c" must not collide with "a"+"bc"
	first := &UploadedRow{Values: []Field{{Name: "x", Value: "ab"}, {Name: "y", Value: "c"}}}
	second := &UploadedRow{Values: []Field{{Name: "x", Value: "a"}, {Name: "y", Value: "bc"}}}

	assert.NotEqual(t, first.Fingerprint(), second.Fingerprint())
}

func TestUploadedRow_Valid(t *testing.T) {
	row := &UploadedRow{Index: 1}
	assert.True(t, row.Valid())

	// Warning rules flag the row without invalidating it.
	row.Violations = []string{RuleEmptiness, RuleDuplicates}
	assert.True(t, row.Valid())

	row.Violations = append(row.Violations, RuleRequiredFields)
	assert.False(t, row.Valid())

	row.Violations = []string{RuleSchemaConsistency}
	assert.False(t, row.Valid())
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "csv_upload", EventTypeCSVUpload.String())
	assert.Equal(t, "document_analysis", EventTypeDocumentAnalysis.String())
	assert.Equal(t, "unknown", EventType(0).String())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "failure", OutcomeFailure.String())
	assert.Equal(t, "partial", OutcomePartial.String())
}

func TestClassification_String(t *testing.T) {
	assert.Equal(t, "invoice", ClassificationInvoice.String())
	assert.Equal(t, "information", ClassificationInformation.String())
	assert.Equal(t, "unknown", ClassificationUnknown.String())
}

func TestSentimentLabel_String(t *testing.T) {
	assert.Equal(t, "positive", SentimentPositive.String())
	assert.Equal(t, "negative", SentimentNegative.String())
	assert.Equal(t, "neutral", SentimentNeutral.String())
}
