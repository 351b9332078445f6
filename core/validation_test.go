package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *Event {
	return &Event{
		Type:      EventTypeCSVUpload,
		Identity:  "alice",
		Timestamp: time.Now().UTC().Add(-time.Second),
		Outcome:   OutcomeSuccess,
	}
}

func TestValidateEvent(t *testing.T) {
	require.NoError(t, ValidateEvent(validEvent()))
}

func TestValidateEvent_Nil(t *testing.T) {
	err := ValidateEvent(nil)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestValidateEvent_BadType(t *testing.T) {
	event := validEvent()
	event.Type = EventType(99)
	err := ValidateEvent(event)
	assert.ErrorIs(t, err, ErrInvalidEventType)
}

func TestValidateEvent_BadOutcome(t *testing.T) {
	event := validEvent()
	event.Outcome = Outcome(99)
	err := ValidateEvent(event)
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestValidateEvent_EmptyIdentity(t *testing.T) {
	event := validEvent()
	event.Identity = ""
	err := ValidateEvent(event)
	assert.ErrorIs(t, err, ErrEmptyIdentity)
}

func TestValidateEvent_FutureTimestamp(t *testing.T) {
	event := validEvent()
	event.Timestamp = time.Now().Add(time.Hour)
	err := ValidateEvent(event)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestValidateUploadedFile(t *testing.T) {
	file := &UploadedFile{
		OriginalFilename: "data.csv",
		UploadedBy:       "alice",
		UploadedAt:       time.Now().UTC().Add(-time.Second),
	}
	require.NoError(t, ValidateUploadedFile(file))

	file.OriginalFilename = ""
	assert.ErrorIs(t, ValidateUploadedFile(file), ErrEmptyFilename)

	file.OriginalFilename = "data.csv"
	file.UploadedBy = ""
	assert.ErrorIs(t, ValidateUploadedFile(file), ErrEmptyIdentity)

	assert.ErrorIs(t, ValidateUploadedFile(nil), ErrInvalidUploadedFile)
}

func TestValidateUploadedRow(t *testing.T) {
	require.NoError(t, ValidateUploadedRow(&UploadedRow{Index: 1}))

	assert.ErrorIs(t, ValidateUploadedRow(&UploadedRow{Index: 0}), ErrInvalidUploadedRow)
	assert.ErrorIs(t, ValidateUploadedRow(nil), ErrInvalidUploadedRow)
}

func TestValidateDocumentAnalysis(t *testing.T) {
	doc := &DocumentAnalysis{
		Filename:       "scan.pdf",
		UploadedBy:     "alice",
		SentimentScore: 0.5,
	}
	require.NoError(t, ValidateDocumentAnalysis(doc))

	doc.SentimentScore = 1.5
	assert.ErrorIs(t, ValidateDocumentAnalysis(doc), ErrInvalidDocumentAnalysis)

	doc.SentimentScore = 0.5
	doc.UploadedBy = ""
	assert.ErrorIs(t, ValidateDocumentAnalysis(doc), ErrEmptyIdentity)

	assert.ErrorIs(t, ValidateDocumentAnalysis(nil), ErrInvalidDocumentAnalysis)
}
