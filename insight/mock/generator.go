package mock

import (
	"context"
	"fmt"

	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/insight"
)

// MockGenerator is a test double for insight.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, returns a deterministic summary derived from the input.
	SummarizeFunc func(ctx context.Context, text string, params insight.Params) (string, error)

	// SentimentFunc is called by Sentiment if set.
	// If nil, returns neutral with full confidence.
	SentimentFunc func(ctx context.Context, text string) (insight.Sentiment, error)

	summarizeCalls int
	sentimentCalls int
}

var _ insight.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a mock generator with default deterministic
// behavior. Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Summarize returns a deterministic summary unless SummarizeFunc is set.
func (m *MockGenerator) Summarize(ctx context.Context, text string, params insight.Params) (string, error) {
	m.summarizeCalls++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text, params)
	}

	return insight.Truncate(fmt.Sprintf("mock summary of %d input bytes", len(text))), nil
}

// Sentiment returns neutral unless SentimentFunc is set.
func (m *MockGenerator) Sentiment(ctx context.Context, text string) (insight.Sentiment, error) {
	m.sentimentCalls++

	if m.SentimentFunc != nil {
		return m.SentimentFunc(ctx, text)
	}

	return insight.Sentiment{Label: core.SentimentNeutral, Score: 1}, nil
}

// SummarizeCalls returns the number of times Summarize was called.
func (m *MockGenerator) SummarizeCalls() int {
	return m.summarizeCalls
}

// SentimentCalls returns the number of times Sentiment was called.
func (m *MockGenerator) SentimentCalls() int {
	return m.sentimentCalls
}

// Reset clears call counts and injected behavior.
func (m *MockGenerator) Reset() {
	m.summarizeCalls = 0
	m.sentimentCalls = 0
	m.SummarizeFunc = nil
	m.SentimentFunc = nil
}
