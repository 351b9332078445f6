package mock

import (
	"context"

	"github.com/doctrail/doctrail/extraction"
)

// MockExtractor is a test double for extraction.TextExtractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, returns a fixed single-block extraction.
	ExtractFunc func(ctx context.Context, content []byte, mediaType string) (*extraction.Extraction, error)

	callCount int
}

// NewMockExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns a deterministic extraction unless ExtractFunc is set.
func (m *MockExtractor) Extract(ctx context.Context, content []byte, mediaType string) (*extraction.Extraction, error) {
	m.callCount++

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, content, mediaType)
	}

	if err := extraction.CheckMediaType(mediaType); err != nil {
		return nil, err
	}

	return &extraction.Extraction{
		TextBlocks: []string{"mock extracted text"},
		Confidence: 0.99,
	}, nil
}

// CallCount returns the number of times Extract was called.
func (m *MockExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockExtractor) Reset() {
	m.callCount = 0
	m.ExtractFunc = nil
}
