package insight

import (
	"context"

	"github.com/doctrail/doctrail/core"
)

// DegradedSummary is the placeholder substituted when the generation
// capability is unavailable or times out.
const DegradedSummary = "summary unavailable"

// MaxSummaryLength bounds every generated summary.
const MaxSummaryLength = 512

// Params contextualize a tabular summarization run. They are the two
// caller-supplied upload parameters, passed through to the prompt.
type Params struct {
	ParamA string
	ParamB string
}

// Sentiment is a label with its confidence score.
type Sentiment struct {
	Label core.SentimentLabel
	Score float32 // in [0,1]
}

// Generator produces free-text summaries and sentiment labels.
// Implementations must be thread-safe for concurrent use and
// deterministic for a fixed model and fixed input.
type Generator interface {
	// Summarize generates a bounded free-text summary of the input.
	// For tabular runs the input is the validation report plus sample
	// rows; for documents it is the extracted text blocks.
	Summarize(ctx context.Context, text string, params Params) (string, error)

	// Sentiment scores the emotional tone of the text.
	Sentiment(ctx context.Context, text string) (Sentiment, error)
}

// Truncate bounds a summary to MaxSummaryLength characters.
func Truncate(summary string) string {
	if len(summary) > MaxSummaryLength {
		return summary[:MaxSummaryLength]
	}
	return summary
}
