package openai

import (
	"fmt"

	"github.com/doctrail/doctrail/insight"
)

const summaryPrompt = `You are a data quality analyst. Summarize the state of the
submitted artifact and suggest one concrete follow-up action, in at most 80 words.
Respond with plain text only, no markdown, no preamble.`

const sentimentPrompt = `Classify the sentiment of the given text and return JSON.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or
acknowledgment. Start your response directly with the opening brace { and end with
the closing brace }. Your output must exactly follow this schema:

{"sentiment": "positive" | "neutral" | "negative", "confidence": <number between 0 and 1>}

Rules:
- Pick exactly one of the three sentiment values.
- Confidence reflects how clearly the text expresses that sentiment.
- The JSON must parse without errors; no trailing commas, no extra keys, and no
  extraneous text outside the object.

Example:
Input: "We are very happy with the delivered goods."
Output:
{"sentiment": "positive", "confidence": 0.92}`

// buildSummaryInput combines the text with the caller parameters so the
// model sees the context of the run.
func buildSummaryInput(text string, params insight.Params) string {
	if params.ParamA == "" && params.ParamB == "" {
		return text
	}
	return fmt.Sprintf("Context: %s / %s\n\n%s", params.ParamA, params.ParamB, text)
}
