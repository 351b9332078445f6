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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/insight"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements insight.Generator using OpenAI-compatible chat APIs.
// Generation runs at temperature zero so a fixed model and fixed input
// always yield the same output.
type Generator struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

// sentimentResponse matches the JSON structure the model is asked to emit.
type sentimentResponse struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float32 `json:"confidence"`
}

var _ insight.Generator = (*Generator)(nil)

// NewGenerator creates a generator against an OpenAI-compatible endpoint.
//
// Returns insight.Generator interface to enforce abstraction.
func NewGenerator(config *insight.Config) (insight.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// "none" as token for local services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		model:  config.Model,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// Summarize generates a bounded summary of the input text.
func (g *Generator) Summarize(ctx context.Context, text string, params insight.Params) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(summaryPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildSummaryInput(text, params))},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		g.logger.Error("failed to generate summary", "model", g.model, "err", err)
		return "", fmt.Errorf("%w: %v", core.ErrCapabilityUnavailable, err)
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("%w: no choices returned", core.ErrCapabilityUnavailable)
	}

	return insight.Truncate(strings.TrimSpace(response.Choices[0].Content)), nil
}

// Sentiment scores the emotional tone of the text.
func (g *Generator) Sentiment(ctx context.Context, text string) (insight.Sentiment, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(sentimentPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var parsed sentimentResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			g.logger.Error("failed to generate sentiment", "attempt", attempt+1, "err", err)
			return insight.Sentiment{}, fmt.Errorf("%w: %v", core.ErrCapabilityUnavailable, err)
		}
		if len(response.Choices) < 1 {
			return insight.Sentiment{}, fmt.Errorf("%w: no choices returned", core.ErrCapabilityUnavailable)
		}

		responseText := stripFences(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
			lastErr = err
			g.logger.Warn("error parsing sentiment response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}
	if lastErr != nil {
		g.logger.Error("failed to parse sentiment response after retries", "err", lastErr)
		return insight.Sentiment{}, fmt.Errorf("%w: %v", core.ErrCapabilityUnavailable, lastErr)
	}

	return insight.Sentiment{
		Label: normalizeLabel(parsed.Sentiment),
		Score: clampScore(parsed.Confidence),
	}, nil
}

// stripFences removes markdown code fences LLMs sometimes wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// normalizeLabel maps model output to the closed sentiment set.
// Unrecognized labels fall back to neutral.
func normalizeLabel(label string) core.SentimentLabel {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive":
		return core.SentimentPositive
	case "negative":
		return core.SentimentNegative
	default:
		return core.SentimentNeutral
	}
}

func clampScore(score float32) float32 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
