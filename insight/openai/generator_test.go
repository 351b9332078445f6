package openai

import (
	"testing"

	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/insight"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, core.SentimentPositive, normalizeLabel("positive"))
	assert.Equal(t, core.SentimentPositive, normalizeLabel(" POSITIVE "))
	assert.Equal(t, core.SentimentNegative, normalizeLabel("negative"))
	assert.Equal(t, core.SentimentNeutral, normalizeLabel("neutral"))
	assert.Equal(t, core.SentimentNeutral, normalizeLabel("ecstatic"))
	assert.Equal(t, core.SentimentNeutral, normalizeLabel(""))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, float32(0), clampScore(-0.5))
	assert.Equal(t, float32(1), clampScore(1.5))
	assert.Equal(t, float32(0.7), clampScore(0.7))
}

func TestBuildSummaryInput(t *testing.T) {
	assert.Equal(t, "text", buildSummaryInput("text", insight.Params{}))

	withParams := buildSummaryInput("text", insight.Params{ParamA: "q3", ParamB: "sales"})
	assert.Contains(t, withParams, "q3")
	assert.Contains(t, withParams, "sales")
	assert.Contains(t, withParams, "text")
}
