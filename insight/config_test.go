package insight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.NotEmpty(t, cfg.Model)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://model-server:9100"),
		WithModel("llama3.2:3b"),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://model-server:9100/v1", cfg.Host)
	assert.Equal(t, "llama3.2:3b", cfg.Model)
}

func TestConfig_Normalize(t *testing.T) {
	cfg := &Config{Host: "http://localhost:11434/", Model: "m"}
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)

	// Already normalized hosts stay untouched.
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
}

func TestConfig_Validate_Missing(t *testing.T) {
	assert.Error(t, (&Config{Model: "m"}).Validate())
	assert.Error(t, (&Config{Host: "http://h"}).Validate())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))

	long := strings.Repeat("a", MaxSummaryLength+10)
	assert.Len(t, Truncate(long), MaxSummaryLength)
}
