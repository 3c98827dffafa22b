package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// Test helper functions in config.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfigCmd_Show(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	t.Setenv("OPENAI_API_KEY", "sk-1234567890abcdef")
	t.Setenv("GROQ_API_KEY", "")

	stdout, _, err := execute("config")

	require.NoError(t, err)
	assert.Contains(t, stdout, "[Chunker]")
	assert.Contains(t, stdout, "Chunk size: 15000")
	assert.Contains(t, stdout, "Overlap: 500")
	assert.Contains(t, stdout, "Top K: 3")
	assert.Contains(t, stdout, "Model: llama-3.3-70b-versatile")
	assert.Contains(t, stdout, "Temperature: 0.3")
	assert.Contains(t, stdout, "API Key: sk-1...cdef (OPENAI_API_KEY)")
	assert.Contains(t, stdout, "API Key: (not set, export GROQ_API_KEY)")
	assert.Contains(t, stdout, "Path: /tmp/studymate-test/index.db")
	assert.Contains(t, stdout, "Configuration is valid.")
}

func TestConfigCmd_GetSet(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute("config", "set", "retrieval.top_k", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "retrieval.top_k = 5")

	stdout, _, err = execute("config", "get", "retrieval.top_k")
	require.NoError(t, err)
	assert.Equal(t, "5", strings.TrimSpace(stdout))
}

func TestConfigCmd_SetRejectsInvalid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute("config", "set", "chunker.overlap", "20000")

	require.ErrorIs(t, err, domain.ErrInvalidInput)

	stdout, _, err := execute("config", "get", "chunker.overlap")
	require.NoError(t, err)
	assert.Equal(t, "500", strings.TrimSpace(stdout))
}

func TestConfigCmd_GetUnknown(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute("config", "get", "nope")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "chunker.chunk_size")
}

func TestConfigCmd_Keys(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute("config", "keys")

	require.NoError(t, err)
	for _, k := range settingsService.Keys() {
		assert.Contains(t, stdout, k)
	}
}

func TestConfigCmd_Wizard(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	t.Setenv("GEMINI_API_KEY", "")

	// Embedding: second provider with its default model; chat: first provider, custom model
	rootCmd.SetIn(strings.NewReader("2\n\n1\nmy-model\n"))
	defer rootCmd.SetIn(nil)

	stdout, _, err := execute("config", "wizard")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration Complete!")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	providers := domain.AllEmbeddingProviders()
	assert.Equal(t, providers[1], settings.Embedding.Provider)
	assert.Equal(t, domain.DefaultEmbeddingModels()[providers[1]], settings.Embedding.Model)
	assert.Equal(t, domain.AllLLMProviders()[0], settings.LLM.Provider)
	assert.Equal(t, "my-model", settings.LLM.Model)
}

func TestConfigCmd_NoSettingsService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, _, err := execute("config")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
