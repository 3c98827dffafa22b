package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderGroq.IsValid())
	assert.True(t, AIProviderGemini.IsValid())
	assert.False(t, AIProvider("ollama").IsValid())
}

func TestAIProvider_Capabilities(t *testing.T) {
	assert.True(t, AIProviderOpenAI.SupportsEmbedding())
	assert.True(t, AIProviderOpenAI.SupportsChat())
	assert.False(t, AIProviderGroq.SupportsEmbedding())
	assert.True(t, AIProviderGroq.SupportsChat())
	assert.True(t, AIProviderGemini.SupportsEmbedding())
	assert.True(t, AIProviderGemini.SupportsChat())
}

func TestAIProvider_APIKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", AIProviderOpenAI.APIKeyEnv())
	assert.Equal(t, "GROQ_API_KEY", AIProviderGroq.APIKeyEnv())
	assert.Equal(t, "GEMINI_API_KEY", AIProviderGemini.APIKeyEnv())
	assert.Empty(t, AIProvider("x").APIKeyEnv())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Groq (cloud)", AIProviderGroq.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, 15000, s.Chunker.ChunkSize)
	assert.Equal(t, 500, s.Chunker.Overlap)
	assert.Equal(t, 3, s.TopK)
	assert.Equal(t, AIProviderGroq, s.LLM.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", s.LLM.Model)
	assert.InDelta(t, 0.3, s.LLM.Temperature, 1e-6)
	assert.Equal(t, AIProviderOpenAI, s.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", s.Embedding.Model)
	require.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"zero chunk size", func(s *AppSettings) { s.Chunker.ChunkSize = 0 }},
		{"negative overlap", func(s *AppSettings) { s.Chunker.Overlap = -1 }},
		{"overlap not below chunk size", func(s *AppSettings) { s.Chunker.Overlap = s.Chunker.ChunkSize }},
		{"zero top k", func(s *AppSettings) { s.TopK = 0 }},
		{"groq embeddings", func(s *AppSettings) { s.Embedding.Provider = AIProviderGroq }},
		{"gemini chat", func(s *AppSettings) { s.LLM.Provider = AIProviderGemini }},
		{"temperature too high", func(s *AppSettings) { s.LLM.Temperature = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestSettings_IsConfigured(t *testing.T) {
	e := EmbeddingSettings{Provider: AIProviderOpenAI}
	assert.False(t, e.IsConfigured())
	e.APIKey = "sk-test"
	assert.True(t, e.IsConfigured())

	l := LLMSettings{Provider: AIProviderGemini, APIKey: "k"}
	assert.False(t, l.IsConfigured())
	l.Provider = AIProviderGroq
	assert.True(t, l.IsConfigured())
}

func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
	assert.Equal(t, 768, dims["text-embedding-004"])
}
