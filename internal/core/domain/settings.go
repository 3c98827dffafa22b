package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// Default processing parameters.
const (
	// DefaultChunkSize is the maximum characters per chunk.
	DefaultChunkSize = 15000

	// DefaultChunkOverlap is the characters shared by adjacent chunks.
	DefaultChunkOverlap = 500

	// DefaultTemperature is the sampling temperature for answers.
	DefaultTemperature = 0.3

	// DefaultEmbeddingBatchSize is the number of texts per embedding request.
	DefaultEmbeddingBatchSize = 64

	// DefaultWebTimeout bounds a single website fetch.
	DefaultWebTimeout = 30 * time.Second

	// DefaultUserAgent is sent with website fetches.
	DefaultUserAgent = "studymate/1.0 (+https://github.com/custodia-labs/studymate)"
)

// AIProvider identifies an AI service provider for embeddings or chat.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is the Groq cloud API (OpenAI-compatible).
	AIProviderGroq AIProvider = "groq"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderGroq, AIProviderGemini:
		return true
	default:
		return false
	}
}

// SupportsEmbedding returns true if this provider can produce embeddings.
func (p AIProvider) SupportsEmbedding() bool {
	return p == AIProviderOpenAI || p == AIProviderGemini
}

// SupportsChat returns true if this provider can answer questions.
func (p AIProvider) SupportsChat() bool {
	return p.IsValid()
}

// APIKeyEnv returns the environment variable holding this provider's key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderGroq:
		return "GROQ_API_KEY"
	case AIProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// ChunkerSettings holds text splitting configuration.
type ChunkerSettings struct {
	// ChunkSize is the maximum characters per chunk.
	ChunkSize int

	// Overlap is the characters shared by adjacent chunks of one document.
	Overlap int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// BatchSize is the number of texts per request.
	BatchSize int

	// RequestsPerMinute throttles requests; 0 disables throttling.
	RequestsPerMinute int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.SupportsEmbedding() && e.APIKey != ""
}

// LLMSettings holds chat-completion provider configuration.
type LLMSettings struct {
	// Provider is the chat service provider.
	Provider AIProvider

	// Model is the chat model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// Temperature is the sampling temperature.
	Temperature float64

	// MaxTokens caps the response length; 0 leaves it to the provider.
	MaxTokens int
}

// IsConfigured returns true if the chat provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.SupportsChat() && l.APIKey != ""
}

// WebSettings holds website fetch configuration.
type WebSettings struct {
	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds a single fetch.
	Timeout time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Chunker holds splitting settings.
	Chunker ChunkerSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds chat provider settings.
	LLM LLMSettings

	// TopK is the number of chunks retrieved per question.
	TopK int

	// IndexPath is where the index is saved and loaded.
	IndexPath string

	// Web holds website fetch settings.
	Web WebSettings
}

// DefaultAppSettings returns settings with the documented defaults.
// API keys are left empty; they come from the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunker: ChunkerSettings{
			ChunkSize: DefaultChunkSize,
			Overlap:   DefaultChunkOverlap,
		},
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOpenAI,
			Model:     DefaultEmbeddingModels()[AIProviderOpenAI],
			BatchSize: DefaultEmbeddingBatchSize,
		},
		LLM: LLMSettings{
			Provider:    AIProviderGroq,
			Model:       DefaultLLMModels()[AIProviderGroq],
			Temperature: DefaultTemperature,
		},
		TopK: DefaultTopK,
		Web: WebSettings{
			UserAgent: DefaultUserAgent,
			Timeout:   DefaultWebTimeout,
		},
	}
}

// Validate checks settings that would otherwise fail deep inside a run.
func (s *AppSettings) Validate() error {
	if s.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidInput, s.Chunker.ChunkSize)
	}
	if s.Chunker.Overlap < 0 || s.Chunker.Overlap >= s.Chunker.ChunkSize {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d",
			ErrInvalidInput, s.Chunker.ChunkSize, s.Chunker.Overlap)
	}
	if s.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidInput, s.TopK)
	}
	if !s.Embedding.Provider.SupportsEmbedding() {
		return fmt.Errorf("%w: %q cannot serve embeddings", ErrInvalidInput, s.Embedding.Provider)
	}
	if !s.LLM.Provider.SupportsChat() {
		return fmt.Errorf("%w: %q cannot serve chat completions", ErrInvalidInput, s.LLM.Provider)
	}
	if s.LLM.Temperature < 0 || s.LLM.Temperature > 2 {
		return fmt.Errorf("%w: temperature must be in [0, 2], got %.2f", ErrInvalidInput, s.LLM.Temperature)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support chat completions.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGroq,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each chat provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:   "llama-3.3-70b-versatile",
		AIProviderOpenAI: "gpt-4o-mini",
		AIProviderGemini: "gemini-1.5-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004":   768,
		"gemini-embedding-001": 3072,
	}
}
