// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"

	geminiembed "github.com/custodia-labs/studymate/internal/adapters/driven/embedding/gemini"
	openaiembed "github.com/custodia-labs/studymate/internal/adapters/driven/embedding/openai"
	geminillm "github.com/custodia-labs/studymate/internal/adapters/driven/llm/gemini"
	openaillm "github.com/custodia-labs/studymate/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	ChatService      driven.ChatService
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.ChatService != nil {
		r.ChatService.Close()
	}
}

// Initialise creates the embedding and chat services described by settings.
// Both are required; if the chat service fails the embedding service is closed.
func Initialise(ctx context.Context, settings *domain.AppSettings) (*InitResult, error) {
	embedder, err := CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}

	chat, err := CreateChatService(ctx, &settings.LLM)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	return &InitResult{EmbeddingService: embedder, ChatService: chat}, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrEmbeddingUnavailable)
	}
	if !settings.Provider.SupportsEmbedding() {
		return nil, fmt.Errorf("%w: %q does not support embeddings, use openai or gemini",
			domain.ErrEmbeddingUnavailable, settings.Provider)
	}
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrMissingCredentials, settings.Provider.APIKeyEnv())
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderGemini:
		return createGeminiEmbedding(ctx, settings)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateChatService creates the appropriate chat service based on settings.
func CreateChatService(ctx context.Context, settings *domain.LLMSettings) (driven.ChatService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no chat settings", domain.ErrCompletionUnavailable)
	}
	if !settings.Provider.SupportsChat() {
		return nil, fmt.Errorf("%w: unsupported chat provider %q", domain.ErrCompletionUnavailable, settings.Provider)
	}
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrMissingCredentials, settings.Provider.APIKeyEnv())
	}

	switch settings.Provider {
	case domain.AIProviderGroq:
		return createGroqChat(settings)

	case domain.AIProviderOpenAI:
		return createOpenAIChat(settings)

	case domain.AIProviderGemini:
		return createGeminiChat(ctx, settings)

	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", settings.Provider)
	}
}

// embeddingDimensions looks up the vector size for a known model, or 0.
func embeddingDimensions(model string) int {
	return domain.EmbeddingDimensions()[model]
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:            settings.APIKey,
		BaseURL:           settings.BaseURL,
		Model:             settings.Model,
		Dimensions:        embeddingDimensions(settings.Model),
		BatchSize:         settings.BatchSize,
		RequestsPerMinute: settings.RequestsPerMinute,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createGeminiEmbedding creates a Gemini embedding service.
func createGeminiEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
		APIKey:            settings.APIKey,
		Model:             settings.Model,
		Dimensions:        embeddingDimensions(settings.Model),
		BatchSize:         settings.BatchSize,
		RequestsPerMinute: settings.RequestsPerMinute,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createGroqChat creates a chat service against Groq's OpenAI-compatible API.
func createGroqChat(settings *domain.LLMSettings) (driven.ChatService, error) {
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = openaillm.GroqBaseURL
	}
	svc, err := openaillm.NewChatService(openaillm.Config{
		APIKey:   settings.APIKey,
		BaseURL:  baseURL,
		Model:    settings.Model,
		Provider: domain.AIProviderGroq.String(),
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createOpenAIChat creates an OpenAI chat service.
func createOpenAIChat(settings *domain.LLMSettings) (driven.ChatService, error) {
	svc, err := openaillm.NewChatService(openaillm.Config{
		APIKey:   settings.APIKey,
		BaseURL:  settings.BaseURL,
		Model:    settings.Model,
		Provider: domain.AIProviderOpenAI.String(),
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createGeminiChat creates a Gemini chat service.
func createGeminiChat(ctx context.Context, settings *domain.LLMSettings) (driven.ChatService, error) {
	svc, err := geminillm.NewChatService(ctx, geminillm.Config{
		APIKey: settings.APIKey,
		Model:  settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}
