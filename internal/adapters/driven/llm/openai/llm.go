// Package openai provides a chat service adapter for OpenAI-compatible APIs.
// Groq is served through the same adapter with its own base URL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driven.ChatService = (*ChatService)(nil)

// Default configuration values.
const (
	DefaultBaseURL  = "https://api.openai.com/v1"
	GroqBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel    = "gpt-4o-mini"
	DefaultProvider = "openai"
	DefaultTimeout  = 120 * time.Second
)

// Config holds configuration for the chat service.
type Config struct {
	// APIKey is the provider API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Provider names the service in errors and logs (default: openai).
	Provider string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// ChatService sends chat completions to an OpenAI-compatible endpoint.
type ChatService struct {
	client   *goopenai.Client
	model    string
	provider string
}

// NewChatService creates a new chat service.
func NewChatService(cfg Config) (*ChatService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &ChatService{
		client:   goopenai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
	}, nil
}

// NewGroqChatService creates a chat service pointed at Groq.
func NewGroqChatService(apiKey, model string) (*ChatService, error) {
	return NewChatService(Config{
		APIKey:   apiKey,
		BaseURL:  GroqBaseURL,
		Model:    model,
		Provider: "groq",
	})
}

// Chat sends one synchronous completion request and returns the first choice.
func (s *ChatService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%s: no messages", s.provider)
	}

	req := goopenai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    make([]goopenai.ChatCompletionMessage, 0, len(messages)),
		Temperature: temperature(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{
			Role:    toRole(msg.Role),
			Content: msg.Content,
		})
	}

	logger.Debug("%s: chat completion with %s (%d messages)", s.provider, s.model, len(messages))
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s: chat completion: %w", s.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", s.provider)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// temperature converts t for the request. go-openai omits a zero
// temperature, which the API reads as its default of 1.0, so greedy
// sampling is sent as the smallest positive float32 instead.
func temperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func toRole(role string) string {
	switch role {
	case driven.RoleSystem:
		return goopenai.ChatMessageRoleSystem
	case driven.RoleAssistant:
		return goopenai.ChatMessageRoleAssistant
	default:
		return goopenai.ChatMessageRoleUser
	}
}

// ModelName returns the name of the chat model being used.
func (s *ChatService) ModelName() string {
	return s.model
}

// ProviderName returns the configured provider name.
func (s *ChatService) ProviderName() string {
	return s.provider
}

// Close releases resources.
func (s *ChatService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
