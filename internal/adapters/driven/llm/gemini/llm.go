// Package gemini provides a chat service adapter using the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driven.ChatService = (*ChatService)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Config holds configuration for the Gemini chat service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the chat model to use (default: gemini-1.5-flash).
	Model string

	// ClientOptions are passed to the underlying client, e.g. option.WithEndpoint.
	ClientOptions []option.ClientOption
}

// ChatService answers chat requests with a Gemini generative model.
type ChatService struct {
	client *genai.Client
	model  string
}

// NewChatService creates a new Gemini chat service.
func NewChatService(ctx context.Context, cfg Config) (*ChatService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, cfg.ClientOptions...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &ChatService{client: client, model: cfg.Model}, nil
}

// Chat sends the conversation and returns the text of the first candidate.
// System messages become the model's system instruction; the last message
// is sent and earlier ones form the chat history.
func (s *ChatService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	model := s.client.GenerativeModel(s.model)
	model.SetTemperature(float32(opts.Temperature))
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}

	var system []genai.Part
	history := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == driven.RoleSystem {
			system = append(system, genai.Text(msg.Content))
			continue
		}
		role := "user"
		if msg.Role == driven.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Content)}})
	}
	if len(history) == 0 {
		return "", errors.New("gemini: no messages")
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}

	last := history[len(history)-1]
	cs := model.StartChat()
	cs.History = history[:len(history)-1]

	logger.Debug("gemini: chat completion with %s (%d messages)", s.model, len(messages))
	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: no candidates in response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// ModelName returns the name of the chat model being used.
func (s *ChatService) ModelName() string {
	return s.model
}

// ProviderName returns "gemini".
func (s *ChatService) ProviderName() string {
	return "gemini"
}

// Close releases the underlying client.
func (s *ChatService) Close() error {
	return s.client.Close()
}
