package driven

import "context"

// ChatService sends chat-completion requests to a language model.
//
// Implementations include:
//   - Groq (llama-3.3-70b-versatile), the default
//   - OpenAI (gpt-4o-mini)
type ChatService interface {
	// Chat sends the messages as one synchronous request and returns the
	// text of the first choice.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// ProviderName returns the provider identifier used in error messages.
	ProviderName() string

	// Close releases resources.
	Close() error
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of RoleSystem, RoleUser, or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate (0 = provider default).
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
