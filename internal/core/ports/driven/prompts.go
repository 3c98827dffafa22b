package driven

// PromptStore provides access to prompt templates.
// Implementations may load prompts from files or fall back to built-in text.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// A missing override is not an error; implementations return the default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptAnswerSystem is the system message for answering questions.
	// This prompt has no placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerUser is the user message template for answering questions.
	// It expects {context} and {question} placeholders.
	PromptAnswerUser = "answer_user"
)
