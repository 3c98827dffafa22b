// Package env loads provider credentials from the process environment.
//
// Keys may be seeded from .env files; variables already set in the shell
// always win over file values.
package env

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// Credentials holds the API keys read from the environment.
type Credentials struct {
	GroqAPIKey   string `envconfig:"GROQ_API_KEY"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
}

// Load seeds the environment from the given .env files, then decodes the
// credentials. Missing files are skipped; malformed files are an error.
// With no files, ".env" in the working directory is tried.
func Load(files ...string) (*Credentials, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var creds Credentials
	if err := envconfig.Process("", &creds); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &creds, nil
}

// APIKey returns the key for a provider, or "" when none is set.
func (c *Credentials) APIKey(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderGroq:
		return strings.TrimSpace(c.GroqAPIKey)
	case domain.AIProviderOpenAI:
		return strings.TrimSpace(c.OpenAIAPIKey)
	case domain.AIProviderGemini:
		return strings.TrimSpace(c.GeminiAPIKey)
	default:
		return ""
	}
}

// Apply fills empty API keys in settings from the environment.
func (c *Credentials) Apply(settings *domain.AppSettings) {
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = c.APIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = c.APIKey(settings.LLM.Provider)
	}
}

// Require checks that every listed provider has a key and names all
// missing variables in one domain.ErrMissingCredentials error.
func (c *Credentials) Require(providers ...domain.AIProvider) error {
	var missing []string
	seen := make(map[domain.AIProvider]bool)
	for _, p := range providers {
		if seen[p] {
			continue
		}
		seen[p] = true
		if c.APIKey(p) == "" {
			missing = append(missing, p.APIKeyEnv())
		}
	}

	switch len(missing) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w: %s is not set", domain.ErrMissingCredentials, missing[0])
	default:
		return fmt.Errorf("%w: %s are not set", domain.ErrMissingCredentials, strings.Join(missing, ", "))
	}
}
