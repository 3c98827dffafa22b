package driving

import "github.com/custodia-labs/studymate/internal/core/domain"

// SettingsService reads and updates application settings.
type SettingsService interface {
	// Get returns the effective settings: stored values over defaults.
	// API keys are not part of stored settings.
	Get() (*domain.AppSettings, error)

	// Value returns the effective value of a setting formatted for display.
	// The second return value is false for unknown keys.
	Value(key string) (string, bool)

	// Set parses raw for the given key, validates the resulting settings,
	// and persists the value.
	Set(key, raw string) error

	// Keys returns every supported setting key in sorted order.
	Keys() []string
}
