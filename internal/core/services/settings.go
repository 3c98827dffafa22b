package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyChunkSize         = "chunker.chunk_size"
	keyChunkOverlap      = "chunker.overlap"
	keyTopK              = "retrieval.top_k"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedBatchSize    = "embedding.batch_size"
	keyEmbedRPM          = "embedding.requests_per_minute"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMTemperature    = "llm.temperature"
	keyLLMMaxTokens      = "llm.max_tokens"
	keyIndexPath         = "index.path"
	keyWebUserAgent      = "web.user_agent"
	keyWebTimeoutSeconds = "web.timeout_seconds"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindProvider
)

// setting binds a config key to a field of domain.AppSettings.
type setting struct {
	kind  valueKind
	get   func(s *domain.AppSettings) any
	apply func(s *domain.AppSettings, v any)
}

var settingsTable = map[string]setting{
	keyChunkSize: {kindInt,
		func(s *domain.AppSettings) any { return s.Chunker.ChunkSize },
		func(s *domain.AppSettings, v any) { s.Chunker.ChunkSize = v.(int) }},
	keyChunkOverlap: {kindInt,
		func(s *domain.AppSettings) any { return s.Chunker.Overlap },
		func(s *domain.AppSettings, v any) { s.Chunker.Overlap = v.(int) }},
	keyTopK: {kindInt,
		func(s *domain.AppSettings) any { return s.TopK },
		func(s *domain.AppSettings, v any) { s.TopK = v.(int) }},
	keyEmbedProvider: {kindProvider,
		func(s *domain.AppSettings) any { return s.Embedding.Provider.String() },
		func(s *domain.AppSettings, v any) { s.Embedding.Provider = domain.AIProvider(v.(string)) }},
	keyEmbedModel: {kindString,
		func(s *domain.AppSettings) any { return s.Embedding.Model },
		func(s *domain.AppSettings, v any) { s.Embedding.Model = v.(string) }},
	keyEmbedBaseURL: {kindString,
		func(s *domain.AppSettings) any { return s.Embedding.BaseURL },
		func(s *domain.AppSettings, v any) { s.Embedding.BaseURL = v.(string) }},
	keyEmbedBatchSize: {kindInt,
		func(s *domain.AppSettings) any { return s.Embedding.BatchSize },
		func(s *domain.AppSettings, v any) { s.Embedding.BatchSize = v.(int) }},
	keyEmbedRPM: {kindInt,
		func(s *domain.AppSettings) any { return s.Embedding.RequestsPerMinute },
		func(s *domain.AppSettings, v any) { s.Embedding.RequestsPerMinute = v.(int) }},
	keyLLMProvider: {kindProvider,
		func(s *domain.AppSettings) any { return s.LLM.Provider.String() },
		func(s *domain.AppSettings, v any) { s.LLM.Provider = domain.AIProvider(v.(string)) }},
	keyLLMModel: {kindString,
		func(s *domain.AppSettings) any { return s.LLM.Model },
		func(s *domain.AppSettings, v any) { s.LLM.Model = v.(string) }},
	keyLLMBaseURL: {kindString,
		func(s *domain.AppSettings) any { return s.LLM.BaseURL },
		func(s *domain.AppSettings, v any) { s.LLM.BaseURL = v.(string) }},
	keyLLMTemperature: {kindFloat,
		func(s *domain.AppSettings) any { return s.LLM.Temperature },
		func(s *domain.AppSettings, v any) { s.LLM.Temperature = v.(float64) }},
	keyLLMMaxTokens: {kindInt,
		func(s *domain.AppSettings) any { return s.LLM.MaxTokens },
		func(s *domain.AppSettings, v any) { s.LLM.MaxTokens = v.(int) }},
	keyIndexPath: {kindString,
		func(s *domain.AppSettings) any { return s.IndexPath },
		func(s *domain.AppSettings, v any) { s.IndexPath = v.(string) }},
	keyWebUserAgent: {kindString,
		func(s *domain.AppSettings) any { return s.Web.UserAgent },
		func(s *domain.AppSettings, v any) { s.Web.UserAgent = v.(string) }},
	keyWebTimeoutSeconds: {kindInt,
		func(s *domain.AppSettings) any { return int(s.Web.Timeout / time.Second) },
		func(s *domain.AppSettings, v any) { s.Web.Timeout = time.Duration(v.(int)) * time.Second }},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore      driven.ConfigStore
	defaultIndexPath string
}

// NewSettingsService creates a new settings service.
// defaultIndexPath is used when index.path is not configured.
func NewSettingsService(configStore driven.ConfigStore, defaultIndexPath string) *SettingsService {
	return &SettingsService{
		configStore:      configStore,
		defaultIndexPath: defaultIndexPath,
	}
}

// Get retrieves current application settings.
// Unset keys and invalid providers fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	settings.IndexPath = s.defaultIndexPath

	for key, st := range settingsTable {
		if _, exists := s.configStore.Get(key); !exists {
			continue
		}
		switch st.kind {
		case kindString:
			if v := s.configStore.GetString(key); v != "" {
				st.apply(&settings, v)
			}
		case kindInt:
			st.apply(&settings, s.configStore.GetInt(key))
		case kindFloat:
			st.apply(&settings, s.configStore.GetFloat(key))
		case kindProvider:
			if p := domain.AIProvider(s.configStore.GetString(key)); p.IsValid() {
				st.apply(&settings, p.String())
			}
		}
	}

	// A provider switch without an explicit model uses that provider's default.
	if _, ok := s.configStore.Get(keyEmbedModel); !ok {
		if m, ok := domain.DefaultEmbeddingModels()[settings.Embedding.Provider]; ok {
			settings.Embedding.Model = m
		}
	}
	if _, ok := s.configStore.Get(keyLLMModel); !ok {
		if m, ok := domain.DefaultLLMModels()[settings.LLM.Provider]; ok {
			settings.LLM.Model = m
		}
	}

	return &settings, nil
}

// Value returns the effective value of key formatted for display.
func (s *SettingsService) Value(key string) (string, bool) {
	st, ok := settingsTable[key]
	if !ok {
		return "", false
	}
	settings, err := s.Get()
	if err != nil {
		return "", false
	}
	switch v := st.get(settings).(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}

// Set parses and validates raw, then persists it under key.
func (s *SettingsService) Set(key, raw string) error {
	st, ok := settingsTable[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	value, err := parseSetting(st.kind, strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	st.apply(settings, value)
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the supported setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingsTable))
	for k := range settingsTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseSetting(kind valueKind, raw string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", raw)
		}
		if n < 0 {
			return nil, fmt.Errorf("must not be negative, got %d", n)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", raw)
		}
		return f, nil
	case kindProvider:
		p := domain.AIProvider(strings.ToLower(raw))
		if !p.IsValid() {
			return nil, fmt.Errorf("unknown provider %q", raw)
		}
		return p.String(), nil
	default:
		return raw, nil
	}
}
