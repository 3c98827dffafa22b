package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in splitters with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// NewDefault builds the default splitter for the given size and overlap.
func NewDefault(chunkSize, overlap int) (driven.Splitter, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.Build("chunker", map[string]any{
		"chunk_size": chunkSize,
		"overlap":    overlap,
	})
}

// buildChunker creates a chunker from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 15000)
//   - overlap (int): Overlapping characters between chunks (default: 500)
//   - separators ([]string): Separator hierarchy, coarsest first
func buildChunker(cfg map[string]any) (driven.Splitter, error) {
	var opts []chunker.Option

	if cfg != nil {
		size, hasSize := getIntFromConfig(cfg, "chunk_size")
		if hasSize {
			if size <= 0 {
				return nil, fmt.Errorf("chunker: chunk_size must be positive, got %d", size)
			}
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if overlap, ok := getIntFromConfig(cfg, "overlap"); ok {
			if overlap < 0 {
				return nil, fmt.Errorf("chunker: overlap must not be negative, got %d", overlap)
			}
			if hasSize && overlap >= size {
				return nil, fmt.Errorf("chunker: overlap %d must be smaller than chunk_size %d", overlap, size)
			}
			opts = append(opts, chunker.WithOverlap(overlap))
		}
		if seps := getStringsFromConfig(cfg, "separators"); len(seps) > 0 {
			opts = append(opts, chunker.WithSeparators(seps))
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func getStringsFromConfig(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
