package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func sampleIndexInfo() *domain.IndexInfo {
	return &domain.IndexInfo{
		ID:         "0b7c5c3e-idx",
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
		Documents:  12,
		Chunks:     30,
		CreatedAt:  time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestIndexInfoCmd_Prints(t *testing.T) {
	var gotPath string
	cleanup := setupTestServicesWith(&mockSessionService{
		InspectFunc: func(_ context.Context, path string) (*domain.IndexInfo, error) {
			gotPath = path
			return sampleIndexInfo(), nil
		},
	})
	defer cleanup()

	stdout, _, err := execute("index", "info")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/studymate-test/index.db", gotPath)
	assert.Contains(t, stdout, "Index:      /tmp/studymate-test/index.db")
	assert.Contains(t, stdout, "Model:      text-embedding-3-small")
	assert.Contains(t, stdout, "Dimensions: 1536")
	assert.Contains(t, stdout, "Documents:  12")
	assert.Contains(t, stdout, "Chunks:     30")
	assert.Contains(t, stdout, "Created:")
}

func TestIndexInfoCmd_JSON(t *testing.T) {
	cleanup := setupTestServicesWith(&mockSessionService{
		InspectFunc: func(context.Context, string) (*domain.IndexInfo, error) {
			return sampleIndexInfo(), nil
		},
	})
	defer cleanup()

	stdout, _, err := execute("index", "info", "--json")
	require.NoError(t, err)

	var out indexInfoOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "0b7c5c3e-idx", out.ID)
	assert.Equal(t, 30, out.Chunks)
	assert.True(t, out.CreatedAt.Equal(sampleIndexInfo().CreatedAt))
}

func TestIndexInfoCmd_Missing(t *testing.T) {
	cleanup := setupTestServicesWith(&mockSessionService{
		InspectFunc: func(context.Context, string) (*domain.IndexInfo, error) {
			return nil, domain.ErrNotFound
		},
	})
	defer cleanup()

	_, _, err := execute("index", "info", "--index", "/tmp/none.db")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "no index at /tmp/none.db")
}

func TestIndexInfoCmd_Error(t *testing.T) {
	cleanup := setupTestServicesWith(&mockSessionService{
		InspectFunc: func(context.Context, string) (*domain.IndexInfo, error) {
			return nil, errors.New("unreadable")
		},
	})
	defer cleanup()

	_, _, err := execute("index", "info")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreadable")
}

func TestIndexInfoCmd_NoPath(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defaultIndexPath = ""

	_, _, err := execute("index", "info")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
