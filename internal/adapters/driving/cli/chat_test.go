package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func chatTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestChatCmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "chat" {
			found = true
			break
		}
	}
	assert.True(t, found, "chat command should be registered")
}

func TestChatCmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive study chat", chatCmd.Short)
}

func TestChatCmd_LongDescription(t *testing.T) {
	assert.Contains(t, chatCmd.Long, "interactive terminal chat")
	assert.Contains(t, chatCmd.Long, "Controls:")
}

func TestChatCmd_HelpOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute("chat", "--help")

	require.NoError(t, err)
	assert.Contains(t, stdout, "interactive terminal chat")
	assert.Contains(t, stdout, "--url")
}

func TestBuildChatApp_LoadsSavedIndex(t *testing.T) {
	session := &mockSessionService{}
	cleanup := setupTestServicesWith(session)
	defer cleanup()

	app, err := buildChatApp(chatTestCommand(), nil)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, []string{"/tmp/studymate-test/index.db"}, session.loadPaths)
}

func TestBuildChatApp_MissingIndexIsFine(t *testing.T) {
	cleanup := setupTestServicesWith(&mockSessionService{
		LoadFunc: func(context.Context, string) (*domain.IndexInfo, error) {
			return nil, domain.ErrNotFound
		},
	})
	defer cleanup()

	app, err := buildChatApp(chatTestCommand(), nil)

	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestBuildChatApp_BrokenIndexStillOpens(t *testing.T) {
	cleanup := setupTestServicesWith(&mockSessionService{
		LoadFunc: func(context.Context, string) (*domain.IndexInfo, error) {
			return nil, errors.New("corrupt")
		},
	})
	defer cleanup()

	app, err := buildChatApp(chatTestCommand(), nil)

	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestBuildChatApp_QueuesInputs(t *testing.T) {
	session := &mockSessionService{}
	cleanup := setupTestServicesWith(session)
	defer cleanup()
	chatURL = "https://example.com"

	app, err := buildChatApp(chatTestCommand(), nil)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Empty(t, session.loadPaths, "inputs replace the saved index")
}

func TestBuildChatApp_MissingPDFStillOpens(t *testing.T) {
	session := &mockSessionService{}
	cleanup := setupTestServicesWith(session)
	defer cleanup()
	chatURL = "https://example.com"

	app, err := buildChatApp(chatTestCommand(), []string{"/no/such.pdf"})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Empty(t, session.loadPaths, "the unreadable PDF is reported by processing")
}

func TestBuildChatApp_NoSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	sessionService = nil

	_, err := buildChatApp(chatTestCommand(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "session service is required")
}
