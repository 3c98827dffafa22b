package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui"
	"github.com/custodia-labs/studymate/internal/connectors/filesystem"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/logger"
)

var chatURL string

// chatCmd represents the chat command.
var chatCmd = &cobra.Command{
	Use:   "chat [pdf...]",
	Short: "Launch the interactive study chat",
	Long: `Launch the interactive terminal chat for your study materials.

PDFs and --url given on the command line are processed when the chat opens.
Without them the saved index is loaded, if there is one.

Controls:
  Enter      - Ask the typed question
  Tab        - Show the sources of the last answer
  PgUp/PgDn  - Scroll the transcript
  Ctrl+L     - Clear the transcript
  F1         - Toggle help
  Ctrl+C     - Quit`,
	Annotations: needsAI(),
	RunE:        runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatURL, "url", "u", "", "website to process on start")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := buildChatApp(cmd, args)
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}

// buildChatApp creates the chat app, queueing the inputs in args for processing.
func buildChatApp(cmd *cobra.Command, args []string) (*tui.App, error) {
	req := filesystem.NewProcessRequest(args, chatURL)

	if req.IsEmpty() && sessionService != nil {
		// Nothing to process: resume from the saved index
		if err := ensureLoaded(cmd.Context()); err != nil && !errors.Is(err, domain.ErrNotProcessed) {
			logger.Warn("could not load saved index: %v", err)
		}
	} else {
		req.SaveTo = resolveIndexPath()
	}

	app, err := tui.NewApp(tui.NewPorts(sessionService))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return app.WithContext(cmd.Context()).WithInitialRequest(req), nil
}
