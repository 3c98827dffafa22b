// Package cli implements the studymate command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Command annotations consumed by the root pre-run hook.
const (
	// annotationNeedsAI marks commands that call the embedding or chat provider.
	annotationNeedsAI = "studymate.needs-ai"

	// annotationNoServices marks commands that run without any services.
	annotationNoServices = "studymate.no-services"
)

var version = "dev"

// Global flags.
var (
	verbose    bool
	configPath string
	indexPath  string
)

// Services used by commands. Set by the service factory or directly in tests.
var (
	sessionService   driving.SessionService
	settingsService  driving.SettingsService
	defaultIndexPath string
)

var (
	serviceFactory ServiceFactory
	activeServices *Services
)

// Options tells the service factory what the running command needs.
type Options struct {
	// ConfigPath overrides the settings file location.
	ConfigPath string

	// NeedsAI is true when the command calls the embedding or chat provider,
	// so credentials must be present.
	NeedsAI bool
}

// Services is the set of driving ports the commands run against.
type Services struct {
	Session  driving.SessionService
	Settings driving.SettingsService

	// IndexPath is the configured location of the saved index.
	IndexPath string

	// Close releases provider clients and the session index.
	Close func() error
}

// ServiceFactory builds the services for one command invocation.
type ServiceFactory func(ctx context.Context, opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "studymate",
	Short: "Ask questions about your study materials",
	Long: `Studymate turns PDFs and web pages into a searchable index and answers
questions about them as structured study notes.

Process your materials once, then ask as many questions as you like:

  studymate process lecture1.pdf lecture2.pdf --url https://example.com/notes
  studymate ask "What is the difference between mitosis and meiosis?"
  studymate chat`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: teardownServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline details to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default ~/.studymate/config.toml)")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", "", "index file (default from settings)")
}

// SetServiceFactory installs the factory that builds services before each command.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	defer func() {
		if err := closeServices(); err != nil {
			logger.Debug("closing services: %v", err)
		}
	}()

	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", domain.UserMessage(err))
		return 1
	}
	return 0
}

// setupServices builds services for the command about to run.
// With no factory installed the package-level services are used as they are.
func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationNoServices] == "true" || serviceFactory == nil {
		return nil
	}

	svc, err := serviceFactory(cmd.Context(), Options{
		ConfigPath: configPath,
		NeedsAI:    cmd.Annotations[annotationNeedsAI] == "true",
	})
	if err != nil {
		return err
	}

	activeServices = svc
	sessionService = svc.Session
	settingsService = svc.Settings
	defaultIndexPath = svc.IndexPath
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) error {
	return closeServices()
}

func closeServices() error {
	if activeServices == nil || activeServices.Close == nil {
		activeServices = nil
		return nil
	}
	err := activeServices.Close()
	activeServices = nil
	return err
}

// resolveIndexPath returns the --index flag, falling back to the configured path.
func resolveIndexPath() string {
	if indexPath != "" {
		return indexPath
	}
	return defaultIndexPath
}

func needsAI() map[string]string {
	return map[string]string{annotationNeedsAI: "true"}
}
