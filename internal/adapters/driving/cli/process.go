package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/connectors/filesystem"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

var processURL string

var processCmd = &cobra.Command{
	Use:   "process [pdf...]",
	Short: "Process study materials into an index",
	Long: `Reads PDF files and an optional web page, splits them into passages,
embeds every passage and saves the resulting index.

Directories are searched recursively for *.pdf files. PDFs and the website
are processed independently: a failure in one is reported and the other is
still indexed. The new index replaces any previously saved one.`,
	Annotations: needsAI(),
	RunE:        runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processURL, "url", "u", "", "website to include")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	req := filesystem.NewProcessRequest(args, processURL)
	req.SaveTo = resolveIndexPath()

	report, err := sessionService.Process(cmd.Context(), req)
	if report != nil {
		printFailures(cmd, report)
	}
	if err != nil {
		return err
	}

	cmd.Println(report.Summary())
	if report.SavedTo != "" {
		cmd.Printf("Index saved to %s\n", report.SavedTo)
	}
	return nil
}

// printFailures reports each source that could not be ingested.
func printFailures(cmd *cobra.Command, report *domain.ProcessReport) {
	for _, f := range report.Failures() {
		cmd.PrintErrf("Warning: %v\n", f.Err)
	}
}
