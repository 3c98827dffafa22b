package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect the saved index",
	Long:  `Commands for the index built by "studymate process".`,
}

var indexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show details of the saved index",
	Long: `Reads the header of the saved index without loading its vectors and
prints when and with which embedding model it was built.`,
	RunE: runIndexInfo,
}

func init() {
	indexInfoCmd.Flags().BoolVar(&indexJSON, "json", false, "print as JSON")
	indexCmd.AddCommand(indexInfoCmd)
	rootCmd.AddCommand(indexCmd)
}

// indexInfoOutput is the JSON shape of an index header.
type indexInfoOutput struct {
	Path       string    `json:"path"`
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	Documents  int       `json:"documents"`
	Chunks     int       `json:"chunks"`
	CreatedAt  time.Time `json:"created_at"`
}

func runIndexInfo(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	path := resolveIndexPath()
	if path == "" {
		return fmt.Errorf("%w: no index path configured", domain.ErrInvalidInput)
	}

	info, err := sessionService.Inspect(cmd.Context(), path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no index at %s: %w", path, err)
		}
		return err
	}

	if indexJSON {
		data, err := json.MarshalIndent(indexInfoOutput{
			Path:       path,
			ID:         info.ID,
			Model:      info.Model,
			Dimensions: info.Dimensions,
			Documents:  info.Documents,
			Chunks:     info.Chunks,
			CreatedAt:  info.CreatedAt,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal index info: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Index:      %s\n", path)
	cmd.Printf("ID:         %s\n", info.ID)
	cmd.Printf("Model:      %s\n", info.Model)
	cmd.Printf("Dimensions: %d\n", info.Dimensions)
	cmd.Printf("Documents:  %d\n", info.Documents)
	cmd.Printf("Chunks:     %d\n", info.Chunks)
	if !info.CreatedAt.IsZero() {
		cmd.Printf("Created:    %s\n", info.CreatedAt.Local().Format(time.RFC1123))
	}
	return nil
}
