package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/logger"
)

var (
	askK    int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your study materials",
	Long: `Answers a question from the processed study materials.

The most similar passages are retrieved from the saved index and handed to
the chat model, which writes the answer as structured study notes. The
passages used are listed as sources below the answer.

Run "studymate process" first; asking before anything was processed fails
with a reminder to do so.`,
	Args:        cobra.ExactArgs(1),
	Annotations: needsAI(),
	RunE:        runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askK, "top-k", "k", 0, "number of passages to retrieve (default from settings)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// askOutput is the JSON shape of an answer.
type askOutput struct {
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Model    string         `json:"model,omitempty"`
	Sources  []sourceOutput `json:"sources"`
}

type sourceOutput struct {
	Source  string  `json:"source"`
	Page    *int    `json:"page,omitempty"`
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	question := strings.TrimSpace(args[0])
	if question == "" {
		return fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	if err := ensureLoaded(cmd.Context()); err != nil {
		return err
	}

	answer, err := sessionService.Ask(cmd.Context(), question, askK)
	if err != nil {
		return err
	}

	if askJSON {
		return printAnswerJSON(cmd, answer)
	}
	printAnswer(cmd, answer, isTerminal())
	return nil
}

// ensureLoaded loads the saved index unless the session already holds one.
// A missing index file means nothing was processed yet.
func ensureLoaded(ctx context.Context) error {
	if sessionService.Status().Processed {
		return nil
	}
	path := resolveIndexPath()
	if path == "" {
		return domain.ErrNotProcessed
	}

	info, err := sessionService.Load(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotProcessed
	}
	if err != nil {
		return fmt.Errorf("loading index %s: %w", path, err)
	}
	logger.Debug("Loaded index %s (%d chunks, model %s)", path, info.Chunks, info.Model)
	return nil
}

// printAnswer writes the study notes followed by their sources.
// Headings and bold spans are styled only when styled is true.
func printAnswer(cmd *cobra.Command, answer *domain.Answer, styled bool) {
	if styled {
		cmd.Println(styles.DefaultStyles().RenderNotes(answer.Text, terminalWidth()))
	} else {
		cmd.Println(answer.Text)
	}

	labels := answer.SourceLabels()
	if len(labels) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, label := range labels {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, label, answer.Sources[i].Score)
	}
}

func printAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	out := askOutput{
		Question: answer.Question,
		Answer:   answer.Text,
		Model:    answer.Model,
		Sources:  make([]sourceOutput, 0, len(answer.Sources)),
	}
	for i := range answer.Sources {
		sc := &answer.Sources[i]
		src := sourceOutput{
			Source:  sc.Chunk.Source(),
			Score:   sc.Score,
			Excerpt: excerpt(sc.Chunk.Content, 200),
		}
		if page, ok := sc.Chunk.Page(); ok {
			p := page + 1
			src.Page = &p
		}
		out.Sources = append(out.Sources, src)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// excerpt collapses whitespace and cuts s to at most n runes.
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// terminalWidth returns the stdout width, or 0 when unknown.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}
