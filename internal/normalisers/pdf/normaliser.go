// Package pdf extracts page documents from PDF files using pdftotext.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const toolName = "pdftotext"

// maxTitleLength bounds how long a first line may be to serve as a title.
const maxTitleLength = 200

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// Normaliser handles PDF documents.
// Each blob is written to a temporary file for pdftotext and the file is
// removed before Normalise returns, whatever the outcome.
type Normaliser struct {
	runner    CommandRunner
	tempDir   string
	checkTool bool
}

// New creates a PDF normaliser that shells out to pdftotext.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}, checkTool: true}
}

// NewWithRunner creates a PDF normaliser with an injected command runner.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{runner: runner}
}

// WithTempDir sets the directory for temporary files (default: os.TempDir).
func (n *Normaliser) WithTempDir(dir string) *Normaliser {
	n.tempDir = dir
	return n
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is not installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions explains how to install pdftotext.
func InstallInstructions() string {
	return `PDF extraction requires pdftotext (part of poppler).

Install it with:
  macOS:          brew install poppler
  Debian/Ubuntu:  sudo apt install poppler-utils
  Fedora:         sudo dnf install poppler-utils`
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Normalise extracts one document per non-blank page.
// Page documents carry zero-based "page", "total_pages" and "title" metadata.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !bytes.HasPrefix(bytes.TrimLeft(raw.Content, " \t\r\n"), []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: not a PDF file", domain.ErrInvalidInput)
	}
	if n.checkTool {
		if err := CheckAvailable(); err != nil {
			return nil, err
		}
	}

	out, err := n.extract(ctx, raw.Content)
	if err != nil {
		return nil, err
	}

	pages := strings.Split(strings.TrimSuffix(string(out), "\f"), "\f")
	title := extractTitle(string(out), raw.Name)

	docs := make([]domain.Document, 0, len(pages))
	for i, page := range pages {
		text := strings.TrimSpace(page)
		if text == "" {
			continue
		}
		meta := copyMetadata(raw.Metadata)
		if meta == nil {
			meta = make(map[string]any)
		}
		meta[domain.MetadataPage] = i
		meta["total_pages"] = len(pages)
		meta[domain.MetadataTitle] = title
		meta["mime_type"] = "application/pdf"

		docs = append(docs, domain.Document{
			ID:       uuid.New().String(),
			Content:  text,
			Metadata: meta,
		})
	}

	if len(docs) == 0 {
		return nil, errors.New("no extractable text (scanned PDFs are not supported)")
	}

	logger.Debug("pdf: %s -> %d pages with text", raw.Name, len(docs))
	return docs, nil
}

// extract materialises content to a temporary file and runs pdftotext on it.
func (n *Normaliser) extract(ctx context.Context, content []byte) ([]byte, error) {
	tmp, err := os.CreateTemp(n.tempDir, "studymate-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	if werr != nil {
		return nil, fmt.Errorf("write temp file: %w", werr)
	}
	if cerr != nil {
		return nil, fmt.Errorf("close temp file: %w", cerr)
	}

	// pdftotext ends every page with a form feed.
	out, err := n.runner.Run(ctx, toolName, "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	return out, nil
}

// extractTitle uses the first short non-empty line, falling back to the file name.
func extractTitle(content, name string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "\f"))
		if line == "" || len(line) > maxTitleLength {
			continue
		}
		return line
	}

	filename := filepath.Base(name)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	return strings.ReplaceAll(filename, "-", " ")
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
