package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads answer prompts from user-editable files, seeding the
// directory with the built-in prompts on first use.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts are the built-in prompts and the seed content of new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswerSystem: `You are a helpful educational assistant that provides comprehensive, detailed responses in a structured notes format.`,

	driven.PromptAnswerUser: `You are a helpful educational assistant. Use the following context from the student's study materials to answer their question.
If the context doesn't contain the information needed, say you don't have enough information rather than making up an answer.

Important instructions for formatting your response:
1. Provide detailed, comprehensive information organized as study notes
2. Use clear section headings and subheadings with ## and ### markdown formatting
3. Include numbered or bulleted lists for key points
4. Highlight important terms, definitions, or concepts in **bold**
5. Provide examples where appropriate
6. Structure your answer with a clear introduction, main content sections, and a summary
7. Include any relevant formulas, procedures, or methodologies
8. Make connections between concepts when possible
9. Explain complex ideas step-by-step with clear reasoning

Context:
{context}

Question: {question}`,
}

// DefaultPrompt returns the built-in text for a prompt name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a prompt store reading from promptDir,
// or ~/.studymate/prompts when promptDir is empty. No I/O happens until
// the first Load.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt named name. The file on disk wins; a missing,
// unreadable or blank file yields the built-in default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.seed)

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	def, known := defaultPrompts[name]
	if !known {
		return "", fmt.Errorf("%w: unknown prompt %q", domain.ErrNotFound, name)
	}

	prompt = def
	if s.initErr == nil {
		text, err := s.readFile(name)
		switch {
		case err != nil:
			logger.Debug("prompt %s: using default: %v", name, err)
		case text == "":
			logger.Debug("prompt %s: file is blank, using default", name)
		default:
			prompt = text
		}
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload drops cached prompts so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

// seed creates the directory and writes any missing default files.
// Existing files are never touched.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.promptDir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		logger.Warn("prompts unavailable, using built-in defaults: %v", s.initErr)
		return
	}

	files := map[string]string{"README.md": promptsReadme}
	for name, content := range defaultPrompts {
		files[filepath.Base(s.path(name))] = content
	}
	for file, content := range files {
		if err := writeIfMissing(filepath.Join(s.promptDir, file), content); err != nil {
			logger.Debug("prompt %s: %v", file, err)
		}
	}
}

func (s *PromptStore) readFile(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const promptsReadme = `# Studymate Prompts

Files in this directory control how answers are written.

- answer_system.txt: system message sent with every question
- answer_user.txt: question template wrapping the retrieved passages

Edits apply to the next command, or the next question in a chat session.
Delete or empty a file to restore its default.

answer_user.txt must keep both placeholders:
- {context}: the retrieved passages, separated by blank lines
- {question}: the question as typed
`
