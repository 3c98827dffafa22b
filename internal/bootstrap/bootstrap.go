// Package bootstrap wires the driven adapters into the core services for
// one CLI invocation.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/studymate/internal/adapters/driven/ai"
	"github.com/custodia-labs/studymate/internal/adapters/driven/config/env"
	"github.com/custodia-labs/studymate/internal/adapters/driven/config/file"
	"github.com/custodia-labs/studymate/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/studymate/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/studymate/internal/adapters/driving/cli"
	"github.com/custodia-labs/studymate/internal/connectors/web"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/services"
	"github.com/custodia-labs/studymate/internal/logger"
	"github.com/custodia-labs/studymate/internal/normalisers"
	"github.com/custodia-labs/studymate/internal/normalisers/pdf"
	"github.com/custodia-labs/studymate/internal/postprocessors"
)

const indexFileName = "index.db"

// Paths locates the files the application reads and writes.
type Paths struct {
	// Dir is the application directory, ~/.studymate by default.
	Dir string

	// ConfigFile overrides Dir/config.toml when set.
	ConfigFile string

	// PromptDir overrides Dir/prompts when set.
	PromptDir string
}

// DefaultPaths returns the paths under ~/.studymate.
func DefaultPaths() (Paths, error) {
	dir, err := file.DefaultDir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{Dir: dir}, nil
}

func (p Paths) indexFile() string {
	return filepath.Join(p.Dir, indexFileName)
}

func (p Paths) promptDir() string {
	if p.PromptDir != "" {
		return p.PromptDir
	}
	return filepath.Join(p.Dir, "prompts")
}

// Factory returns a cli.ServiceFactory building services under paths.
func Factory(paths Paths) cli.ServiceFactory {
	return func(ctx context.Context, opts cli.Options) (*cli.Services, error) {
		if opts.ConfigPath != "" {
			paths.ConfigFile = opts.ConfigPath
		}
		return Build(ctx, paths, opts.NeedsAI)
	}
}

// Build loads settings and credentials and constructs the session.
// Provider clients are only created when needsAI is set; without them the
// session can still inspect a saved index but cannot process or answer.
func Build(ctx context.Context, paths Paths, needsAI bool) (*cli.Services, error) {
	configFile := paths.ConfigFile
	if configFile == "" {
		configFile = filepath.Join(paths.Dir, "config.toml")
	}
	configStore, err := file.NewConfigStore(configFile)
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, paths.indexFile())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	creds, err := env.Load(".env", filepath.Join(paths.Dir, ".env"))
	if err != nil {
		return nil, err
	}
	creds.Apply(settings)

	var aiServices *ai.InitResult
	if needsAI {
		if err := settings.Validate(); err != nil {
			return nil, err
		}
		if err := creds.Require(settings.Embedding.Provider, settings.LLM.Provider); err != nil {
			return nil, err
		}
		aiServices, err = ai.Initialise(ctx, settings)
		if err != nil {
			return nil, err
		}
		logger.Debug("embedding: %s/%s, chat: %s/%s",
			settings.Embedding.Provider, settings.Embedding.Model,
			settings.LLM.Provider, settings.LLM.Model)
	} else {
		aiServices = &ai.InitResult{}
	}

	session, err := newSession(paths, settings, aiServices, needsAI)
	if err != nil {
		aiServices.Close()
		return nil, err
	}

	return &cli.Services{
		Session:   session,
		Settings:  settingsService,
		IndexPath: settings.IndexPath,
		Close: func() error {
			err := session.Close()
			aiServices.Close()
			return err
		},
	}, nil
}

func newSession(
	paths Paths,
	settings *domain.AppSettings,
	aiServices *ai.InitResult,
	needsAI bool,
) (*services.SessionService, error) {
	splitter, err := postprocessors.NewDefault(settings.Chunker.ChunkSize, settings.Chunker.Overlap)
	if err != nil {
		// A bad chunker setting must not lock the user out of "config set".
		if needsAI {
			return nil, err
		}
		logger.Debug("chunker settings rejected, using defaults: %v", err)
		splitter, err = postprocessors.NewDefault(domain.DefaultChunkSize, domain.DefaultChunkOverlap)
		if err != nil {
			return nil, err
		}
	}

	prompts, err := file.NewPromptStore(paths.promptDir())
	if err != nil {
		return nil, err
	}

	fetcher := web.New(web.Config{
		UserAgent: settings.Web.UserAgent,
		Timeout:   settings.Web.Timeout,
	})
	ingestor := services.NewIngestor(pdf.New(), fetcher, normalisers.Default())

	newIndex := func(dimensions int) driven.VectorIndex {
		return memory.NewVectorIndex(dimensions)
	}
	indexer := services.NewIndexService(aiServices.EmbeddingService, sqlite.NewIndexStore(), newIndex)

	answerer := services.NewAnswerer(indexer, aiServices.ChatService, prompts, services.AnswerOptions{
		Temperature: settings.LLM.Temperature,
		MaxTokens:   settings.LLM.MaxTokens,
	})

	return services.NewSessionService(ingestor, splitter, indexer, answerer, settings.TopK), nil
}
