// Package cli implements the stratum command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/stratum/internal/adapters/driven/config/file"
	"github.com/custodia-labs/stratum/internal/adapters/driven/embedding/ollama"
	indexbleve "github.com/custodia-labs/stratum/internal/adapters/driven/index/bleve"
	"github.com/custodia-labs/stratum/internal/adapters/driven/keywords"
	"github.com/custodia-labs/stratum/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/stratum/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/stratum/internal/core/ports/driving"
	"github.com/custodia-labs/stratum/internal/core/services"
	"github.com/custodia-labs/stratum/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configDir string
	dataDir   string
	verbose   bool

	// retrievalService is the engine behind every command. Set by
	// initEngine in PersistentPreRunE.
	retrievalService driving.RetrievalService
)

var rootCmd = &cobra.Command{
	Use:   "stratum",
	Short: "Hybrid retrieval engine for hierarchical content",
	Long: `Stratum stores hierarchically structured content and retrieves it with
hybrid scoring: full-text relevance blended with vector similarity, plus
keyword-intersection search and structural result expansion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" {
			return nil
		}
		return initEngine(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" || retrievalService == nil {
			return nil
		}
		return retrievalService.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.stratum)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory for the index and element database (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initEngine assembles the engine from configuration: stores, text
// index, optional persistence and embedding, then loads durable state.
func initEngine(cmd *cobra.Command) error {
	cfgStore, err := configfile.NewStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	cfg, err := cfgStore.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	index, err := indexbleve.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening text index: %w", err)
	}

	opts := []services.Option{
		services.WithKeywordExtractor(keywords.NewExtractor()),
		services.WithVectorWeight(cfg.Scoring.VectorWeight),
		services.WithTextScoreNormalizer(cfg.Scoring.TextScoreNormalizer),
		services.WithOversampling(cfg.Scoring.OversampleFloor, cfg.Scoring.OversampleFactor),
		services.WithMinKeywordIntersection(cfg.Scoring.MinKeywordIntersection),
	}

	if cfg.DataDir != "" {
		persist, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("opening element database: %w", err)
		}
		opts = append(opts, services.WithPersistence(persist))
	}

	if cfg.Embedding.Enabled {
		embedder := ollama.NewEmbeddingService(ollama.Config{
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			Dimensions:        cfg.Embedding.Dimensions,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		})
		if err := embedder.Ping(cmd.Context()); err != nil {
			logger.Warn("Embedding model unreachable, continuing without vectors: %v", err)
		} else {
			opts = append(opts, services.WithEmbedder(embedder))
		}
	}

	engine := services.NewEngine(cfg.Instance, memory.NewElementStore(), index, opts...)
	if err := engine.Load(cmd.Context()); err != nil {
		return fmt.Errorf("loading persisted elements: %w", err)
	}

	retrievalService = engine
	return nil
}
