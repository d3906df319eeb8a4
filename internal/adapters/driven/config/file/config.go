// Package file loads and persists engine configuration as a TOML file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/stratum/internal/core/services"
)

// ConfigFileName is the TOML file inside the config directory.
const ConfigFileName = "config.toml"

// Config is the on-disk engine configuration.
type Config struct {
	// Instance names the index instance; it tags search facets.
	Instance string `toml:"instance"`

	// DataDir is where the text index and element database live.
	// Empty means memory-only.
	DataDir string `toml:"data_dir"`

	Scoring   ScoringConfig   `toml:"scoring"`
	Embedding EmbeddingConfig `toml:"embedding"`
}

// ScoringConfig tunes the hybrid blend.
type ScoringConfig struct {
	VectorWeight           float64 `toml:"vector_weight"`
	TextScoreNormalizer    float64 `toml:"text_score_normalizer"`
	OversampleFloor        int     `toml:"oversample_floor"`
	OversampleFactor       int     `toml:"oversample_factor"`
	MinKeywordIntersection int     `toml:"min_keyword_intersection"`
}

// EmbeddingConfig configures the optional Ollama embedding model.
type EmbeddingConfig struct {
	// Enabled turns vector scoring on.
	Enabled bool `toml:"enabled"`

	BaseURL           string  `toml:"base_url"`
	Model             string  `toml:"model"`
	Dimensions        int     `toml:"dimensions"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Instance: "stratum",
		Scoring: ScoringConfig{
			VectorWeight:           services.DefaultVectorWeight,
			TextScoreNormalizer:    services.DefaultTextScoreNormalizer,
			OversampleFloor:        services.DefaultOversampleFloor,
			OversampleFactor:       services.DefaultOversampleFactor,
			MinKeywordIntersection: services.DefaultMinKeywordIntersection,
		},
	}
}

// Store reads and writes the config file.
type Store struct {
	filePath string
}

// NewStore creates a store rooted at configDir. If configDir is empty,
// defaults to ~/.stratum.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		configDir = filepath.Join(home, ".stratum")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	return &Store{filePath: filepath.Join(configDir, ConfigFileName)}, nil
}

// Load reads the config file, returning defaults when it does not exist.
// Fields absent from the file keep their default values.
func (s *Store) Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration with restricted permissions.
func (s *Store) Save(cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.filePath
}
