package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/tagger/pkg/tagger/internalerr"
)

// Labeler backends.
const (
	BackendCRFPP     = "crfpp"
	BackendRemote    = "remote"
	BackendHeuristic = "heuristic"
)

// Config is the tagger configuration file.
type Config struct {
	Labeler LabelerConfig `yaml:"labeler"`
	Lexicon string        `yaml:"lexicon"`
	Store   StoreConfig   `yaml:"store"`
	// Singularize tokens before feature extraction. Only for models trained
	// on singularized data.
	SingularizeTokens bool `yaml:"singularize_tokens"`
}

// LabelerConfig selects and configures the labeling backend.
type LabelerConfig struct {
	Backend string  `yaml:"backend"`
	Model   string  `yaml:"model"`
	Binary  string  `yaml:"binary"`
	URL     string  `yaml:"url"`
	APIKey  string  `yaml:"api_key"`
	Rate    float64 `yaml:"rate"`
	Burst   int     `yaml:"burst"`
}

// StoreConfig points at the batch database. An empty path keeps batches
// in memory.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Labeler: LabelerConfig{Backend: BackendHeuristic},
	}
}

// Load loads a configuration from a YAML file, filling in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	c.Labeler.Backend = strings.ToLower(strings.TrimSpace(c.Labeler.Backend))
	switch c.Labeler.Backend {
	case "":
		c.Labeler.Backend = BackendHeuristic
	case BackendHeuristic:
	case BackendCRFPP:
		if c.Labeler.Model == "" {
			return fmt.Errorf("labeler.model required for %s backend: %w", BackendCRFPP, internalerr.ErrInvalidConfig)
		}
	case BackendRemote:
		if c.Labeler.URL == "" {
			return fmt.Errorf("labeler.url required for %s backend: %w", BackendRemote, internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown labeler backend %q: %w", c.Labeler.Backend, internalerr.ErrInvalidConfig)
	}
	if c.Labeler.Rate < 0 {
		return fmt.Errorf("labeler.rate must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	return nil
}
