package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default_config.toml
var defaultConfig string

// Sampling controls how many audio samples are drawn and how the Aligner
// searches for matches.
type Sampling struct {
	Samples               int     `toml:"samples"`
	SearchWindowMinutes   int     `toml:"search_window_minutes"`
	SimilarityThreshold   float64 `toml:"similarity_threshold"`
	MinChars              int     `toml:"min_chars"`
	SampleDurationSeconds int     `toml:"sample_duration_seconds"`
	StrideSeconds         int     `toml:"stride_seconds"`
}

// Concurrency controls the bounded worker pool used for extraction and
// transcription.
type Concurrency struct {
	FanOut int `toml:"fan_out"`
}

// Retry controls the transcription adapter's backoff policy.
type Retry struct {
	MaxAttempts        int `toml:"max_attempts"`
	BackoffBaseSeconds int `toml:"backoff_base_seconds"`
}

// ASR selects and authenticates the transcription backend.
type ASR struct {
	API               string `toml:"api"`
	OpenAIKeyEnv      string `toml:"openai_key_env"`
	GoogleKeyEnv      string `toml:"google_key_env"`
}

// Logging controls structured log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
}

// Backup controls where originals are copied before a destructive write.
type Backup struct {
	Dir string `toml:"dir"`
}

// SDH controls the optional hearing-impaired cleanup pass.
type SDH struct {
	Remove bool `toml:"remove"`
}

// Config is the fully resolved set of tunables for one run, assembled from
// (lowest to highest precedence) the embedded default, an optional user
// file, environment variables, and CLI flags.
type Config struct {
	Sampling    Sampling    `toml:"sampling"`
	Concurrency Concurrency `toml:"concurrency"`
	Retry       Retry       `toml:"retry"`
	ASR         ASR         `toml:"asr"`
	Logging     Logging     `toml:"logging"`
	Backup      Backup      `toml:"backup"`
	SDH         SDH         `toml:"sdh"`
}

// Default returns the configuration baked into the binary via go:embed.
func Default() (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal([]byte(defaultConfig), &cfg); err != nil {
		return nil, fmt.Errorf("parse embedded default config: %w", err)
	}
	return &cfg, nil
}

// Load resolves configuration starting from Default, then overlaying path
// (if it exists) and environment variables. path may be empty, in which case
// only the default and environment are applied.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, applyEnv(cfg)
			}
			return nil, fmt.Errorf("read config file %s: %w", expanded, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", expanded, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if level := os.Getenv("SUBSHIFT_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	return nil
}

// DefaultConfigPath returns the user's default config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "subshift", "config.toml"), nil
}

func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand path %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
