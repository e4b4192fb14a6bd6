// Package config loads clarity settings from defaults, an optional TOML file
// and environment variables, in that order of precedence.
//
// Environment variables are named CLARITY_<SECTION>_<FIELD>, for example
// CLARITY_DATA_BACKEND or CLARITY_PLANNING_AVAILABLE_HOURS. The API key is
// also read from OPENAI_API_KEY.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/abatilo/clarity/internal/blob"
	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/llm"
	"github.com/abatilo/clarity/internal/priority"
	"github.com/abatilo/clarity/internal/storage"
)

const (
	namespace = "CLARITY"
	fileName  = "config.toml"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all settings.
type Config struct {
	Data      DataConfig      `toml:"data"`
	Planning  PlanningConfig  `toml:"planning"`
	Drift     DriftConfig     `toml:"drift"`
	Strategic StrategicConfig `toml:"strategic"`
	Server    ServerConfig    `toml:"server"`
	Logging   LoggingConfig   `toml:"logging"`
}

// DataConfig locates the task history.
type DataConfig struct {
	Dir      string `toml:"dir"`
	Backend  string `toml:"backend"`
	Blob     string `toml:"blob"`
	S3Bucket string `toml:"s3_bucket" split_words:"true"`
	S3Prefix string `toml:"s3_prefix" split_words:"true"`
	S3Region string `toml:"s3_region" split_words:"true"`
}

// PlanningConfig sets prioritization defaults.
type PlanningConfig struct {
	AvailableHours float64          `toml:"available_hours" split_words:"true"`
	Energy         int              `toml:"energy"`
	Weights        priority.Weights `toml:"weights"`
}

// DriftConfig controls the duration model.
type DriftConfig struct {
	AutoTrain bool `toml:"auto_train" split_words:"true"`
}

// StrategicConfig points at an OpenAI-compatible endpoint. The API key is only
// read from the environment and never written to the config file.
type StrategicConfig struct {
	BaseURL string        `toml:"base_url" split_words:"true"`
	Model   string        `toml:"model"`
	APIKey  string        `toml:"-"        envconfig:"OPENAI_API_KEY"`
	Timeout time.Duration `toml:"timeout"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins" split_words:"true"`
}

// LoggingConfig controls the log handler.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Dir:      filepath.Join(Home(), "data"),
			Backend:  storage.BackendYAML,
			Blob:     blob.BackendLocal,
			S3Prefix: "clarity/",
		},
		Planning: PlanningConfig{
			AvailableHours: priority.DefaultAvailableHours,
			Energy:         priority.DefaultEnergy,
			Weights:        priority.DefaultWeights(),
		},
		Drift: DriftConfig{AutoTrain: true},
		Strategic: StrategicConfig{
			BaseURL: llm.DefaultBaseURL,
			Model:   llm.DefaultModel,
			Timeout: llm.DefaultTimeout,
		},
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8420,
			CORSOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatText,
		},
	}
}

// Load reads Path() over the defaults and applies environment overrides.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := envconfig.Process(namespace, &cfg); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path as TOML.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks values that would otherwise fail later and less clearly.
func (c Config) Validate() error {
	switch c.Data.Backend {
	case storage.BackendYAML, storage.BackendSQLite:
	default:
		return clarityerrors.InvalidBackendError{Value: c.Data.Backend}
	}
	if c.Planning.Energy < priority.MinEnergy || c.Planning.Energy > priority.MaxEnergy {
		return clarityerrors.InvalidEnergyError{Value: c.Planning.Energy}
	}
	if c.Planning.AvailableHours <= 0 || c.Planning.AvailableHours > 24 {
		return fmt.Errorf("planning.available_hours must be in (0, 24]: %v", c.Planning.AvailableHours)
	}
	if err := c.Planning.Weights.Validate(); err != nil {
		return fmt.Errorf("planning.weights: %w", err)
	}
	switch c.Logging.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("logging.format must be %q or %q: %q", FormatText, FormatJSON, c.Logging.Format)
	}
	return nil
}

// SlogLevel parses the configured level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// StorageOptions returns the repository settings.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: c.Data.Backend,
		Dir:     c.Data.Dir,
		Blob:    c.Data.Blob,
		S3: blob.S3Options{
			Bucket: c.Data.S3Bucket,
			Prefix: c.Data.S3Prefix,
			Region: c.Data.S3Region,
		},
	}
}

// LLMConfig returns the text generation client settings.
func (c Config) LLMConfig() llm.Config {
	return llm.Config{
		BaseURL: c.Strategic.BaseURL,
		Model:   c.Strategic.Model,
		APIKey:  c.Strategic.APIKey,
		Timeout: c.Strategic.Timeout,
	}
}

// Addr returns the server listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Home returns $CLARITY_HOME, or ~/.clarity.
func Home() string {
	if env := os.Getenv("CLARITY_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".clarity")
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(Home(), fileName)
}
