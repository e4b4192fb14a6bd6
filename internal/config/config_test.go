package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/priority"
	"github.com/abatilo/clarity/internal/storage"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("CLARITY_HOME", "/tmp/clarity-home")
	cfg := DefaultConfig()

	if cfg.Data.Dir != "/tmp/clarity-home/data" {
		t.Errorf("Data.Dir = %q, want %q", cfg.Data.Dir, "/tmp/clarity-home/data")
	}
	if cfg.Data.Backend != storage.BackendYAML {
		t.Errorf("Data.Backend = %q, want %q", cfg.Data.Backend, storage.BackendYAML)
	}
	if cfg.Planning.AvailableHours != 8 {
		t.Errorf("Planning.AvailableHours = %v, want 8", cfg.Planning.AvailableHours)
	}
	if cfg.Planning.Weights != priority.DefaultWeights() {
		t.Errorf("Planning.Weights = %+v, want defaults", cfg.Planning.Weights)
	}
	if !cfg.Drift.AutoTrain {
		t.Error("Drift.AutoTrain = false, want true")
	}
	if cfg.Strategic.Timeout != 15*time.Second {
		t.Errorf("Strategic.Timeout = %v, want 15s", cfg.Strategic.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	t.Setenv("CLARITY_HOME", t.TempDir())
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Server.Port != DefaultConfig().Server.Port {
		t.Errorf("Server.Port = %d, want default", cfg.Server.Port)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	t.Setenv("CLARITY_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[data]
backend = "sqlite"

[planning]
available_hours = 6.5
energy = 4

[planning.weights]
urgency = 0.5
impact = 0.2
effort = 0.1
energy_alignment = 0.1
strategic_value = 0.1

[strategic]
timeout = "30s"

[server]
port = 9000
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CLARITY_SERVER_PORT", "9100")
	t.Setenv("CLARITY_DRIFT_AUTO_TRAIN", "false")
	t.Setenv("CLARITY_PLANNING_WEIGHTS_ENERGY_ALIGNMENT", "0.2")
	t.Setenv("CLARITY_SERVER_CORS_ORIGINS", "http://localhost:3000,https://clarity.example")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("HOST", "should-not-leak")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Data.Backend != storage.BackendSQLite {
		t.Errorf("Data.Backend = %q, want %q", cfg.Data.Backend, storage.BackendSQLite)
	}
	if cfg.Planning.AvailableHours != 6.5 {
		t.Errorf("Planning.AvailableHours = %v, want 6.5", cfg.Planning.AvailableHours)
	}
	if cfg.Planning.Energy != 4 {
		t.Errorf("Planning.Energy = %d, want 4", cfg.Planning.Energy)
	}
	if cfg.Planning.Weights.Urgency != 0.5 {
		t.Errorf("Weights.Urgency = %v, want 0.5", cfg.Planning.Weights.Urgency)
	}
	if cfg.Planning.Weights.EnergyAlignment != 0.2 {
		t.Errorf("Weights.EnergyAlignment = %v, want 0.2 from env", cfg.Planning.Weights.EnergyAlignment)
	}
	if cfg.Strategic.Timeout != 30*time.Second {
		t.Errorf("Strategic.Timeout = %v, want 30s", cfg.Strategic.Timeout)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100 from env", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, unprefixed HOST must not apply", cfg.Server.Host)
	}
	if cfg.Drift.AutoTrain {
		t.Error("Drift.AutoTrain = true, want false from env")
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://clarity.example" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Strategic.APIKey != "sk-from-env" {
		t.Errorf("Strategic.APIKey = %q, want value of OPENAI_API_KEY", cfg.Strategic.APIKey)
	}
	if cfg.Addr() != "127.0.0.1:9100" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	t.Setenv("CLARITY_HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "[data\nbackend = "},
		{"bad backend", "[data]\nbackend = \"postgres\"\n"},
		{"bad energy", "[planning]\nenergy = 9\n"},
		{"bad hours", "[planning]\navailable_hours = 0\n"},
		{"negative weight", "[planning.weights]\nurgency = -1\n"},
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("LoadFile should fail")
			}
		})
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[planning]\nenergy = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if _, ok := err.(clarityerrors.InvalidEnergyError); !ok {
		t.Errorf("error = %T, want InvalidEnergyError", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("CLARITY_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9999
	cfg.Strategic.APIKey = "sk-secret"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "sk-secret") {
		t.Error("API key must not be written to the config file")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", loaded.Server.Port)
	}
	if loaded.Strategic.Timeout != cfg.Strategic.Timeout {
		t.Errorf("Strategic.Timeout = %v, want %v", loaded.Strategic.Timeout, cfg.Strategic.Timeout)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := Config{Logging: LoggingConfig{Level: tt.level}}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestHome(t *testing.T) {
	t.Setenv("CLARITY_HOME", "/srv/clarity")
	if Home() != "/srv/clarity" {
		t.Errorf("Home() = %q", Home())
	}
	if Path() != "/srv/clarity/config.toml" {
		t.Errorf("Path() = %q", Path())
	}
}
