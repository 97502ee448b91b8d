package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Engine  Engine  `koanf:"engine"`
	History History `koanf:"history"`
	Logging Logging `koanf:"logging"`
}

// Engine holds the knobs of the job-execution engine itself.
type Engine struct {
	// Shell selects the quote-neutralization strategy for command
	// construction: "posix" escapes embedded double quotes with a
	// backslash, anything else strips them.
	Shell string `koanf:"shell"`

	// TaskType is the default task filter applied when the caller
	// does not request one.
	TaskType string `koanf:"task_type"`

	// Encoding is the default text encoding for subprocess
	// invocation and output capture (IANA/WHATWG name).
	Encoding string `koanf:"encoding"`

	// TempAttempts bounds the retry loop when picking a unique
	// staged temp name for an output file.
	TempAttempts int `koanf:"temp_attempts"`
}

type History struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

type Logging struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads config from TOML file (if provided) then overlays env vars.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	// 2. Load TOML config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load env vars: CRS_ENGINE_TASK_TYPE -> engine.task_type
	// Only set env vars that have non-empty values to avoid overriding TOML config.
	if err := k.Load(env.ProviderWithValue("CRS_", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		mapped := strings.Replace(
			strings.ToLower(strings.TrimPrefix(key, "CRS_")),
			"_", ".", 1,
		)
		return mapped, value
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Place the history database under the user cache dir when not
	// configured explicitly.
	if cfg.History.Path == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		cfg.History.Path = filepath.Join(base, "crs", "history.db")
	}

	return &cfg, nil
}
