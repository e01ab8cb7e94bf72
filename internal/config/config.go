// Package config loads server configuration from defaults, config files,
// and GEMINI_MCP_* environment variables, in ascending priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/gemini"
)

// EnvAllowedDirs holds an os.PathListSeparator-joined list of directories
// that tool calls may read files from. Unset means current directory.
const EnvAllowedDirs = "GEMINI_MCP_ALLOWED_DIRS"

// envPrefix namespaces all other environment overrides,
// e.g. GEMINI_MCP_DEFAULT_MODEL, GEMINI_MCP_TIMEOUT.
const envPrefix = "GEMINI_MCP_"

// Config is the validated server configuration.
type Config struct {
	// GeminiCmd is the binary name (or path) of the gemini CLI.
	GeminiCmd string `koanf:"gemini_cmd" validate:"required"`

	// DefaultModel is used when a tool call does not name a model.
	DefaultModel string `koanf:"default_model" validate:"required"`

	// AllowedDirs is the file-access allow-list. Empty means cwd.
	AllowedDirs []string `koanf:"allowed_dirs"`

	// TimeoutSecs caps each tool invocation. Zero disables the deadline.
	TimeoutSecs int `koanf:"timeout" validate:"omitempty,min=1,max=86400"`

	// HistoryDB is the invocation-log database path. Empty disables history.
	HistoryDB string `koanf:"history_db"`

	Debug bool `koanf:"debug"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"gemini_cmd":    "gemini",
		"default_model": gemini.DefaultModel,
		"timeout":       300,
		"history_db":    "~/.gemini-mcp/history.db",
	}
}

// Load builds the configuration. Priority, lowest first: defaults,
// ~/.gemini-mcp/config.json, localPath (if given), environment.
func Load(localPath string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		_ = k.Set(key, value)
	}

	if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, ".gemini-mcp", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("loading global config: %w", err)
			}
		}
	}

	if localPath != "" {
		if _, err := os.Stat(localPath); err == nil {
			if err := k.Load(file.Provider(localPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("loading config %s: %w", localPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// ALLOWED_DIRS is a platform path-list, not JSON — handled apart
	// from the generic env provider.
	if dirs := os.Getenv(EnvAllowedDirs); dirs != "" {
		cfg.AllowedDirs = SplitPathList(dirs)
	}
	if len(cfg.AllowedDirs) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		cfg.AllowedDirs = []string{cwd}
	}

	cfg.HistoryDB = expandHomePath(cfg.HistoryDB)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Timeout returns the per-invocation deadline, zero if disabled.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// SplitPathList splits an os.PathListSeparator-joined directory list,
// dropping empty entries.
func SplitPathList(joined string) []string {
	var dirs []string
	for _, d := range strings.Split(joined, string(os.PathListSeparator)) {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// envTransform converts environment variable names to config keys.
// Example: GEMINI_MCP_DEFAULT_MODEL -> default_model. ALLOWED_DIRS is
// skipped here — it needs path-list splitting, done in Load.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if key == "allowed_dirs" {
		return ""
	}
	return key
}

// expandHomePath expands a leading ~/ to the user's home directory.
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
