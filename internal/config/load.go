package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "config/pipeline_config.yaml"

// Environment variables read on top of the config file.
const (
	EnvAnthropicKey       = "ANTHROPIC_API_KEY"
	EnvGeminiKey          = "GEMINI_API_KEY"
	EnvNotionToken        = "NOTION_TOKEN"
	EnvNotionDatabase     = "NOTION_DATABASE_ID"
	EnvNotionTaskDatabase = "NOTION_TASK_DATABASE_ID"
	EnvLogLevel           = "MEETFLOW_LOG_LEVEL"
)

// Load reads the config at path, applies environment overrides and validates
// the result. An empty path means DefaultPath, and a missing default file
// yields defaults; a missing explicit file is an error.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	default:
		return nil, errdefs.Configf("read config %s: %v", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return errdefs.Configf("parse %s: %v", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errdefs.Configf("parse %s: %v", path, err)
		}
	}
	return nil
}

// loadDotEnv loads KEY=VALUE pairs without overriding variables already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errdefs.Configf("load %s: %v", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	keyEnv := EnvAnthropicKey
	if cfg.Summarizer.Provider == ProviderGemini {
		keyEnv = EnvGeminiKey
	}
	setFromEnv(&cfg.Summarizer.APIKey, keyEnv)
	setFromEnv(&cfg.Notion.Token, EnvNotionToken)
	setFromEnv(&cfg.Notion.DatabaseID, EnvNotionDatabase)
	setFromEnv(&cfg.Notion.TaskDatabaseID, EnvNotionTaskDatabase)
	setFromEnv(&cfg.Logging.Level, EnvLogLevel)
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
