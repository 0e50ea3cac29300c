package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration like Load but reads the given config file
// instead of searching the working directory. An empty path falls back to an
// optional ./config.yaml.
func LoadWithFile(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.snapshot_path", "data/flitskaart.json")
	v.SetDefault("auth.token_lifetime_minutes", 1440)
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("backup.interval_hours", 0)
	v.SetDefault("backup.keep", 5)
	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("media.dir", "data/media")

	// Configure to read from config files
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing config file is fine; environment variables and
			// defaults carry the configuration. Anything else is a real
			// problem (malformed YAML, unreadable file).
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Configure to read from environment variables with FLITSKAART_ prefix
	v.SetEnvPrefix("FLITSKAART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind critical environment variables. AutomaticEnv only
	// resolves keys viper already knows about, so keys without defaults
	// need an explicit binding.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"storage.backend", "FLITSKAART_STORAGE_BACKEND"},
		{"storage.snapshot_path", "FLITSKAART_STORAGE_SNAPSHOT_PATH"},
		{"storage.database_url", "FLITSKAART_STORAGE_DATABASE_URL"},
		{"auth.jwt_secret", "FLITSKAART_AUTH_JWT_SECRET"},
		{"auth.password_hash", "FLITSKAART_AUTH_PASSWORD_HASH"},
		{"llm.gemini_api_key", "FLITSKAART_LLM_GEMINI_API_KEY"},
		{"server.port", "FLITSKAART_SERVER_PORT"},
		{"server.log_level", "FLITSKAART_SERVER_LOG_LEVEL"},
	}

	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	// Unmarshal and validate
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
