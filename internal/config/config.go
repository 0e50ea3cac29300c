package config

// Snapshot persistence backends accepted by StorageConfig.Backend.
const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth"    validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Backup  BackupConfig  `mapstructure:"backup"`
	Media   MediaConfig   `mapstructure:"media"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig selects and configures the snapshot persistence backend.
type StorageConfig struct {
	// Backend picks where snapshots live: "file" (default) or "postgres".
	Backend      string `mapstructure:"backend"       validate:"required,oneof=file postgres"`
	SnapshotPath string `mapstructure:"snapshot_path" validate:"required_if=Backend file"`
	DatabaseURL  string `mapstructure:"database_url"  validate:"required_if=Backend postgres"`
}

// AuthConfig contains all authentication and authorization settings.
// The application is single-user: one bcrypt password hash guards the API.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	PasswordHash         string `mapstructure:"password_hash"          validate:"required"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings. The group is
// optional: without an API key the translator is simply not wired and the
// application runs without suggestions.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// BackupConfig controls the scheduled snapshot backup job. An interval of 0
// disables backups.
type BackupConfig struct {
	IntervalHours int    `mapstructure:"interval_hours" validate:"gte=0"`
	Keep          int    `mapstructure:"keep"           validate:"gte=0"`
	Dir           string `mapstructure:"dir"`
}

// MediaConfig locates the local blob store for card audio and images.
type MediaConfig struct {
	Dir string `mapstructure:"dir"`
}
