package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Crypto  CryptoConfig  `mapstructure:"crypto" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth" validate:"required"`
	Study   StudyConfig   `mapstructure:"study" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Storage backends.
const (
	BackendGCS      = "gcs"
	BackendPostgres = "postgres"
	BackendLocal    = "local"
	BackendMemory   = "memory"
)

// StorageConfig selects the blob backend and tunes the optimistic concurrency
// retry policy.
type StorageConfig struct {
	Backend       string `mapstructure:"backend" validate:"required,oneof=gcs postgres local memory"`
	Bucket        string `mapstructure:"bucket" validate:"required_if=Backend gcs"`
	LocalDir      string `mapstructure:"local_dir" validate:"required_if=Backend local"`
	DatabaseURL   string `mapstructure:"database_url" validate:"required_if=Backend postgres,omitempty,url"`
	SetsBlob      string `mapstructure:"sets_blob" validate:"required"`
	UsersBlob     string `mapstructure:"users_blob" validate:"required,nefield=SetsBlob"`
	MaxRetries    int    `mapstructure:"max_retries" validate:"gte=1,lte=20"`
	BackoffBaseMS int    `mapstructure:"backoff_base_ms" validate:"gte=0,lte=10000"`
}

// MultiWriter reports whether the backend is shared between instances and
// therefore needs conditional writes.
func (c StorageConfig) MultiWriter() bool {
	return c.Backend == BackendGCS || c.Backend == BackendPostgres
}

// CryptoConfig contains the key protecting the users blob at rest.
type CryptoConfig struct {
	// EncryptionKey is a base64-encoded 32-byte key.
	EncryptionKey string `mapstructure:"encryption_key" validate:"required,base64"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"`
}

// StudyConfig contains defaults for learning and test flows.
type StudyConfig struct {
	DefaultTestQuestions int `mapstructure:"default_test_questions" validate:"required,gt=0,lte=500"`
}
