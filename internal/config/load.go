package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "FISZKI"

// Load reads configuration from defaults, an optional config.yaml in the
// working directory and FISZKI_ environment variables, in increasing order
// of precedence. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	return load("")
}

// LoadFile is like Load but reads the given YAML file instead of searching
// the working directory. The file must exist.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is empty")
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only sees keys viper already knows about; keys without a
	// default must be bound explicitly.
	for _, key := range []string{
		"storage.bucket",
		"storage.local_dir",
		"storage.database_url",
		"crypto.encryption_key",
		"auth.jwt_secret",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("storage.backend", BackendLocal)
	v.SetDefault("storage.local_dir", "data")
	v.SetDefault("storage.sets_blob", "sets.json")
	v.SetDefault("storage.users_blob", "users.json.enc")
	v.SetDefault("storage.max_retries", 3)
	v.SetDefault("storage.backoff_base_ms", 100)

	v.SetDefault("auth.token_lifetime_minutes", 60*24)

	v.SetDefault("study.default_test_questions", 5)
}

// Validate checks struct tags and cross-field rules that tags cannot express.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	key, err := base64.StdEncoding.DecodeString(cfg.Crypto.EncryptionKey)
	if err != nil {
		return fmt.Errorf("configuration validation failed: crypto.encryption_key: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf(
			"configuration validation failed: crypto.encryption_key must decode to 32 bytes, got %d",
			len(key),
		)
	}
	return nil
}
