// Package config loads service settings from the environment and optional dotenv files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variable names read by Load.
const (
	EnvHost          = "HOST"
	EnvPort          = "PORT"
	EnvSecretWord    = "SECRET_WORD"
	EnvLogLevel      = "LOG_LEVEL"
	EnvEnableAPIDocs = "ENABLE_API_DOCS"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultHost       = "0.0.0.0"
	DefaultPort       = "5000"
	DefaultSecretWord = "default_secret"
	DefaultLogLevel   = "info"
)

// Config is the resolved service configuration. It is built once at startup
// and passed to the components that need it.
type Config struct {
	Host string `validate:"required"`
	Port string `validate:"required,numeric"`
	// SecretWord is shown by the index and /secret_word routes. An explicitly
	// empty SECRET_WORD is kept as empty; only an unset variable falls back.
	SecretWord    string
	SecretDefault bool
	LogLevel      string `validate:"oneof=debug info warn error"`
	DocsEnabled   bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads dotenv files (missing ones are ignored) and then the process
// environment. Variables already present in the environment win over dotenv values.
// The result is not validated; callers apply overrides first and then call Validate.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	cfg := &Config{
		Host:     getenv(EnvHost, DefaultHost),
		Port:     getenv(EnvPort, DefaultPort),
		LogLevel: getenv(EnvLogLevel, DefaultLogLevel),
	}
	secret, ok := os.LookupEnv(EnvSecretWord)
	if !ok {
		secret = DefaultSecretWord
	}
	cfg.SecretWord = secret
	cfg.SecretDefault = !ok

	if raw := os.Getenv(EnvEnableAPIDocs); raw != "" {
		docs, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvEnableAPIDocs, err)
		}
		cfg.DocsEnabled = docs
	}
	return cfg, nil
}

// Validate checks field constraints, including the port range.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid config: port %q out of range 1-65535", c.Port)
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
