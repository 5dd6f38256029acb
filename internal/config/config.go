package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigError reports a problem that must abort the run before any
// network call or file write.
type ConfigError struct {
	message string
	err     error
}

// NewConfigError builds a ConfigError with an optional cause.
func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{message: message, err: err}
}

func (e *ConfigError) Error() string {
	if e.err != nil {
		return e.message + ": " + e.err.Error()
	}
	return e.message
}

func (e *ConfigError) Unwrap() error { return e.err }

// AppConfig holds infrastructure config from standard env vars
type AppConfig struct {
	APIKey      string        `env:"FDC_API_KEY"`
	BaseURL     string        `env:"FDC_BASE_URL" envDefault:"https://api.nal.usda.gov/fdc/v1"`
	CacheDBPath string        `env:"FDC_CACHE_DB" envDefault:"./local-data/fdc-cache.db"`
	HTTPTimeout time.Duration `env:"FDC_HTTP_TIMEOUT" envDefault:"30s"`
}

// RunProfile is an optional YAML file carrying defaults for a generate run.
// Zero values mean "not set".
type RunProfile struct {
	Queries   []string `yaml:"queries"`
	DataTypes []string `yaml:"data_types"`
	PageSize  int      `yaml:"page_size"`
	SleepMS   *int     `yaml:"sleep_ms"`
	Limit     int      `yaml:"limit"`
	Mode      string   `yaml:"mode"`
}

// GetAppConfig reads settings from the environment, after loading a .env
// file from the working directory when one exists.
func GetAppConfig() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, NewConfigError("failed to load .env file", err)
	}

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, NewConfigError("failed to parse environment", err)
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

// RequireAPIKey fails when the FDC credential is missing.
func (c AppConfig) RequireAPIKey() error {
	if c.APIKey == "" {
		return NewConfigError("missing FDC_API_KEY env var", nil)
	}
	return nil
}

// LoadRunProfile reads the YAML run profile at path.
func LoadRunProfile(path string) (*RunProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(fmt.Sprintf("failed to read config file at '%s'", path), err)
	}
	var p RunProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, NewConfigError("failed to parse YAML config", err)
	}
	return &p, nil
}
