// Package config loads contentdesk settings: embedded defaults, an optional YAML file and
// environment overrides, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edudesk/contentdesk"
	"github.com/edudesk/contentdesk/internal/logging"
)

// Store kinds.
const (
	StoreBackend = "backend"
	StoreFile    = "file"
)

// Environment variables applied over file settings.
const (
	EnvBackendURL  = "CONTENTDESK_BACKEND_URL"
	EnvHTTPTimeout = "CONTENTDESK_HTTP_TIMEOUT"
	EnvLogLevel    = "CONTENTDESK_LOG_LEVEL"
	EnvLogFormat   = "CONTENTDESK_LOG_FORMAT"
	EnvStoreKind   = "CONTENTDESK_STORE"
	EnvStoreRoot   = "CONTENTDESK_STORE_ROOT"
)

// Config is the complete configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Logging LoggingConfig `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
	Records RecordsConfig `yaml:"records"`
}

// BackendConfig locates the admin backend.
type BackendConfig struct {
	URL string `yaml:"url"`
	// Timeout bounds each request; zero means none.
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig selects where records are loaded from and saved to.
type StoreConfig struct {
	Kind string `yaml:"kind"`
	Root string `yaml:"root"`
}

// RecordsConfig describes record layout.
type RecordsConfig struct {
	CollegeTypes    []string `yaml:"college_types"`
	Containers      []string `yaml:"containers"`
	SpecialTabs     []string `yaml:"special_tabs"`
	CollegeTabs     []string `yaml:"college_tabs"`
	ExamTabs        []string `yaml:"exam_tabs"`
	ExamBasicFields []string `yaml:"exam_basic_fields"`
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := decode(contentdesk.DefaultConfig, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse embedded config: %w", err)
	}
	return cfg, nil
}

// Load reads the embedded defaults, merges the file at path over them when path is not
// empty, then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode merges YAML data into cfg. Unknown keys are rejected.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
		c.Backend.Timeout = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvStoreKind); v != "" {
		c.Store.Kind = v
	}
	if v := os.Getenv(EnvStoreRoot); v != "" {
		c.Store.Root = v
	}
	return nil
}

// Validate checks the configuration for values the rest of the program cannot use.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if !slices.Contains([]string{"", logging.FormatText, logging.FormatJSON}, c.Logging.Format) {
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend timeout must not be negative, got %s", c.Backend.Timeout)
	}
	switch c.Store.Kind {
	case StoreBackend:
		if c.Backend.URL == "" {
			return errors.New("backend url is required for the backend store")
		}
	case StoreFile:
		if c.Store.Root == "" {
			return errors.New("store root is required for the file store")
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	return nil
}
