package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/folio/internal/errors"
)

// DefaultPath is the configuration file used when --config is not given.
const DefaultPath = "folio.yaml"

// Config represents the site configuration.
type Config struct {
	Site     SiteConfig      `yaml:"site"`
	Content  ContentConfig   `yaml:"content"`
	Sections []SectionConfig `yaml:"sections,omitempty"`
	Output   OutputConfig    `yaml:"output"`
	Preview  PreviewConfig   `yaml:"preview"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// SiteConfig carries site-wide presentation values.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// ContentConfig locates the markdown source tree.
type ContentConfig struct {
	Root    string `yaml:"root"`     // Content root directory
	DocsDir string `yaml:"docs_dir"` // Documentation sections, relative to root
	BlogDir string `yaml:"blog_dir"` // Blog posts, relative to root
}

// SectionConfig describes one documentation section. The key is also the
// directory name under the docs dir and the URL segment under /docs.
type SectionConfig struct {
	Key         string `yaml:"key"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Icon        string `yaml:"icon,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// PreviewConfig configures the live preview server.
type PreviewConfig struct {
	Port           int    `yaml:"port"`
	Debounce       string `yaml:"debounce"`                  // Go duration, e.g. "300ms"
	ResyncInterval string `yaml:"resync_interval,omitempty"` // Periodic full reload; empty disables

	// Failed reloads are retried before the previous snapshot is kept.
	Retries      int              `yaml:"retries,omitempty"`
	RetryBackoff RetryBackoffMode `yaml:"retry_backoff,omitempty"`
	RetryInitial string           `yaml:"retry_initial,omitempty"`
	RetryMax     string           `yaml:"retry_max,omitempty"`
}

// RetryBackoffMode enumerates supported backoff strategies for reload retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// NormalizeRetryBackoff returns a canonical mode or "" when unknown.
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	switch RetryBackoffMode(strings.ToLower(strings.TrimSpace(raw))) {
	case RetryBackoffFixed:
		return RetryBackoffFixed
	case RetryBackoffLinear:
		return RetryBackoffLinear
	case RetryBackoffExponential:
		return RetryBackoffExponential
	default:
		return ""
	}
}

// RetryDurations returns the parsed initial and maximum retry delays. Unset
// or invalid values are zero.
func (p PreviewConfig) RetryDurations() (initial, maxDelay time.Duration) {
	initial, _ = time.ParseDuration(p.RetryInitial)
	maxDelay, _ = time.ParseDuration(p.RetryMax)
	return initial, maxDelay
}

// DebounceDuration returns the parsed debounce window.
func (p PreviewConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(p.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}

// ResyncDuration returns the parsed resync interval, or zero when disabled.
func (p PreviewConfig) ResyncDuration() time.Duration {
	if p.ResyncInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(p.ResyncInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Section returns the configured section with the given key.
func (c *Config) Section(key string) (SectionConfig, bool) {
	for _, s := range c.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return SectionConfig{}, false
}

// Load loads configuration from the specified file.
//
// Environment files (.env, .env.local) are loaded first without overriding
// variables already present in the process environment; ${VAR} references in
// the YAML are then expanded.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ConfigNotFound(configPath)
		}
		return nil, ferrors.ConfigInvalid(configPath, err)
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		if _, ok := ferrors.As(err); ok {
			return nil, err
		}
		return nil, ferrors.ConfigInvalid(configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration, applies defaults and validates the result.
// An empty document yields the default configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles loads .env and .env.local when present. Missing files are not
// an error; existing process variables win.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", envPath, err)
		}
	}
}
