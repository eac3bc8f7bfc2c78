// Package config loads leaneval configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Command-line flags (applied by cmd)
//  2. Environment variables (LEANEVAL_*)
//  3. Config file
//  4. Built-in defaults
//
// Config file search order:
//  1. .leaneval.yaml in current directory
//  2. ~/.config/leaneval/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/timvw/leaneval/internal/llm"
)

// Supported providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config holds all leaneval configuration.
type Config struct {
	// LLM settings
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`

	// Timeout bounds one CLI evaluation. Go duration string; "0" or "off"
	// disables it.
	Timeout string `yaml:"timeout"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs, e.g. "Authorization=Basic abc123"

	// TimeoutDuration is Timeout parsed by Resolve.
	TimeoutDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values. Model is left empty
// and resolved per provider by Resolve.
func Defaults() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Timeout:  "off",
	}
}

// Load reads configuration from the file at path (or the first file found
// in the search order when path is empty) and the environment. The caller
// applies flags on top and then calls Resolve.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		path, data, err = findConfigFile()
		if errors.Is(err, errNoConfigFile) {
			path = ""
		} else if err != nil {
			return nil, err
		}
	}

	if path != "" {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)
	return cfg, nil
}

var errNoConfigFile = errors.New("no config file found")

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".leaneval.yaml"); err == nil {
		return ".leaneval.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "leaneval", "config.yaml")
		data, err := os.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	return "", nil, errNoConfigFile
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Provider != "" {
		cfg.Provider = file.Provider
	}
	if file.Model != "" {
		cfg.Model = file.Model
	}
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.APIKey != "" {
		cfg.APIKey = file.APIKey
	}
	if file.Timeout != "" {
		cfg.Timeout = file.Timeout
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins over the file.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("LEANEVAL_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("LEANEVAL_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("LEANEVAL_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LEANEVAL_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("LEANEVAL_TIMEOUT"); v != "" {
		cfg.Timeout = v
	}
	if v := firstEnv("LEANEVAL_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := firstEnv("LEANEVAL_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// Resolve validates the provider, fills provider-dependent defaults
// (model, API key fallbacks, Azure base URL) and parses Timeout.
func (c *Config) Resolve() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderAnthropic, ProviderOpenAI)
	}

	if c.Model == "" {
		if c.Provider == ProviderOpenAI {
			c.Model = llm.DefaultOpenAIModel
		} else {
			c.Model = llm.DefaultModel
		}
	}

	// API key fallbacks
	if c.APIKey == "" {
		c.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if c.APIKey == "" {
		if c.Provider == ProviderOpenAI {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		} else {
			c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	// Azure base URL fallback
	if c.BaseURL == "" {
		if rn := os.Getenv("AZURE_RESOURCE_NAME"); rn != "" {
			switch c.Provider {
			case ProviderAnthropic:
				c.BaseURL = fmt.Sprintf("https://%s.services.ai.azure.com/anthropic/", rn)
			case ProviderOpenAI:
				c.BaseURL = fmt.Sprintf("https://%s.openai.azure.com/openai/v1", rn)
			}
		}
	}

	d, err := parseDurationOrDisable(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	c.TimeoutDuration = d
	return nil
}

// parseDurationOrDisable parses a duration string. "", "0", "off" and
// "disable" return 0.
func parseDurationOrDisable(s string) (time.Duration, error) {
	switch s {
	case "", "0", "off", "disable":
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration")
	}
	return d, nil
}

// IsAzureEndpoint returns true if the URL is an Azure endpoint.
func IsAzureEndpoint(url string) bool {
	return strings.Contains(url, ".azure.com") || strings.Contains(url, ".azure.us")
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
