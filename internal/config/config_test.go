package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/timvw/leaneval/internal/llm"
)

// clearEnv unsets every variable Load and Resolve read.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LEANEVAL_PROVIDER", "LEANEVAL_MODEL", "LEANEVAL_BASE_URL", "LEANEVAL_API_KEY",
		"LEANEVAL_TIMEOUT", "LEANEVAL_OTEL_ENDPOINT", "LEANEVAL_OTEL_HEADERS",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_HEADERS",
		"AZURE_OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "AZURE_RESOURCE_NAME",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Defaults()
	if err := cfg.Resolve(); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if cfg.Provider != "anthropic" {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, "anthropic")
	}
	if cfg.Model != llm.DefaultModel {
		t.Errorf("Model: got %q, want %q", cfg.Model, llm.DefaultModel)
	}
	if cfg.TimeoutDuration != 0 {
		t.Errorf("TimeoutDuration: got %v, want 0", cfg.TimeoutDuration)
	}
}

func TestResolve_OpenAIDefaultModel(t *testing.T) {
	clearEnv(t)
	cfg := Defaults()
	cfg.Provider = ProviderOpenAI
	if err := cfg.Resolve(); err != nil {
		t.Fatal(err)
	}
	if cfg.Model != llm.DefaultOpenAIModel {
		t.Errorf("Model: got %q, want %q", cfg.Model, llm.DefaultOpenAIModel)
	}
}

func TestResolve_UnknownProvider(t *testing.T) {
	clearEnv(t)
	cfg := Defaults()
	cfg.Provider = "bedrock"
	if err := cfg.Resolve(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), `
provider: openai
model: gpt-4.1
base_url: https://example.test/v1
timeout: 90s
otel_endpoint: http://localhost:3000/api/public/otel
`)
	t.Setenv("LEANEVAL_MODEL", "gpt-4o")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := cfg.Resolve(); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile: got %q, want %q", cfg.ConfigFile, path)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider: got %q, want openai", cfg.Provider)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model: got %q, want env value gpt-4o", cfg.Model)
	}
	if cfg.BaseURL != "https://example.test/v1" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.TimeoutDuration != 90*time.Second {
		t.Errorf("TimeoutDuration: got %v, want 90s", cfg.TimeoutDuration)
	}
	if cfg.OTELEndpoint != "http://localhost:3000/api/public/otel" {
		t.Errorf("OTELEndpoint: got %q", cfg.OTELEndpoint)
	}
}

func TestLoad_HomeConfig(t *testing.T) {
	clearEnv(t)
	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".config", "leaneval")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, dir, "provider: openai\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile: got %q, want %q", cfg.ConfigFile, path)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider: got %q, want openai", cfg.Provider)
	}
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile: got %q, want empty", cfg.ConfigFile)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit file")
	}

	path := writeConfig(t, t.TempDir(), "provider: [unterminated\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestResolve_APIKeyFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		env      map[string]string
		want     string
	}{
		{name: "explicit env wins", provider: "anthropic", env: map[string]string{"LEANEVAL_API_KEY": "le", "ANTHROPIC_API_KEY": "an"}, want: "le"},
		{name: "azure before vendor", provider: "openai", env: map[string]string{"AZURE_OPENAI_API_KEY": "az", "OPENAI_API_KEY": "oa"}, want: "az"},
		{name: "anthropic key", provider: "anthropic", env: map[string]string{"ANTHROPIC_API_KEY": "an", "OPENAI_API_KEY": "oa"}, want: "an"},
		{name: "openai key", provider: "openai", env: map[string]string{"ANTHROPIC_API_KEY": "an", "OPENAI_API_KEY": "oa"}, want: "oa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			t.Setenv("LEANEVAL_PROVIDER", tt.provider)

			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			if err := cfg.Resolve(); err != nil {
				t.Fatal(err)
			}
			if cfg.APIKey != tt.want {
				t.Errorf("APIKey: got %q, want %q", cfg.APIKey, tt.want)
			}
		})
	}
}

func TestResolve_AzureBaseURL(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{provider: "anthropic", want: "https://myres.services.ai.azure.com/anthropic/"},
		{provider: "openai", want: "https://myres.openai.azure.com/openai/v1"},
	}
	for _, tt := range tests {
		clearEnv(t)
		t.Setenv("AZURE_RESOURCE_NAME", "myres")
		cfg := Defaults()
		cfg.Provider = tt.provider
		if err := cfg.Resolve(); err != nil {
			t.Fatal(err)
		}
		if cfg.BaseURL != tt.want {
			t.Errorf("%s BaseURL: got %q, want %q", tt.provider, cfg.BaseURL, tt.want)
		}
		if !IsAzureEndpoint(cfg.BaseURL) {
			t.Errorf("IsAzureEndpoint(%q) = false", cfg.BaseURL)
		}
	}
}

func TestParseDurationOrDisable(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "0", want: 0},
		{in: "off", want: 0},
		{in: "disable", want: 0},
		{in: "2m", want: 2 * time.Minute},
		{in: "-5s", wantErr: true},
		{in: "soon", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseDurationOrDisable(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDurationOrDisable(%q): error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDurationOrDisable(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsAzureEndpoint(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://x.openai.azure.com/openai/v1", true},
		{"https://x.services.ai.azure.us/anthropic/", true},
		{"https://api.anthropic.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAzureEndpoint(tt.url); got != tt.want {
			t.Errorf("IsAzureEndpoint(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
