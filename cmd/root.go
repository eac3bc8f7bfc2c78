package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/leaneval/internal/config"
	"github.com/timvw/leaneval/internal/llm"
	telem "github.com/timvw/leaneval/internal/otel"
)

var (
	// Global flags.
	flagConfig   string
	flagProvider string
	flagModel    string
	flagBaseURL  string
	flagAPIKey   string
	flagTimeout  string
	flagTheme    string
)

var rootCmd = &cobra.Command{
	Use:   "leaneval",
	Short: "Evaluate startup ideas with lean-startup methodology",
	Long: `leaneval turns a one-paragraph startup idea and a few clarifying answers
into a structured lean evaluation: problem and persona, MVP scope,
validation experiments, risks, KPIs and a weighted composite score.

The evaluation is generated by an LLM. Its output is extracted, checked
against a fixed schema (with one retry on schema violations) and scored
deterministically.

Configuration is loaded from .leaneval.yaml, ~/.config/leaneval/config.yaml
and LEANEVAL_* environment variables; flags override both.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .leaneval.yaml, then ~/.config/leaneval/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider: anthropic, openai (default: anthropic)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", fmt.Sprintf("LLM model name (default: %s for anthropic, %s for openai)", llm.DefaultModel, llm.DefaultOpenAIModel))
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "override LLM API base URL")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "override LLM API key")
	rootCmd.PersistentFlags().StringVar(&flagTimeout, "timeout", "", `deadline for one evaluation, e.g. "2m" (default: none)`)
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "dark", "color theme for human-readable output: dark, light")
}

// loadConfig resolves configuration: defaults -> config file -> env -> flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "config: loaded %s\n", cfg.ConfigFile)
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = flagProvider
	}
	if flags.Changed("model") {
		cfg.Model = flagModel
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = flagBaseURL
	}
	if flags.Changed("api-key") {
		cfg.APIKey = flagAPIKey
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}

	if err := cfg.Resolve(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// getClient returns the configured model endpoint client.
func getClient(cfg *config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key found. Set LEANEVAL_API_KEY, AZURE_OPENAI_API_KEY, or %s", vendorKeyEnv(cfg.Provider))
	}

	// Azure needs the key in an "api-key" header as well as the SDK default.
	extraHeaders := map[string]string{}
	if os.Getenv("AZURE_RESOURCE_NAME") != "" || config.IsAzureEndpoint(cfg.BaseURL) {
		extraHeaders["api-key"] = cfg.APIKey
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return llm.NewOpenAIClient(llm.OpenAIConfig{
			BaseURL:      cfg.BaseURL,
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			ExtraHeaders: extraHeaders,
		}), nil
	default:
		return llm.NewAnthropicClient(llm.AnthropicConfig{
			BaseURL:      cfg.BaseURL,
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			ExtraHeaders: extraHeaders,
		}), nil
	}
}

func vendorKeyEnv(provider string) string {
	if provider == config.ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

// startTelemetry initializes OTEL (no-op without an endpoint). The returned
// shutdown func is always non-nil.
func startTelemetry(ctx context.Context, cfg *config.Config) (*telem.Metrics, func()) {
	telem.Version = Version

	tel, err := telem.Init(ctx, telem.Config{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
		return nil, func() {}
	}
	return tel.Metrics, func() { tel.Shutdown(context.WithoutCancel(ctx)) }
}
