package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ppiankov/vocabcheck/internal/model"
)

// version is overridden at build time with -ldflags "-X ..."
var version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vocabcheck",
	Short: "Vocabcheck - vocabulary usage feedback for sentences",
	Long: `Vocabcheck checks how a vocabulary word is used in a sentence.

Given a sentence, a target word and the expected part of speech, it reports
whether the word appears, which part of speech it was tagged with, and whether
the sentence as a whole reads as grammatical.

Tagging and grammar classification are delegated to configurable backends
(a spaCy-style HTTP tagger, Hugging Face, OpenAI, Anthropic or Ollama).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vocabcheck %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.vocabcheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().String("tagger", "", "tagger provider (http, openai)")
	rootCmd.PersistentFlags().String("grammar", "", "grammar classifier provider (huggingface, openai, anthropic, ollama)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".vocabcheck"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configKeys lists every scalar setting that may come from the environment.
// VOCABCHECK_GRAMMAR_BASE_URL sets grammar.base_url, and so on.
var configKeys = []string{
	"tagger.provider", "tagger.model", "tagger.api_key", "tagger.base_url", "tagger.timeout", "tagger.probe_on_start",
	"grammar.provider", "grammar.model", "grammar.api_key", "grammar.base_url", "grammar.timeout", "grammar.probe_on_start", "grammar.max_tokens",
	"engine.capability_timeout",
	"server.addr", "server.requests_per_second", "server.burst", "server.client_ttl",
	"batch.workers", "batch.requests_per_second", "batch.burst",
	"http.http_proxy", "http.https_proxy", "http.no_proxy",
	"log.level", "log.format",
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("VOCABCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
}

// loadConfig merges defaults, config file, environment and flags, then
// validates the result
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if v.IsSet("grammar.labels") {
		// Decoding merges into existing slice elements; start from an empty list
		cfg.Grammar.Labels = nil
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyProviderEnv(cfg)

	if v.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyProviderEnv fills API keys and endpoints from the providers' own
// conventional environment variables when not configured explicitly
func applyProviderEnv(cfg *model.Config) {
	if cfg.Tagger.APIKey == "" && strings.EqualFold(cfg.Tagger.Provider, "openai") {
		cfg.Tagger.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	switch strings.ToLower(cfg.Grammar.Provider) {
	case "openai":
		if cfg.Grammar.APIKey == "" {
			cfg.Grammar.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic":
		if cfg.Grammar.APIKey == "" {
			cfg.Grammar.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "huggingface":
		if cfg.Grammar.APIKey == "" {
			cfg.Grammar.APIKey = os.Getenv("HF_API_TOKEN")
		}
	case "ollama":
		if cfg.Grammar.BaseURL == "" {
			cfg.Grammar.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}

// newLogger builds the process logger from configuration
func newLogger(cfg model.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// flagKeys maps persistent flags to the config keys they override.
// They are applied only when set so an unset flag never masks the file or env.
var flagKeys = map[string]string{
	"tagger":     "tagger.provider",
	"grammar":    "grammar.provider",
	"log-format": "log.format",
}

func applyFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
}

// setup loads configuration and installs the process logger
func setup() (*model.Config, *slog.Logger, error) {
	applyFlags(viper.GetViper(), rootCmd.PersistentFlags())

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
