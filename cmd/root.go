package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/bookbrief/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootOptions carries state shared by every subcommand
type rootOptions struct {
	cfgFile string
	verbose bool
	v       *viper.Viper
	cfg     *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "bookbrief",
		Short: "Book summaries grounded in a book catalog",
		Long: `Bookbrief resolves a book title against a public book catalog and asks an
LLM for a summary of exactly the requested number of sentences.

It serves a small web interface and JSON API, summarizes single titles from the
command line, and evaluates catalog matching against the Institutional Books dataset.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(opts.v, opts.cfgFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			level := cfg.Log.Level
			if opts.verbose {
				level = "debug"
			}
			setupLogging(level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "Config file (default ./bookbrief.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	cmd.PersistentFlags().String("provider", "", "LLM provider (gemini, openai, anthropic, ollama)")
	cmd.PersistentFlags().String("model", "", "Model name (defaults to the provider's default)")
	cmd.PersistentFlags().String("catalog", "", "Catalog backend (googlebooks, kakao)")
	cmd.PersistentFlags().String("strategy", "", "Catalog strategy (fuzzy, exact, none)")
	cmd.PersistentFlags().Float64("threshold", 0, "Minimum title similarity to accept a catalog match")
	bindFlags(opts.v, cmd, map[string]string{
		"generation.provider": "provider",
		"generation.model":    "model",
		"catalog.backend":     "catalog",
		"catalog.strategy":    "strategy",
		"catalog.threshold":   "threshold",
	})

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSummarizeCmd(opts))
	cmd.AddCommand(newEvalCmd(opts))

	return cmd
}

// bindFlags lets explicitly set flags override file and environment values
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.PersistentFlags().Lookup(name)
		if flag == nil {
			flag = cmd.Flags().Lookup(name)
		}
		if flag == nil {
			panic(fmt.Sprintf("unknown flag %q", name))
		}
		_ = v.BindPFlag(key, flag)
	}
}

func setupLogging(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
