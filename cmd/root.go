package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mcqgen/internal/config"
	"github.com/abhisek/mcqgen/internal/engine"
	"github.com/abhisek/mcqgen/internal/logging"
)

var (
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mcqgen",
	Short: "Generate and audit multiple-choice question banks",
	Long: `mcqgen turns a topic, source text or image into a validated bank of
multiple-choice questions using a fallback chain of LLM providers, and audits
existing banks for defects.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}

		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			cfg.Log.Level = "debug"
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.JSON)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command under ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to YAML config file (defaults plus environment when empty)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a dotenv file loaded before the config")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(versionCmd)
}

func newEngine(ctx context.Context) (*engine.Engine, error) {
	e, err := engine.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize engine: %w", err)
	}
	return e, nil
}
