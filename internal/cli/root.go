package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partscan/config"
	"partscan/internal/logging"
	"partscan/internal/usecase"
)

var (
	cfgFile      string
	cfg          *config.Config
	rootDir      string
	outputFormat string
	logLevel     string
	logger       = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "partscan",
	Short: "Extract part numbers from scanned PDF pages",
	Long: `partscan rasterizes PDF pages, runs OCR on them and pulls out the tokens
that look like part numbers, dropping ordinary words and catalog boilerplate.

Example usage:
  partscan scan manual.pdf --pages "1,2,5-7"   # Scan selected pages
  partscan scan ./catalogs                     # Scan every PDF in a directory
  partscan show manual.pdf                     # Show stored results
  echo "VALVE 12-AB MCK67" | partscan extract  # Extract from plain text`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if outputFormat != "" {
			cfg.Output.Format = outputFormat
		}
		if err := usecase.ValidateFormat(cfg.Output.Format); err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logger = logging.New(cfg.Logging.Level)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel in-flight scans.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./partscan.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory holding .partscan (default is current directory)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "output format: text, json or csv (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func GetLogger() *zap.Logger {
	return logger
}
