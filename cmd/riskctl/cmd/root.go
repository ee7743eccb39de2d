package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/itsramaa/trading-journal/config"
	"github.com/itsramaa/trading-journal/internal/logging"
	"github.com/itsramaa/trading-journal/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "riskctl",
	Short: "Risk limits and position sizing for a trading journal",
	Long: `riskctl sizes positions, checks them against your risk profile and
tracks daily loss usage in the trading journal.

It provides tools for:
  - Risk-based position sizing with R multiples
  - Pre-trade limit checks (position size, concurrency, daily loss)
  - Daily loss tracking with 70/90/100% warnings
  - Combining calendar, regime and volatility signals into one size multiplier
  - Style-aware weight profiles (scalping, short trade, swing)`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil || cfg.Metrics.Textfile == "" {
			return nil
		}
		if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		return nil
	},
}

var (
	cfgFile  string
	envFile  string
	logLevel string
	userFlag string

	cfg      *config.Config
	logger   = zerolog.Nop()
	registry = prometheus.NewRegistry()
	recorder = metrics.New(registry)
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file with RISKCTL_* overrides, skipped if missing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "journal user id")
}

// setup resolves configuration: defaults or file, then env file and
// environment, then flags.
func setup(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	c := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c = loaded
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if userFlag != "" {
		c.Account.UserID = userFlag
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cfg = c
	logger = logging.New(c.Log.Level, c.Log.Pretty)
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
