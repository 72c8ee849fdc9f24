package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"route-warmer/internal/app"
	"route-warmer/internal/config"
	"route-warmer/internal/logger"
)

var (
	cfgPath  string
	logLevel string
	services *app.App
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "warmer",
	Short: "Route warmer - warm up IBC and Eureka routes with minimal transfers",
	Long: `warmer builds minimal-value cross-chain transfers, simulates them for gas, signs them
with the configured key and broadcasts them, failing over between chain endpoints.

Configuration is read from configs/config.yaml, .env, .env.local and ROUTE_WARMER_* variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		app.LoadEnv()
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logger.Level = logLevel
		}
		cfg.Logger.Encoding = "console"

		zapLogger, err := logger.NewLogger(cfg.Logger, config.AppConfig{})
		if err != nil {
			return err
		}
		services, err = app.New(cfg, zapLogger)
		return err
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if services != nil {
			_ = services.Logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "configs", "directory holding config.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func logInfo(msg string, fields ...zap.Field) {
	if services != nil {
		services.Logger.Info(msg, fields...)
	}
}
