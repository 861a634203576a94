// Package main is the headless arena driver.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/castlehold/arena/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Castle-defence arena simulation",
	Long:  `arena runs the castle-defence encounter core headless, with an autopilot weapon standing in for player input.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	defaultPath := ""
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		defaultPath = p
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "TOML config file (defaults built in)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig returns the built-in defaults when no path was given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
