package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"botwatch/internal/config"
)

var Version = "dev"

// jsonOutput controls whether output is formatted as JSON
var jsonOutput bool

// flagURL overrides the configured backend URL for one invocation.
var flagURL string

var rootCmd = &cobra.Command{
	Use:     "botwatch",
	Short:   "Operational dashboard for the trading bot",
	Long:    `botwatch watches a running trading bot over its HTTP API: live dashboard, one-shot status queries, and order and position controls.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&flagURL, "url", "u", "", "Bot API base URL (overrides config)")
}

// GetJSONMode returns whether JSON output mode is enabled.
func GetJSONMode() bool {
	return jsonOutput
}

// loadConfig resolves the effective configuration: file settings with the
// --url flag on top. Config errors fall back to defaults rather than
// blocking a one-shot query.
func loadConfig() *config.Config {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		cfg = config.Default()
	}
	if flagURL != "" {
		cfg.BaseURL = flagURL
	}
	return cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
