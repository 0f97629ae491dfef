package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"botwatch/internal/output"
	"botwatch/pkg/botapi"
)

// statusOptions holds dependencies for the status command.
type statusOptions struct {
	baseURL  string
	jsonMode bool
	timeout  time.Duration
}

// newStatusCmd creates the status command with the given options.
func newStatusCmd(opts statusOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the bot's process and market status",
		Long: `Show trading state, broker connectivity, operating mode and market status.

Examples:
  botwatch status
  botwatch status --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts)
		},
	}

	cmd.SilenceUsage = true
	return cmd
}

func runStatus(cmd *cobra.Command, opts statusOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	client := botapi.NewClient(opts.baseURL)
	status, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(status)
	}

	pairs := [][2]string{
		{"Trading", status.TradingStatus},
		{"IB Connected", fmt.Sprintf("%t", status.IBConnected)},
		{"Mode", status.Mode},
		{"Market", status.MarketStatus.Status},
	}
	if status.MarketStatus.Reason != "" {
		pairs = append(pairs, [2]string{"Market Reason", status.MarketStatus.Reason})
	}
	for _, name := range []string{"SPY", "VIX"} {
		if q, ok := status.Indices[name]; ok && q.Value != 0 {
			pairs = append(pairs, [2]string{name, fmt.Sprintf("%.2f (%+.2f%%)", q.Value, q.Change)})
		}
	}
	return formatter.KV(pairs)
}

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the bot's process and market status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			return runStatus(cmd, statusOptions{
				baseURL:  cfg.BaseURL,
				jsonMode: GetJSONMode(),
				timeout:  cfg.Timeout(),
			})
		},
	}
	statusCmd.SilenceUsage = true
	rootCmd.AddCommand(statusCmd)
}
