package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"botwatch/internal/derive"
	"botwatch/internal/journal"
	"botwatch/internal/output"
	"botwatch/pkg/botapi"
)

// positionsOptions holds dependencies for the positions command.
type positionsOptions struct {
	baseURL     string
	jsonMode    bool
	timeout     time.Duration
	journalPath string
}

// newPositionsCmd creates the positions command with the given options.
func newPositionsCmd(opts positionsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "List open positions",
		Long: `List open positions with derived market value and P&L.

Examples:
  botwatch positions
  botwatch positions close AAPL   # Close a position at market`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPositions(cmd, opts)
		},
	}

	cmd.SilenceUsage = true
	cmd.AddCommand(newCloseCmd(opts))
	return cmd
}

func runPositions(cmd *cobra.Command, opts positionsOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	client := botapi.NewClient(opts.baseURL)
	positions, err := client.Positions(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch positions: %w", err)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(positions)
	}

	if len(positions) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No open positions")
		return nil
	}

	headers := []string{"Symbol", "Qty", "Avg Cost", "Price", "Mkt Value", "Unrlzd P&L", "P&L %"}
	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		met := derive.Compute(p)
		price := p.MarketPrice
		if price == 0 {
			price = p.AvgCost
		}
		rows = append(rows, []string{
			p.Symbol,
			fmt.Sprintf("%g", p.Quantity),
			derive.Money(decimal.NewFromFloat(p.AvgCost)),
			derive.Money(decimal.NewFromFloat(price)),
			derive.Money(met.MarketValue),
			derive.SignedMoney(met.UnrealizedPnL),
			derive.SignedPercent(met.PnLPct),
		})
	}
	return formatter.Table(headers, rows)
}

// newCloseCmd creates the positions close subcommand.
func newCloseCmd(opts positionsOptions) *cobra.Command {
	var flagYes bool

	cmd := &cobra.Command{
		Use:   "close SYMBOL",
		Short: "Close a position at market",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClose(cmd, opts, args[0], flagYes)
		},
	}

	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.SilenceUsage = true
	return cmd
}

func runClose(cmd *cobra.Command, opts positionsOptions, symbol string, yes bool) error {
	if !yes && !confirm(cmd, fmt.Sprintf("Close position %s at market?", symbol)) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	client := botapi.NewClient(opts.baseURL)
	res, err := client.ClosePosition(ctx, symbol)
	recordAction(opts.journalPath, journal.KindClosePosition, symbol, err)
	if err != nil {
		return fmt.Errorf("failed to close position: %w", err)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(res)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Position %s: %s\n", res.Symbol, res.Status)
	return nil
}

// recordAction journals a control action, best effort. An unwritable
// journal must not fail the action itself.
func recordAction(path, kind, target string, err error) {
	if path == "" {
		return
	}
	jnl, openErr := journal.Open(path)
	if openErr != nil {
		return
	}
	defer func() { _ = jnl.Close() }()

	detail := "ok"
	if err != nil {
		detail = err.Error()
	}
	_ = jnl.Record(kind, target, err == nil, detail)
}

func init() {
	runtimeOpts := func() positionsOptions {
		cfg := loadConfig()
		return positionsOptions{
			baseURL:     cfg.BaseURL,
			jsonMode:    GetJSONMode(),
			timeout:     cfg.Timeout(),
			journalPath: cfg.JournalPath,
		}
	}

	positionsCmd := &cobra.Command{
		Use:   "positions",
		Short: "List open positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPositions(cmd, runtimeOpts())
		},
	}
	positionsCmd.SilenceUsage = true

	var flagYes bool
	closeCmd := &cobra.Command{
		Use:   "close SYMBOL",
		Short: "Close a position at market",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClose(cmd, runtimeOpts(), args[0], flagYes)
		},
	}
	closeCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	closeCmd.SilenceUsage = true

	positionsCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(positionsCmd)
}
