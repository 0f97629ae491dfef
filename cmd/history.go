package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"botwatch/internal/derive"
	"botwatch/internal/output"
	"botwatch/pkg/botapi"
)

// historyOptions holds dependencies for the history command.
type historyOptions struct {
	baseURL  string
	jsonMode bool
	timeout  time.Duration
}

// newHistoryCmd creates the history command with the given options.
func newHistoryCmd(opts historyOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List today's completed orders",
		Long: `List today's filled, cancelled and rejected orders.

Examples:
  botwatch history
  botwatch history --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.SilenceUsage = true
	return cmd
}

func runHistory(cmd *cobra.Command, opts historyOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	client := botapi.NewClient(opts.baseURL)
	orders, err := client.History(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(orders)
	}

	if len(orders) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No orders today")
		return nil
	}

	headers := []string{"Time", "ID", "Symbol", "Side", "Qty", "Fill", "Status"}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		fill := "-"
		if o.FillPrice != nil {
			fill = derive.Money(decimal.NewFromFloat(*o.FillPrice))
		}
		ts := "-"
		if !o.CreatedAt.IsZero() {
			ts = o.CreatedAt.Format("15:04:05")
		}
		rows = append(rows, []string{
			ts,
			strconv.FormatInt(o.IBOrderID, 10),
			o.Ticker,
			o.Action,
			fmt.Sprintf("%g", o.Quantity),
			fill,
			o.Status,
		})
	}
	return formatter.Table(headers, rows)
}

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List today's completed orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			return runHistory(cmd, historyOptions{
				baseURL:  cfg.BaseURL,
				jsonMode: GetJSONMode(),
				timeout:  cfg.Timeout(),
			})
		},
	}
	historyCmd.SilenceUsage = true
	rootCmd.AddCommand(historyCmd)
}
