package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"botwatch/internal/derive"
	"botwatch/internal/journal"
	"botwatch/internal/output"
	"botwatch/pkg/botapi"
)

// ordersOptions holds dependencies for the orders command.
type ordersOptions struct {
	baseURL     string
	jsonMode    bool
	timeout     time.Duration
	journalPath string
}

// newOrdersCmd creates the orders command with the given options.
func newOrdersCmd(opts ordersOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List working orders",
		Long: `List orders still held at the broker.

Examples:
  botwatch orders
  botwatch orders cancel 42   # Cancel a working order`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrders(cmd, opts)
		},
	}

	cmd.SilenceUsage = true
	cmd.AddCommand(newCancelCmd(opts))
	return cmd
}

func runOrders(cmd *cobra.Command, opts ordersOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	client := botapi.NewClient(opts.baseURL)
	orders, err := client.OpenOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch open orders: %w", err)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(orders)
	}

	if len(orders) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No pending orders")
		return nil
	}

	headers := []string{"ID", "Symbol", "Side", "Type", "Qty", "Price", "Status"}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		price := "MKT"
		if o.Price != 0 {
			price = derive.Money(decimal.NewFromFloat(o.Price))
		}
		rows = append(rows, []string{
			strconv.FormatInt(o.OrderID, 10),
			o.Symbol,
			o.Action,
			o.Type,
			fmt.Sprintf("%g", o.Quantity),
			price,
			o.Status,
		})
	}
	return formatter.Table(headers, rows)
}

// newCancelCmd creates the orders cancel subcommand.
func newCancelCmd(opts ordersOptions) *cobra.Command {
	var flagYes bool

	cmd := &cobra.Command{
		Use:   "cancel ORDER_ID",
		Short: "Cancel a working order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order ID %q", args[0])
			}
			return runCancel(cmd, opts, orderID, flagYes)
		},
	}

	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.SilenceUsage = true
	return cmd
}

func runCancel(cmd *cobra.Command, opts ordersOptions, orderID int64, yes bool) error {
	if !yes && !confirm(cmd, fmt.Sprintf("Cancel order %d?", orderID)) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	client := botapi.NewClient(opts.baseURL)
	res, err := client.CancelOrder(ctx, orderID)
	recordAction(opts.journalPath, journal.KindCancelOrder, strconv.FormatInt(orderID, 10), err)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(res)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order %d: %s\n", res.OrderID, res.Status)
	return nil
}

func init() {
	runtimeOpts := func() ordersOptions {
		cfg := loadConfig()
		return ordersOptions{
			baseURL:     cfg.BaseURL,
			jsonMode:    GetJSONMode(),
			timeout:     cfg.Timeout(),
			journalPath: cfg.JournalPath,
		}
	}

	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "List working orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrders(cmd, runtimeOpts())
		},
	}
	ordersCmd.SilenceUsage = true

	var flagYes bool
	cancelCmd := &cobra.Command{
		Use:   "cancel ORDER_ID",
		Short: "Cancel a working order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order ID %q", args[0])
			}
			return runCancel(cmd, runtimeOpts(), orderID, flagYes)
		},
	}
	cancelCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	cancelCmd.SilenceUsage = true

	ordersCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(ordersCmd)
}
