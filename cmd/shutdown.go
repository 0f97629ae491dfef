package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"botwatch/internal/journal"
	"botwatch/internal/output"
	"botwatch/pkg/botapi"
)

// shutdownOptions holds dependencies for the shutdown command.
type shutdownOptions struct {
	baseURL     string
	jsonMode    bool
	timeout     time.Duration
	journalPath string
}

// newShutdownCmd creates the shutdown command with the given options.
func newShutdownCmd(opts shutdownOptions) *cobra.Command {
	var flagYes bool

	cmd := &cobra.Command{
		Use:   "shutdown",
		Short: "Ask the bot to shut down",
		Long: `Request a graceful shutdown of the bot process.

The bot cancels its working orders and disconnects from the broker before
exiting. Requires confirmation unless --yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShutdown(cmd, opts, flagYes)
		},
	}

	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.SilenceUsage = true
	return cmd
}

func runShutdown(cmd *cobra.Command, opts shutdownOptions, yes bool) error {
	if !yes && !confirm(cmd, "Shut down the bot?") {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	client := botapi.NewClient(opts.baseURL)
	res, err := client.Shutdown(ctx)
	recordAction(opts.journalPath, journal.KindShutdown, "bot", err)
	if err != nil {
		return fmt.Errorf("failed to request shutdown: %w", err)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(res)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func init() {
	var flagYes bool
	shutdownCmd := &cobra.Command{
		Use:   "shutdown",
		Short: "Ask the bot to shut down",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			return runShutdown(cmd, shutdownOptions{
				baseURL:     cfg.BaseURL,
				jsonMode:    GetJSONMode(),
				timeout:     cfg.Timeout(),
				journalPath: cfg.JournalPath,
			}, flagYes)
		},
	}
	shutdownCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	shutdownCmd.SilenceUsage = true
	rootCmd.AddCommand(shutdownCmd)
}
