package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"botwatch/internal/journal"
	"botwatch/internal/output"
)

// journalOptions holds dependencies for the journal command.
type journalOptions struct {
	jsonMode    bool
	journalPath string
}

// newJournalCmd creates the journal command with the given options.
func newJournalCmd(opts journalOptions) *cobra.Command {
	var flagLimit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the local action journal",
		Long: `Show control actions dispatched from this machine: cancels, closes and
shutdown requests, with the backend's response to each.

Examples:
  botwatch journal
  botwatch journal --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(cmd, opts, flagLimit)
		},
	}

	cmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Maximum entries to show")
	cmd.SilenceUsage = true
	return cmd
}

func runJournal(cmd *cobra.Command, opts journalOptions, limit int) error {
	jnl, err := journal.Open(opts.journalPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = jnl.Close() }()

	entries, err := jnl.Recent(limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		if entries == nil {
			entries = []journal.Entry{}
		}
		return formatter.Print(entries)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No journaled actions")
		return nil
	}

	headers := []string{"Time", "Action", "Target", "OK", "Detail"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Local().Format(time.DateTime),
			e.Kind,
			e.Target,
			fmt.Sprintf("%t", e.OK),
			e.Detail,
		})
	}
	return formatter.Table(headers, rows)
}

func init() {
	var flagLimit int
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the local action journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			return runJournal(cmd, journalOptions{
				jsonMode:    GetJSONMode(),
				journalPath: cfg.JournalPath,
			}, flagLimit)
		},
	}
	journalCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Maximum entries to show")
	journalCmd.SilenceUsage = true
	rootCmd.AddCommand(journalCmd)
}
