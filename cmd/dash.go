package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"botwatch/internal/journal"
	"botwatch/internal/logging"
	"botwatch/internal/tui"
	"botwatch/pkg/botapi"
)

// dashOptions holds dependencies for the dash command.
type dashOptions struct {
	baseURL      string
	pollInterval time.Duration
	timeout      time.Duration
	journalPath  string
	logPath      string
}

// newDashCmd creates the dash command. Options are resolved when the
// command runs, after flags have been parsed.
func newDashCmd(opts func() dashOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Live dashboard",
		Long: `Open the live dashboard: account summary, positions, working orders and
the activity feed, refreshed continuously. Orders can be cancelled and
positions closed from the keyboard.

Keys:
  1/2   switch tabs        tab   switch table focus
  c     cancel order       x     close position
  r     refresh now        q     quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(opts())
		},
	}

	cmd.SilenceUsage = true
	return cmd
}

func runDash(opts dashOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("dash needs a terminal; use 'botwatch status --json' for scripting")
	}

	// The dashboard works without diagnostics.
	log := logging.Nop()
	if opts.logPath != "" {
		if fileLog, err := logging.NewFile(opts.logPath); err == nil {
			log = fileLog
		}
	}
	defer func() { _ = log.Sync() }()

	var jnl *journal.Journal
	if opts.journalPath != "" {
		opened, err := journal.Open(opts.journalPath)
		if err != nil {
			log.Warn("journal unavailable, actions will not be recorded locally")
		} else {
			jnl = opened
			defer func() { _ = jnl.Close() }()
		}
	}

	model := tui.NewModel(botapi.NewClient(opts.baseURL), tui.Options{
		PollInterval: opts.pollInterval,
		Timeout:      opts.timeout,
		Journal:      jnl,
		Logger:       log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newDashCmd(func() dashOptions {
		cfg := loadConfig()
		return dashOptions{
			baseURL:      cfg.BaseURL,
			pollInterval: cfg.PollInterval(),
			timeout:      cfg.Timeout(),
			journalPath:  cfg.JournalPath,
			logPath:      cfg.LogPath,
		}
	}))
}
