package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"botwatch/internal/config"
)

// configureOptions holds dependencies for the configure command.
type configureOptions struct {
	configPath string
}

// newConfigureCmd creates the configure command with the given options.
func newConfigureCmd(opts configureOptions) *cobra.Command {
	var (
		flagBaseURL string
		flagPoll    int
		flagTimeout int
		flagShow    bool
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Set or show the botwatch configuration",
		Long: `Write the botwatch configuration file.

Examples:
  botwatch configure --base-url http://tradingbot:8080
  botwatch configure --poll-interval 5
  botwatch configure --show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, opts, configureFlags{
				baseURL: flagBaseURL,
				poll:    flagPoll,
				timeout: flagTimeout,
				show:    flagShow,
			})
		},
	}

	cmd.Flags().StringVar(&flagBaseURL, "base-url", "", "Bot API base URL")
	cmd.Flags().IntVar(&flagPoll, "poll-interval", 0, "Dashboard poll interval in seconds")
	cmd.Flags().IntVar(&flagTimeout, "timeout", 0, "Request timeout in seconds")
	cmd.Flags().BoolVar(&flagShow, "show", false, "Print the effective configuration and exit")
	cmd.SilenceUsage = true
	return cmd
}

type configureFlags struct {
	baseURL string
	poll    int
	timeout int
	show    bool
}

func runConfigure(cmd *cobra.Command, opts configureOptions, flags configureFlags) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if flags.show {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "config: %s\n", opts.configPath)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "base_url: %s\n", cfg.BaseURL)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "poll_interval_seconds: %d\n", cfg.PollIntervalSeconds)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "request_timeout_seconds: %d\n", cfg.TimeoutSeconds)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "journal_path: %s\n", cfg.JournalPath)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "log_path: %s\n", cfg.LogPath)
		return nil
	}

	changed := false
	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
		changed = true
	}
	if flags.poll > 0 {
		cfg.PollIntervalSeconds = flags.poll
		changed = true
	}
	if flags.timeout > 0 {
		cfg.TimeoutSeconds = flags.timeout
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to change; see 'botwatch configure --help'")
	}

	if err := config.Save(opts.configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.configPath)
	return nil
}

func init() {
	rootCmd.AddCommand(newConfigureCmd(configureOptions{configPath: config.ConfigPath()}))
}
