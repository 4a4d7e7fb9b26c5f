package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/atom-check-updates/internal/config"
	"github.com/oshokin/atom-check-updates/internal/console"
	"github.com/oshokin/atom-check-updates/internal/domain/release"
	"github.com/oshokin/atom-check-updates/internal/logger"
	"github.com/oshokin/atom-check-updates/internal/service/updater"
	"github.com/oshokin/atom-check-updates/internal/version"
)

var errUnknownLogLevel = errors.New("unknown log level")

var (
	// configPath to the optional configuration YAML file.
	configPath string
	// beta selects the beta channel.
	beta bool
	// forceYes skips the confirmation prompt.
	forceYes bool
	// logLevel of the diagnostic log written to stderr.
	logLevel string

	// outcome of the last update run, it decides the exit code.
	outcome = release.OutcomeFailed
	// reported is set once the updater printed its own status line.
	reported bool

	// rootCmd represents the base command for checking and installing updates.
	rootCmd = &cobra.Command{
		Use:           version.Name,
		Short:         "Check for Atom updates and install them on Debian and RPM based distros",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("%w: %q", errUnknownLogLevel, logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			cfg.Channel = release.ChannelFromBeta(beta)
			cfg.ForceYes = forceYes

			options := &updater.Options{
				Config:      cfg,
				Interactive: console.IsInteractive(),
				Reporter:    console.NewReporter(cmd.OutOrStdout()),
				Prompter:    console.NewPrompterWithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
			}

			outcome, err = updater.Run(ctx, options)
			reported = true

			return err
		},
	}
)

// Execute runs the CLI and exits with the status of the update outcome.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(initConfigCmd)

	err := rootCmd.Execute()

	logger.Sync()

	if err != nil {
		if !reported {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		}

		os.Exit(outcome.ExitCode())
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().BoolVarP(&beta, "beta", "b", false, "check the beta channel and the atom-beta binary")
	rootCmd.Flags().BoolVarP(&forceYes, "force-yes", "y", false, "install without asking for confirmation")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to an optional configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}
