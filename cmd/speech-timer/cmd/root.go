package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/speech-timer/internal/config"
	"github.com/oshokin/speech-timer/internal/logger"
	"github.com/oshokin/speech-timer/internal/repository/settings"
	"github.com/oshokin/speech-timer/internal/service/runner"
	"github.com/oshokin/speech-timer/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// settingsFile path where timer settings are persisted.
	settingsFile string
	// soundFile path of the bell sound.
	soundFile string
	// metricsAddress for the optional Prometheus endpoint.
	metricsAddress string
	// logLevel overrides the configured minimum log level.
	logLevel string
	// silent disables audio playback.
	silent bool

	// rootCmd represents the base command for running the speech timer.
	rootCmd = &cobra.Command{
		Use:   "speech-timer [duration]",
		Short: "Run a countdown for a timed speech with up to three warning bells.",
		Long: `Starts a countdown timer for a timed speech and rings up to three ordered
bells as configurable remaining-time thresholds are crossed.

The duration can be provided as an argument (e.g., 7m, 90s, 1h30m) to override
the persisted settings. Bell thresholds, volume, and the duration persist to a
JSON settings file across runs; infrastructure options live in the YAML
configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Use duration argument if provided, otherwise rely on
			// persisted settings.
			var duration time.Duration
			if len(args) > 0 {
				parsed, err := time.ParseDuration(args[0])
				if err != nil {
					return fmt.Errorf("invalid duration %q: %w", args[0], err)
				}

				duration = parsed
			}

			options := &runner.Options{
				ConfigPath:     configPath,
				SettingsFile:   settingsFile,
				Duration:       duration,
				SoundFile:      soundFile,
				MetricsAddress: metricsAddress,
				Silent:         silent,
			}

			return runner.Run(ctx, options)
		},
	}
)

// Execute runs the speech-timer CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&settingsFile, "settings-file", "s", settings.DefaultFilename, "path to persisted timer settings")
	rootCmd.Flags().StringVar(&soundFile, "sound", "", "path to the bell sound file (default: terminal bell)")
	rootCmd.Flags().StringVar(&metricsAddress, "metrics-addr", "", "Prometheus listen address (e.g., :9090), empty disables")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "minimum log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&silent, "silent", false, "disable audio playback; bells still fire as notifications")
}
