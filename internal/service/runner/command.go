package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/oshokin/speech-timer/internal/audio"
	"github.com/oshokin/speech-timer/internal/bells"
	"github.com/oshokin/speech-timer/internal/broker"
	"github.com/oshokin/speech-timer/internal/clock"
	"github.com/oshokin/speech-timer/internal/config"
	"github.com/oshokin/speech-timer/internal/domain/timer"
	"github.com/oshokin/speech-timer/internal/engine"
	"github.com/oshokin/speech-timer/internal/logger"
	"github.com/oshokin/speech-timer/internal/metrics"
	"github.com/oshokin/speech-timer/internal/repository/settings"
)

// Options controls the timer run and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// SettingsFile provides an optional persisted-settings path
	// override.
	SettingsFile string
	// Duration provides an optional speech duration override.
	Duration time.Duration
	// SoundFile provides an optional bell sound override.
	SoundFile string
	// MetricsAddress provides an optional Prometheus listen address
	// override.
	MetricsAddress string
	// Silent disables audio playback entirely; bells still fire as
	// notifications.
	Silent bool
}

// Run drives one countdown from start to finish or interruption.
// Configuration is resolved as CLI override > persisted settings >
// YAML config defaults.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "speech-timer")

	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	persisted, err := loadSettings(ctx, cfg, opts)
	if err != nil {
		return fmt.Errorf("load persisted settings: %w", err)
	}

	duration := persisted.Duration()
	if opts.Duration > 0 {
		duration = opts.Duration
	}

	output := selectOutput(ctx, cfg, opts, persisted.Volume)

	metricsAddress := cfg.MetricsAddress
	if opts.MetricsAddress != "" {
		metricsAddress = opts.MetricsAddress
	}

	var collector *metrics.Collector
	if metricsAddress != "" {
		collector = metrics.NewCollector(nil)

		go func() {
			if err := metrics.Serve(ctx, metricsAddress); err != nil {
				logger.ErrorKV(ctx, "Metrics endpoint failed", "error", err)
			}
		}()

		logger.InfoKV(ctx, "Metrics endpoint listening", "address", metricsAddress)
	}

	clk := clock.System{}
	scheduler := bells.New(clk, output,
		bells.WithBellHandler(func(event timer.BellEvent) {
			logger.InfoKV(ctx, "Bell",
				"kind", event.Kind.String(),
				"remaining", event.Remaining.Truncate(time.Millisecond).String(),
				"threshold", event.Threshold.String())

			if collector != nil {
				collector.RecordBell(event.Kind.String())
			}
		}),
		bells.WithErrorHandler(func(err error) {
			logger.ErrorKV(ctx, "Bell playback failed", "error", err)

			if collector != nil {
				collector.RecordPlayFailure()
			}
		}),
	)

	bellObserver := newBellListener(ctx, scheduler, persisted.Checkpoints(), collector)

	// One engine, many observers: the broker fans notifications out to
	// the bell observer and the progress logger.
	fanout := broker.New()
	fanout.Subscribe(bellObserver)
	fanout.Subscribe(newProgressListener(ctx))

	eng := engine.New(clk, clock.NewFrameScheduler(cfg.FrameInterval), duration,
		engine.WithListener(fanout),
		engine.WithDriftSampleInterval(cfg.DriftSampleInterval))
	defer eng.Destroy()

	logger.InfoKV(ctx, "Starting countdown", "duration", duration.String())
	eng.Start()

	select {
	case <-ctx.Done():
		logger.Info(ctx, "Interrupted, stopping timer")
	case <-bellObserver.Done():
		snap := eng.Snapshot()
		logger.InfoKV(ctx, "Countdown finished",
			"elapsed", snap.Elapsed.String(), "drift", snap.PrecisionDrift.String())
	}

	return nil
}

// loadConfig loads the YAML config, falling back to defaults when the
// file does not exist so the CLI works out of the box.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.Load(path)

	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		logger.Debug(ctx, "No configuration file, using defaults")

		return config.Default(), nil
	default:
		return nil, err
	}
}

// loadSettings loads the persisted JSON settings. On first run the file
// is seeded from the YAML config so subsequent runs see a stable blob.
func loadSettings(ctx context.Context, cfg *config.Config, opts *Options) (*settings.Settings, error) {
	path := cfg.SettingsFile
	if opts.SettingsFile != "" {
		path = opts.SettingsFile
	}

	repo := settings.NewFileRepository(path)

	persisted, err := repo.Load(ctx)

	switch {
	case err == nil:
		return persisted, nil
	case errors.Is(err, settings.ErrNotFound):
		seeded := seedFromConfig(cfg)

		if err := repo.Save(ctx, seeded); err != nil {
			logger.WarnKV(ctx, "Unable to seed settings file", "error", err)
		}

		return seeded, nil
	default:
		return nil, err
	}
}

// seedFromConfig builds initial persisted settings from the YAML
// config.
func seedFromConfig(cfg *config.Config) *settings.Settings {
	bell := func(bc config.BellConfig) settings.BellSetting {
		return settings.BellSetting{
			ThresholdMs: bc.Threshold.Milliseconds(),
			Enabled:     bc.Enabled,
		}
	}

	return &settings.Settings{
		Version:    settings.CurrentVersion,
		DurationMs: cfg.Duration.Milliseconds(),
		FirstBell:  bell(cfg.FirstBell),
		SecondBell: bell(cfg.SecondBell),
		ThirdBell:  bell(cfg.ThirdBell),
		Volume:     cfg.Volume,
	}
}

// selectOutput picks the audio output: silent mode disables playback,
// a configured sound file selects the command player when usable, and
// everything else falls back to the terminal bell.
func selectOutput(ctx context.Context, cfg *config.Config, opts *Options, volume float64) audio.Output {
	if opts.Silent {
		return nil
	}

	soundFile := cfg.SoundFile
	if opts.SoundFile != "" {
		soundFile = opts.SoundFile
	}

	if soundFile != "" {
		player := audio.NewCommandPlayer(soundFile)
		player.SetVolume(volume)

		if player.Ready() {
			return player
		}

		logger.WarnKV(ctx, "Sound file or player unavailable, using terminal bell", "sound_file", soundFile)
	}

	return audio.NewTerminalBell(os.Stdout)
}
