package runner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/speech-timer/internal/bells"
	"github.com/oshokin/speech-timer/internal/clock"
	"github.com/oshokin/speech-timer/internal/config"
	"github.com/oshokin/speech-timer/internal/domain/timer"
)

// newBellObserver builds a bell listener over a manual clock with a
// counting bell handler.
func newBellObserver(t *testing.T, checkpoints []timer.Checkpoint) (*bellListener, *int) {
	t.Helper()

	fired := new(int)
	scheduler := bells.New(clock.NewManual(time.Unix(0, 0)), nil,
		bells.WithBellHandler(func(timer.BellEvent) {
			*fired++
		}),
	)

	return newBellListener(context.Background(), scheduler, checkpoints, nil), fired
}

// TestBellListenerDisarmsFiredCheckpoints verifies the listener clears
// Armed flags so a bell cannot ring twice in one run.
func TestBellListenerDisarmsFiredCheckpoints(t *testing.T) {
	t.Parallel()

	checkpoints := []timer.Checkpoint{
		{Kind: timer.BellFirst, Threshold: time.Minute, Enabled: true, Armed: true},
	}
	observer, fired := newBellObserver(t, checkpoints)

	// Baseline, crossing, sustained low samples.
	observer.OnTick(timer.Snapshot{Remaining: 2 * time.Minute})
	observer.OnTick(timer.Snapshot{Remaining: 50 * time.Second})
	observer.OnTick(timer.Snapshot{Remaining: 40 * time.Second})

	require.Equal(t, 1, *fired)
	require.False(t, observer.checkpoints[0].Armed)
}

// TestBellListenerRearmsOnIdle verifies a reset to idle restores the
// baseline and the Armed flags, so the same threshold fires again.
func TestBellListenerRearmsOnIdle(t *testing.T) {
	t.Parallel()

	checkpoints := []timer.Checkpoint{
		{Kind: timer.BellFirst, Threshold: time.Minute, Enabled: true, Armed: true},
	}
	observer, fired := newBellObserver(t, checkpoints)

	observer.OnTick(timer.Snapshot{Remaining: 2 * time.Minute})
	observer.OnTick(timer.Snapshot{Remaining: 30 * time.Second})
	require.Equal(t, 1, *fired)

	observer.OnStatusChange(timer.StatusRunning, timer.StatusIdle)
	require.True(t, observer.checkpoints[0].Armed)

	observer.OnTick(timer.Snapshot{Remaining: 2 * time.Minute})
	observer.OnTick(timer.Snapshot{Remaining: 45 * time.Second})
	require.Equal(t, 2, *fired)
}

// TestBellListenerDoneClosesOnce verifies repeated finish notifications
// close the done channel exactly once without panicking.
func TestBellListenerDoneClosesOnce(t *testing.T) {
	t.Parallel()

	observer, _ := newBellObserver(t, nil)

	observer.OnFinish(timer.Snapshot{})
	observer.OnFinish(timer.Snapshot{})

	select {
	case <-observer.Done():
	default:
		t.Fatal("done channel is not closed")
	}
}

// TestSeedFromConfig verifies the first-run settings blob mirrors the
// YAML configuration.
func TestSeedFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	seeded := seedFromConfig(cfg)

	require.Equal(t, cfg.Duration.Milliseconds(), seeded.DurationMs)
	require.Equal(t, cfg.FirstBell.Threshold.Milliseconds(), seeded.FirstBell.ThresholdMs)
	require.Equal(t, cfg.FirstBell.Enabled, seeded.FirstBell.Enabled)
	require.InDelta(t, cfg.Volume, seeded.Volume, 1e-9)
}

// TestSelectOutput verifies silent mode disables playback and a missing
// sound file falls back to the terminal bell.
func TestSelectOutput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.Default()

	require.Nil(t, selectOutput(ctx, cfg, &Options{Silent: true}, 1))

	out := selectOutput(ctx, cfg, &Options{SoundFile: "definitely-missing.wav"}, 1)
	require.NotNil(t, out)
	require.True(t, out.Ready())
}

// TestRunCompletesShortCountdown drives a real countdown end to end on
// runtime timers.
func TestRunCompletesShortCountdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := &Options{
		ConfigPath:   filepath.Join(dir, "absent.yaml"),
		SettingsFile: filepath.Join(dir, "settings.json"),
		Duration:     120 * time.Millisecond,
		Silent:       true,
	}

	require.NoError(t, Run(ctx, opts))
	require.NoError(t, ctx.Err(), "run should finish before the safety timeout")

	// The first run seeded the settings file.
	require.FileExists(t, opts.SettingsFile)
}
