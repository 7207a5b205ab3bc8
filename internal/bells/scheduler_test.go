package bells

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/speech-timer/internal/clock"
	"github.com/oshokin/speech-timer/internal/domain/timer"
)

var errPlaybackBroken = errors.New("playback broken")

// fakeOutput is a controllable audio output for tests.
type fakeOutput struct {
	// plays counts Play invocations.
	plays int
	// playErr is returned from Play when set.
	playErr error
	// notReady makes Ready report false.
	notReady bool
}

func (f *fakeOutput) Play(context.Context) error {
	f.plays++

	return f.playErr
}

func (f *fakeOutput) SetVolume(float64) {}

func (f *fakeOutput) Ready() bool {
	return !f.notReady
}

// threeCheckpoints builds the standard first/second/third configuration,
// all enabled and armed.
func threeCheckpoints(first, second, third time.Duration) []timer.Checkpoint {
	return []timer.Checkpoint{
		{Kind: timer.BellFirst, Threshold: first, Enabled: true, Armed: true},
		{Kind: timer.BellSecond, Threshold: second, Enabled: true, Armed: true},
		{Kind: timer.BellThird, Threshold: third, Enabled: true, Armed: true},
	}
}

// disarm clears the Armed flag for every fired kind, the way the
// caller is expected to react to CheckBells results.
func disarm(checkpoints []timer.Checkpoint, fired []timer.BellKind) {
	for _, kind := range fired {
		for i := range checkpoints {
			if checkpoints[i].Kind == kind {
				checkpoints[i].Armed = false
			}
		}
	}
}

// TestExactlyOnceCrossing verifies the 200s -> 175s -> 170s sequence
// against a 180s threshold fires on the 175s sample only.
func TestExactlyOnceCrossing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	out := new(fakeOutput)
	s := New(clock.NewManual(time.Unix(0, 0)), out)
	checkpoints := threeCheckpoints(180*time.Second, 0, 0)

	// 200s establishes the baseline; nothing may fire.
	require.Empty(t, s.CheckBells(ctx, 200*time.Second, checkpoints))

	fired := s.CheckBells(ctx, 175*time.Second, checkpoints)
	require.Equal(t, []timer.BellKind{timer.BellFirst}, fired)
	require.Equal(t, 1, out.plays)
	disarm(checkpoints, fired)

	// Already disarmed: sustained low samples cannot re-trigger.
	require.Empty(t, s.CheckBells(ctx, 170*time.Second, checkpoints))
	require.Equal(t, 1, out.plays)
}

// TestNoStartBelowThreshold verifies a timer started already below a
// threshold never rings: a 30s first sample against an 8m threshold.
func TestNoStartBelowThreshold(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(clock.NewManual(time.Unix(0, 0)), nil)
	checkpoints := threeCheckpoints(8*time.Minute, 0, 0)

	require.Empty(t, s.CheckBells(ctx, 30*time.Second, checkpoints))
	require.Empty(t, s.CheckBells(ctx, 29*time.Second, checkpoints))
	require.Empty(t, s.CheckBells(ctx, 28*time.Second, checkpoints))
}

// TestEqualityTriggers verifies landing exactly on the threshold fires,
// consistent with "previous > threshold >= current".
func TestEqualityTriggers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(clock.NewManual(time.Unix(0, 0)), nil)
	checkpoints := threeCheckpoints(time.Minute, 0, 0)

	require.Empty(t, s.CheckBells(ctx, 61*time.Second, checkpoints))

	fired := s.CheckBells(ctx, time.Minute, checkpoints)
	require.Equal(t, []timer.BellKind{timer.BellFirst}, fired)
}

// TestZeroAndNegativeThresholdsNeverFire verifies non-positive
// thresholds are inert regardless of crossing direction.
func TestZeroAndNegativeThresholdsNeverFire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(clock.NewManual(time.Unix(0, 0)), nil)
	checkpoints := []timer.Checkpoint{
		{Kind: timer.BellFirst, Threshold: 0, Enabled: true, Armed: true},
		{Kind: timer.BellSecond, Threshold: -time.Second, Enabled: true, Armed: true},
	}

	require.Empty(t, s.CheckBells(ctx, 5*time.Second, checkpoints))
	require.Empty(t, s.CheckBells(ctx, 0, checkpoints))
	require.Empty(t, s.CheckBells(ctx, 0, checkpoints))
}

// TestDisabledCheckpointSkipped verifies enabled gating.
func TestDisabledCheckpointSkipped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	out := new(fakeOutput)
	s := New(clock.NewManual(time.Unix(0, 0)), out)
	checkpoints := threeCheckpoints(time.Minute, 0, 0)
	checkpoints[0].Enabled = false

	require.Empty(t, s.CheckBells(ctx, 2*time.Minute, checkpoints))
	require.Empty(t, s.CheckBells(ctx, 30*time.Second, checkpoints))
	require.Zero(t, out.plays)
}

// TestOrderedMultipleCrossings verifies one sample crossing several
// thresholds fires them in first/second/third source order.
func TestOrderedMultipleCrossings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(clock.NewManual(time.Unix(0, 0)), nil)
	checkpoints := threeCheckpoints(3*time.Minute, 2*time.Minute, time.Minute)

	require.Empty(t, s.CheckBells(ctx, 5*time.Minute, checkpoints))

	fired := s.CheckBells(ctx, 30*time.Second, checkpoints)
	require.Equal(t,
		[]timer.BellKind{timer.BellFirst, timer.BellSecond, timer.BellThird},
		fired)
}

// TestResetRestoresBaseline verifies reset clears the cursor so a
// re-armed checkpoint fires again after re-entering the threshold.
func TestResetRestoresBaseline(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(clock.NewManual(time.Unix(0, 0)), nil)
	checkpoints := threeCheckpoints(time.Minute, 0, 0)

	require.Empty(t, s.CheckBells(ctx, 2*time.Minute, checkpoints))

	fired := s.CheckBells(ctx, 50*time.Second, checkpoints)
	require.Len(t, fired, 1)
	disarm(checkpoints, fired)

	// Timer reset: cursor cleared, checkpoint externally re-armed.
	s.Reset()

	checkpoints[0].Armed = true

	// First observation after reset is a baseline again, even though
	// it is above the threshold.
	require.Empty(t, s.CheckBells(ctx, 2*time.Minute, checkpoints))

	fired = s.CheckBells(ctx, 55*time.Second, checkpoints)
	require.Equal(t, []timer.BellKind{timer.BellFirst}, fired)
}

// TestPlaybackFailureIsContained verifies a Play error reaches the
// error handler while the bell still fires and detection continues.
func TestPlaybackFailureIsContained(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	out := &fakeOutput{playErr: errPlaybackBroken}

	var (
		events     []timer.BellEvent
		playErrors []error
	)

	s := New(clock.NewManual(time.Unix(0, 0)), out,
		WithBellHandler(func(event timer.BellEvent) {
			events = append(events, event)
		}),
		WithErrorHandler(func(err error) {
			playErrors = append(playErrors, err)
		}),
	)
	checkpoints := threeCheckpoints(time.Minute, 0, 0)

	require.Empty(t, s.CheckBells(ctx, 2*time.Minute, checkpoints))

	fired := s.CheckBells(ctx, 30*time.Second, checkpoints)
	require.Equal(t, []timer.BellKind{timer.BellFirst}, fired)

	require.Len(t, playErrors, 1)
	require.ErrorIs(t, playErrors[0], errPlaybackBroken)

	// The notification still carries the full event.
	require.Len(t, events, 1)
	require.Equal(t, timer.BellFirst, events[0].Kind)
	require.Equal(t, 30*time.Second, events[0].Remaining)
	require.Equal(t, time.Minute, events[0].Threshold)
}

// TestNotReadyOutputSkipsPlayback verifies an unready output is skipped
// while the event is still emitted.
func TestNotReadyOutputSkipsPlayback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	out := &fakeOutput{notReady: true}

	var events []timer.BellEvent

	s := New(clock.NewManual(time.Unix(0, 0)), out,
		WithBellHandler(func(event timer.BellEvent) {
			events = append(events, event)
		}),
	)
	checkpoints := threeCheckpoints(time.Minute, 0, 0)

	require.Empty(t, s.CheckBells(ctx, 2*time.Minute, checkpoints))
	require.Len(t, s.CheckBells(ctx, 30*time.Second, checkpoints), 1)

	require.Zero(t, out.plays)
	require.Len(t, events, 1)
}
