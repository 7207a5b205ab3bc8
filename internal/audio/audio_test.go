package audio

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTerminalBellPlay verifies Play writes a single BEL per call.
func TestTerminalBellPlay(t *testing.T) {
	t.Parallel()

	var buf strings.Builder

	b := NewTerminalBell(&buf)
	require.True(t, b.Ready())

	require.NoError(t, b.Play(context.Background()))
	require.NoError(t, b.Play(context.Background()))
	require.Equal(t, "\a\a", buf.String())
}

// TestCommandPlayerVolumeClamp verifies SetVolume bounds values to [0, 1].
func TestCommandPlayerVolumeClamp(t *testing.T) {
	t.Parallel()

	p := NewCommandPlayer("bell.wav")
	require.Equal(t, 1.0, p.Volume())

	p.SetVolume(-0.5)
	require.Equal(t, 0.0, p.Volume())

	p.SetVolume(2)
	require.Equal(t, 1.0, p.Volume())

	p.SetVolume(0.35)
	require.Equal(t, 0.35, p.Volume())
}

// TestCommandPlayerNotReadyWithoutFile verifies Ready is false when the
// sound file does not exist.
func TestCommandPlayerNotReadyWithoutFile(t *testing.T) {
	t.Parallel()

	p := NewCommandPlayer("definitely-missing-sound-file.wav")
	require.False(t, p.Ready())
}
