package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// ErrUnsupportedOS indicates the current OS has no known sound utility.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// CommandPlayer plays a sound file through the platform audio utility:
//   - Linux:   `paplay` (PulseAudio), falling back to `aplay`
//   - macOS:   `afplay -v <volume>`
//   - Windows: PowerShell `Media.SoundPlayer`
//
// The commands run synchronously so a Play error surfaces to the
// scheduler's error callback.
type CommandPlayer struct {
	// soundFile is the path of the file handed to the utility.
	soundFile string
	// mu protects volume.
	mu sync.Mutex
	// volume is the playback level in [0, 1].
	volume float64
}

// NewCommandPlayer creates a player for the provided sound file.
func NewCommandPlayer(soundFile string) *CommandPlayer {
	return &CommandPlayer{
		soundFile: soundFile,
		volume:    1,
	}
}

// Play runs the platform sound utility once.
func (p *CommandPlayer) Play(ctx context.Context) error {
	cmd, err := p.command(ctx)
	if err != nil {
		return err
	}

	if err = cmd.Run(); err != nil {
		return fmt.Errorf("play %s: %w", p.soundFile, err)
	}

	return nil
}

// SetVolume stores the clamped playback level.
func (p *CommandPlayer) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = clampVolume(level)
}

// Volume returns the current playback level.
func (p *CommandPlayer) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.volume
}

// Ready reports whether the sound file and a platform utility exist.
func (p *CommandPlayer) Ready() bool {
	if _, err := os.Stat(p.soundFile); err != nil {
		return false
	}

	name, err := utilityName()
	if err != nil {
		return false
	}

	_, err = exec.LookPath(name)

	return err == nil
}

// command builds the platform-specific playback command.
func (p *CommandPlayer) command(ctx context.Context) (*exec.Cmd, error) {
	osName := strings.ToLower(runtime.GOOS)

	switch {
	case strings.Contains(osName, "linux"):
		if _, err := exec.LookPath("paplay"); err == nil {
			return exec.CommandContext(ctx, "paplay", p.soundFile), nil
		}

		return exec.CommandContext(ctx, "aplay", "-q", p.soundFile), nil
	case strings.Contains(osName, "darwin"):
		volume := strconv.FormatFloat(p.Volume(), 'f', 2, 64)

		return exec.CommandContext(ctx, "afplay", "-v", volume, p.soundFile), nil
	case strings.Contains(osName, "windows"):
		script := fmt.Sprintf("(New-Object Media.SoundPlayer %q).PlaySync()", p.soundFile)

		return exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script), nil
	default:
		return nil, fmt.Errorf("no sound utility for %s: %w", runtime.GOOS, ErrUnsupportedOS)
	}
}

// utilityName returns the binary probed by Ready for the current OS.
func utilityName() (string, error) {
	osName := strings.ToLower(runtime.GOOS)

	switch {
	case strings.Contains(osName, "linux"):
		if _, err := exec.LookPath("paplay"); err == nil {
			return "paplay", nil
		}

		return "aplay", nil
	case strings.Contains(osName, "darwin"):
		return "afplay", nil
	case strings.Contains(osName, "windows"):
		return "powershell", nil
	default:
		return "", ErrUnsupportedOS
	}
}
