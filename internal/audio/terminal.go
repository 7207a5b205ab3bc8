package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// bel is the ASCII bell control character.
const bel = "\a"

// TerminalBell rings the terminal bell by writing BEL to a writer.
// It is the fallback output when no sound file is configured.
type TerminalBell struct {
	// mu serializes writes.
	mu sync.Mutex
	// w receives the BEL byte; usually os.Stdout.
	w io.Writer
}

// NewTerminalBell creates a terminal bell writing to w.
func NewTerminalBell(w io.Writer) *TerminalBell {
	return &TerminalBell{w: w}
}

// Play writes a single BEL.
func (b *TerminalBell) Play(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := io.WriteString(b.w, bel); err != nil {
		return fmt.Errorf("write terminal bell: %w", err)
	}

	return nil
}

// SetVolume is a no-op; the terminal decides how loud BEL is.
func (b *TerminalBell) SetVolume(float64) {}

// Ready always reports true.
func (b *TerminalBell) Ready() bool {
	return true
}
