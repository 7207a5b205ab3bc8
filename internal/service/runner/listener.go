package runner

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/speech-timer/internal/bells"
	"github.com/oshokin/speech-timer/internal/domain/timer"
	"github.com/oshokin/speech-timer/internal/logger"
	"github.com/oshokin/speech-timer/internal/metrics"
)

// bellListener owns the caller side of the bell contract: it feeds each
// post-update remaining value to the scheduler, clears the Armed flag
// of every fired checkpoint, and records metrics. It also closes done
// when the timer finishes.
type bellListener struct {
	// ctx carries the scoped logger into callbacks.
	ctx context.Context
	// scheduler detects threshold crossings.
	scheduler *bells.Scheduler
	// collector records tick/bell metrics; may be nil.
	collector *metrics.Collector
	// done is closed once when the timer finishes.
	done chan struct{}
	// mu protects checkpoints; a slow callback may overlap the next
	// frame's notification.
	mu sync.Mutex
	// checkpoints is the caller-owned bell state.
	checkpoints []timer.Checkpoint
	// finished guards the single close of done.
	finished sync.Once
}

// newBellListener creates the listener driving the scheduler.
func newBellListener(
	ctx context.Context,
	scheduler *bells.Scheduler,
	checkpoints []timer.Checkpoint,
	collector *metrics.Collector,
) *bellListener {
	return &bellListener{
		ctx:         ctx,
		scheduler:   scheduler,
		collector:   collector,
		done:        make(chan struct{}),
		checkpoints: checkpoints,
	}
}

// Done returns the channel closed when the timer finishes.
func (l *bellListener) Done() <-chan struct{} {
	return l.done
}

// OnTick checks bells against the post-update remaining value and
// disarms every fired checkpoint.
func (l *bellListener) OnTick(snapshot timer.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fired := l.scheduler.CheckBells(l.ctx, snapshot.Remaining, l.checkpoints)
	for _, kind := range fired {
		for i := range l.checkpoints {
			if l.checkpoints[i].Kind == kind {
				l.checkpoints[i].Armed = false
			}
		}
	}

	if l.collector != nil {
		l.collector.RecordTick(snapshot.Remaining, snapshot.PrecisionDrift)
	}
}

// OnStatusChange resets the scheduler cursor and re-arms every bell
// when the timer returns to idle.
func (l *bellListener) OnStatusChange(previous, current timer.Status) {
	logger.DebugKV(l.ctx, "Timer status changed",
		"previous", previous.String(), "current", current.String())

	if current != timer.StatusIdle {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.scheduler.Reset()

	for i := range l.checkpoints {
		l.checkpoints[i].Armed = true
	}
}

// OnFinish closes done exactly once.
func (l *bellListener) OnFinish(timer.Snapshot) {
	l.finished.Do(func() {
		close(l.done)
	})
}

// progressListener logs the remaining time at most once per whole
// second, demonstrating a second independent observer on the broker.
type progressListener struct {
	// ctx carries the scoped logger into callbacks.
	ctx context.Context
	// mu protects lastLogged.
	mu sync.Mutex
	// lastLogged is the whole-second remaining value last logged.
	lastLogged time.Duration
	// logged marks whether anything was logged yet.
	logged bool
}

// newProgressListener creates the throttled progress logger.
func newProgressListener(ctx context.Context) *progressListener {
	return &progressListener{ctx: ctx}
}

// OnTick logs when the whole-second remaining value changes.
func (l *progressListener) OnTick(snapshot timer.Snapshot) {
	second := snapshot.Remaining.Truncate(time.Second)

	l.mu.Lock()

	skip := l.logged && second == l.lastLogged
	l.lastLogged = second
	l.logged = true

	l.mu.Unlock()

	if skip {
		return
	}

	logger.InfoKV(l.ctx, "Time remaining",
		"remaining", second.String(), "elapsed", snapshot.Elapsed.Truncate(time.Second).String())
}

// OnStatusChange logs transitions at info level.
func (l *progressListener) OnStatusChange(previous, current timer.Status) {
	logger.Infof(l.ctx, "Timer %s -> %s", previous, current)
}

// OnFinish logs the final state.
func (l *progressListener) OnFinish(snapshot timer.Snapshot) {
	logger.InfoKV(l.ctx, "Time is up", "elapsed", snapshot.Elapsed.String())
}
