// ABOUTME: Cancellable frame loop driving the disc simulation
// ABOUTME: Ticker-based headless driver that pushes rate updates to a sink
package disc

import (
	"context"
	"sync"
	"time"
)

// RateSink receives the per-frame playback rate fraction.
type RateSink interface {
	SetPlaybackRate(fraction float64)
}

// LoopOptions configures the frame loop.
type LoopOptions struct {
	// FrameRate in ticks per second. Defaults to 60.
	FrameRate int
	// Paused reports the player's pause state each frame. Nil means
	// never paused.
	Paused func() bool
}

// Loop steps a Disc at a fixed frame rate and pushes the resulting rate
// fraction into a sink. It is the frame driver for the headless/TUI mode;
// the GUI drives Disc.Step from its own update callback instead.
type Loop struct {
	disc *Disc
	sink RateSink
	opts LoopOptions

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	started  bool
	done     chan struct{}

	mu     sync.Mutex
	frames int64
}

// NewLoop creates a frame loop. It does not start ticking until Start.
func NewLoop(disc *Disc, sink RateSink, opts LoopOptions) *Loop {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 60
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Loop{
		disc:   disc,
		sink:   sink,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start begins the frame loop in its own goroutine.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go l.run()
}

func (l *Loop) run() {
	defer close(l.done)

	interval := time.Second / time.Duration(l.opts.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()

	for {
		select {
		case <-l.ctx.Done():
			return
		case now := <-ticker.C:
			// A tick raced with Stop; do not touch the disc again.
			if l.ctx.Err() != nil {
				return
			}
			dt := now.Sub(last).Seconds()
			last = now
			l.tick(dt)
		}
	}
}

func (l *Loop) tick(dt float64) {
	paused := false
	if l.opts.Paused != nil {
		paused = l.opts.Paused()
	}

	fraction := l.disc.Step(dt, paused)
	if l.sink != nil {
		l.sink.SetPlaybackRate(fraction)
	}

	l.mu.Lock()
	l.frames++
	l.mu.Unlock()
}

// Frames returns the number of frames processed so far.
func (l *Loop) Frames() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Stop cancels the loop. Safe to call more than once; returns after the
// loop goroutine has exited (or immediately if it never started).
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.cancel()
	})

	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		return
	}

	select {
	case <-l.done:
	case <-time.After(time.Second):
	}
}
