// ABOUTME: Audio output graph manager built on oto
// ABOUTME: Owns the audio context and the single active source chain
package graph

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/platterfm/platter/internal/audio"
)

// Config holds audio output settings.
type Config struct {
	SampleRate   int     // output device rate, default 48000
	Channels     int     // output channels, default 2
	Gain         float64 // default 0.5
	FilterCutoff float64 // low-pass cutoff in Hz, default 22050
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = 48000
	}
	if c.Channels <= 0 {
		c.Channels = 2
	}
	if c.Gain <= 0 {
		c.Gain = 0.5
	}
	if c.FilterCutoff <= 0 {
		c.FilterCutoff = 22050
	}
	return c
}

// Graph owns the audio context and mediates all source lifecycle and
// parameter changes. At most one source produces sound at a time.
type Graph struct {
	mu  sync.Mutex
	cfg Config

	otoCtx      *oto.Context
	initialized bool
	tornDown    bool

	active   *sourceChain
	lastRate float64
	gainBits atomic.Uint64
}

// sourceChain is one playable unit: varispeed -> filter -> gain -> device.
type sourceChain struct {
	vs     *varispeed
	filter *lowPass
	player *oto.Player
}

// New creates a Graph. Initialize must be called before Play.
func New(cfg Config) *Graph {
	g := &Graph{cfg: cfg.withDefaults()}
	g.gainBits.Store(math.Float64bits(g.cfg.Gain))
	return g
}

// Initialize creates the audio context. It is idempotent: calling it on
// an already initialized graph is a no-op. Initializing after Teardown
// is an error.
func (g *Graph) Initialize() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.tornDown {
		return fmt.Errorf("graph has been torn down")
	}
	if g.initialized {
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   g.cfg.SampleRate,
		ChannelCount: g.cfg.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create audio context: %w", err)
	}
	<-readyChan

	g.otoCtx = ctx
	g.initialized = true

	log.Printf("Audio graph initialized: %dHz, %d channels",
		g.cfg.SampleRate, g.cfg.Channels)

	return nil
}

// Play starts playback of a decoded buffer from its beginning, replacing
// any currently active source. The new chain is fully constructed before
// the old source is stopped, so a failed Play leaves the previous audio
// untouched.
func (g *Graph) Play(buf *audio.Buffer) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.initialized || g.tornDown {
		return fmt.Errorf("graph not initialized")
	}
	if buf == nil || len(buf.Samples) == 0 {
		return fmt.Errorf("empty audio buffer")
	}
	if buf.Format.SampleRate <= 0 || buf.Format.Channels <= 0 {
		return fmt.Errorf("invalid buffer format: %dHz, %d channels",
			buf.Format.SampleRate, buf.Format.Channels)
	}

	vs := newVarispeed(buf, g.cfg.SampleRate, g.cfg.Channels)
	vs.setRate(g.lastRate)
	filter := newLowPass(g.cfg.FilterCutoff, float64(g.cfg.SampleRate), g.cfg.Channels)

	chain := &sourceChain{vs: vs, filter: filter}
	reader := &chainReader{graph: g, chain: chain}
	chain.player = g.otoCtx.NewPlayer(reader)
	chain.player.Play()

	// New source is live; now retire the old one.
	if g.active != nil {
		g.stopLocked(g.active)
	}
	g.active = chain

	return nil
}

// SetPlaybackRate sets the active source's rate fraction, clamped to
// [0, 1]. Without an active source this is a no-op.
func (g *Graph) SetPlaybackRate(fraction float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	g.lastRate = fraction

	if g.active == nil {
		return
	}
	g.active.vs.setRate(fraction)
}

// SetGain sets the output gain, clamped to [0, 1]. Applies to the
// current and all future sources.
func (g *Graph) SetGain(gain float64) {
	if gain < 0 {
		gain = 0
	}
	if gain > 1 {
		gain = 1
	}
	g.gainBits.Store(math.Float64bits(gain))
}

// Gain returns the current output gain.
func (g *Graph) Gain() float64 {
	return math.Float64frombits(g.gainBits.Load())
}

// Active reports whether a source is currently playing.
func (g *Graph) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active != nil
}

// Rate returns the last rate fraction pushed into the graph.
func (g *Graph) Rate() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastRate
}

// Teardown stops any active source and suspends the audio context. Safe
// to call if the graph was never initialized, and safe to call twice.
func (g *Graph) Teardown() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active != nil {
		g.stopLocked(g.active)
		g.active = nil
	}
	if g.otoCtx != nil {
		if err := g.otoCtx.Suspend(); err != nil {
			log.Printf("Audio context suspend failed: %v", err)
		}
		g.otoCtx = nil
	}
	g.initialized = false
	g.tornDown = true
}

func (g *Graph) stopLocked(c *sourceChain) {
	if c.player != nil {
		if err := c.player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}
	}
}

// chainReader adapts a source chain to the io.Reader the device player
// pulls from, encoding filtered and gain-scaled samples as s16le.
type chainReader struct {
	graph   *Graph
	chain   *sourceChain
	scratch []int16
}

func (r *chainReader) Read(p []byte) (int, error) {
	numSamples := len(p) / 2
	if numSamples == 0 {
		return 0, nil
	}

	if cap(r.scratch) < numSamples {
		r.scratch = make([]int16, numSamples)
	}
	samples := r.scratch[:numSamples]

	n, more := r.chain.vs.readSamples(samples)
	if n == 0 && !more {
		return 0, io.EOF
	}

	r.chain.filter.process(samples[:n])

	gain := r.graph.Gain()
	for i := 0; i < n; i++ {
		samples[i] = int16(float64(samples[i]) * gain)
		binary.LittleEndian.PutUint16(p[i*2:], uint16(samples[i]))
	}

	return n * 2, nil
}
