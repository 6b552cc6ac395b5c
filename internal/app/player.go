// ABOUTME: Main player orchestration
// ABOUTME: Wires disc physics, the audio graph, the queue, and side-effect adapters
package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/platterfm/platter/internal/artwork"
	"github.com/platterfm/platter/internal/disc"
	"github.com/platterfm/platter/internal/graph"
	"github.com/platterfm/platter/internal/ingest"
	"github.com/platterfm/platter/internal/library"
	"github.com/platterfm/platter/internal/mediasession"
	"github.com/platterfm/platter/internal/theme"
)

// Config holds player configuration.
type Config struct {
	Disc         disc.Params
	Graph        graph.Config
	FrameRate    int  // headless loop rate
	MediaSession bool // register on the session bus
}

// Player coordinates all components. Track selection and pause state
// live here; per-frame physics and rate updates are driven either by
// the internal loop (headless/TUI mode) or by the GUI's frame callback.
type Player struct {
	config Config

	disc   *disc.Disc
	graph  *graph.Graph
	queue  *library.Queue
	covers *artwork.Cache

	session *mediasession.Session
	loop    *disc.Loop

	paused  atomic.Bool
	started atomic.Bool

	// mu also guards session and covers: the side-effects goroutine
	// and the D-Bus handler read them while Stop clears them.
	mu      sync.RWMutex
	accent  theme.Accent
	onTrack func(*library.Track, theme.Accent)

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a player. Start must be called before playback.
func New(config Config) *Player {
	ctx, cancel := context.WithCancel(context.Background())

	p := &Player{
		config: config,
		disc:   disc.New(config.Disc),
		graph:  graph.New(config.Graph),
		queue:  library.NewQueue(),
		accent: theme.DefaultAccent(),
		ctx:    ctx,
		cancel: cancel,
	}
	p.paused.Store(true) // nothing to play yet

	covers, err := artwork.NewCache()
	if err != nil {
		log.Printf("Cover cache unavailable: %v", err)
	} else {
		p.covers = covers
	}

	return p
}

// Start initializes the audio graph and optional collaborators. With
// headless true it also starts the internal frame loop; a GUI front end
// drives Step from its own update callback instead.
func (p *Player) Start(headless bool) error {
	if !p.started.CompareAndSwap(false, true) {
		return fmt.Errorf("player already started")
	}

	if err := p.graph.Initialize(); err != nil {
		return fmt.Errorf("audio init failed: %w", err)
	}

	if p.config.MediaSession {
		p.mu.Lock()
		p.session = mediasession.New(p)
		p.mu.Unlock()
	}

	if headless {
		p.loop = disc.NewLoop(p.disc, p.graph, disc.LoopOptions{
			FrameRate: p.config.FrameRate,
			Paused:    p.Paused,
		})
		p.loop.Start()
	}

	return nil
}

// Step advances one frame from an external driver (the GUI). The rate
// fraction lands in the audio graph exactly once per frame.
func (p *Player) Step(dt float64) {
	fraction := p.disc.Step(dt, p.Paused())
	p.graph.SetPlaybackRate(fraction)
}

// Disc exposes the kinematic state for rendering and drag input.
func (p *Player) Disc() *disc.Disc { return p.disc }

// Queue exposes the track queue.
func (p *Player) Queue() *library.Queue { return p.queue }

// Accent returns the accent color derived from the current track's cover.
func (p *Player) Accent() theme.Accent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.accent
}

// OnTrackChange registers a callback fired after a successful track
// selection, with the track and its accent color.
func (p *Player) OnTrackChange(fn func(*library.Track, theme.Accent)) {
	p.mu.Lock()
	p.onTrack = fn
	p.mu.Unlock()
}

// AddFiles ingests a batch of files and appends the playable ones to
// the queue. If nothing was playing yet, playback starts on the first
// track of the batch. Returns the number of tracks added.
func (p *Player) AddFiles(paths []string) int {
	tracks := ingest.Batch(paths)
	if len(tracks) == 0 {
		return 0
	}

	wasEmpty := p.queue.Len() == 0
	added := p.queue.Add(tracks...)

	if wasEmpty && added > 0 {
		p.SelectTrack(0)
	}
	return added
}

// SelectTrack maps the requested index onto the queue with wraparound
// and starts that track. On an empty queue it is a no-op. If starting
// the new source fails, the previous track keeps playing and the queue
// position does not move.
func (p *Player) SelectTrack(requested int) {
	if p.queue.Len() == 0 {
		return
	}

	tr := p.queue.At(requested)
	if err := p.graph.Play(tr.Buffer); err != nil {
		log.Printf("Track start failed for %s: %v", tr.Title, err)
		return
	}

	p.queue.Select(requested)
	p.setPaused(false)

	log.Printf("Now playing: %s - %s", tr.Artist, tr.Title)

	// Side effects are fire-and-forget; their failures never affect
	// the selection.
	go p.applyTrackSideEffects(tr)
}

func (p *Player) applyTrackSideEffects(tr *library.Track) {
	accent := theme.FromCover(tr.Cover)

	p.mu.Lock()
	p.accent = accent
	onTrack := p.onTrack
	session := p.session
	covers := p.covers
	p.mu.Unlock()

	artPath := ""
	if covers != nil {
		path, err := covers.Store(tr.Cover)
		if err != nil {
			log.Printf("Cover cache store failed: %v", err)
		} else {
			artPath = path
		}
	}

	if session != nil {
		session.SetNowPlaying(mediasession.NowPlaying{
			TrackID: tr.ID,
			Title:   tr.Title,
			Artist:  tr.Artist,
			Album:   tr.Album,
			ArtPath: artPath,
		})
	}

	if onTrack != nil {
		onTrack(tr, accent)
	}
}

// Next selects the following track with wraparound.
func (p *Player) Next() {
	p.SelectTrack(p.queue.CurrentIndex() + 1)
}

// Previous selects the preceding track with wraparound.
func (p *Player) Previous() {
	p.SelectTrack(p.queue.CurrentIndex() - 1)
}

// Play unpauses; the disc spins back up over the following frames.
func (p *Player) Play() {
	if p.queue.Len() == 0 {
		return
	}
	p.setPaused(false)
}

// Pause lets the disc wind down; audio slows with it.
func (p *Player) Pause() {
	p.setPaused(true)
}

// PlayPause toggles the pause state.
func (p *Player) PlayPause() {
	p.TogglePause()
}

// TogglePause flips the pause state.
func (p *Player) TogglePause() {
	if p.paused.Load() {
		p.Play()
	} else {
		p.Pause()
	}
}

// Paused returns the pause state read by the frame drivers.
func (p *Player) Paused() bool {
	return p.paused.Load()
}

// SetGain adjusts the output gain, clamped to [0, 1].
func (p *Player) SetGain(gain float64) {
	p.graph.SetGain(gain)
}

func (p *Player) setPaused(paused bool) {
	p.paused.Store(paused)

	p.mu.RLock()
	session := p.session
	p.mu.RUnlock()
	if session != nil {
		session.SetPlaybackStatus(!paused)
	}
}

// Stop tears everything down: frame loop, audio graph, media session,
// and cover cache. Safe to call more than once.
func (p *Player) Stop() {
	p.cancel()

	if p.loop != nil {
		p.loop.Stop()
	}
	p.graph.Teardown()

	p.mu.Lock()
	session := p.session
	covers := p.covers
	p.session = nil
	p.covers = nil
	p.mu.Unlock()

	if session != nil {
		session.Close()
	}
	if covers != nil {
		if err := covers.Cleanup(); err != nil {
			log.Printf("Cover cache cleanup failed: %v", err)
		}
	}
}

// Done is closed when the player has been stopped.
func (p *Player) Done() <-chan struct{} {
	return p.ctx.Done()
}
