// ABOUTME: Entry point for the platter audio player
// ABOUTME: Parses CLI flags and starts the GUI or TUI front end
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/platterfm/platter/internal/app"
	"github.com/platterfm/platter/internal/config"
	"github.com/platterfm/platter/internal/disc"
	"github.com/platterfm/platter/internal/graph"
	"github.com/platterfm/platter/internal/gui"
	"github.com/platterfm/platter/internal/library"
	"github.com/platterfm/platter/internal/theme"
	"github.com/platterfm/platter/internal/ui"
	"github.com/platterfm/platter/internal/version"
)

var (
	noGUI        = flag.Bool("no-gui", false, "Run the terminal UI instead of the window")
	headless     = flag.Bool("headless", false, "No UI at all, controlled over the media session bus")
	logFile      = flag.String("log-file", "platter.log", "Log file path")
	noSession    = flag.Bool("no-media-session", false, "Skip registering on the desktop media session bus")
	acceleration = flag.Float64("acceleration", 0, "Disc spin-up per frame (overrides PLATTER_ACCELERATION)")
	maxSpeed     = flag.Float64("max-speed", 0, "Disc velocity cap in rad/s (overrides PLATTER_MAX_SPEED)")
	gain         = flag.Float64("gain", 0, "Output gain 0..1 (overrides PLATTER_GAIN)")
)

func main() {
	flag.Parse()

	// GUI and TUI modes own the terminal, so logs go to a file there.
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if *headless {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		log.SetOutput(f)
	}

	cfg := config.Load()
	if *acceleration > 0 {
		cfg.Acceleration = *acceleration
	}
	if *maxSpeed > 0 {
		cfg.MaxSpeed = *maxSpeed
	}
	if *gain > 0 {
		cfg.Gain = *gain
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	player := app.New(app.Config{
		Disc: disc.Params{
			Acceleration:      cfg.Acceleration,
			MaxSpeed:          cfg.MaxSpeed,
			DragBlend:         cfg.DragBlend,
			MuteWhileDragging: cfg.MuteWhileDragging,
		},
		Graph: graph.Config{
			Gain:         cfg.Gain,
			FilterCutoff: cfg.FilterCutoff,
		},
		FrameRate:    cfg.FrameRate,
		MediaSession: !*noSession,
	})

	useGUI := !*noGUI && !*headless
	if err := player.Start(!useGUI); err != nil {
		log.Fatalf("Failed to start player: %v", err)
	}

	// Positional arguments are queued before the UI comes up.
	if paths := flag.Args(); len(paths) > 0 {
		added := player.AddFiles(paths)
		log.Printf("Queued %d tracks from command line", added)
	}

	switch {
	case useGUI:
		runGUI(player)
	case *headless:
		runHeadless(player)
	default:
		runTUI(player)
	}

	player.Stop()
	log.Printf("Player stopped")
}

func runGUI(player *app.Player) {
	if err := gui.Run(player); err != nil {
		log.Printf("Window closed with error: %v", err)
	}
}

func runTUI(player *app.Player) {
	m := ui.NewModel(player, player.Disc().Rotation)
	// A track queued from the command line goes in through the model;
	// Program.Send would block until the event loop is up.
	if tr := player.Queue().Current(); tr != nil {
		m = m.WithTrack(ui.TrackMsg{
			Title:     tr.Title,
			Artist:    tr.Artist,
			AccentHex: player.Accent().Hex(),
		})
	}

	prog, err := ui.Run(m)
	if err != nil {
		log.Fatalf("Failed to start TUI: %v", err)
	}

	player.OnTrackChange(func(tr *library.Track, accent theme.Accent) {
		prog.Send(ui.TrackMsg{
			Title:     tr.Title,
			Artist:    tr.Artist,
			AccentHex: accent.Hex(),
		})
	})

	if _, err := prog.Run(); err != nil {
		log.Printf("TUI exited with error: %v", err)
	}
}

func runHeadless(player *app.Player) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Printf("Shutdown signal received")
	case <-player.Done():
		log.Printf("Player finished")
	}
}
