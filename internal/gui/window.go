// ABOUTME: Ebiten window that renders the rotating platter and handles input
// ABOUTME: Mouse drags scratch the disc, dropped files load tracks, keys control playback
package gui

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/platterfm/platter/internal/app"
	"github.com/platterfm/platter/internal/library"
	"github.com/platterfm/platter/internal/theme"
)

const (
	windowWidth  = 640
	windowHeight = 640
	discRadius   = 240
)

// Window is the ebiten game driving the player.
type Window struct {
	player *app.Player

	cover     *ebiten.Image
	backdrop  color.RGBA
	lastFrame time.Time
	dropDir   string
}

// New creates the window and subscribes to track changes.
func New(player *app.Player) *Window {
	w := &Window{
		player:   player,
		backdrop: color.RGBA{R: 24, G: 24, B: 28, A: 255},
	}
	player.OnTrackChange(func(tr *library.Track, accent theme.Accent) {
		w.applyTrack(tr, accent)
	})
	// Pick up a track that started before the window existed.
	if tr := player.Queue().Current(); tr != nil {
		w.applyTrack(tr, player.Accent())
	}
	return w
}

// Run opens the window and blocks until it closes.
func Run(player *app.Player) error {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("platter")
	return ebiten.RunGame(New(player))
}

func (w *Window) applyTrack(tr *library.Track, accent theme.Accent) {
	r, g, b := accent.Color().RGB255()
	// Dim the accent so cover art stays legible against it.
	w.backdrop = color.RGBA{R: r / 3, G: g / 3, B: b / 3, A: 255}

	if len(tr.Cover) == 0 {
		w.cover = nil
		return
	}
	img, _, err := image.Decode(bytes.NewReader(tr.Cover))
	if err != nil {
		log.Printf("Failed to decode cover art: %v", err)
		w.cover = nil
		return
	}
	w.cover = ebiten.NewImageFromImage(img)
}

// Update advances the physics and handles input.
func (w *Window) Update() error {
	now := time.Now()
	dt := 0.0
	if !w.lastFrame.IsZero() {
		dt = now.Sub(w.lastFrame).Seconds()
	}
	w.lastFrame = now

	w.handleKeys()
	w.handleMouse()
	w.handleDrops()

	w.player.Step(dt)
	return nil
}

func (w *Window) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		w.player.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		w.player.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		w.player.Previous()
	}
}

func (w *Window) handleMouse() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	d := w.player.Disc()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && w.onDisc(x, y) {
		d.BeginDrag(x, y)
		return
	}
	if d.Dragging() {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			d.Drag(x, y)
		} else {
			d.EndDrag()
		}
	}
}

func (w *Window) onDisc(x, y float64) bool {
	cx, cy := float64(windowWidth)/2, float64(windowHeight)/2
	return math.Hypot(x-cx, y-cy) <= discRadius
}

// handleDrops copies dropped audio files into a temp dir and queues them.
// Ebiten exposes drops as an fs.FS without OS paths, so the copies give
// the decode pipeline real files to work from.
func (w *Window) handleDrops() {
	files := ebiten.DroppedFiles()
	if files == nil {
		return
	}

	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		log.Printf("Failed to read dropped files: %v", err)
		return
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path, err := w.stashDrop(files, entry.Name())
		if err != nil {
			log.Printf("Failed to stash dropped file %s: %v", entry.Name(), err)
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) > 0 {
		w.player.AddFiles(paths)
	}
}

func (w *Window) stashDrop(files fs.FS, name string) (string, error) {
	if w.dropDir == "" {
		dir, err := os.MkdirTemp("", "platter-drops")
		if err != nil {
			return "", err
		}
		w.dropDir = dir
	}

	src, err := files.Open(name)
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(w.dropDir, filepath.Base(name))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

// Draw renders the backdrop and the rotating disc.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(w.backdrop)

	cx, cy := float32(windowWidth)/2, float32(windowHeight)/2
	rotation := w.player.Disc().Rotation()

	if w.cover == nil {
		w.drawBareDisc(screen, cx, cy, rotation)
		return
	}

	bounds := w.cover.Bounds()
	side := math.Min(float64(bounds.Dx()), float64(bounds.Dy()))
	scale := float64(discRadius*2) / side

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(-float64(bounds.Dx())/2, -float64(bounds.Dy())/2)
	opts.GeoM.Scale(scale, scale)
	opts.GeoM.Rotate(rotation)
	opts.GeoM.Translate(float64(cx), float64(cy))
	screen.DrawImage(w.cover, opts)

	// Spindle on top of the art.
	vector.DrawFilledCircle(screen, cx, cy, 8, color.RGBA{R: 230, G: 230, B: 230, A: 255}, true)
}

// drawBareDisc renders a vinyl stand-in with a position marker when no
// cover art is available.
func (w *Window) drawBareDisc(screen *ebiten.Image, cx, cy float32, rotation float64) {
	vector.DrawFilledCircle(screen, cx, cy, discRadius, color.RGBA{R: 40, G: 40, B: 44, A: 255}, true)
	vector.DrawFilledCircle(screen, cx, cy, 80, w.backdrop, true)
	vector.DrawFilledCircle(screen, cx, cy, 8, color.RGBA{R: 230, G: 230, B: 230, A: 255}, true)

	markerX := cx + float32(math.Cos(rotation))*(discRadius-40)
	markerY := cy + float32(math.Sin(rotation))*(discRadius-40)
	vector.DrawFilledCircle(screen, markerX, markerY, 10, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}

// Layout reports the fixed logical screen size.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.player.Disc().SetCenter(float64(windowWidth)/2, float64(windowHeight)/2)
	return windowWidth, windowHeight
}
