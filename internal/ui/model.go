// ABOUTME: Bubbletea model for the terminal fallback mode
// ABOUTME: Renders the spinning disc, track info, and accent color; maps keys to playback
package ui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// discGlyphs are cycled by rotation angle to animate the platter.
var discGlyphs = []string{"◴", "◷", "◶", "◵"}

// PlayerControl is the subset of the player the TUI drives.
type PlayerControl interface {
	TogglePause()
	Next()
	Previous()
	Paused() bool
}

// RotationSource reports the disc angle for the spinner animation.
type RotationSource func() float64

// TrackMsg updates the displayed track and accent color.
type TrackMsg struct {
	Title     string
	Artist    string
	AccentHex string
}

// tickMsg drives the spinner redraw.
type tickMsg time.Time

// Model is the TUI state.
type Model struct {
	ctrl     PlayerControl
	rotation RotationSource

	title     string
	artist    string
	accentHex string

	width  int
	height int
}

// NewModel creates the TUI model.
func NewModel(ctrl PlayerControl, rotation RotationSource) Model {
	return Model{
		ctrl:      ctrl,
		rotation:  rotation,
		title:     "drop audio files to begin",
		accentHex: "#999999",
	}
}

// WithTrack seeds the display for a track queued before the program
// starts. Program.Send blocks until the event loop is running, so a
// pre-start track has to go in through the model instead.
func (m Model) WithTrack(msg TrackMsg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

// Init starts the redraw ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case TrackMsg:
		m.title = msg.Title
		m.artist = msg.Artist
		if msg.AccentHex != "" {
			m.accentHex = msg.AccentHex
		}
	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if m.ctrl != nil {
			m.ctrl.TogglePause()
		}
	case "right":
		if m.ctrl != nil {
			m.ctrl.Next()
		}
	case "left":
		if m.ctrl != nil {
			m.ctrl.Previous()
		}
	}
	return m, nil
}

// View renders the player.
func (m Model) View() string {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(m.accentHex)).Bold(true)
	dim := lipgloss.NewStyle().Faint(true)

	state := "playing"
	if m.ctrl != nil && m.ctrl.Paused() {
		state = "paused"
	}

	s := fmt.Sprintf("\n  %s  %s\n", accent.Render(m.discGlyph()), accent.Render(m.title))
	if m.artist != "" {
		s += fmt.Sprintf("     %s\n", dim.Render(m.artist))
	}
	s += fmt.Sprintf("     %s\n", dim.Render(state))
	s += dim.Render("\n  space pause · ←/→ tracks · q quit\n")
	return s
}

// discGlyph picks an animation frame from the current rotation angle.
func (m Model) discGlyph() string {
	var angle float64
	if m.rotation != nil {
		angle = m.rotation()
	}
	quarter := int(math.Floor(angle/(math.Pi/2))) % len(discGlyphs)
	if quarter < 0 {
		quarter += len(discGlyphs)
	}
	return discGlyphs[quarter]
}
