// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the terminal player
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI program for a prepared model.
func Run(m Model) (*tea.Program, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	return p, nil
}
