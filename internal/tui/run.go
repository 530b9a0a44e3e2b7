package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitscribe/pkg/models"
)

// Run launches the interactive review loop and blocks until the user commits
// or cancels. It reports whether a commit was performed.
func Run(backend Backend, seed models.GeneratedMessage, instructions, userName, userEmail string) (bool, error) {
	m := New(backend, seed, instructions, userName, userEmail)
	program := tea.NewProgram(m, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return false, err
	}
	result := final.(Model)
	return result.Committed, nil
}
