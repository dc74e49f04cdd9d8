package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles key events.
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Done {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.Answer = m.Input.Value()
			m.Done = true
			m.Input.Blur()
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			m.Cancelled = true
			m.Done = true
			m.Input.Blur()
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}
