package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Ask runs an inline PromptModel on the given streams and blocks until the
// user answers. A cancelled prompt yields an empty answer.
func Ask(in io.Reader, out io.Writer, question string) (string, error) {
	p := tea.NewProgram(NewPromptModel(question), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	m, ok := final.(PromptModel)
	if !ok || m.Cancelled {
		return "", nil
	}
	return m.Answer, nil
}
