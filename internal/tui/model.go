package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptModel is a single-line question answered with Enter.
type PromptModel struct {
	Question string
	Input    textinput.Model

	// Set once the program quits.
	Answer    string
	Done      bool
	Cancelled bool // ctrl+c / esc
}

// NewPromptModel returns a focused prompt for question.
func NewPromptModel(question string) PromptModel {
	ti := textinput.New()
	ti.Placeholder = "yes/no"
	ti.CharLimit = 16
	ti.Width = 16
	ti.Prompt = ""
	ti.Focus()

	return PromptModel{
		Question: question,
		Input:    ti,
	}
}

func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}
