package main

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var errCancelled = errors.New("cancelado")

// promptModel reads a password without echoing it.
type promptModel struct {
	input     textinput.Model
	done      bool
	cancelled bool
}

func newPromptModel() promptModel {
	input := textinput.New()
	input.Prompt = "Contraseña: "
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.Focus()
	return promptModel{input: input}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return m.input.View() + "\n"
}

func promptPassword() (string, error) {
	final, err := tea.NewProgram(newPromptModel()).Run()
	if err != nil {
		return "", err
	}
	m := final.(promptModel)
	if m.cancelled || m.input.Value() == "" {
		return "", errCancelled
	}
	return m.input.Value(), nil
}
