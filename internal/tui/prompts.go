package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInteractiveDisabled is returned when prompts cannot be shown
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled (no TTY or DEPSTACK_NO_INTERACTIVE is set)")

// ErrCanceled is returned when the user dismisses a prompt
var ErrCanceled = errors.New("canceled")

func checkInteractiveAllowed() error {
	if !Interactive() {
		return ErrInteractiveDisabled
	}
	return nil
}

// ConfirmModel is a yes/no prompt
type ConfirmModel struct {
	Prompt string
	Choice bool
	Done   bool
	Err    error
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.Done = true
		return m, tea.Quit
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Err = ErrCanceled
		m.Done = true
		return m, tea.Quit
	case tea.KeyRunes:
		switch strings.ToLower(string(key.Runes)) {
		case "y":
			m.Choice, m.Done = true, true
			return m, tea.Quit
		case "n":
			m.Choice, m.Done = false, true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.Done {
		return ""
	}
	hint := "[y/N]"
	if m.Choice {
		hint = "[Y/n]"
	}
	return lipgloss.NewStyle().Margin(1, 0).Render(fmt.Sprintf("%s %s", m.Prompt, ColorDim(hint)))
}

// PromptConfirm prompts the user for yes/no confirmation
func PromptConfirm(prompt string, defaultValue bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}

	p := tea.NewProgram(ConfirmModel{Prompt: prompt, Choice: defaultValue}, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	model, err := p.Run()
	if err != nil {
		return false, err
	}
	final, ok := model.(ConfirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type")
	}
	return final.Choice, final.Err
}

type textInputModel struct {
	input  textinput.Model
	prompt string
	done   bool
	err    error
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrCanceled
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textInputModel) View() string {
	if m.done {
		return ""
	}
	return lipgloss.NewStyle().Margin(1, 0).Render(fmt.Sprintf("%s\n%s", m.prompt, m.input.View()))
}

// PromptTextInput prompts the user for a line of text
func PromptTextInput(prompt, defaultValue string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}

	ti := textinput.New()
	ti.SetValue(defaultValue)
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	p := tea.NewProgram(textInputModel{input: ti, prompt: prompt}, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	model, err := p.Run()
	if err != nil {
		return "", err
	}
	final, ok := model.(textInputModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	if final.err != nil {
		return "", final.err
	}
	return strings.TrimSpace(final.input.Value()), nil
}
