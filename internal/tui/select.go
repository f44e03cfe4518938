package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SelectOption represents an option in a selection prompt
type SelectOption struct {
	Label string // What to show
	Value string // Value to return
}

// SelectModel is a selection prompt with arrow key navigation and type-to-filter
type SelectModel struct {
	Title    string
	Options  []SelectOption
	Filtered []SelectOption
	Filter   string
	Cursor   int
	Selected string
	Done     bool
	Err      error
}

// NewSelectModel creates a select model with the cursor on defaultValue when present
func NewSelectModel(title string, options []SelectOption, defaultValue string) SelectModel {
	m := SelectModel{Title: title, Options: options}
	m.applyFilter()
	for i, opt := range m.Filtered {
		if opt.Value == defaultValue {
			m.Cursor = i
		}
	}
	return m
}

func (m *SelectModel) applyFilter() {
	if m.Filter == "" {
		m.Filtered = m.Options
	} else {
		needle := strings.ToLower(m.Filter)
		m.Filtered = nil
		for _, opt := range m.Options {
			if strings.Contains(strings.ToLower(opt.Label), needle) || strings.Contains(strings.ToLower(opt.Value), needle) {
				m.Filtered = append(m.Filtered, opt)
			}
		}
	}
	if m.Cursor >= len(m.Filtered) {
		m.Cursor = len(m.Filtered) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// Init initializes the bubbletea model
func (m SelectModel) Init() tea.Cmd {
	return nil
}

// Update handles message updates for the bubbletea model
func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		if m.Cursor >= 0 && m.Cursor < len(m.Filtered) {
			m.Selected = m.Filtered[m.Cursor].Value
			m.Done = true
			return m, tea.Quit
		}
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Err = fmt.Errorf("canceled")
		m.Done = true
		return m, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		if m.Cursor > 0 {
			m.Cursor--
		} else {
			m.Cursor = len(m.Filtered) - 1
		}
	case tea.KeyDown, tea.KeyTab:
		if m.Cursor < len(m.Filtered)-1 {
			m.Cursor++
		} else {
			m.Cursor = 0
		}
	case tea.KeyBackspace:
		if m.Filter != "" {
			m.Filter = m.Filter[:len(m.Filter)-1]
			m.applyFilter()
		}
	case tea.KeyRunes:
		m.Filter += string(key.Runes)
		m.applyFilter()
	}
	return m, nil
}

// View renders the TUI
func (m SelectModel) View() string {
	if m.Done {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.Title))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s\n", ColorCyan(m.Filter)))
	}
	b.WriteString("\n")

	if len(m.Filtered) == 0 {
		b.WriteString("No matches.\n")
	}
	for i, opt := range m.Filtered {
		if i == m.Cursor {
			b.WriteString(fmt.Sprintf("  → %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(opt.Label)))
		} else {
			b.WriteString(fmt.Sprintf("    %s\n", opt.Label))
		}
	}

	b.WriteString(ColorDim("\n(↑/↓ to select, type to filter, Enter to confirm, Ctrl+C to cancel)"))
	return lipgloss.NewStyle().Margin(1, 0).Render(b.String())
}

// PromptSelect prompts the user to select from a list of options
func PromptSelect(title string, options []SelectOption, defaultValue string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided")
	}

	p := tea.NewProgram(NewSelectModel(title, options, defaultValue), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	model, err := p.Run()
	if err != nil {
		return "", err
	}

	if finalModel, ok := model.(SelectModel); ok {
		if finalModel.Err != nil {
			return "", finalModel.Err
		}
		return finalModel.Selected, nil
	}
	return "", fmt.Errorf("unexpected model type")
}

// PromptMultiSelect asks the user to pick any number of options. Everything in
// defaults starts selected.
func PromptMultiSelect(message string, options, defaults []string) ([]string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return nil, err
	}
	var selected []string
	prompt := &survey.MultiSelect{
		Message:  message,
		Options:  options,
		Default:  defaults,
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}
	return selected, nil
}
