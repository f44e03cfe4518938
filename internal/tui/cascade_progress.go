package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Cascade item statuses beyond the result outcomes
const (
	StatusPending = "pending"
	StatusRunning = "running"
)

// CascadeItem is one row of the cascade progress view
type CascadeItem struct {
	Branch string
	Parent string
	Status string
	Detail string
}

// BranchStartedMsg is sent when a branch begins rebasing
type BranchStartedMsg struct {
	Branch string
	Parent string
}

// BranchFinishedMsg is sent when a branch has an outcome
type BranchFinishedMsg struct {
	Branch string
	Parent string
	Status string
	Detail string
}

// CascadeDoneMsg ends the progress view
type CascadeDoneMsg struct{}

// CascadeProgressModel is the bubbletea model for cascade progress
type CascadeProgressModel struct {
	Items       []CascadeItem
	Spinner     spinner.Model
	Done        bool
	Interrupted bool
	// Cancel is invoked on ctrl+c; the run stops before its next branch.
	Cancel func()
}

// NewCascadeProgressModel creates a model with every branch pending
func NewCascadeProgressModel(order []string, cancel func()) *CascadeProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := make([]CascadeItem, len(order))
	for i, b := range order {
		items[i] = CascadeItem{Branch: b, Status: StatusPending}
	}
	return &CascadeProgressModel{Items: items, Spinner: s, Cancel: cancel}
}

func (m *CascadeProgressModel) item(branch string) *CascadeItem {
	for i := range m.Items {
		if m.Items[i].Branch == branch {
			return &m.Items[i]
		}
	}
	m.Items = append(m.Items, CascadeItem{Branch: branch})
	return &m.Items[len(m.Items)-1]
}

func (m *CascadeProgressModel) Init() tea.Cmd {
	return m.Spinner.Tick
}

func (m *CascadeProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.Interrupted {
			m.Interrupted = true
			if m.Cancel != nil {
				m.Cancel()
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case BranchStartedMsg:
		it := m.item(msg.Branch)
		it.Parent = msg.Parent
		it.Status = StatusRunning
		return m, nil

	case BranchFinishedMsg:
		it := m.item(msg.Branch)
		if msg.Parent != "" {
			it.Parent = msg.Parent
		}
		it.Status = msg.Status
		it.Detail = msg.Detail
		return m, nil

	case CascadeDoneMsg:
		m.Done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *CascadeProgressModel) View() string {
	var b strings.Builder
	b.WriteString("\n")
	for _, it := range m.Items {
		b.WriteString("  ")
		b.WriteString(m.icon(it.Status))
		b.WriteString(" ")
		b.WriteString(ColorBranchName(it.Branch, false))
		if it.Parent != "" {
			b.WriteString(ColorDim(" onto " + it.Parent))
		}
		b.WriteString(" ")
		b.WriteString(statusText(it.Status))
		if it.Detail != "" {
			b.WriteString(ColorDim(" (" + it.Detail + ")"))
		}
		b.WriteString("\n")
	}
	if m.Interrupted && !m.Done {
		b.WriteString(ColorYellow("\nStopping after the current branch...\n"))
	}
	return b.String()
}

func (m *CascadeProgressModel) icon(status string) string {
	switch status {
	case StatusRunning:
		return m.Spinner.View()
	case StatusPending:
		return ColorDim("○")
	case "rebased", "planned":
		return ColorGreen("✓")
	case "conflict", "failed":
		return ColorRed("✗")
	default:
		return ColorDim("-")
	}
}

func statusText(status string) string {
	switch status {
	case "rebased":
		return ColorGreen(status)
	case "conflict", "failed":
		return ColorRed(status)
	case "pruned", "not attempted":
		return ColorYellow(status)
	case StatusRunning:
		return ColorCyan("rebasing...")
	default:
		return ColorDim(status)
	}
}

// ErrProgressView reports that the progress view could not run.
var ErrProgressView = errors.New("progress view failed")

// RunCascadeProgress shows the progress view while run executes in the background.
// run receives a send function for progress messages; its error is returned once the
// view closes. If the view fails, cancel is called and run is waited for before
// returning, so no branch is touched after this returns.
func RunCascadeProgress(order []string, cancel func(), run func(send func(tea.Msg)) error, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout)}, opts...)
	p := tea.NewProgram(NewCascadeProgressModel(order, cancel), opts...)

	errCh := make(chan error, 1)
	go func() {
		err := run(p.Send)
		p.Send(CascadeDoneMsg{})
		errCh <- err
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		return errors.Join(fmt.Errorf("%w: %w", ErrProgressView, err), <-errCh)
	}
	return <-errCh
}
