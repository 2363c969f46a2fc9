package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/docd/internal/styles"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(styles.Comment))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(styles.Foreground))
)

// PageRow is one page in the status table
type PageRow struct {
	Page   string
	Output string
	Status string
}

// StatusData holds all the information for the status display
type StatusData struct {
	SourceDir  string
	OutputDir  string
	TableClass string
	Tracked    int
	Pages      []PageRow
	Pending    int
	Watching   bool
	WatchPID   int
}

// StatusMsg is sent when status data is ready
type StatusMsg struct {
	Data *StatusData
	Err  error
}

// RefreshStatusMsg triggers a status refresh
type RefreshStatusMsg struct{}

type statusModel struct {
	spinner   spinner.Model
	data      *StatusData
	table     table.Model
	err       error
	scanning  bool
	ready     bool
	buildFunc func() error
	loadFunc  func() (*StatusData, error)
}

// InitStatusModel creates a new status display model. load gathers the
// data; build runs when the user asks for a rebuild.
func InitStatusModel(load func() (*StatusData, error), build func() error) statusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	columns := []table.Column{
		{Title: "Page", Width: 40},
		{Title: "Status", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	return statusModel{
		spinner:   s,
		scanning:  true,
		table:     t,
		loadFunc:  load,
		buildFunc: build,
	}
}

func (m statusModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

// load gathers status data off the UI goroutine
func (m statusModel) load() tea.Cmd {
	return func() tea.Msg {
		data, err := m.loadFunc()
		return StatusMsg{Data: data, Err: err}
	}
}

// rebuild runs a build and then asks for fresh data
func (m statusModel) rebuild() tea.Cmd {
	return func() tea.Msg {
		if m.buildFunc != nil {
			if err := m.buildFunc(); err != nil {
				return StatusMsg{Err: err}
			}
		}
		return RefreshStatusMsg{}
	}
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k", "down", "j":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		case "b":
			if m.scanning {
				return m, nil
			}
			m.scanning = true
			return m, tea.Batch(m.spinner.Tick, m.rebuild())
		case "r":
			if m.scanning {
				return m, nil
			}
			m.scanning = true
			return m, tea.Batch(m.spinner.Tick, m.load())
		}

	case RefreshStatusMsg:
		return m, m.load()

	case StatusMsg:
		m.scanning = false
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err

		if m.data != nil {
			rows := make([]table.Row, 0, len(m.data.Pages))
			for _, p := range m.data.Pages {
				rows = append(rows, table.Row{p.Page, p.Status})
			}
			m.table.SetRows(rows)
		}
		return m, nil

	case spinner.TickMsg:
		if m.scanning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m statusModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("docd status"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if m.scanning {
		b.WriteString(fmt.Sprintf("%s Scanning pages...\n", m.spinner.View()))
		return b.String()
	}

	if !m.ready || m.data == nil {
		return b.String()
	}

	b.WriteString(labelStyle.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Source directory: %s\n", valueStyle.Render(m.data.SourceDir)))
	b.WriteString(fmt.Sprintf("  Output directory: %s\n", valueStyle.Render(m.data.OutputDir)))
	b.WriteString(fmt.Sprintf("  Table class:      %s\n", valueStyle.Render(m.data.TableClass)))
	if m.data.Watching {
		b.WriteString(fmt.Sprintf("  Watch:            %s\n", styles.SuccessStyle.Render(fmt.Sprintf("● Running (PID %d)", m.data.WatchPID))))
	} else {
		b.WriteString(fmt.Sprintf("  Watch:            %s\n", styles.HelpStyle.Render("○ Not running")))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Pages"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Sources: %s\n", valueStyle.Render(fmt.Sprintf("%d", len(m.data.Pages)))))
	b.WriteString(fmt.Sprintf("  Tracked: %s\n", valueStyle.Render(fmt.Sprintf("%d", m.data.Tracked))))
	if m.data.Pending == 0 {
		b.WriteString(fmt.Sprintf("  %s\n", styles.SuccessStyle.Render("✓ Output is up to date")))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", styles.HighlightStyle.Render(fmt.Sprintf("● %d page(s) need a build", m.data.Pending))))
	}
	b.WriteString("\n")

	if len(m.data.Pages) > 0 {
		b.WriteString(styles.TableStyle.Render(m.table.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • b build • r refresh • q/ctrl+c quit"))
	b.WriteString("\n")

	return b.String()
}

// RunStatus runs the interactive status display until the user quits
func RunStatus(load func() (*StatusData, error), build func() error) error {
	_, err := tea.NewProgram(InitStatusModel(load, build)).Run()
	return err
}
