package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/docd/internal/styles"
)

// StaleRow is one out-of-date page in the browser
type StaleRow struct {
	Page   string
	Status string // "stale" or "missing"
}

// BrowseData holds the pages whose output differs from a fresh render
type BrowseData struct {
	Pages []StaleRow
}

// BrowseFuncs connects the browser to the site. Diff and Fix take the
// index of the selected row.
type BrowseFuncs struct {
	Load func() (*BrowseData, error)
	Diff func(i int) (string, error)
	Fix  func(i int) error
}

// BrowseMsg is sent when browse data is ready
type BrowseMsg struct {
	Data *BrowseData
	Err  error
}

// DiffMsg is sent when diff preview is ready
type DiffMsg struct {
	Content string
	Err     error
}

type browseModel struct {
	table       table.Model
	viewport    viewport.Model
	data        *BrowseData
	err         error
	ready       bool
	showingDiff bool
	selected    int
	funcs       BrowseFuncs
}

// InitBrowseModel creates a new stale page browser model
func InitBrowseModel(funcs BrowseFuncs) browseModel {
	columns := []table.Column{
		{Title: "Page", Width: 50},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
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

	vp := viewport.New(100, 20)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		Padding(1)

	return browseModel{
		table:    t,
		viewport: vp,
		funcs:    funcs,
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.load()
}

func (m browseModel) load() tea.Cmd {
	return func() tea.Msg {
		data, err := m.funcs.Load()
		return BrowseMsg{Data: data, Err: err}
	}
}

func (m browseModel) diff(i int) tea.Cmd {
	return func() tea.Msg {
		content, err := m.funcs.Diff(i)
		return DiffMsg{Content: content, Err: err}
	}
}

func (m browseModel) fix(i int) tea.Cmd {
	return func() tea.Msg {
		if err := m.funcs.Fix(i); err != nil {
			return BrowseMsg{Err: err}
		}
		data, err := m.funcs.Load()
		return BrowseMsg{Data: data, Err: err}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6

	case tea.KeyMsg:
		if m.showingDiff {
			switch msg.String() {
			case "q", "esc":
				m.showingDiff = false
				return m, nil
			case "w":
				m.showingDiff = false
				return m, m.fix(m.selected)
			case "up", "k", "down", "j", "pgup", "pgdown":
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k", "down", "j":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		case "enter", "d":
			if m.data != nil && m.table.Cursor() < len(m.data.Pages) {
				m.selected = m.table.Cursor()
				m.showingDiff = true
				m.viewport.SetContent("Rendering diff...")
				return m, m.diff(m.selected)
			}
		case "w":
			if m.data != nil && m.table.Cursor() < len(m.data.Pages) {
				return m, m.fix(m.table.Cursor())
			}
		}

	case BrowseMsg:
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

	case DiffMsg:
		content := msg.Content
		if msg.Err != nil {
			content = styles.ErrorStyle.Render("✗ " + msg.Err.Error())
		}
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("docd check"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready || m.data == nil {
		b.WriteString(styles.DimStyle.Render("Rendering pages..."))
		b.WriteString("\n")
		return b.String()
	}

	if m.showingDiff {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • w write fresh output • esc/q back"))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.data.Pages) == 0 {
		b.WriteString(styles.SuccessStyle.Render("✓ All output is up to date"))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("q quit"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(styles.TableStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter/d diff • w write • q quit"))
	b.WriteString("\n")

	return b.String()
}

// RunBrowse runs the stale page browser until the user quits
func RunBrowse(funcs BrowseFuncs) error {
	_, err := tea.NewProgram(InitBrowseModel(funcs)).Run()
	return err
}
