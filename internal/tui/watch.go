package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/docd/internal/styles"
)

// WatchData holds the watch loop status shown by the dashboard
type WatchData struct {
	SourceDir     string
	OutputDir     string
	StartTime     time.Time
	LastBuildTime time.Time
	PagesRendered int
	LogLines      []string
}

// WatchMsg is sent when watch data is ready
type WatchMsg struct {
	Data *WatchData
	Err  error
}

type watchModel struct {
	data  *WatchData
	err   error
	ready bool
}

// InitWatchModel creates a new watch dashboard model
func InitWatchModel() watchModel {
	return watchModel{}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case WatchMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("docd watch"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready || m.data == nil {
		return b.String()
	}

	uptime := time.Since(m.data.StartTime).Round(time.Second)
	b.WriteString(labelStyle.Render("Watching"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Source: %s\n", valueStyle.Render(m.data.SourceDir)))
	b.WriteString(fmt.Sprintf("  Output: %s\n", valueStyle.Render(m.data.OutputDir)))
	b.WriteString(fmt.Sprintf("  Uptime: %s\n", valueStyle.Render(uptime.String())))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Last Build"))
	b.WriteString("\n")
	if !m.data.LastBuildTime.IsZero() {
		since := time.Since(m.data.LastBuildTime).Round(time.Second)
		b.WriteString(fmt.Sprintf("  Finished:       %s ago\n", valueStyle.Render(since.String())))
		b.WriteString(fmt.Sprintf("  Pages rendered: %s\n", valueStyle.Render(fmt.Sprintf("%d", m.data.PagesRendered))))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", styles.HelpStyle.Render("No build completed yet")))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Recent Logs"))
	b.WriteString("\n")
	if len(m.data.LogLines) > 0 {
		for _, line := range m.data.LogLines {
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString(styles.HelpStyle.Render("  No logs available"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.HelpStyle.Render("q quit • auto-refresh: 2s"))
	b.WriteString("\n")

	return b.String()
}
