package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/docd/internal/styles"
)

// BuildResult holds the result of a build for display
type BuildResult struct {
	PagesRendered int
	Skipped       int
	Removed       int
	Errors        []error
	Duration      time.Duration
}

// buildModel is the Bubble Tea model for the build progress display
type buildModel struct {
	spinner  spinner.Model
	status   string
	complete bool
	result   *BuildResult
	err      error
}

// BuildMsg is sent when the build completes
type BuildMsg struct {
	Result *BuildResult
	Err    error
}

// InitBuildModel creates a new build progress model
func InitBuildModel(sourceDir string) buildModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return buildModel{
		spinner: s,
		status:  "Building " + sourceDir + "...",
	}
}

func (m buildModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case BuildMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m buildModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}
	return SummarizeBuild(m.result, m.err)
}

// ErrInterrupted is returned when the user quits before the build ends
var ErrInterrupted = errors.New("build interrupted")

// RunBuild shows a spinner while build runs and prints its summary
func RunBuild(sourceDir string, build func() (*BuildResult, error)) (*BuildResult, error) {
	p := tea.NewProgram(InitBuildModel(sourceDir))

	go func() {
		result, err := build()
		p.Send(BuildMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(buildModel)
	if !ok || !m.complete {
		return nil, ErrInterrupted
	}
	return m.result, m.err
}

// SummarizeBuild renders the outcome of a build as styled lines
func SummarizeBuild(result *BuildResult, err error) string {
	if err != nil {
		return styles.ErrorStyle.Render("✗ Build failed: "+err.Error()) + "\n"
	}

	took := styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", result.Duration.Round(time.Millisecond))) + "\n"

	if result.PagesRendered == 0 && result.Removed == 0 && len(result.Errors) == 0 {
		return styles.SuccessStyle.Render("✓ Nothing to build") + "\n" + took
	}

	msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ Rendered %d page(s)", result.PagesRendered))
	if result.Removed > 0 {
		msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("removed %d", result.Removed))
	}
	if len(result.Errors) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(result.Errors)))
		for _, e := range result.Errors {
			msg += "\n  " + styles.DimStyle.Render(e.Error())
		}
	}
	return msg + "\n" + took
}
