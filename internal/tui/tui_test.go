package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSummarizeBuild(t *testing.T) {
	tests := []struct {
		name   string
		result *BuildResult
		err    error
		want   []string
	}{
		{
			name: "failed",
			err:  errors.New("no source dir"),
			want: []string{"Build failed: no source dir"},
		},
		{
			name:   "nothing to do",
			result: &BuildResult{Skipped: 3, Duration: time.Second},
			want:   []string{"Nothing to build", "Completed in 1s"},
		},
		{
			name:   "rendered with errors",
			result: &BuildResult{PagesRendered: 2, Removed: 1, Errors: []error{errors.New("a.md: bad template")}},
			want:   []string{"Rendered 2 page(s)", "removed 1", "1 error(s)", "a.md: bad template"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeBuild(tt.result, tt.err)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("SummarizeBuild() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestBuildModelCompletes(t *testing.T) {
	m := InitBuildModel("content")
	if !strings.Contains(m.View(), "Building content") {
		t.Errorf("View() before completion = %q", m.View())
	}

	next, cmd := m.Update(BuildMsg{Result: &BuildResult{PagesRendered: 1}})
	if cmd == nil {
		t.Error("Expected quit command after completion")
	}
	if !strings.Contains(next.View(), "Rendered 1 page(s)") {
		t.Errorf("View() after completion = %q", next.View())
	}
}

func TestStatusModel(t *testing.T) {
	load := func() (*StatusData, error) {
		return &StatusData{
			SourceDir: "/src",
			Pages:     []PageRow{{Page: "a", Status: "new"}, {Page: "b", Status: "up to date"}},
			Pending:   1,
			Watching:  true,
			WatchPID:  42,
		}, nil
	}
	m := InitStatusModel(load, nil)

	msg := m.load()()
	next, _ := m.Update(msg)
	view := next.View()

	for _, want := range []string{"/src", "1 page(s) need a build", "Running (PID 42)"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestStatusModelRebuild(t *testing.T) {
	built := false
	m := InitStatusModel(
		func() (*StatusData, error) { return &StatusData{}, nil },
		func() error { built = true; return nil },
	)
	m.scanning = false

	if msg := m.rebuild()(); msg != (RefreshStatusMsg{}) {
		t.Errorf("rebuild() = %#v, want RefreshStatusMsg", msg)
	}
	if !built {
		t.Error("Expected build func to run")
	}
}

func TestBrowseModel(t *testing.T) {
	fixed := -1
	funcs := BrowseFuncs{
		Load: func() (*BrowseData, error) {
			if fixed >= 0 {
				return &BrowseData{}, nil
			}
			return &BrowseData{Pages: []StaleRow{{Page: "guide/a", Status: "stale"}}}, nil
		},
		Diff: func(i int) (string, error) { return "-old\n+new", nil },
		Fix:  func(i int) error { fixed = i; return nil },
	}
	m := InitBrowseModel(funcs)

	next, _ := m.Update(m.load()())
	m = next.(browseModel)
	if !strings.Contains(m.View(), "guide/a") {
		t.Errorf("View() missing stale page:\n%s", m.View())
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browseModel)
	if !m.showingDiff || cmd == nil {
		t.Fatal("Expected enter to open the diff")
	}
	next, _ = m.Update(cmd())
	m = next.(browseModel)
	if !strings.Contains(m.View(), "+new") {
		t.Errorf("View() missing diff:\n%s", m.View())
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	m = next.(browseModel)
	next, _ = m.Update(cmd())
	m = next.(browseModel)
	if fixed != 0 {
		t.Errorf("Fix called with %d, want 0", fixed)
	}
	if !strings.Contains(m.View(), "All output is up to date") {
		t.Errorf("View() after fix:\n%s", m.View())
	}
}

func TestWatchModel(t *testing.T) {
	m := InitWatchModel()
	next, _ := m.Update(WatchMsg{Data: &WatchData{
		SourceDir:     "/src",
		StartTime:     time.Now(),
		LastBuildTime: time.Now(),
		PagesRendered: 4,
		LogLines:      []string{"INFO build completed"},
	}})
	view := next.View()

	for _, want := range []string{"/src", "Pages rendered: 4", "INFO build completed"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	next, _ = next.Update(WatchMsg{Err: errors.New("watch failed")})
	if !strings.Contains(next.View(), "watch failed") {
		t.Errorf("View() missing error:\n%s", next.View())
	}
}
