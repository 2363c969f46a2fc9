package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPageStatusStyle(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"up to date", Green},
		{"new", Cyan},
		{"changed", Yellow},
		{"stale", Yellow},
		{"output missing", Orange},
		{"missing", Orange},
		{"something else", Comment},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := PageStatusStyle(tt.status).GetForeground()
			if got != lipgloss.Color(tt.want) {
				t.Errorf("PageStatusStyle(%q) foreground = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
