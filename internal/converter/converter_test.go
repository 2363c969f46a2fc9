package converter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/gerunddev/docd/internal/logger"
)

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		input    string
		expected string
	}{
		{
			name:     "heading",
			input:    "# Title",
			expected: "<h1>Title</h1>\n",
		},
		{
			name:     "default table class",
			input:    "a | b\n--|--\n1 | 2",
			expected: `<table class="table table-striped">`,
		},
		{
			name:     "custom table class",
			opts:     []Option{WithTableClass("grid")},
			input:    "a | b\n--|--\n1 | 2",
			expected: `<table class="grid">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewConverter(tt.opts...).MarkdownToHTML(tt.input)
			if !strings.HasPrefix(got, tt.expected) {
				t.Errorf("MarkdownToHTML() = %q, want prefix %q", got, tt.expected)
			}
		})
	}
}

func TestConverterReusable(t *testing.T) {
	c := NewConverter()
	first := c.MarkdownToHTML("*a*\n\n- b")
	second := c.MarkdownToHTML("*a*\n\n- b")
	if first != second {
		t.Errorf("second run differs:\n%q\n%q", first, second)
	}
}

func TestMarkdownToHTMLLogs(t *testing.T) {
	var buf bytes.Buffer
	c := NewConverter(WithLogger(logger.NewWithLevel(&buf, log.DebugLevel)))
	c.MarkdownToHTML("# a\n\ntext")

	out := buf.String()
	for _, want := range []string{"source rendered", "tokens=2", "nodes="} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownToHTMLQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	c := NewConverter(WithLogger(logger.NewWithLevel(&buf, log.InfoLevel)))
	c.MarkdownToHTML("# a\n\ntext")

	if strings.Contains(buf.String(), "source rendered") {
		t.Errorf("debug line written at info level:\n%s", buf.String())
	}
}
