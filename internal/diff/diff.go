package diff

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatTerminal renders diffs with glamour for the terminal (default)
	FormatTerminal Format = iota
	// FormatPlain returns the diff as a markdown diff fence
	FormatPlain
)

// Unified returns the unified diff turning current into fresh, or "" when
// they are equal
func Unified(currentName, freshName, current, fresh string) string {
	edits := myers.ComputeEdits(span.URIFromPath(currentName), current, fresh)
	if len(edits) == 0 {
		return ""
	}
	return fmt.Sprint(gotextdiff.ToUnified(currentName, freshName, current, edits))
}

// Generate diffs the output on disk against a fresh render of its source
// The format parameter determines how the diff is rendered
func Generate(outputName, current, fresh string, format Format) (string, error) {
	unified := Unified(outputName, outputName+" (fresh)", current, fresh)
	if unified == "" {
		return "", nil
	}

	// Wrap in diff code fence for proper syntax highlighting (+ in green, - in red)
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	switch format {
	case FormatPlain:
		return diffMarkdown, nil
	case FormatTerminal:
	default:
		return "", fmt.Errorf("unsupported diff format: %d", format)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return diffMarkdown, nil
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		// Fallback to plain diff if rendering fails
		return diffMarkdown, nil
	}

	return rendered, nil
}
