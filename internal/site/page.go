package site

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const frontMatterDelim = "+++"

// Page is one markdown source and the HTML file it builds into
type Page struct {
	Source string // absolute path of the .md file
	Rel    string // slash-separated path below the source dir, no extension
	Output string // absolute path of the .html file
}

// FrontMatter holds the optional TOML header of a page
type FrontMatter struct {
	Title    string `toml:"title"`
	Template string `toml:"template"`
}

// SplitFrontMatter separates a leading +++ fenced TOML block from the
// markdown body. Content without front matter is returned unchanged.
func SplitFrontMatter(content string) (FrontMatter, string, error) {
	var fm FrontMatter

	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, frontMatterDelim+"\n") {
		return fm, content, nil
	}

	lines := strings.SplitAfter(content, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\n") == frontMatterDelim {
			end = i
			break
		}
	}
	if end < 0 {
		return fm, "", fmt.Errorf("missing closing front matter delimiter")
	}

	header := strings.Join(lines[1:end], "")
	body := strings.Join(lines[end+1:], "")

	if _, err := toml.Decode(header, &fm); err != nil {
		return fm, "", fmt.Errorf("failed to parse front matter: %w", err)
	}
	return fm, body, nil
}

// layoutData is what page templates are executed with
type layoutData struct {
	Title   string
	Content template.HTML
	Source  string
}

const defaultLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Content}}</body>
</html>
`

var defaultTemplate = template.Must(template.New("layout").Parse(defaultLayout))

// title falls back to the file name when front matter has none
func (p Page) title(fm FrontMatter) string {
	if fm.Title != "" {
		return fm.Title
	}
	return filepath.Base(filepath.FromSlash(p.Rel))
}
