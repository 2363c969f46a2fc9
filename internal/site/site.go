// Package site builds a directory of markdown pages into HTML, rendering
// only the sources that changed since the last build.
package site

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gerunddev/docd/internal/config"
	"github.com/gerunddev/docd/internal/converter"
	"github.com/gerunddev/docd/internal/logger"
	"github.com/gerunddev/docd/internal/state"
)

// Builder renders the source tree of a config into its output tree
type Builder struct {
	config    *config.Config
	state     *state.State
	log       *logger.Logger
	force     bool
	templates map[string]*template.Template
}

// NewBuilder creates a new builder instance
func NewBuilder(cfg *config.Config, st *state.State) *Builder {
	return &Builder{
		config:    cfg,
		state:     st,
		log:       logger.Discard(),
		templates: make(map[string]*template.Template),
	}
}

// SetLogger sets the logger for the builder
func (b *Builder) SetLogger(l *logger.Logger) {
	b.log = l
}

// SetForce makes the next builds render every page regardless of state
func (b *Builder) SetForce(force bool) {
	b.force = force
}

// BuildResult represents the result of a build
type BuildResult struct {
	PagesRendered int
	Skipped       int
	Removed       int
	Errors        []error
	StartTime     time.Time
	EndTime       time.Time
}

// Build renders every changed page, removes outputs whose source is gone
// and updates the state. Per-page failures are collected in the result;
// the returned error is reserved for failures that stop the whole build.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	result := &BuildResult{
		StartTime: time.Now(),
	}
	b.log.BuildStarted(b.config.SourceDir, b.config.OutputDir)

	// templates may have changed on disk since the last build
	clear(b.templates)

	if b.state.Reset(b.fingerprint()) {
		b.log.Debug("render settings changed, rebuilding all pages")
	}

	pages, err := b.Pages()
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		keep[page.Source] = true

		changed, err := b.needsBuild(page)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", page.Rel, err))
			b.log.FileError(page.Source, err)
			continue
		}
		if !changed {
			result.Skipped++
			b.log.Skipped(page.Source, "unchanged")
			continue
		}

		if err := b.buildPage(page); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", page.Rel, err))
			b.log.FileError(page.Source, err)
			continue
		}
		result.PagesRendered++
		b.log.PageRendered(page.Source, page.Output)
	}

	for _, gone := range b.state.Prune(keep) {
		if err := os.Remove(gone.Output); err != nil && !errors.Is(err, os.ErrNotExist) {
			result.Errors = append(result.Errors, err)
			b.log.FileError(gone.Output, err)
			continue
		}
		result.Removed++
	}

	result.EndTime = time.Now()
	b.log.BuildCompleted(result.PagesRendered, result.Skipped, len(result.Errors), result.EndTime.Sub(result.StartTime))
	return result, nil
}

// needsBuild reports whether page must be rendered: forced builds, changed
// sources and missing outputs all qualify
func (b *Builder) needsBuild(page Page) (bool, error) {
	if b.force {
		return true, nil
	}
	if _, err := os.Stat(page.Output); err != nil {
		return true, nil
	}
	return b.state.HasChanged(page.Source)
}

func (b *Builder) buildPage(page Page) error {
	html, err := b.RenderPage(page)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(page.Output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(page.Output, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return b.state.Update(page.Source, page.Output)
}

// RenderPage renders the source of page into a complete HTML document
func (b *Builder) RenderPage(page Page) (string, error) {
	content, err := os.ReadFile(page.Source)
	if err != nil {
		return "", err
	}

	fm, body, err := SplitFrontMatter(string(content))
	if err != nil {
		return "", err
	}

	tmpl, err := b.template(fm.Template)
	if err != nil {
		return "", err
	}

	conv := converter.NewConverter(
		converter.WithLogger(b.log),
		converter.WithTableClass(b.config.TableClass),
	)

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, layoutData{
		Title:   page.title(fm),
		Content: template.HTML(conv.MarkdownToHTML(body)),
		Source:  page.Rel + ".md",
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// template returns the layout named by front matter, relative to the
// source dir, or the built-in layout
func (b *Builder) template(name string) (*template.Template, error) {
	if name == "" {
		return defaultTemplate, nil
	}
	if tmpl, ok := b.templates[name]; ok {
		return tmpl, nil
	}

	tmpl, err := template.ParseFiles(filepath.Join(b.config.SourceDir, filepath.FromSlash(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", name, err)
	}
	b.templates[name] = tmpl
	return tmpl, nil
}

// fingerprint identifies the settings that shape every rendered page
func (b *Builder) fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "table_class=%s\n", b.config.TableClass)
	fmt.Fprintf(h, "output_dir=%s\n", b.config.OutputDir)
	h.Write([]byte(defaultLayout))
	return fmt.Sprintf("sha256:%x", h.Sum(nil))
}

// Page maps a source path to its page
func (b *Builder) Page(source string) (Page, error) {
	rel, err := filepath.Rel(b.config.SourceDir, source)
	if err != nil {
		return Page{}, err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Page{}, fmt.Errorf("%s is outside %s", source, b.config.SourceDir)
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return Page{
		Source: source,
		Rel:    filepath.ToSlash(rel),
		Output: filepath.Join(b.config.OutputDir, rel+".html"),
	}, nil
}

// Pages lists every page of the source dir, sorted by source path
func (b *Builder) Pages() ([]Page, error) {
	files, err := ScanDirectory(b.config.SourceDir, ".md", b.config.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", b.config.SourceDir, err)
	}

	pages := make([]Page, 0, len(files))
	for _, file := range files {
		page, err := b.Page(file)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// PageStatus describes where a page stands relative to the last build
type PageStatus struct {
	Page   Page
	Status string
}

// Page statuses reported by Status
const (
	StatusNew      = "new"
	StatusChanged  = "changed"
	StatusMissing  = "output missing"
	StatusUpToDate = "up to date"
)

// Status reports for every page whether the next build would render it.
// Pages needing a build sort first.
func (b *Builder) Status() ([]PageStatus, error) {
	pages, err := b.Pages()
	if err != nil {
		return nil, err
	}

	fresh := b.state.Fingerprint == b.fingerprint()
	statuses := make([]PageStatus, 0, len(pages))
	for _, page := range pages {
		status := StatusUpToDate
		_, tracked := b.state.Files[page.Source]
		switch {
		case !tracked || !fresh:
			status = StatusNew
		default:
			changed, err := b.state.HasChanged(page.Source)
			if err != nil {
				return nil, err
			}
			if changed {
				status = StatusChanged
			} else if _, err := os.Stat(page.Output); err != nil {
				status = StatusMissing
			}
		}
		statuses = append(statuses, PageStatus{Page: page, Status: status})
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].Status != StatusUpToDate && statuses[j].Status == StatusUpToDate
	})
	return statuses, nil
}

// Stale is a page whose output on disk differs from a fresh render
type Stale struct {
	Page    Page
	Current string // empty when the output does not exist
	Fresh   string
}

// Check renders every page without writing and returns those whose output
// is missing or out of date
func (b *Builder) Check(ctx context.Context) ([]Stale, error) {
	clear(b.templates)

	pages, err := b.Pages()
	if err != nil {
		return nil, err
	}

	var stale []Stale
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fresh, err := b.RenderPage(page)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", page.Rel, err)
		}

		current, err := os.ReadFile(page.Output)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if string(current) != fresh {
			stale = append(stale, Stale{Page: page, Current: string(current), Fresh: fresh})
		}
	}
	return stale, nil
}

// ScanDirectory lists files with the given extension below dir, sorted.
// Hidden directories and the skip directory are not descended into.
func ScanDirectory(dir, ext, skip string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && (strings.HasPrefix(d.Name(), ".") || path == skip) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// String returns a human-readable summary of the build result
func (r *BuildResult) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Build complete: %d pages rendered, %d unchanged, %d removed, %d errors (took %v)",
		r.PagesRendered,
		r.Skipped,
		r.Removed,
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}
