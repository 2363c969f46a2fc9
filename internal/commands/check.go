package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gerunddev/docd/internal/config"
	"github.com/gerunddev/docd/internal/diff"
	"github.com/gerunddev/docd/internal/site"
	"github.com/gerunddev/docd/internal/styles"
	"github.com/gerunddev/docd/internal/tui"
)

// Check renders every page without writing and prints a diff for each
// output that is stale. It exits 1 when any output differs.
func Check(args []string) {
	if hasFlag(args, "--interactive", "-i") {
		checkInteractive()
		return
	}

	format := diff.FormatTerminal
	if hasFlag(args, "--plain") {
		format = diff.FormatPlain
	}

	cfg := mustLoadConfig()
	log, cleanup := setupLogger(cfg, nil)
	defer cleanup()

	builder := site.NewBuilder(cfg, mustLoadState(cfg))
	builder.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stale, err := builder.Check(ctx)
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Check failed: " + err.Error()))
		os.Exit(1)
	}

	if len(stale) == 0 {
		fmt.Println(styles.SuccessStyle.Render("✓ All output is up to date"))
		return
	}

	for _, s := range stale {
		status := staleStatus(s)
		fmt.Printf("%s %s\n", styles.PageStatusStyle(status).Render("● "+status), s.Page.Rel)

		out, err := diff.Generate(outputName(cfg, s.Page), s.Current, s.Fresh, format)
		if err != nil {
			fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
			continue
		}
		fmt.Println(out)
	}

	fmt.Println(styles.HighlightStyle.Render(fmt.Sprintf("%d page(s) out of date", len(stale))))
	fmt.Println(styles.DimStyle.Render("  Run 'docd build' to update them"))
	os.Exit(1)
}

// checkInteractive browses stale pages, showing diffs and writing fresh
// output on request
func checkInteractive() {
	cfg := mustLoadConfig()
	log, cleanup := setupLogger(cfg, nil)
	defer cleanup()

	builder := site.NewBuilder(cfg, mustLoadState(cfg))
	builder.SetLogger(log)

	var stale []site.Stale

	funcs := tui.BrowseFuncs{
		Load: func() (*tui.BrowseData, error) {
			var err error
			stale, err = builder.Check(context.Background())
			if err != nil {
				return nil, err
			}
			data := &tui.BrowseData{}
			for _, s := range stale {
				data.Pages = append(data.Pages, tui.StaleRow{Page: s.Page.Rel, Status: staleStatus(s)})
			}
			return data, nil
		},
		Diff: func(i int) (string, error) {
			s := stale[i]
			return diff.Generate(outputName(cfg, s.Page), s.Current, s.Fresh, diff.FormatTerminal)
		},
		Fix: func(i int) error {
			s := stale[i]
			if err := os.MkdirAll(filepath.Dir(s.Page.Output), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(s.Page.Output, []byte(s.Fresh), 0644); err != nil {
				return err
			}
			log.PageRendered(s.Page.Source, s.Page.Output)
			return nil
		},
	}

	if err := tui.RunBrowse(funcs); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		os.Exit(1)
	}
}

func staleStatus(s site.Stale) string {
	if s.Current == "" {
		return "missing"
	}
	return "stale"
}

// outputName is the output path shown in diff headers
func outputName(cfg *config.Config, page site.Page) string {
	if rel, err := filepath.Rel(cfg.OutputDir, page.Output); err == nil {
		return filepath.ToSlash(rel)
	}
	return page.Output
}
