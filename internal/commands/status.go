package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/gerunddev/docd/internal/pidfile"
	"github.com/gerunddev/docd/internal/site"
	"github.com/gerunddev/docd/internal/state"
	"github.com/gerunddev/docd/internal/styles"
	"github.com/gerunddev/docd/internal/tui"
)

// Status displays which pages the next build would render
func Status() {
	cfg := mustLoadConfig()
	log, cleanup := setupLogger(cfg, nil)
	defer cleanup()

	load := func() (*tui.StatusData, error) {
		// reload state to pick up builds from other processes
		st, err := state.Load(cfg.StateFile)
		if err != nil {
			return nil, fmt.Errorf("error loading state: %w", err)
		}

		statuses, err := site.NewBuilder(cfg, st).Status()
		if err != nil {
			return nil, err
		}

		data := &tui.StatusData{
			SourceDir:  cfg.SourceDir,
			OutputDir:  cfg.OutputDir,
			TableClass: cfg.TableClass,
			Tracked:    len(st.Files),
		}
		data.Watching, data.WatchPID, _ = pidfile.Running(watchPIDPath(cfg))
		for _, s := range statuses {
			data.Pages = append(data.Pages, tui.PageRow{
				Page:   s.Page.Rel,
				Output: s.Page.Output,
				Status: s.Status,
			})
			if s.Status != site.StatusUpToDate {
				data.Pending++
			}
		}
		return data, nil
	}

	build := func() error {
		st, err := state.Load(cfg.StateFile)
		if err != nil {
			return err
		}
		builder := site.NewBuilder(cfg, st)
		builder.SetLogger(log)
		if _, err := builder.Build(context.Background()); err != nil {
			return err
		}
		return st.Save(cfg.StateFile)
	}

	if err := tui.RunStatus(load, build); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		os.Exit(1)
	}
}
