package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/docd/internal/pidfile"
	"github.com/gerunddev/docd/internal/server"
	"github.com/gerunddev/docd/internal/site"
	"github.com/gerunddev/docd/internal/state"
	"github.com/gerunddev/docd/internal/styles"
	"github.com/gerunddev/docd/internal/tui"
	"github.com/gerunddev/docd/internal/watch"
)

// Watch builds once and then rebuilds whenever the source tree changes.
// A dashboard runs in the foreground unless --quiet is given, in which
// case logs go to stderr.
func Watch(args []string) {
	quiet := hasFlag(args, "--quiet", "-q")

	cfg := mustLoadConfig()
	if d := flagValue(args, "--debounce"); d != "" {
		debounce, err := time.ParseDuration(d)
		if err != nil || debounce <= 0 {
			fmt.Fprintf(os.Stderr, "Error: Invalid debounce: %s\n", d)
			os.Exit(1)
		}
		cfg.WatchDebounce = debounce
	}
	st := mustLoadState(cfg)

	pidPath := watchPIDPath(cfg)
	if running, pid, _ := pidfile.Running(pidPath); running {
		fmt.Println(styles.ErrorStyle.Render(fmt.Sprintf("✗ Already watching with PID %d", pid)))
		os.Exit(1)
	}
	if err := pidfile.Write(pidPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing PID file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := pidfile.Remove(pidPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove PID file on shutdown: %v\n", err)
		}
	}()

	var console io.Writer
	if quiet {
		console = os.Stderr
	}
	log, cleanup := setupLogger(cfg, console)
	defer cleanup()

	log.Info("watch started",
		"pid", os.Getpid(),
		"source_dir", cfg.SourceDir,
		"debounce", cfg.WatchDebounce)

	builder := site.NewBuilder(cfg, st)
	builder.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rebuild := func() {
		if _, err := builder.Build(ctx); err != nil {
			log.Error("build failed", "error", err)
			return
		}
		if err := st.Save(cfg.StateFile); err != nil {
			log.StateError("save", err)
		}
	}

	watcher := watch.New(cfg.SourceDir, cfg.OutputDir, cfg.WatchDebounce)
	watcher.SetLogger(log)

	done := make(chan error, 1)
	go func() {
		rebuild()
		done <- watcher.Run(ctx, rebuild)
	}()

	if quiet {
		if err := <-done; err != nil {
			log.Error("watch failed", "error", err)
			os.Exit(1)
		}
		log.Info("watch stopped")
		return
	}

	startTime := time.Now()
	p := tea.NewProgram(tui.InitWatchModel(), tea.WithInput(os.Stdin))

	sendWatchData := func() {
		data := &tui.WatchData{
			SourceDir: cfg.SourceDir,
			OutputDir: cfg.OutputDir,
			StartTime: startTime,
		}
		data.LogLines, data.LastBuildTime, data.PagesRendered = ParseLogFile(cfg.LogFile, 20)
		p.Send(tui.WatchMsg{Data: data})
	}

	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		sendWatchData()
		for {
			select {
			case <-ticker.C:
				sendWatchData()
			case err := <-done:
				// the watcher stopped on its own; put the error back for shutdown
				if err != nil {
					p.Send(tui.WatchMsg{Err: err})
				}
				done <- err
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		stop()
		<-done
		os.Exit(1)
	}

	stop()
	if err := <-done; err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Watch failed: " + err.Error()))
		os.Exit(1)
	}
	log.Info("watch stopped")
}

// Serve runs the preview server until interrupted
func Serve(args []string) {
	cfg := mustLoadConfig()
	if addr := flagValue(args, "--addr"); addr != "" {
		cfg.Addr = addr
	}

	log, cleanup := setupLogger(cfg, os.Stderr)
	defer cleanup()

	// pages are rendered on request, so a fresh state is never saved
	builder := site.NewBuilder(cfg, state.NewState())
	builder.SetLogger(log)

	srv := server.New(cfg, builder)
	srv.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(styles.TitleStyle.Render("docd serve"))
	fmt.Println(styles.DimStyle.Render(fmt.Sprintf("  Previewing %s at http://%s/", cfg.SourceDir, cfg.Addr)))

	if err := srv.Run(ctx); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}
}
