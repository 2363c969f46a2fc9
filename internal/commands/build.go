package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gerunddev/docd/internal/config"
	"github.com/gerunddev/docd/internal/converter"
	"github.com/gerunddev/docd/internal/site"
	"github.com/gerunddev/docd/internal/styles"
	"github.com/gerunddev/docd/internal/tui"
)

// Render renders a single file, or stdin, to stdout
func Render(args []string) {
	cfg := mustLoadConfig()
	log, cleanup := setupLogger(cfg, nil)
	defer cleanup()

	var (
		source []byte
		err    error
	)
	files := positional(args)
	switch {
	case len(files) > 1:
		fmt.Fprintln(os.Stderr, "Error: render takes at most one file")
		os.Exit(1)
	case len(files) == 0 || files[0] == "-":
		source, err = io.ReadAll(os.Stdin)
	default:
		source, err = os.ReadFile(files[0])
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ Error reading input: "+err.Error()))
		os.Exit(1)
	}

	conv := converter.NewConverter(
		converter.WithLogger(log),
		converter.WithTableClass(cfg.TableClass),
	)
	fmt.Print(conv.MarkdownToHTML(string(source)))
}

// Build renders every changed page of the source dir into the output dir
func Build(args []string) {
	force := hasFlag(args, "--force", "-f")
	quiet := hasFlag(args, "--quiet", "-q")

	cfg := mustLoadConfig()
	st := mustLoadState(cfg)

	log, cleanup := setupLogger(cfg, nil)
	defer cleanup()
	log.ConfigLoaded(cfg.SourceDir, cfg.OutputDir, cfg.WatchDebounce)

	builder := site.NewBuilder(cfg, st)
	builder.SetLogger(log)
	builder.SetForce(force)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	build := func() (*tui.BuildResult, error) {
		return runBuild(ctx, builder)
	}

	var (
		result *tui.BuildResult
		err    error
	)
	if quiet {
		result, err = build()
		if err != nil || len(result.Errors) > 0 {
			fmt.Print(tui.SummarizeBuild(result, err))
		}
	} else {
		fmt.Println(styles.TitleStyle.Render("docd build"))
		result, err = tui.RunBuild(cfg.SourceDir, build)
		if errors.Is(err, tui.ErrInterrupted) {
			stop()
			fmt.Println(styles.WarningStyle.Render("! Build interrupted"))
			os.Exit(1)
		}
	}

	if saveErr := st.Save(cfg.StateFile); saveErr != nil {
		log.StateError("save", saveErr)
		fmt.Println(styles.ErrorStyle.Render("✗ Error saving state: " + saveErr.Error()))
		os.Exit(1)
	}

	if err != nil || len(result.Errors) > 0 {
		os.Exit(1)
	}
}

// runBuild runs one build and converts its result for display
func runBuild(ctx context.Context, builder *site.Builder) (*tui.BuildResult, error) {
	result, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	return &tui.BuildResult{
		PagesRendered: result.PagesRendered,
		Skipped:       result.Skipped,
		Removed:       result.Removed,
		Errors:        result.Errors,
		Duration:      result.EndTime.Sub(result.StartTime),
	}, nil
}

// Init writes a default config file
func Init(args []string) {
	force := hasFlag(args, "--force", "-f")
	path := config.ConfigPath()

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Println(styles.ErrorStyle.Render("✗ Config already exists: " + path))
		fmt.Println(styles.DimStyle.Render("  Use --force to overwrite it"))
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if dir := flagValue(args, "--source"); dir != "" {
		cfg.SourceDir = dir
	}
	if dir := flagValue(args, "--output"); dir != "" {
		cfg.OutputDir = dir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}
	if err := cfg.Save(); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error writing config: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Wrote " + path))
}
