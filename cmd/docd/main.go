package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/docd/internal/commands"
	"github.com/gerunddev/docd/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "render":
		commands.Render(os.Args[2:])
	case "build":
		commands.Build(os.Args[2:])
	case "watch":
		commands.Watch(os.Args[2:])
	case "check":
		commands.Check(os.Args[2:])
	case "status":
		commands.Status()
	case "serve":
		commands.Serve(os.Args[2:])
	case "init":
		commands.Init(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("docd v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`docd - Render markdown pages to HTML

Usage:
  docd <command> [options]

Commands:
  render      Render a file (or stdin) to stdout
  build       Render changed pages (--force to render all, --quiet for no spinner)
  watch       Build, then rebuild on every change (--quiet, --debounce 500ms)
  check       Diff stale output against a fresh render (--plain, -i to browse)
  status      Show which pages the next build would render
  serve       Preview pages over HTTP (--addr host:port)
  init        Write a default config file (--source, --output, --force)
  version     Show version information
  help        Show this help message

Examples:
  docd render README.md > readme.html
  echo '# hi' | docd render
  docd build
  docd build --force
  docd watch
  docd check --plain
  docd serve --addr localhost:3000

Configuration:
  Config file: %s
  State file:  %s

`, config.ConfigPath(), config.StateFilePath())
	fmt.Print(usage)
}
