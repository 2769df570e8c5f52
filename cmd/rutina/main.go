// Package main is the entry point for the rutina application.
// It loads configuration, initializes storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"rutina/internal/catalog"
	"rutina/internal/config"
	"rutina/internal/dailysync"
	"rutina/internal/progress"
	"rutina/internal/storage"
	"rutina/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `rutina - Multi-day program tracking for your terminal

USAGE:
    rutina [OPTIONS]
    rutina <command> [ARGS]

COMMANDS:
    backup           Create a backup of all data
    backup --list    List available backups
    restore NAME     Restore from a specific backup
    restore --latest Restore from the most recent backup
    export           Generate a daily report (Markdown)
    export --weekly  Generate a weekly report
    export -f json   Output report as JSON
    sync             Materialize today's program tasks into the to-do list

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    rutina is a terminal-based tracker for fixed-length daily programs
    (reading, meditation, exercise) with a streak calendar and a simple
    to-do list, all in a single keyboard-driven interface.

FEATURES:
    • Programs   - Start a program, check off today's tasks, track streaks
    • Calendar   - Month view colored by each day's completion
    • To-dos     - Quick capture list, fed daily by your active programs
    • Local Data - Plain JSON files in ~/.rutina/

KEYBINDINGS:
    Global:
        Tab          Switch between panes
        1, 2, 3      Jump to specific pane
        ?            Show help overlay
        q            Quit

    Programs Pane:
        j/k, ↓/↑     Navigate
        s            Start the selected program
        r            Reset the selected program
        d/Space      Toggle a task
        m            Mark the whole day done

    Calendar Pane:
        h/l, ←/→     Previous / next month

    To-dos Pane:
        j/k, ↓/↑     Navigate
        a            Add to-do
        d/Space      Toggle done
        x            Delete to-do

DATA STORAGE:
    All data is stored in ~/.rutina/ as plain JSON files:
        programs.json    - Program state and completed tasks
        todos.json       - Your to-do list
        daily_sync.json  - Last date program tasks were synced

CONFIGURATION:
    Optional config file: ~/.config/rutina/config.yaml
    See documentation for configuration options.

EXAMPLES:
    # Start the app
    rutina

    # Create a backup
    rutina backup

    # Restore from a backup
    rutina restore --latest

    # Generate today's report
    rutina export

    # Generate weekly report as JSON
    rutina export --weekly --format json

    # Show version
    rutina --version

    # Show this help
    rutina --help
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		case "sync":
			runSync(os.Args[2:])
			return
		}
	}

	// Define flags
	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("rutina version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	// Handle help flag
	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	// Reject unknown arguments
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration (from ~/.config/rutina/config.yaml or defaults)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	cat := catalog.Default()

	// Initialize storage with configured data directory
	store, err := storage.New(cfg.GetDataDir(), cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// Repair any out-of-range or unknown program state before the UI reads it
	if _, err := store.NormalizePrograms(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: normalizing programs: %v\n", err)
	}

	engine := progress.New(store, cat)
	runner := dailysync.New(store, engine, cat)

	// Create styles from theme config
	styles := ui.NewStylesFromTheme(&cfg.Theme)

	// Create app config with keys and UX settings
	appCfg := &ui.AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		ShowOnboarding:        cfg.UX.ShowOnboarding,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
	}

	// Run the TUI; the daily sync runs once on startup inside the app
	if err := ui.Run(store, engine, runner, styles, appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
