// Package main is the entry point for the rutina application.
// This file contains the sync subcommand handler.
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
)

// syncHelpText is the help message for the sync subcommand.
const syncHelpText = `rutina sync - Materialize today's program tasks into the to-do list

USAGE:
    rutina sync [OPTIONS]

OPTIONS:
    -h, --help     Show this help message

DESCRIPTION:
    Adds one to-do entry per active program for today, the same way the
    app does on startup. Runs at most once per day; re-running on the
    same day is a no-op. Useful from cron or shell startup scripts when
    you want today's entries without opening the TUI.

EXAMPLES:
    # Add today's program entries to the to-do list
    rutina sync
`

// runSync handles the "rutina sync" subcommand.
func runSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, syncHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(syncHelpText)
		os.Exit(0)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n", fs.Args())
		os.Exit(1)
	}

	// Load config and storage
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	cat := catalog.Default()
	store, err := storage.New(cfg.GetDataDir(), cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	if _, err := store.NormalizePrograms(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: normalizing programs: %v\n", err)
	}

	engine := progress.New(store, cat)
	runner := dailysync.New(store, engine, cat)

	created, err := runner.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running daily sync: %v\n", err)
		os.Exit(1)
	}

	if created == 0 {
		fmt.Println("Nothing to add for today.")
		return
	}
	if created == 1 {
		fmt.Println("✓ Added 1 program entry for today.")
		return
	}
	fmt.Printf("✓ Added %d program entries for today.\n", created)
}
