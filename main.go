// ABOUTME: Entry point for the folder-player application
// ABOUTME: Handles command-line parsing, state recovery, locking and TUI startup

// Package main provides the entry point for folder-player, a per-folder
// media playlist player with durable playback state.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"folder-player/config"
	"folder-player/lock"
	"folder-player/player"
	"folder-player/state"
	"folder-player/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config file (default: ./folder-player.toml or ~/.config/folder-player/config.toml)")
	stateDir := flag.String("state-dir", "", "override the state directory")
	debug := flag.Bool("debug", false, "enable debug logging to folder-player-debug.log")
	flag.Parse()

	if flag.NArg() > 1 {
		fmt.Println("Usage: folder-player [flags] [folder]")
		fmt.Println("Example: folder-player ~/Music/albums/ok-computer")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	folder := flag.Arg(0)

	if *debug {
		if err := SetupDebugLog("folder-player-debug.log"); err != nil {
			log.Printf("Failed to setup debug log: %v", err)

			return 1
		}
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		// Defaults are already applied; the bad file is left for the
		// user to inspect.
		log.Printf("Warning: could not read config %s, using defaults: %v", cfgPath, err)
	}

	if *stateDir != "" {
		cfg.StateDir = *stateDir
	}

	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		log.Printf("Cannot create state directory %s: %v", cfg.StateDir, err)

		return 1
	}

	store := state.NewStore(cfg.StateDir)

	st, err := store.Load()
	if err != nil {
		if errors.Is(err, state.ErrCorruptState) {
			// The corrupt file stays on disk until the next save
			// replaces it, so it can still be inspected.
			log.Printf("Warning: state file is unreadable, starting fresh: %v", err)
		} else {
			log.Printf("Warning: could not load state: %v", err)
		}
	}

	coord, err := lock.Acquire(cfg.StateDir)
	if err != nil {
		log.Printf("Warning: lock unavailable, running read-only: %v", err)
	}
	defer func() {
		if err := coord.Release(); err != nil {
			debugf("[shutdown] release lock: %v", err)
		}
	}()

	saver := state.NewAutosaver(store, st, coord.Writer())

	eng, err := player.New()
	if err != nil {
		log.Printf("Cannot initialize audio output: %v", err)

		return 1
	}
	defer eng.Close()

	opts := tui.Options{Folder: folder}
	deps := tui.Dependencies{
		Config: cfg,
		State:  st,
		Saver:  saver,
		Role:   coord.Role(),
		Player: eng,
		Debugf: debugf,
	}

	if err := tui.Run(opts, deps); err != nil {
		log.Printf("TUI error: %v", err)

		return 1
	}

	// The TUI saves on quit; this covers abnormal exits from Run.
	if err := saver.SaveIfDirty(); err != nil {
		log.Printf("Warning: final save failed: %v", err)
	}

	return 0
}
