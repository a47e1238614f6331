package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/glyphpick/internal/app"
	"github.com/marcus/glyphpick/internal/config"
	"github.com/marcus/glyphpick/internal/emoji"
	"github.com/marcus/glyphpick/internal/index"
	"github.com/marcus/glyphpick/internal/recent"
)

// Version is set at build time via ldflags
var Version = ""

var (
	debugFlag   = flag.Bool("debug", false, "enable debug logging")
	versionFlag = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("glyphpick version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	catalog, err := buildCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load emoji dataset: %v\n", err)
		os.Exit(1)
	}

	idx, err := index.Open(cacheDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open emoji index: %v\n", err)
		os.Exit(1)
	}
	defer idx.Close()

	groups, err := idx.Groups()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read emoji groups: %v\n", err)
		os.Exit(1)
	}

	// History is optional: the picker works without it.
	var recents *recent.Store
	historyPath := filepath.Join(config.ConfigPath(), "recent.db")
	if recents, err = recent.Open(historyPath, cfg.Picker.RecentLimit); err != nil {
		logger.Warn("recent history unavailable", "err", err)
		recents = nil
	} else {
		defer recents.Close()
	}

	// Hot-reload preferences; also optional.
	watcher, err := config.Watch(filepath.Join(config.ConfigPath(), "config.json"), logger)
	if err != nil {
		logger.Warn("config watcher unavailable", "err", err)
		watcher = nil
	} else {
		defer watcher.Stop()
	}

	model := app.New(app.Options{
		Config:   cfg,
		Logger:   logger,
		Catalog:  catalog,
		Searcher: idx,
		Groups:   groups,
		Recents:  recents,
		Watcher:  watcher,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildCatalog parses the bundled dataset into the in-memory catalog.
// The SQLite index serves queries; the catalog is the authoritative
// name→record map.
func buildCatalog() (*emoji.Catalog, error) {
	groups, err := emoji.ParseDataset()
	if err != nil {
		return nil, err
	}
	return emoji.NewCatalog(groups)
}

// cacheDir is where the materialized index lives. Falls back to the
// config dir when the OS cache dir is unavailable.
func cacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return config.ConfigPath()
	}
	return filepath.Join(dir, "glyphpick")
}

// effectiveVersion prefers the ldflags version, then build info, then
// "dev".
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
