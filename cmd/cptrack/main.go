package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkondo/cptrack/internal/app"
	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/repo"
	"github.com/mkondo/cptrack/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cptrack: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	dbPath := flag.String("db", "", "path to the database file (overrides config)")
	ephemeral := flag.Bool("ephemeral", false, "keep everything in memory; nothing is saved")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataPath := cfg.Storage.Path
	if *dbPath != "" {
		dataPath = *dbPath
	}
	if dataPath == "" {
		dataPath = model.DefaultDataPath()
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// The TUI owns stdout, so diagnostics go to a log file next to
	// the database.
	logger, closeLog, err := openLogger(filepath.Join(filepath.Dir(dataPath), "cptrack.log"))
	if err != nil {
		return err
	}
	defer closeLog()

	var s store.Store
	if *ephemeral {
		s = store.NewMemoryStore()
	} else {
		s, err = store.NewSQLiteStore(dataPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
	}
	defer s.Close()

	r := repo.New(context.Background(), s, logger)

	p := tea.NewProgram(app.New(r, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func openLogger(path string) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return logger, func() { f.Close() }, nil
}
