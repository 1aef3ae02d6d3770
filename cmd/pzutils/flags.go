package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/eak1mov/go-pzmap/config"
)

// gameFlags are shared by commands reading files of a game installation.
// Flags given on the command line override the config file.
type gameFlags struct {
	configPath string
	gamePath   string
	mapName    string
	workers    int
	verbose    bool
}

func (g *gameFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&g.configPath, "config", "", "Config file path (YAML)")
	f.StringVar(&g.gamePath, "game", "", "Game installation directory")
	f.StringVar(&g.mapName, "map", "", "Map name under media/maps")
	f.IntVar(&g.workers, "workers", 0, "Number of files decoded in parallel")
	f.BoolVar(&g.verbose, "v", false, "Verbose logging")
}

func (g *gameFlags) config() (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return cfg, err
	}
	if g.gamePath != "" {
		cfg.GamePath = g.gamePath
	}
	if g.mapName != "" {
		cfg.MapName = g.mapName
	}
	if g.workers > 0 {
		cfg.Workers = g.workers
	}
	return cfg, cfg.Validate()
}

func (g *gameFlags) logger() *slog.Logger {
	if !g.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
