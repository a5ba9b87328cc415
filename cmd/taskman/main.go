package main

import (
	"fmt"
	"log/slog"
	"os"

	"taskman/internal/config"
	"taskman/internal/logging"
	"taskman/internal/storage"
	"taskman/internal/ui"
)

func main() {
	configPath := config.ResolveConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logging.Open(cfg.LogPath, slog.LevelInfo)
	if err != nil {
		fmt.Printf("failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	log.Info("starting", "config", configPath, "db", cfg.DBPath)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := ui.Run(store, cfg, log); err != nil {
		log.Error("program exited", "err", err)
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
