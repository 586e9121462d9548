package main

import (
	"fmt"
	"os"
	"path/filepath"

	"simple_server/internal/core/server"
	"simple_server/internal/shared/config"
	"simple_server/internal/shared/logger"
)

func main() {
	iniPath := filepath.Join("configs", "server.ini")

	cfg := config.Default()
	if err := config.LoadIni(cfg, iniPath); err != nil {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", iniPath, err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Int("port", cfg.Port).Str("bind", cfg.BindAddress).Msg("Startup failed")
	}
	if err := srv.Serve(); err != nil {
		logger.Fatal().Err(err).Msg("Server stopped unexpectedly")
	}
}
