package main

import (
	"github.com/fairlines/engine/internal/config"
	"github.com/fairlines/engine/internal/logger"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	// Source locations are only useful during development
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		ServiceName,
		Version,
		cfg.Environment,
		addSource,
	)

	logger.InitLogger(loggerConfig)
}
