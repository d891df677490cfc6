// Package common provides shared setup for command implementations.
package common

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jonesrussell/cardfeed/internal/config"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/metrics"
	"github.com/jonesrussell/cardfeed/internal/store"
)

var (
	// ConfigPath is set by the root --config flag.
	ConfigPath string
	// Debug is set by the root --debug flag.
	Debug bool
	// Version is the build version reported by serve.
	Version = "dev"
)

// CommandDeps holds the dependencies every command starts from.
type CommandDeps struct {
	Config   *config.Config
	Logger   logger.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Store    *store.FileStore
}

// NewCommandDeps loads config and builds the logger, metrics and store.
func NewCommandDeps() (CommandDeps, error) {
	path := ConfigPath
	if path == "" {
		path = config.GetConfigPath(config.DefaultPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}
	if Debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return CommandDeps{
		Config:   cfg,
		Logger:   log,
		Registry: reg,
		Metrics:  metrics.New(reg),
		Store:    store.NewFileStore(cfg.Storage.Dir, log),
	}, nil
}

// Close flushes the logger.
func (d CommandDeps) Close() {
	_ = d.Logger.Sync()
}
