package cmd

import (
	"context"
	"fmt"

	"asset-core/core/config"
	"asset-core/core/logger"
	"asset-core/core/metrics"
	"asset-core/core/session"
	"asset-core/feature/content"

	"go.uber.org/zap"
)

// app is what every command needs: configuration and a logger.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadRuntime() (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if projectRoot != "" {
		cfg.Project.Root = projectRoot
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(logg)
	return &app{cfg: cfg, logger: logg}, nil
}

// collector returns a metrics collector, or nil when metrics are disabled.
func (r *app) collector() *metrics.Collector {
	if !r.cfg.Metrics.Enabled {
		return nil
	}
	return metrics.NewCollector(r.cfg.Metrics.Namespace)
}

// openSession opens the configured project with the built-in content types.
func (r *app) openSession(ctx context.Context, m *metrics.Collector) (*session.Session, error) {
	s := session.New(r.cfg.Session(), r.logger, m, content.Inspectors(), content.RegisterFactories)
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
