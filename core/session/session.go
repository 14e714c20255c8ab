package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"asset-core/core/asset"
	"asset-core/core/catalog"
	"asset-core/core/loader"
	"asset-core/core/metrics"
	"asset-core/core/registry"

	"go.uber.org/zap"
)

// Installer registers content factories into a registry.
type Installer func(*registry.Registry)

// Session is one open project.
type Session struct {
	cfg    Config
	logger *zap.Logger

	catalog  *catalog.Catalog
	registry *registry.Registry
	loader   *loader.Loader

	mu      sync.Mutex
	elapsed time.Duration
	opened  bool
	closed  bool
}

// New builds the components of a session. Nothing touches the file system
// until Open.
func New(cfg Config, logger *zap.Logger, m *metrics.Collector, inspectors asset.Inspectors, installers ...Installer) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := registry.New(cfg.Registry, logger.Named("registry"), m)
	for _, install := range installers {
		install(reg)
	}
	return &Session{
		cfg:      cfg,
		logger:   logger,
		catalog:  catalog.New(cfg.Project.FileName, logger.Named("catalog"), m, inspectors),
		registry: reg,
		loader:   loader.New(reg, cfg.Loader, logger.Named("loader"), m),
	}
}

// Catalog returns the project catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Registry returns the asset cache.
func (s *Session) Registry() *registry.Registry { return s.registry }

// Loader returns the async loader.
func (s *Session) Loader() *loader.Loader { return s.loader }

// Open initializes the catalog, starts the loader and connects catalog
// change detection to registry reloads. A failure to persist a freshly
// scanned catalog is logged; the session is still usable.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("open session: %w", loader.ErrClosed)
	}
	if s.opened {
		return nil
	}

	root := s.cfg.Project.Root
	if root == "" {
		root = "."
	}
	folder := s.cfg.Project.AssetsFolder
	if folder == "" {
		folder = "Assets"
	}
	if err := s.catalog.Initialize(root, folder); err != nil {
		s.logger.Warn("Catalog initialized but not persisted", zap.Error(err))
	}

	s.catalog.SetModifiedCallback(s.onModified)
	s.loader.Start(ctx)
	s.opened = true

	s.logger.Info("Session opened",
		zap.String("root", s.catalog.Root()),
		zap.String("assets", s.catalog.AssetsFolder()),
		zap.Int("catalog_assets", s.catalog.Count()),
	)
	return nil
}

func (s *Session) onModified(id asset.ID, path string) {
	err := s.registry.ReloadByPath(path)
	if err != nil && !errors.Is(err, asset.ErrNotFound) {
		s.logger.Warn("Hot reload failed", zap.Stringer("id", id), zap.String("path", path), zap.Error(err))
	}
}

// Tick advances the session by dt: on every check interval the catalog's
// modification check runs, then the registry's, then finished async loads
// are delivered. Call it from one goroutine.
func (s *Session) Tick(dt time.Duration) {
	s.mu.Lock()
	s.elapsed += dt
	check := s.elapsed >= s.registry.CheckInterval()
	if check {
		s.elapsed = 0
	}
	s.mu.Unlock()

	if check {
		s.catalog.UpdateFileWatchers()
	}
	s.registry.Update(dt)
	s.loader.Update()
}

// Check forces an immediate modification check regardless of the interval.
func (s *Session) Check() []asset.ID {
	changed := s.catalog.UpdateFileWatchers()
	s.registry.ReloadModified()
	return changed
}

// Close stops the loader, delivers whatever finished and persists the catalog.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	opened := s.opened
	s.mu.Unlock()

	s.loader.Shutdown()
	s.loader.Update()

	if !opened {
		return nil
	}
	if err := s.catalog.Save(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	s.logger.Info("Session closed")
	return nil
}
