package registry

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"asset-core/core/asset"
	"asset-core/core/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// WatchEntry tracks the last observed modification time of a cached asset's file.
type WatchEntry struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
	ID      asset.ID  `json:"id,string"`
}

// ReloadEvent describes one reload.
type ReloadEvent struct {
	ID   asset.ID
	Path string
	// Asset is the rebuilt instance. It is nil when the entry was only evicted.
	Asset asset.Asset
	// Err is set when the factory failed to rebuild the asset.
	Err error
}

// ReloadFunc receives reload notifications.
type ReloadFunc func(ReloadEvent)

// build constructs an asset and a weak accessor for it.
type build func(path string) (asset.Asset, func() asset.Asset, error)

type entry struct {
	id   asset.ID
	typ  asset.Type
	key  string
	file string
	// value returns the cached asset, or nil once it has been collected.
	value     func() asset.Asset
	meta      asset.Metadata
	reloading bool
}

// Registry caches loaded assets. It is safe for concurrent use.
type Registry struct {
	mu sync.Mutex

	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Collector

	entries   map[asset.ID]*entry
	pathToID  map[string]asset.ID
	watches   map[asset.ID]*WatchEntry
	factories map[asset.Type]build
	loading   map[string]struct{}
	listeners []ReloadFunc
	elapsed   time.Duration

	flights singleflight.Group
}

// New creates an empty registry.
func New(cfg Config, logger *zap.Logger, m *metrics.Collector) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Registry{
		interval:  interval,
		logger:    logger,
		metrics:   m,
		entries:   make(map[asset.ID]*entry),
		pathToID:  make(map[string]asset.ID),
		watches:   make(map[asset.ID]*WatchEntry),
		factories: make(map[asset.Type]build),
		loading:   make(map[string]struct{}),
	}
}

// CheckInterval returns the interval between file checks in Update.
func (r *Registry) CheckInterval() time.Duration {
	return r.interval
}

// HasFactory reports whether a factory is registered for t.
func (r *Registry) HasFactory(t asset.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.factories[t]
	return ok
}

// OnReload subscribes fn to reload notifications.
func (r *Registry) OnReload(fn ReloadFunc) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// notify delivers events. It must be called without holding r.mu.
func (r *Registry) notify(events []ReloadEvent) {
	if len(events) == 0 {
		return
	}
	r.mu.Lock()
	listeners := append([]ReloadFunc(nil), r.listeners...)
	r.mu.Unlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

// Unregister removes id from the cache, the path index, the metadata store
// and the watch set.
func (r *Registry) Unregister(id asset.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return false
	}
	r.unregisterLocked(e)
	return true
}

// UnregisterByPath removes the asset cached under path.
func (r *Registry) UnregisterByPath(path string) bool {
	key := asset.NormalizePath("", path)

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.pathToID[key]
	if !ok {
		return false
	}
	r.unregisterLocked(r.entries[id])
	return true
}

// ClearUnused removes entries whose asset has been collected and returns
// how many were removed.
func (r *Registry) ClearUnused() int {
	r.mu.Lock()
	n := 0
	for _, e := range r.entries {
		if e.value() == nil {
			r.unregisterLocked(e)
			n++
		}
	}
	r.mu.Unlock()

	r.metrics.Evicted(n)
	if n > 0 {
		r.logger.Debug("Cleared unused assets", zap.Int("count", n))
	}
	return n
}

// ClearAll drops every entry and returns how many were removed.
func (r *Registry) ClearAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.entries)
	r.entries = make(map[asset.ID]*entry)
	r.pathToID = make(map[string]asset.ID)
	r.watches = make(map[asset.ID]*WatchEntry)
	return n
}

// lookupLocked returns the live asset for id, sweeping the entry if its
// asset has been collected.
func (r *Registry) lookupLocked(id asset.ID) (asset.Asset, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	a := e.value()
	if a == nil {
		r.unregisterLocked(e)
		r.metrics.Evicted(1)
		return nil, false
	}
	return a, true
}

func (r *Registry) lookupID(id asset.ID) (asset.Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookupLocked(id)
}

func (r *Registry) lookupKey(key string) (asset.Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.pathToID[key]
	if !ok {
		return nil, false
	}
	return r.lookupLocked(id)
}

// insertLocked adds or replaces the entry for e.id. Any other entry indexed
// under the same path is dropped.
func (r *Registry) insertLocked(e *entry) {
	if prev, ok := r.entries[e.id]; ok {
		r.unregisterLocked(prev)
	}
	if e.key != "" {
		if other, ok := r.pathToID[e.key]; ok && other != e.id {
			r.unregisterLocked(r.entries[other])
		}
		r.pathToID[e.key] = e.id
	}
	r.entries[e.id] = e

	if e.file == "" {
		return
	}
	if info, err := os.Stat(e.file); err == nil {
		r.watches[e.id] = &WatchEntry{Path: e.file, ModTime: info.ModTime(), ID: e.id}
	}
}

func (r *Registry) unregisterLocked(e *entry) {
	if e == nil {
		return
	}
	if e.key != "" && r.pathToID[e.key] == e.id {
		delete(r.pathToID, e.key)
	}
	delete(r.entries, e.id)
	delete(r.watches, e.id)
}

// prepare assigns an ID when the asset has none and records its file path.
func prepare(a asset.Asset, file string, id asset.ID) error {
	if id.IsValid() && a.ID() != id {
		if s, ok := a.(interface{ SetID(asset.ID) }); ok {
			s.SetID(id)
		}
	}
	if !a.ID().IsValid() {
		s, ok := a.(interface{ SetID(asset.ID) })
		if !ok {
			return ErrNoID
		}
		s.SetID(asset.NewID())
	}
	if file != "" && a.Path() == "" {
		if s, ok := a.(interface{ SetPath(string) }); ok {
			s.SetPath(file)
		}
	}
	if file != "" {
		if s, ok := a.(interface{ SetFlag(asset.Flags, bool) }); ok {
			s.SetFlag(asset.FlagLoaded, true)
		}
	}
	return nil
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
