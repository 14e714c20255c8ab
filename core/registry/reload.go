package registry

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"asset-core/core/asset"

	"go.uber.org/zap"
)

// Reload rebuilds the asset cached under id from its file using the factory
// registered for its type, keeping the same ID. Without a factory, or for
// assets that have no file, the entry is evicted instead. Subscribers are
// notified in both cases. A failed rebuild evicts the entry and is reported
// through the event and the returned error.
func (r *Registry) Reload(id asset.ID) error {
	events, err := r.reload(id)
	r.notify(events)
	return err
}

// ReloadByPath reloads the asset cached under path.
func (r *Registry) ReloadByPath(path string) error {
	key := asset.NormalizePath("", path)

	r.mu.Lock()
	id, ok := r.pathToID[key]
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("reload %s: %w", path, asset.ErrNotFound)
	}
	return r.Reload(id)
}

func (r *Registry) reload(id asset.ID) ([]ReloadEvent, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("reload %s: %w", id, asset.ErrNotFound)
	}
	b, hasFactory := r.factories[e.typ]
	if !hasFactory || e.file == "" {
		r.unregisterLocked(e)
		r.mu.Unlock()

		r.metrics.Reload()
		r.logger.Info("Asset evicted for reload", zap.Stringer("id", id), zap.String("path", e.file))
		return []ReloadEvent{{ID: id, Path: e.file}}, nil
	}
	e.reloading = true
	r.mu.Unlock()

	a, ref, err := b(e.file)
	if err == nil {
		err = prepare(a, e.file, id)
	}
	r.metrics.Load(e.typ.String(), err == nil)

	if err != nil {
		r.mu.Lock()
		if r.entries[id] == e {
			r.unregisterLocked(e)
		}
		r.mu.Unlock()

		r.logger.Warn("Failed to reload asset", zap.Stringer("id", id), zap.String("path", e.file), zap.Error(err))
		err = fmt.Errorf("reload %s: %w", id, err)
		return []ReloadEvent{{ID: id, Path: e.file, Err: err}}, err
	}

	meta := a.Metadata()

	r.mu.Lock()
	current := r.entries[id] == e
	if current {
		e.value = ref
		e.meta = meta
		e.reloading = false
		if info, statErr := os.Stat(e.file); statErr == nil {
			if w, ok := r.watches[id]; ok {
				w.ModTime = info.ModTime()
			}
		}
	}
	r.mu.Unlock()

	if !current {
		// Unregistered while the factory ran.
		return nil, fmt.Errorf("reload %s: %w", id, asset.ErrNotFound)
	}

	r.metrics.Reload()
	r.logger.Info("Asset reloaded", zap.Stringer("id", id), zap.String("path", e.file))
	return []ReloadEvent{{ID: id, Path: e.file, Asset: a}}, nil
}

// ReloadModified compares every watch entry with the file on disk, stores
// the new modification time and reloads each changed asset once. It returns
// the changed IDs in ascending order.
func (r *Registry) ReloadModified() []asset.ID {
	r.mu.Lock()
	watches := make([]WatchEntry, 0, len(r.watches))
	for _, w := range r.watches {
		watches = append(watches, *w)
	}
	r.mu.Unlock()

	var changed []asset.ID
	stamps := make(map[asset.ID]time.Time)
	for _, w := range watches {
		info, err := os.Stat(w.Path)
		if err != nil {
			continue
		}
		if info.ModTime().Equal(w.ModTime) {
			continue
		}
		changed = append(changed, w.ID)
		stamps[w.ID] = info.ModTime()
	}
	if len(changed) == 0 {
		return nil
	}

	r.mu.Lock()
	for id, t := range stamps {
		if w, ok := r.watches[id]; ok {
			w.ModTime = t
		}
	}
	r.mu.Unlock()

	slices.Sort(changed)
	var events []ReloadEvent
	for _, id := range changed {
		evs, err := r.reload(id)
		if err != nil {
			r.logger.Debug("Reload of modified asset failed", zap.Stringer("id", id), zap.Error(err))
		}
		events = append(events, evs...)
	}
	r.notify(events)
	return changed
}

// Update advances the check timer by dt and runs ReloadModified once
// CheckInterval has elapsed. It returns the IDs that were reloaded.
func (r *Registry) Update(dt time.Duration) []asset.ID {
	r.mu.Lock()
	r.elapsed += dt
	if r.elapsed < r.interval {
		r.mu.Unlock()
		return nil
	}
	r.elapsed = 0
	r.mu.Unlock()

	return r.ReloadModified()
}

// Watches returns a snapshot of the watch set ordered by path.
func (r *Registry) Watches() []WatchEntry {
	r.mu.Lock()
	out := make([]WatchEntry, 0, len(r.watches))
	for _, w := range r.watches {
		out = append(out, *w)
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b WatchEntry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}
