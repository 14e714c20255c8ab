package registry

import (
	"sort"

	"asset-core/core/asset"
)

// State is the lifecycle state of a cached path.
type State int

// Lifecycle states reported by State.
const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateDirty
	StatePendingReload
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateDirty:
		return "dirty"
	case StatePendingReload:
		return "pending_reload"
	default:
		return "unloaded"
	}
}

// State returns the lifecycle state of the asset at path.
func (r *Registry) State(path string) State {
	key := asset.NormalizePath("", path)

	r.mu.Lock()
	if _, ok := r.loading[key]; ok {
		r.mu.Unlock()
		return StateLoading
	}
	id, ok := r.pathToID[key]
	if !ok {
		r.mu.Unlock()
		return StateUnloaded
	}
	e := r.entries[id]
	if e.reloading {
		r.mu.Unlock()
		return StatePendingReload
	}
	a := e.value()
	r.mu.Unlock()

	switch {
	case a == nil:
		return StateUnloaded
	case a.Flags().Has(asset.FlagDirty):
		return StateDirty
	default:
		return StateLoaded
	}
}

// IsLoaded reports whether id is cached and alive.
func (r *Registry) IsLoaded(id asset.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	return ok && e.value() != nil
}

// IsLoadedByPath reports whether path is cached and alive.
func (r *Registry) IsLoadedByPath(path string) bool {
	key := asset.NormalizePath("", path)

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.pathToID[key]
	if !ok {
		return false
	}
	return r.entries[id].value() != nil
}

// AllMetadata returns the metadata snapshot of every entry ordered by ID.
// Loaded reflects whether the asset is still alive.
func (r *Registry) AllMetadata() []asset.Metadata {
	return r.metadata(func(*entry) bool { return true })
}

// MetadataByType returns the metadata snapshots of one content type.
func (r *Registry) MetadataByType(t asset.Type) []asset.Metadata {
	return r.metadata(func(e *entry) bool { return e.typ == t })
}

func (r *Registry) metadata(keep func(*entry) bool) []asset.Metadata {
	r.mu.Lock()
	out := make([]asset.Metadata, 0, len(r.entries))
	for _, e := range r.entries {
		if !keep(e) {
			continue
		}
		md := e.meta
		md.ID = e.id
		md.Loaded = e.value() != nil
		out = append(out, md)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of live cached assets.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.entries {
		if e.value() != nil {
			n++
		}
	}
	return n
}

// CountByType returns the number of live cached assets of one type.
func (r *Registry) CountByType(t asset.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.entries {
		if e.typ == t && e.value() != nil {
			n++
		}
	}
	return n
}
