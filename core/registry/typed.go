package registry

import (
	"fmt"
	"sort"
	"strings"
	"weak"

	"asset-core/core/asset"

	"go.uber.org/zap"
)

// Pointer constrains type parameters to pointers to content structs that
// implement asset.Asset.
type Pointer[E any] interface {
	*E
	asset.Asset
}

// typeOf returns the content type declared by PT's zero value.
func typeOf[E any, PT Pointer[E]]() asset.Type {
	return PT(new(E)).Type()
}

// weakRef returns an accessor that yields p while it is alive. The closure
// holds only a weak pointer.
func weakRef[E any, PT Pointer[E]](p PT) func() asset.Asset {
	w := weak.Make((*E)(p))
	return func() asset.Asset {
		if v := w.Value(); v != nil {
			return PT(v)
		}
		return nil
	}
}

func project[E any, PT Pointer[E]](a asset.Asset) (PT, error) {
	p, ok := a.(PT)
	if !ok {
		return nil, fmt.Errorf("asset %s is %s, want %s: %w", a.ID(), a.Type(), typeOf[E, PT](), asset.ErrTypeMismatch)
	}
	return p, nil
}

// RegisterFactory installs the constructor used by Load and Reload for PT's
// content type, replacing any previous one.
func RegisterFactory[E any, PT Pointer[E]](r *Registry, load func(path string) (PT, error)) {
	t := typeOf[E, PT]()
	b := func(path string) (asset.Asset, func() asset.Asset, error) {
		p, err := load(path)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			return nil, nil, fmt.Errorf("%s: %w", path, asset.ErrNotFound)
		}
		return p, weakRef[E, PT](p), nil
	}

	r.mu.Lock()
	r.factories[t] = b
	r.mu.Unlock()
}

// Load returns the asset cached for path, constructing it with the factory
// registered for PT's type on a miss. Concurrent loads of the same path
// share one construction. A failed construction leaves the registry
// unchanged.
func Load[E any, PT Pointer[E]](r *Registry, path string) (PT, error) {
	if path == "" {
		return nil, fmt.Errorf("load: %w", asset.ErrNoPathSet)
	}
	key := asset.NormalizePath("", path)

	if a, ok := r.lookupKey(key); ok {
		r.metrics.CacheHit()
		return project[E, PT](a)
	}
	r.metrics.CacheMiss()

	t := typeOf[E, PT]()
	v, err, _ := r.flights.Do(key, func() (any, error) {
		if a, ok := r.lookupKey(key); ok {
			return a, nil
		}
		return r.construct(t, key, absPath(path))
	})
	if err != nil {
		return nil, err
	}
	return project[E, PT](v.(asset.Asset))
}

func (r *Registry) construct(t asset.Type, key, file string) (asset.Asset, error) {
	r.mu.Lock()
	b, ok := r.factories[t]
	r.loading[key] = struct{}{}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.loading, key)
		r.mu.Unlock()
	}()

	if !ok {
		return nil, fmt.Errorf("load %s: %s: %w", file, t, ErrNoFactory)
	}

	a, ref, err := b(file)
	r.metrics.Load(t.String(), err == nil)
	if err != nil {
		r.logger.Warn("Failed to load asset", zap.String("path", file), zap.Stringer("type", t), zap.Error(err))
		return nil, fmt.Errorf("load %s: %w", file, err)
	}
	if err := prepare(a, file, asset.NoID); err != nil {
		return nil, fmt.Errorf("load %s: %w", file, err)
	}

	e := &entry{
		id:    a.ID(),
		typ:   a.Type(),
		key:   key,
		file:  file,
		value: ref,
		meta:  a.Metadata(),
	}

	r.mu.Lock()
	r.insertLocked(e)
	r.mu.Unlock()

	r.logger.Debug("Asset loaded", zap.Stringer("id", e.id), zap.String("path", file), zap.Stringer("type", e.typ))
	return a, nil
}

// Register inserts an already constructed asset. Assets with a path are
// indexed by it and watched; assets without one are reachable by ID only.
func Register[E any, PT Pointer[E]](r *Registry, p PT) error {
	if p == nil {
		return fmt.Errorf("register: %w", asset.ErrNotFound)
	}
	file := absPath(p.Path())
	if err := prepare(p, "", asset.NoID); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	e := &entry{
		id:    p.ID(),
		typ:   p.Type(),
		key:   asset.NormalizePath("", file),
		file:  file,
		value: weakRef[E, PT](p),
		meta:  p.Metadata(),
	}

	r.mu.Lock()
	r.insertLocked(e)
	r.mu.Unlock()
	return nil
}

// Create constructs a new asset of type PT with a fresh ID. The asset is
// not registered; call Register once it has a path.
func Create[E any, PT Pointer[E]](r *Registry, name string) PT {
	p := PT(new(E))
	if name == "" {
		name = asset.DefaultName
	}
	if s, ok := any(p).(interface{ SetName(string) }); ok {
		s.SetName(name)
	}
	if s, ok := any(p).(interface{ SetID(asset.ID) }); ok {
		s.SetID(r.mint())
	}
	if s, ok := any(p).(interface{ SetFlag(asset.Flags, bool) }); ok {
		s.SetFlag(asset.FlagDirty, true)
	}
	return p
}

func (r *Registry) mint() asset.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		id := asset.NewID()
		if _, taken := r.entries[id]; !taken {
			return id
		}
	}
}

// Get returns the asset cached under id as PT.
func Get[E any, PT Pointer[E]](r *Registry, id asset.ID) (PT, error) {
	a, ok := r.lookupID(id)
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, asset.ErrNotFound)
	}
	return project[E, PT](a)
}

// GetByPath returns the asset cached under path as PT.
func GetByPath[E any, PT Pointer[E]](r *Registry, path string) (PT, error) {
	a, ok := r.lookupKey(asset.NormalizePath("", path))
	if !ok {
		return nil, fmt.Errorf("get %s: %w", path, asset.ErrNotFound)
	}
	return project[E, PT](a)
}

// AllOfType returns every live cached asset of type PT ordered by ID.
func AllOfType[E any, PT Pointer[E]](r *Registry) []PT {
	return filter[E, PT](r, func(PT) bool { return true })
}

// SearchByName returns live cached assets of type PT whose name contains
// query, ignoring case.
func SearchByName[E any, PT Pointer[E]](r *Registry, query string) []PT {
	q := strings.ToLower(query)
	return filter[E, PT](r, func(p PT) bool {
		return strings.Contains(strings.ToLower(p.Name()), q)
	})
}

func filter[E any, PT Pointer[E]](r *Registry, keep func(PT) bool) []PT {
	t := typeOf[E, PT]()

	r.mu.Lock()
	var live []PT
	for _, e := range r.entries {
		if e.typ != t {
			continue
		}
		if p, ok := e.value().(PT); ok {
			live = append(live, p)
		}
	}
	r.mu.Unlock()

	out := live[:0]
	for _, p := range live {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
