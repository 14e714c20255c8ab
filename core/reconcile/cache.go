package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Snapshot holds the three indices built at one point in time.
type Snapshot struct {
	Catalog map[string]Entry
	Index   map[string]Entry
	Storage map[string]Entry

	// Built is the timestamp when this snapshot was built.
	Built time.Time
}

func (s *Snapshot) expired(ttl time.Duration) bool {
	if ttl == 0 {
		return true // No caching
	}
	return time.Since(s.Built) > ttl
}

// BuildSnapshot loads all sources concurrently.
func BuildSnapshot(ctx context.Context, spec Spec) (*Snapshot, error) {
	var (
		snap                      = &Snapshot{}
		catErr, indexErr, storErr error
		wg                        sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		snap.Catalog, catErr = load(ctx, spec.Catalog)
	}()
	go func() {
		defer wg.Done()
		snap.Index, indexErr = load(ctx, spec.Index)
	}()
	go func() {
		defer wg.Done()
		snap.Storage, storErr = load(ctx, spec.Storage)
	}()
	wg.Wait()

	if catErr != nil {
		return nil, fmt.Errorf("catalog source: %w", catErr)
	}
	if indexErr != nil {
		return nil, fmt.Errorf("index source: %w", indexErr)
	}
	if storErr != nil {
		return nil, fmt.Errorf("storage source: %w", storErr)
	}

	snap.Built = time.Now()
	return snap, nil
}

// Reconciler reconciles one Spec and caches its snapshot.
type Reconciler struct {
	spec Spec

	mu   sync.RWMutex
	snap *Snapshot
	sf   singleflight.Group
}

// New creates a reconciler.
func New(spec Spec) *Reconciler {
	return &Reconciler{spec: spec}
}

// snapshot returns the cached snapshot, or builds a new one if it doesn't
// exist or has expired. Concurrent callers share one build.
func (r *Reconciler) snapshot(ctx context.Context) (*Snapshot, error) {
	r.mu.RLock()
	snap := r.snap
	r.mu.RUnlock()
	if snap != nil && !snap.expired(r.spec.CacheTTL) {
		return snap, nil
	}

	v, err, _ := r.sf.Do("snapshot", func() (any, error) {
		r.mu.RLock()
		snap := r.snap
		r.mu.RUnlock()
		if snap != nil && !snap.expired(r.spec.CacheTTL) {
			return snap, nil
		}

		fresh, err := BuildSnapshot(ctx, r.spec)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.snap = fresh
		r.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the cached snapshot, forcing the next call to rebuild.
func (r *Reconciler) Invalidate() {
	r.mu.Lock()
	r.snap = nil
	r.mu.Unlock()
}
