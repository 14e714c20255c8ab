package loader

import (
	"sync/atomic"

	"asset-core/core/asset"
	"asset-core/core/registry"
)

// LoadAsync loads path as PT through the registry in the background. cb
// runs from Update with the asset, or with a nil asset and the error. The
// returned ID identifies the job for CancelLoad.
func LoadAsync[E any, PT registry.Pointer[E]](l *Loader, path string, cb func(PT, error)) (asset.ID, error) {
	job := &Job{
		ID:   asset.NewID(),
		Path: path,
		Type: PT(new(E)).Type(),
		load: func() (asset.Asset, error) {
			p, err := registry.Load[E, PT](l.reg, path)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		deliver: func(a asset.Asset, err error) {
			if cb == nil {
				return
			}
			var p PT
			if a != nil {
				p, _ = a.(PT)
			}
			cb(p, err)
		},
	}
	return l.submit(job)
}

// LoadBatchAsync starts one LoadAsync per path and calls cb exactly once,
// after every item has been delivered, with results in input order. Failed
// items are nil. An empty batch calls cb immediately. Canceling one of the
// returned jobs suppresses cb.
func LoadBatchAsync[E any, PT registry.Pointer[E]](l *Loader, paths []string, cb func([]PT)) []asset.ID {
	results := make([]PT, len(paths))
	if len(paths) == 0 {
		if cb != nil {
			cb(results)
		}
		return nil
	}

	var remaining atomic.Int64
	remaining.Store(int64(len(paths)))

	ids := make([]asset.ID, 0, len(paths))
	for i, path := range paths {
		id, _ := LoadAsync[E, PT](l, path, func(p PT, _ error) {
			results[i] = p
			if remaining.Add(-1) == 0 && cb != nil {
				cb(results)
			}
		})
		ids = append(ids, id)
	}
	return ids
}
