package reconcile

import (
	"context"
	"fmt"
	"sort"
)

// All performs a full reconciliation. It always rebuilds the snapshot and
// returns one result per path, sorted by path.
func (r *Reconciler) All(ctx context.Context) ([]Result, error) {
	r.Invalidate()
	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	union := make(map[string]struct{}, len(snap.Catalog))
	for _, idx := range []map[string]Entry{snap.Catalog, snap.Index, snap.Storage} {
		for path := range idx {
			union[path] = struct{}{}
		}
	}

	results := make([]Result, 0, len(union))
	for path := range union {
		results = append(results, buildResult(path, snap))
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// One reconciles a single path using the cached snapshot when it is fresh.
func (r *Reconciler) One(ctx context.Context, path string) (Result, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	return buildResult(path, snap), nil
}

func buildResult(path string, snap *Snapshot) Result {
	cat, catOK := snap.Catalog[path]
	idx, idxOK := snap.Index[path]
	stor, storOK := snap.Storage[path]

	res := Result{
		Path:           path,
		CatalogPresent: catOK,
		IndexPresent:   idxOK,
		StoragePresent: storOK,
		Mismatch:       []string{},
	}
	switch {
	case catOK:
		res.ID = cat.ID
	case idxOK:
		res.ID = idx.ID
	}

	if !catOK {
		return res
	}
	if idxOK {
		res.Mismatch = append(res.Mismatch, compare("index", cat, idx)...)
	}
	if storOK {
		res.Mismatch = append(res.Mismatch, compare("storage", cat, stor)...)
	}
	return res
}

// compare lists fields where other disagrees with the catalog. Fields the
// other source does not carry are skipped.
func compare(source string, cat, other Entry) []string {
	var out []string
	if other.ID != "" && other.ID != cat.ID {
		out = append(out, fmt.Sprintf("%s id: catalog=%s %s=%s", source, cat.ID, source, other.ID))
	}
	if other.Type != "" && other.Type != cat.Type {
		out = append(out, fmt.Sprintf("%s type: catalog=%s %s=%s", source, cat.Type, source, other.Type))
	}
	if other.Size >= 0 && other.Size != cat.Size {
		out = append(out, fmt.Sprintf("%s size: catalog=%d %s=%d", source, cat.Size, source, other.Size))
	}
	return out
}

// Summarize computes aggregate counts.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.InSync() {
			s.InSync++
		}
		if !r.CatalogPresent {
			s.Orphaned++
			continue
		}
		if !r.IndexPresent {
			s.MissingIndex++
		}
		if !r.StoragePresent {
			s.MissingStorage++
		}
		if len(r.Mismatch) > 0 {
			s.Mismatches++
		}
	}
	return s
}
