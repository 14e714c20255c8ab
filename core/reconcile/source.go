package reconcile

import (
	"context"

	"asset-core/core/catalog"
)

// CatalogSource reads the catalog's records.
func CatalogSource(cat *catalog.Catalog) Source {
	return func(context.Context) (map[string]Entry, error) {
		recs := cat.All()
		out := make(map[string]Entry, len(recs))
		for _, r := range recs {
			out[r.RelativePath] = Entry{ID: r.ID.String(), Type: r.Type.String(), Size: r.Size}
		}
		return out, nil
	}
}

func load(ctx context.Context, src Source) (map[string]Entry, error) {
	if src == nil {
		return map[string]Entry{}, nil
	}
	return src(ctx)
}
