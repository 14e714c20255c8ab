package reconcile

import (
	"context"
	"time"
)

// Entry is what a source knows about one asset file.
type Entry struct {
	// ID is the asset ID, or "" when the source does not carry one.
	ID string
	// Type is the asset type name, or "" when unknown.
	Type string
	// Size is the file size in bytes, or -1 when unknown.
	Size int64
}

// Source loads one index keyed by catalog relative path.
type Source func(ctx context.Context) (map[string]Entry, error)

// Result is the reconciliation output for one path.
type Result struct {
	// Path is the catalog relative path.
	Path string `json:"path"`

	// ID is the asset ID as known to the catalog, else as known to the index.
	ID string `json:"id,omitempty"`

	// CatalogPresent indicates whether the catalog has a record for the path.
	CatalogPresent bool `json:"catalog_present"`

	// IndexPresent indicates whether the SQL index has a row for the path.
	IndexPresent bool `json:"index_present"`

	// StoragePresent indicates whether the bucket has an object for the path.
	StoragePresent bool `json:"storage_present"`

	// Mismatch describes field differences against the catalog, e.g.
	// "index size: catalog=12 index=10".
	Mismatch []string `json:"mismatch"`
}

// InSync reports whether every source agrees with the catalog.
func (r Result) InSync() bool {
	return r.CatalogPresent && r.IndexPresent && r.StoragePresent && len(r.Mismatch) == 0
}

// Spec defines the sources of a reconciliation. A nil source is treated as
// empty.
type Spec struct {
	Catalog Source
	Index   Source
	Storage Source

	// CacheTTL is the time-to-live for the snapshot used by One.
	// If zero, every call rebuilds.
	CacheTTL time.Duration
}

// Summary provides aggregate counts over results.
type Summary struct {
	// Total is the number of unique paths across all sources.
	Total int `json:"total"`
	// InSync counts paths present everywhere with no mismatch.
	InSync int `json:"in_sync"`
	// MissingIndex counts catalog paths without an index row.
	MissingIndex int `json:"missing_index"`
	// MissingStorage counts catalog paths without a storage object.
	MissingStorage int `json:"missing_storage"`
	// Orphaned counts paths the catalog no longer has.
	Orphaned int `json:"orphaned"`
	// Mismatches counts paths with field differences.
	Mismatches int `json:"mismatches"`
}
