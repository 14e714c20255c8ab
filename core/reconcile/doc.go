// Package reconcile compares the three places a project's assets live: the
// catalog, the SQL index and the object storage bucket.
//
// # Architecture
//
// 1. Sources: each place is read into an index of Entry values keyed by the
//    catalog relative path. The catalog source is built in; the index and
//    storage sources are provided by feature/index and feature/publish.
//
// 2. Engine: builds the union of keys from all sources, records presence per
//    source and lists field mismatches against the catalog, which is the
//    source of truth.
//
// 3. Cache: a TTL snapshot of the three indices, rebuilt with stampede
//    protection, so repeated targeted lookups do not re-list the bucket.
//
// Indices are built concurrently, one goroutine per source.
//
// # Usage Example
//
//	r := reconcile.New(reconcile.Spec{
//	    Catalog:  reconcile.CatalogSource(cat),
//	    Index:    indexSvc.Entries,
//	    Storage:  publishSvc.Entries,
//	    CacheTTL: time.Minute,
//	})
//	results, err := r.All(ctx)
//	summary := reconcile.Summarize(results)
package reconcile
