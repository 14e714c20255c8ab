// Package browser exposes a read-mostly HTTP API over an open session.
//
// # Routes
//
//	GET  /catalog                    all records, ?type=mesh filters by type
//	GET  /catalog/:id                one record
//	GET  /catalog/:id/dependencies   IDs the asset references
//	GET  /catalog/:id/dependents     IDs referencing the asset
//	POST /catalog/scan               rescan the assets folder and persist
//	GET  /registry                   metadata of cached assets, ?type= filters
//	GET  /loader/progress            async loader counters
//	GET  /metrics                    Prometheus metrics, when a collector is set
//
// IDs are rendered as decimal strings since they exceed the JSON safe
// integer range.
package browser
