// Package index mirrors the catalog into a SQL database.
//
// Records land in asset_records and dependency edges in asset_dependencies,
// so other tools can answer reverse dependency lookups with plain SQL. Sync
// replaces both tables inside one transaction; the catalog stays the source
// of truth.
//
// IDs are stored as the two's complement int64 of the asset ID. SQLite
// rejects uint64 values with the high bit set and minted IDs use all 64
// bits.
package index
