// Package database handles database connections and schema inspection.
//
// It wraps GORM and opens either MySQL or SQLite depending on the configured
// driver. The SQL index mirrors the catalog into these databases.
//
// # Schema Inspection
//
// GetTableColumns returns a table's column definitions in a dialect
// independent shape, so feature packages can verify their tables match the
// models they expect.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Index database unavailable", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "asset_records")
package database
