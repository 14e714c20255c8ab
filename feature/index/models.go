package index

import (
	"time"

	"asset-core/core/asset"
)

// AssetRecord is one catalog record.
type AssetRecord struct {
	ID           int64  `gorm:"primaryKey;autoIncrement:false"`
	Path         string `gorm:"size:512;uniqueIndex"`
	Type         string `gorm:"size:32;index"`
	Name         string `gorm:"size:255"`
	Size         int64
	ModTime      time.Time
	HasThumbnail bool
	SyncedAt     time.Time
}

// TableName overrides the table name used by AssetRecord.
func (AssetRecord) TableName() string {
	return "asset_records"
}

// AssetDependency is one edge: AssetID references DependsOn.
type AssetDependency struct {
	AssetID   int64 `gorm:"primaryKey;autoIncrement:false"`
	DependsOn int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName overrides the table name used by AssetDependency.
func (AssetDependency) TableName() string {
	return "asset_dependencies"
}

func toColumn(id asset.ID) int64 {
	return int64(id)
}

func fromColumn(v int64) asset.ID {
	return asset.ID(uint64(v))
}
