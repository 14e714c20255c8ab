package index

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"asset-core/core/asset"
	"asset-core/core/catalog"
	"asset-core/core/database"
	"asset-core/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSchemaMismatch is returned by Check when a table lacks expected columns.
var ErrSchemaMismatch = errors.New("index schema mismatch")

const batchSize = 200

// SyncResult reports what Sync wrote.
type SyncResult struct {
	Records int
	Edges   int
}

// Service maintains the SQL index.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new index service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger}
}

// Migrate creates or updates the index tables.
func (s *Service) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&AssetRecord{}, &AssetDependency{}); err != nil {
		return fmt.Errorf("failed to migrate index: %w", err)
	}
	return nil
}

// Sync replaces the index with the catalog's current records and edges.
func (s *Service) Sync(ctx context.Context, cat *catalog.Catalog) (SyncResult, error) {
	recs := cat.All()
	now := time.Now().UTC()

	rows := make([]AssetRecord, 0, len(recs))
	var edges []AssetDependency
	for _, r := range recs {
		rows = append(rows, AssetRecord{
			ID:           toColumn(r.ID),
			Path:         r.RelativePath,
			Type:         r.Type.String(),
			Name:         r.Name,
			Size:         r.Size,
			ModTime:      r.ModTime,
			HasThumbnail: r.HasThumbnail,
			SyncedAt:     now,
		})
		seen := make(map[asset.ID]struct{}, len(r.Dependencies))
		for _, dep := range r.Dependencies {
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			edges = append(edges, AssetDependency{AssetID: toColumn(r.ID), DependsOn: toColumn(dep)})
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&AssetDependency{}).Error; err != nil {
			return fmt.Errorf("failed to clear dependencies: %w", err)
		}
		if err := all.Delete(&AssetRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear records: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert records: %w", err)
			}
		}
		if len(edges) > 0 {
			if err := tx.CreateInBatches(edges, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert dependencies: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return SyncResult{}, err
	}

	s.logger.Info("Index synchronized", zap.Int("records", len(rows)), zap.Int("edges", len(edges)))
	return SyncResult{Records: len(rows), Edges: len(edges)}, nil
}

// Dependents returns the IDs whose records reference id, ascending by column value.
func (s *Service) Dependents(ctx context.Context, id asset.ID) ([]asset.ID, error) {
	var vals []int64
	err := s.db.WithContext(ctx).Model(&AssetDependency{}).
		Where("depends_on = ?", toColumn(id)).
		Order("asset_id").
		Pluck("asset_id", &vals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query dependents of %s: %w", id, err)
	}
	return ids(vals), nil
}

// Dependencies returns the IDs id references, ascending by column value.
func (s *Service) Dependencies(ctx context.Context, id asset.ID) ([]asset.ID, error) {
	var vals []int64
	err := s.db.WithContext(ctx).Model(&AssetDependency{}).
		Where("asset_id = ?", toColumn(id)).
		Order("depends_on").
		Pluck("depends_on", &vals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies of %s: %w", id, err)
	}
	return ids(vals), nil
}

// Record returns the indexed record for id.
func (s *Service) Record(ctx context.Context, id asset.ID) (AssetRecord, error) {
	var rec AssetRecord
	err := s.db.WithContext(ctx).Where("id = ?", toColumn(id)).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, fmt.Errorf("asset %s: %w", id, asset.ErrNotFound)
	}
	if err != nil {
		return rec, fmt.Errorf("failed to query asset %s: %w", id, err)
	}
	return rec, nil
}

// Entries returns every indexed record keyed by its relative path, for
// reconciliation against the catalog.
func (s *Service) Entries(ctx context.Context) (map[string]reconcile.Entry, error) {
	var rows []AssetRecord
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list indexed records: %w", err)
	}
	out := make(map[string]reconcile.Entry, len(rows))
	for _, r := range rows {
		out[r.Path] = reconcile.Entry{ID: fromColumn(r.ID).String(), Type: r.Type, Size: r.Size}
	}
	return out, nil
}

// Check verifies that the index tables carry every column the models map.
func (s *Service) Check() error {
	var problems []string
	for _, model := range []any{&AssetRecord{}, &AssetDependency{}} {
		stmt := &gorm.Statement{DB: s.db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("failed to parse model: %w", err)
		}
		table := stmt.Schema.Table

		cols, err := database.GetTableColumns(s.db, table)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			problems = append(problems, table+": table missing")
			continue
		}
		have := make([]string, 0, len(cols))
		for _, c := range cols {
			have = append(have, c.Field)
		}
		for _, want := range stmt.Schema.DBNames {
			if !slices.Contains(have, want) {
				problems = append(problems, table+"."+want+": column missing")
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(problems, ", "))
	}
	return nil
}

func ids(vals []int64) []asset.ID {
	out := make([]asset.ID, 0, len(vals))
	for _, v := range vals {
		out = append(out, fromColumn(v))
	}
	return out
}
