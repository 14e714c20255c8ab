package publish

import (
	"context"
	"path"
	"sort"

	"asset-core/core/asset"
	"asset-core/core/catalog"
	"asset-core/core/reconcile"
	"asset-core/core/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrBucketMissing is returned when the target bucket does not exist.
var ErrBucketMissing = storage.ErrBucketMissing

// Reason explains why a file is part of a plan.
type Reason string

const (
	ReasonMissing Reason = "missing"
	ReasonChanged Reason = "changed"
)

// Upload is one asset file to upload.
type Upload struct {
	ID     asset.ID
	Path   string
	Key    string
	Size   int64
	Reason Reason
}

// Plan is the difference between the catalog and the bucket.
type Plan struct {
	CatalogKey string
	Uploads    []Upload
	Orphans    []string
	UpToDate   int
}

// Result reports what Push did.
type Result struct {
	Uploaded int
	Removed  int
}

const assetsDir = "assets"

// Service publishes one catalog to one bucket.
type Service struct {
	project     *storage.Project
	catalog     *catalog.Catalog
	logger      *zap.Logger
	concurrency int
}

// NewService creates a new publish service.
func NewService(client storage.Client, bucket, prefix string, cat *catalog.Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		project:     storage.NewProject(client, bucket, prefix),
		catalog:     cat,
		logger:      logger,
		concurrency: 4,
	}
}

// AssetKey returns the object key for a catalog relative path.
func (s *Service) AssetKey(rel string) string {
	return s.project.Key(assetsDir, rel)
}

// Plan lists the bucket and compares it with the catalog.
func (s *Service) Plan(ctx context.Context) (*Plan, error) {
	if err := s.project.Check(ctx); err != nil {
		return nil, err
	}
	remote, err := s.project.List(ctx, assetsDir)
	if err != nil {
		return nil, err
	}

	plan := &Plan{CatalogKey: s.project.Key(path.Base(s.catalog.FilePath()))}
	recs := s.catalog.All()
	sort.Slice(recs, func(i, j int) bool { return recs[i].RelativePath < recs[j].RelativePath })

	for _, rec := range recs {
		size, ok := remote[rec.RelativePath]
		delete(remote, rec.RelativePath)

		up := Upload{ID: rec.ID, Path: s.catalog.AbsolutePath(rec.RelativePath), Key: s.AssetKey(rec.RelativePath), Size: rec.Size}
		switch {
		case !ok:
			up.Reason = ReasonMissing
		case size != rec.Size:
			up.Reason = ReasonChanged
		default:
			plan.UpToDate++
			continue
		}
		plan.Uploads = append(plan.Uploads, up)
	}

	for rel := range remote {
		plan.Orphans = append(plan.Orphans, s.AssetKey(rel))
	}
	sort.Strings(plan.Orphans)

	s.logger.Info("Publish plan ready",
		zap.Int("uploads", len(plan.Uploads)),
		zap.Int("orphans", len(plan.Orphans)),
		zap.Int("up_to_date", plan.UpToDate),
	)
	return plan, nil
}

// Remote returns the size of every published asset keyed by its catalog
// relative path.
func (s *Service) Remote(ctx context.Context) (map[string]int64, error) {
	return s.project.List(ctx, assetsDir)
}

// Entries adapts Remote for reconciliation against the catalog. Objects carry
// no asset ID or type.
func (s *Service) Entries(ctx context.Context) (map[string]reconcile.Entry, error) {
	remote, err := s.Remote(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]reconcile.Entry, len(remote))
	for rel, size := range remote {
		out[rel] = reconcile.Entry{Size: size}
	}
	return out, nil
}

// Push executes a plan. Uploads run concurrently; the catalog file is written
// last so readers never see it reference an object that is not there yet.
func (s *Service) Push(ctx context.Context, plan *Plan, prune bool) (Result, error) {
	var res Result

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, up := range plan.Uploads {
		g.Go(func() error {
			return s.put(gctx, up.Path, up.Key, "application/octet-stream")
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	res.Uploaded = len(plan.Uploads)

	if err := s.put(ctx, s.catalog.FilePath(), plan.CatalogKey, "application/yaml"); err != nil {
		return res, err
	}
	res.Uploaded++

	if prune && len(plan.Orphans) > 0 {
		removed, err := s.project.Remove(ctx, plan.Orphans)
		res.Removed = removed
		if err != nil {
			return res, err
		}
	}

	s.logger.Info("Publish complete", zap.Int("uploaded", res.Uploaded), zap.Int("removed", res.Removed))
	return res, nil
}

func (s *Service) put(ctx context.Context, file, key, contentType string) error {
	size, err := s.project.PutFile(ctx, file, key, contentType)
	if err != nil {
		return err
	}
	s.logger.Debug("Uploaded object", zap.String("key", key), zap.Int64("size", size))
	return nil
}
