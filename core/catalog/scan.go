package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"asset-core/core/asset"

	"go.uber.org/zap"
)

// ScanAssets clears the catalog and rebuilds it from the assets folder.
func (c *Catalog) ScanAssets() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// IDs assigned by the catalog survive a rescan of the same path.
	prior := make(map[string]asset.ID, len(c.pathToID))
	for k, id := range c.pathToID {
		prior[k] = id
	}

	c.records = make(map[asset.ID]Record)
	c.pathToID = make(map[string]asset.ID)

	info, err := os.Stat(c.assetsFolder)
	if err != nil || !info.IsDir() {
		c.logger.Error("Assets folder not found", zap.String("folder", c.assetsFolder), zap.Error(err))
		c.metrics.CatalogScanned(0)
		return
	}

	walkErr := filepath.WalkDir(c.assetsFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			c.logger.Warn("Skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && path != c.assetsFolder {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if asset.TypeFromPath(path) == asset.TypeNone {
			return nil
		}

		rec, ok := c.extractLocked(path, prior)
		if ok {
			c.registerLocked(rec)
		}
		return nil
	})
	if walkErr != nil {
		c.logger.Error("Error scanning assets folder", zap.String("folder", c.assetsFolder), zap.Error(walkErr))
	}

	c.metrics.CatalogScanned(len(c.records))
	c.logger.Info("Catalog scan complete", zap.Int("assets", len(c.records)))
}

// extractLocked builds the record for one file. Inspection errors degrade to
// a record without dependencies.
func (c *Catalog) extractLocked(path string, prior map[string]asset.ID) (Record, bool) {
	info, err := os.Stat(path)
	if err != nil {
		c.logger.Warn("Failed to stat asset", zap.String("path", path), zap.Error(err))
		return Record{}, false
	}

	rel := filepath.ToSlash(c.relativeLocked(path))
	base := filepath.Base(path)
	rec := Record{
		RelativePath: rel,
		Type:         asset.TypeFromPath(path),
		Name:         strings.TrimSuffix(base, filepath.Ext(base)),
		Size:         info.Size(),
		ModTime:      info.ModTime(),
	}

	var header asset.Header
	if in := c.inspectors.For(rec.Type); in != nil {
		h, err := in.Inspect(path)
		if err != nil {
			c.logger.Warn("Failed to extract dependencies",
				zap.String("path", rel),
				zap.Stringer("embedded_id", h.ID),
				zap.Error(err),
			)
			h.Dependencies = nil
		}
		header = h
	}

	rec.Dependencies = header.Dependencies
	switch {
	case header.ID.IsValid() && !c.claimedLocked(header.ID):
		rec.ID = header.ID
	case header.ID.IsValid():
		rec.ID = c.priorOrMintLocked(rel, prior)
		c.logger.Warn("Duplicate embedded asset ID, assigned another",
			zap.String("path", rel),
			zap.Stringer("embedded_id", header.ID),
			zap.Stringer("id", rec.ID),
		)
	default:
		rec.ID = c.priorOrMintLocked(rel, prior)
	}
	return rec, true
}

// priorOrMintLocked reuses the ID the path had before the rescan when no
// other record has claimed it since.
func (c *Catalog) priorOrMintLocked(rel string, prior map[string]asset.ID) asset.ID {
	if id, ok := prior[asset.NormalizeKey(rel)]; ok && !c.claimedLocked(id) {
		return id
	}
	return c.mintLocked()
}

func (c *Catalog) claimedLocked(id asset.ID) bool {
	_, ok := c.records[id]
	return ok
}
