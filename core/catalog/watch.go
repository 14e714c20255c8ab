package catalog

import (
	"os"

	"asset-core/core/asset"

	"go.uber.org/zap"
)

type change struct {
	id   asset.ID
	typ  asset.Type
	path string
}

// UpdateFileWatchers compares every record's stored modification time with
// the file on disk, stores the new time and returns the IDs that changed.
// Changed files are inspected again so their dependency lists stay current.
// The modified callback runs once per changed ID after the lock is released.
func (c *Catalog) UpdateFileWatchers() []asset.ID {
	var changed []change

	c.mu.Lock()
	for id, rec := range c.records {
		abs := c.absoluteLocked(rec.RelativePath)
		info, err := os.Stat(abs)
		if err != nil {
			if !isNotExist(err) {
				c.logger.Debug("Failed to stat asset", zap.String("path", abs), zap.Error(err))
			}
			continue
		}
		if info.ModTime().Equal(rec.ModTime) {
			continue
		}
		rec.ModTime = info.ModTime()
		rec.Size = info.Size()
		c.records[id] = rec
		changed = append(changed, change{id: id, typ: rec.Type, path: abs})
	}
	inspectors := c.inspectors
	cb := c.onModified
	c.mu.Unlock()

	for _, ch := range changed {
		in := inspectors.For(ch.typ)
		if in == nil {
			continue
		}
		h, err := in.Inspect(ch.path)
		if err != nil {
			c.logger.Warn("Failed to extract dependencies", zap.String("path", ch.path), zap.Error(err))
			continue
		}
		c.mu.Lock()
		if rec, ok := c.records[ch.id]; ok {
			rec.Dependencies = h.Dependencies
			c.records[ch.id] = rec
		}
		c.mu.Unlock()
	}

	ids := make([]asset.ID, 0, len(changed))
	for _, ch := range changed {
		ids = append(ids, ch.id)
		if cb != nil {
			cb(ch.id, ch.path)
		}
	}
	return ids
}
