package catalog

import (
	"slices"
	"time"

	"asset-core/core/asset"
)

// Record describes one discoverable content file.
type Record struct {
	ID            asset.ID   `json:"id,string"`
	RelativePath  string     `json:"path"`
	Type          asset.Type `json:"type"`
	Name          string     `json:"name"`
	Size          int64      `json:"size"`
	ModTime       time.Time  `json:"mod_time"`
	Dependencies  []asset.ID `json:"dependencies,omitempty"`
	HasThumbnail  bool       `json:"has_thumbnail"`
	ThumbnailPath string     `json:"thumbnail_path,omitempty"`
}

// clone returns a copy that shares no slices with r.
func (r Record) clone() Record {
	r.Dependencies = slices.Clone(r.Dependencies)
	return r
}

// DependsOn reports whether r lists id as a dependency.
func (r Record) DependsOn(id asset.ID) bool {
	return slices.Contains(r.Dependencies, id)
}
