package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"asset-core/core/asset"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the catalog file format written by Save.
const FormatVersion = "1.0"

type document struct {
	Header *header `yaml:"AssetDatabase"`
	Assets []entry `yaml:"Assets"`
}

type header struct {
	Version      string `yaml:"Version"`
	ProjectRoot  string `yaml:"ProjectRoot"`
	AssetsFolder string `yaml:"AssetsFolder"`
}

type entry struct {
	UUID          uint64   `yaml:"UUID"`
	Path          string   `yaml:"Path"`
	Type          int      `yaml:"Type"`
	Name          string   `yaml:"Name"`
	FileSize      int64    `yaml:"FileSize"`
	Dependencies  []uint64 `yaml:"Dependencies,omitempty"`
	HasThumbnail  bool     `yaml:"HasThumbnail"`
	ThumbnailPath string   `yaml:"ThumbnailPath,omitempty"`
}

// Save writes the catalog file at the project root.
func (c *Catalog) Save() error {
	c.mu.Lock()
	if c.dbPath == "" {
		c.mu.Unlock()
		return fmt.Errorf("save catalog: %w", asset.ErrNoPathSet)
	}
	doc := document{
		Header: &header{
			Version:      FormatVersion,
			ProjectRoot:  c.root,
			AssetsFolder: c.assetsFolder,
		},
		Assets: make([]entry, 0, len(c.records)),
	}
	for _, rec := range c.records {
		e := entry{
			UUID:         uint64(rec.ID),
			Path:         rec.RelativePath,
			Type:         int(rec.Type),
			Name:         rec.Name,
			FileSize:     rec.Size,
			HasThumbnail: rec.HasThumbnail,
		}
		for _, dep := range rec.Dependencies {
			e.Dependencies = append(e.Dependencies, uint64(dep))
		}
		if rec.HasThumbnail {
			e.ThumbnailPath = rec.ThumbnailPath
		}
		doc.Assets = append(doc.Assets, e)
	}
	dbPath := c.dbPath
	c.mu.Unlock()

	sort.Slice(doc.Assets, func(i, j int) bool {
		return doc.Assets[i].Path < doc.Assets[j].Path
	})

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := writeFileAtomic(dbPath, data); err != nil {
		c.logger.Error("Failed to write catalog", zap.String("file", dbPath), zap.Error(err))
		return fmt.Errorf("write catalog %s: %w: %v", dbPath, asset.ErrIO, err)
	}

	c.logger.Info("Catalog saved", zap.String("file", dbPath), zap.Int("assets", len(doc.Assets)))
	return nil
}

// Load replaces the in-memory catalog with the contents of the catalog file.
// On error the in-memory catalog is left untouched.
func (c *Catalog) Load() error {
	dbPath := c.FilePath()
	if dbPath == "" {
		return fmt.Errorf("load catalog: %w", asset.ErrNoPathSet)
	}

	data, err := os.ReadFile(dbPath)
	if err != nil {
		if isNotExist(err) {
			return fmt.Errorf("load catalog %s: %w", dbPath, asset.ErrNotFound)
		}
		return fmt.Errorf("read catalog %s: %w: %v", dbPath, asset.ErrIO, err)
	}

	records, err := decode(data)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", dbPath, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = make(map[asset.ID]Record, len(records))
	c.pathToID = make(map[string]asset.ID, len(records))
	for _, rec := range records {
		if info, err := os.Stat(c.absoluteLocked(rec.RelativePath)); err == nil {
			rec.ModTime = info.ModTime()
		}
		c.registerLocked(rec)
	}
	c.metrics.SetCatalogAssets(len(c.records))
	return nil
}

// decode parses a catalog document into records.
func decode(data []byte) ([]Record, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", asset.ErrParse, err)
	}
	if doc.Header == nil {
		return nil, fmt.Errorf("%w: missing AssetDatabase header", asset.ErrParse)
	}
	if doc.Header.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %q", asset.ErrParse, doc.Header.Version)
	}

	records := make([]Record, 0, len(doc.Assets))
	for i, e := range doc.Assets {
		if e.UUID == 0 || e.Path == "" {
			return nil, fmt.Errorf("%w: entry %d is missing UUID or Path", asset.ErrParse, i)
		}
		rec := Record{
			ID:           asset.ID(e.UUID),
			RelativePath: e.Path,
			Type:         asset.Type(e.Type),
			Name:         e.Name,
			Size:         e.FileSize,
			HasThumbnail: e.HasThumbnail,
		}
		for _, dep := range e.Dependencies {
			rec.Dependencies = append(rec.Dependencies, asset.ID(dep))
		}
		if e.HasThumbnail {
			rec.ThumbnailPath = e.ThumbnailPath
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
