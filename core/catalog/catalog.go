package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"asset-core/core/asset"
	"asset-core/core/metrics"

	"go.uber.org/zap"
)

// DefaultFileName is the catalog file name used when none is configured.
const DefaultFileName = ".lnxast"

// ModifiedFunc is invoked once per record whose file changed on disk.
type ModifiedFunc func(id asset.ID, absPath string)

// Catalog is the project-wide asset index. It is safe for concurrent use.
type Catalog struct {
	mu sync.Mutex

	logger     *zap.Logger
	metrics    *metrics.Collector
	inspectors asset.Inspectors
	fileName   string

	root         string
	assetsFolder string
	dbPath       string

	records  map[asset.ID]Record
	pathToID map[string]asset.ID
	retired  map[asset.ID]struct{}

	onModified  ModifiedFunc
	initialized bool
}

// New creates an empty catalog. Call Initialize before use.
func New(fileName string, logger *zap.Logger, m *metrics.Collector, inspectors asset.Inspectors) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &Catalog{
		logger:     logger,
		metrics:    m,
		inspectors: inspectors,
		fileName:   fileName,
		records:    make(map[asset.ID]Record),
		pathToID:   make(map[string]asset.ID),
		retired:    make(map[asset.ID]struct{}),
	}
}

// Initialize binds the catalog to a project. An existing catalog file is
// loaded; if it is missing or unreadable the assets folder is scanned and
// the result persisted. The returned error only reports a failed save; the
// catalog is usable either way.
func (c *Catalog) Initialize(root, assetsFolder string) error {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if !filepath.IsAbs(assetsFolder) {
		assetsFolder = filepath.Join(root, assetsFolder)
	}

	c.mu.Lock()
	c.root = root
	c.assetsFolder = filepath.Clean(assetsFolder)
	c.dbPath = filepath.Join(root, c.fileName)
	dbPath := c.dbPath
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.initialized = true
		c.mu.Unlock()
	}()

	if _, err := os.Stat(dbPath); err == nil {
		loadErr := c.Load()
		if loadErr == nil {
			c.logger.Info("Catalog loaded", zap.String("file", dbPath), zap.Int("assets", c.Count()))
			return nil
		}
		c.logger.Warn("Failed to load catalog, scanning assets", zap.String("file", dbPath), zap.Error(loadErr))
	} else {
		c.logger.Info("Catalog not found, scanning assets", zap.String("file", dbPath))
	}

	c.ScanAssets()
	return c.Save()
}

// IsInitialized reports whether Initialize has completed.
func (c *Catalog) IsInitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Root returns the project root.
func (c *Catalog) Root() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// AssetsFolder returns the absolute assets folder.
func (c *Catalog) AssetsFolder() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assetsFolder
}

// FilePath returns the absolute path of the persisted catalog file.
func (c *Catalog) FilePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dbPath
}

// SetModifiedCallback registers the function invoked by UpdateFileWatchers.
func (c *Catalog) SetModifiedCallback(fn ModifiedFunc) {
	c.mu.Lock()
	c.onModified = fn
	c.mu.Unlock()
}

// RegisterAsset inserts or replaces a record and returns its ID. A record
// without an ID gets a freshly minted one. Any other record indexed under
// the same path is dropped so a path always maps to a single ID.
func (c *Catalog) RegisterAsset(rec Record) asset.ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !rec.ID.IsValid() {
		rec.ID = c.mintLocked()
	}
	c.registerLocked(rec)
	c.metrics.SetCatalogAssets(len(c.records))
	return rec.ID
}

// UnregisterAsset removes a record. Its ID is never minted again.
func (c *Catalog) UnregisterAsset(id asset.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[id]
	if !ok {
		return false
	}
	c.dropLocked(rec)
	c.retired[id] = struct{}{}
	c.metrics.SetCatalogAssets(len(c.records))
	return true
}

// UpdateAsset replaces the record stored under id, re-indexing its path.
// It returns false when id is not cataloged.
func (c *Catalog) UpdateAsset(id asset.ID, rec Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.records[id]
	if !ok {
		return false
	}
	c.dropLocked(old)
	rec.ID = id
	c.registerLocked(rec)
	return true
}

// SetThumbnail records a thumbnail for id. An empty path clears it.
func (c *Catalog) SetThumbnail(id asset.ID, path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[id]
	if !ok {
		return false
	}
	rec.HasThumbnail = path != ""
	rec.ThumbnailPath = path
	c.records[id] = rec
	return true
}

// Get returns the record for id.
func (c *Catalog) Get(id asset.ID) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[id]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// GetByPath returns the record for a path relative to the assets folder or
// an absolute path inside it.
func (c *Catalog) GetByPath(path string) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.pathToID[asset.NormalizeKey(c.relativeLocked(path))]
	if !ok {
		return Record{}, false
	}
	return c.records[id].clone(), true
}

// All returns every record ordered by path.
func (c *Catalog) All() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filterLocked(func(Record) bool { return true })
}

// ByType returns the records of one content type ordered by path.
func (c *Catalog) ByType(t asset.Type) []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filterLocked(func(r Record) bool { return r.Type == t })
}

// Dependencies returns the IDs id depends on.
func (c *Catalog) Dependencies(id asset.ID) []asset.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.records[id].Dependencies)
}

// Dependents returns the IDs of records that list id as a dependency,
// in ascending order.
func (c *Catalog) Dependents(id asset.ID) []asset.ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []asset.ID
	for rid, rec := range c.records {
		if rec.DependsOn(id) {
			out = append(out, rid)
		}
	}
	slices.Sort(out)
	return out
}

// Count returns the number of records.
func (c *Catalog) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// CountByType returns the number of records of one type.
func (c *Catalog) CountByType(t asset.Type) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, rec := range c.records {
		if rec.Type == t {
			n++
		}
	}
	return n
}

// RelativePath converts an absolute path to one relative to the assets folder.
// Paths outside the folder are returned unchanged.
func (c *Catalog) RelativePath(path string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.relativeLocked(path)
}

// AbsolutePath resolves a path relative to the assets folder.
func (c *Catalog) AbsolutePath(rel string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.absoluteLocked(rel)
}

func (c *Catalog) relativeLocked(path string) string {
	if !filepath.IsAbs(path) || c.assetsFolder == "" {
		return path
	}
	rel, err := filepath.Rel(c.assetsFolder, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func (c *Catalog) absoluteLocked(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.assetsFolder, filepath.FromSlash(rel))
}

func (c *Catalog) registerLocked(rec Record) {
	rec.RelativePath = filepath.ToSlash(rec.RelativePath)
	key := asset.NormalizeKey(rec.RelativePath)

	if prev, ok := c.records[rec.ID]; ok {
		delete(c.pathToID, asset.NormalizeKey(prev.RelativePath))
	}
	if other, ok := c.pathToID[key]; ok && other != rec.ID {
		delete(c.records, other)
	}

	c.records[rec.ID] = rec.clone()
	if key != "" {
		c.pathToID[key] = rec.ID
	}
}

func (c *Catalog) dropLocked(rec Record) {
	key := asset.NormalizeKey(rec.RelativePath)
	if c.pathToID[key] == rec.ID {
		delete(c.pathToID, key)
	}
	delete(c.records, rec.ID)
}

// mintLocked returns an ID not used by any live or retired record.
func (c *Catalog) mintLocked() asset.ID {
	for {
		id := asset.NewID()
		if _, live := c.records[id]; live {
			continue
		}
		if _, dead := c.retired[id]; dead {
			continue
		}
		return id
	}
}

func (c *Catalog) filterLocked(keep func(Record) bool) []Record {
	out := make([]Record, 0, len(c.records))
	for _, rec := range c.records {
		if keep(rec) {
			out = append(out, rec.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RelativePath < out[j].RelativePath
	})
	return out
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
