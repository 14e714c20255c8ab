package browser

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"asset-core/core/asset"
	"asset-core/core/catalog"
	"asset-core/core/session"

	"go.uber.org/zap"
)

// ErrUnknownType is returned for a type filter that names no asset type.
var ErrUnknownType = errors.New("unknown asset type")

// RecordView is the JSON shape of a catalog record.
type RecordView struct {
	ID           string   `json:"id"`
	Path         string   `json:"path"`
	Type         string   `json:"type"`
	Name         string   `json:"name"`
	Size         int64    `json:"size"`
	ModTime      string   `json:"mod_time"`
	Dependencies []string `json:"dependencies"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
}

// CachedView is the JSON shape of a cached asset.
type CachedView struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Path   string `json:"path"`
	Name   string `json:"name"`
	Loaded bool   `json:"loaded"`
	State  string `json:"state"`
}

// ProgressView reports the async loader counters.
type ProgressView struct {
	Started   bool    `json:"started"`
	Pending   int     `json:"pending"`
	Completed int     `json:"completed"`
	Progress  float64 `json:"progress"`
}

// ScanResult reports a rescan.
type ScanResult struct {
	Assets    int    `json:"assets"`
	Persisted bool   `json:"persisted"`
	Error     string `json:"error,omitempty"`
}

// Service answers browser queries against one session.
type Service struct {
	session *session.Session
	logger  *zap.Logger
}

// NewService creates a new browser service.
func NewService(s *session.Session, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{session: s, logger: logger}
}

// Records returns catalog records, filtered by type name when typeName is set.
func (s *Service) Records(typeName string) ([]RecordView, error) {
	cat := s.session.Catalog()
	var recs []catalog.Record
	if typeName == "" {
		recs = cat.All()
	} else {
		t := asset.ParseType(typeName)
		if t == asset.TypeNone {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
		}
		recs = cat.ByType(t)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })

	out := make([]RecordView, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordView(r))
	}
	return out, nil
}

// Record returns one record.
func (s *Service) Record(id asset.ID) (RecordView, error) {
	r, ok := s.session.Catalog().Get(id)
	if !ok {
		return RecordView{}, fmt.Errorf("asset %s: %w", id, asset.ErrNotFound)
	}
	return recordView(r), nil
}

// Dependencies returns the IDs id references.
func (s *Service) Dependencies(id asset.ID) ([]string, error) {
	if _, ok := s.session.Catalog().Get(id); !ok {
		return nil, fmt.Errorf("asset %s: %w", id, asset.ErrNotFound)
	}
	return idStrings(s.session.Catalog().Dependencies(id)), nil
}

// Dependents returns the IDs that reference id. An unknown id has none.
func (s *Service) Dependents(id asset.ID) []string {
	return idStrings(s.session.Catalog().Dependents(id))
}

// Scan rebuilds the catalog from disk and persists it.
func (s *Service) Scan() ScanResult {
	cat := s.session.Catalog()
	cat.ScanAssets()
	res := ScanResult{Assets: cat.Count(), Persisted: true}
	if err := cat.Save(); err != nil {
		s.logger.Warn("Rescanned catalog not persisted", zap.Error(err))
		res.Persisted = false
		res.Error = err.Error()
	}
	return res
}

// Cached returns metadata of every live cached asset, optionally by type.
func (s *Service) Cached(typeName string) ([]CachedView, error) {
	reg := s.session.Registry()
	var metas []asset.Metadata
	if typeName == "" {
		metas = reg.AllMetadata()
	} else {
		t := asset.ParseType(typeName)
		if t == asset.TypeNone {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
		}
		metas = reg.MetadataByType(t)
	}

	out := make([]CachedView, 0, len(metas))
	for _, m := range metas {
		out = append(out, CachedView{
			ID:     m.ID.String(),
			Type:   m.Type.String(),
			Path:   m.Path,
			Name:   m.Name,
			Loaded: m.Loaded,
			State:  reg.State(m.Path).String(),
		})
	}
	return out, nil
}

// Progress returns the async loader counters.
func (s *Service) Progress() ProgressView {
	l := s.session.Loader()
	return ProgressView{
		Started:   l.IsStarted(),
		Pending:   l.PendingCount(),
		Completed: l.CompletedCount(),
		Progress:  l.Progress(),
	}
}

func recordView(r catalog.Record) RecordView {
	v := RecordView{
		ID:           r.ID.String(),
		Path:         r.RelativePath,
		Type:         r.Type.String(),
		Name:         r.Name,
		Size:         r.Size,
		Dependencies: idStrings(r.Dependencies),
		Thumbnail:    r.ThumbnailPath,
	}
	if !r.ModTime.IsZero() {
		v.ModTime = r.ModTime.UTC().Format(time.RFC3339)
	}
	return v
}

func idStrings(ids []asset.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
