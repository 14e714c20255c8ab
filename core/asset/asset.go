package asset

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// DefaultName is used for assets created without a name.
const DefaultName = "New Asset"

// Asset is the capability set every content type exposes.
type Asset interface {
	ID() ID
	Type() Type
	Name() string
	Path() string
	Flags() Flags
	// SaveToFile writes the asset to path in its own format.
	SaveToFile(path string) error
	// Metadata returns a snapshot used by the registry's metadata store.
	Metadata() Metadata
}

// Metadata is a lightweight snapshot of an asset.
type Metadata struct {
	ID           ID        `json:"id,string"`
	Type         Type      `json:"type"`
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Loaded       bool      `json:"loaded"`
	SourcePath   string    `json:"source_path,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Base holds the identity and state shared by content types. Embed it by value
// in a struct that is always used through a pointer and call Init.
type Base struct {
	mu         sync.RWMutex
	id         ID
	name       string
	path       string
	sourcePath string
	flags      Flags
}

// Init gives a new asset a freshly minted ID and a name.
func (b *Base) Init(name string) {
	if name == "" {
		name = DefaultName
	}
	b.mu.Lock()
	b.id = NewID()
	b.name = name
	b.mu.Unlock()
}

// ID returns the asset ID.
func (b *Base) ID() ID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.id
}

// SetID replaces the asset ID. Used by decoders restoring an embedded identity.
func (b *Base) SetID(id ID) {
	b.mu.Lock()
	b.id = id
	b.mu.Unlock()
}

// Name returns the display name.
func (b *Base) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

// SetName renames the asset and marks it dirty.
func (b *Base) SetName(name string) {
	b.mu.Lock()
	b.name = name
	b.flags |= FlagDirty
	b.mu.Unlock()
}

// Path returns the owning file path, empty for unsaved assets.
func (b *Base) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// SetPath sets the owning file path.
func (b *Base) SetPath(path string) {
	b.mu.Lock()
	b.path = path
	b.mu.Unlock()
}

// SourcePath returns the imported source file, if any.
func (b *Base) SourcePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sourcePath
}

// SetSourcePath records the imported source file.
func (b *Base) SetSourcePath(path string) {
	b.mu.Lock()
	b.sourcePath = path
	b.mu.Unlock()
}

// Flags returns the current flag set.
func (b *Base) Flags() Flags {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.flags
}

// SetFlag sets or clears the given bits.
func (b *Base) SetFlag(f Flags, on bool) {
	b.mu.Lock()
	if on {
		b.flags |= f
	} else {
		b.flags &^= f
	}
	b.mu.Unlock()
}

// MarkDirty flags unsaved content changes.
func (b *Base) MarkDirty() { b.SetFlag(FlagDirty, true) }

// ClearDirty clears the dirty flag.
func (b *Base) ClearDirty() { b.SetFlag(FlagDirty, false) }

// IsDirty reports unsaved changes.
func (b *Base) IsDirty() bool { return b.Flags().Has(FlagDirty) }

// MarkSaved records a successful write to path.
func (b *Base) MarkSaved(path string) {
	b.mu.Lock()
	b.path = path
	b.flags &^= FlagDirty
	b.mu.Unlock()
}

// BaseMetadata builds the metadata snapshot for a content type.
func (b *Base) BaseMetadata(t Type) Metadata {
	b.mu.RLock()
	md := Metadata{
		ID:         b.id,
		Type:       t,
		Path:       b.path,
		Name:       b.name,
		Loaded:     b.flags.Has(FlagLoaded),
		SourcePath: b.sourcePath,
	}
	b.mu.RUnlock()

	if md.Path != "" {
		if info, err := os.Stat(md.Path); err == nil {
			md.LastModified = info.ModTime()
		}
	}
	return md
}

// Save writes the asset to its current path and clears the dirty flag.
func Save(a Asset) error {
	if a.Flags().Has(FlagReadOnly) {
		return fmt.Errorf("save %s: %w", a.ID(), ErrReadOnly)
	}
	path := a.Path()
	if path == "" {
		return fmt.Errorf("save %s: %w", a.ID(), ErrNoPathSet)
	}
	if err := a.SaveToFile(path); err != nil {
		return err
	}
	if c, ok := a.(interface{ ClearDirty() }); ok {
		c.ClearDirty()
	}
	return nil
}
