package content

import (
	"fmt"

	"asset-core/core/asset"
)

// PrefabVersion is the prefab document version written by SaveToFile.
// Version 2 introduced typed component references.
const PrefabVersion = 2

// Reference points a component at another asset.
type Reference struct {
	// Kind is the referenced asset's type name, e.g. "Mesh" or "Material".
	Kind string   `yaml:"Kind"`
	ID   asset.ID `yaml:"ID"`
}

// Component is one component of a prefab entity.
type Component struct {
	Type       string      `yaml:"Type"`
	References []Reference `yaml:"References,omitempty"`
}

// Entity is one entity of a prefab hierarchy. IDs are local to the prefab.
type Entity struct {
	EntityID      uint64      `yaml:"EntityID"`
	Tag           string      `yaml:"Tag"`
	LocalParentID uint64      `yaml:"LocalParentID,omitempty"`
	LocalChildIDs []uint64    `yaml:"LocalChildIDs,omitempty,flow"`
	Components    []Component `yaml:"Components,omitempty"`
}

// Prefab is a reusable entity hierarchy.
type Prefab struct {
	asset.Base

	Description  string
	RootEntityID uint64
	Entities     []Entity
}

type prefabHeader struct {
	UUID         uint64 `yaml:"UUID"`
	Name         string `yaml:"Name"`
	Description  string `yaml:"Description,omitempty"`
	RootEntityID uint64 `yaml:"RootEntityID"`
	Version      int    `yaml:"Version"`
}

type prefabDocument struct {
	Prefab   *prefabHeader `yaml:"Prefab"`
	Entities []Entity      `yaml:"Entities"`
}

// NewPrefab creates an unsaved, empty prefab.
func NewPrefab(name string) *Prefab {
	p := &Prefab{}
	p.Init(name)
	p.MarkDirty()
	return p
}

// LoadPrefab reads a .luprefab file.
func LoadPrefab(path string) (*Prefab, error) {
	var doc prefabDocument
	if err := readDocument(path, &doc); err != nil {
		return nil, err
	}
	if err := validatePrefab(path, doc.Prefab, doc.Entities); err != nil {
		return nil, err
	}

	p := &Prefab{
		Description:  doc.Prefab.Description,
		RootEntityID: doc.Prefab.RootEntityID,
		Entities:     doc.Entities,
	}
	name := doc.Prefab.Name
	if name == "" {
		name = stem(path)
	}
	p.Init(name)
	if id := asset.ID(doc.Prefab.UUID); id.IsValid() {
		p.SetID(id)
	}
	p.MarkSaved(path)
	return p, nil
}

func validatePrefab(path string, h *prefabHeader, entities []Entity) error {
	if h == nil {
		return fmt.Errorf("%w: %s: missing Prefab", asset.ErrParse, path)
	}
	if h.Version != PrefabVersion {
		return fmt.Errorf("%w: %s: unsupported prefab version %d", asset.ErrParse, path, h.Version)
	}
	for _, e := range entities {
		for _, c := range e.Components {
			for _, ref := range c.References {
				if asset.ParseType(ref.Kind) == asset.TypeNone {
					return fmt.Errorf("%w: %s: entity %d: unknown reference kind %q", asset.ErrParse, path, e.EntityID, ref.Kind)
				}
			}
		}
	}
	return nil
}

func (*Prefab) Type() asset.Type { return asset.TypePrefab }

// AddEntity appends an entity. The first entity added becomes the root.
func (p *Prefab) AddEntity(e Entity) {
	if len(p.Entities) == 0 && p.RootEntityID == 0 {
		p.RootEntityID = e.EntityID
	}
	p.Entities = append(p.Entities, e)
	p.MarkDirty()
}

// Dependencies returns every asset referenced by the prefab's components.
func (p *Prefab) Dependencies() []asset.ID {
	return referencedIDs(p.Entities)
}

func referencedIDs(entities []Entity) []asset.ID {
	var ids []asset.ID
	for _, e := range entities {
		for _, c := range e.Components {
			for _, ref := range c.References {
				ids = append(ids, ref.ID)
			}
		}
	}
	return uniqueIDs(ids)
}

// SaveToFile writes the prefab document to path.
func (p *Prefab) SaveToFile(path string) error {
	doc := prefabDocument{
		Prefab: &prefabHeader{
			UUID:         uint64(p.ID()),
			Name:         p.Name(),
			Description:  p.Description,
			RootEntityID: p.RootEntityID,
			Version:      PrefabVersion,
		},
		Entities: p.Entities,
	}
	if err := writeDocument(path, &doc); err != nil {
		return fmt.Errorf("save prefab %s: %w", p.ID(), err)
	}
	p.MarkSaved(path)
	return nil
}

func (p *Prefab) Metadata() asset.Metadata { return p.BaseMetadata(asset.TypePrefab) }

// PrefabInspector reads a prefab's UUID and component references.
type PrefabInspector struct{}

func (PrefabInspector) Type() asset.Type { return asset.TypePrefab }

// Inspect returns the UUID even when the references cannot be read.
func (PrefabInspector) Inspect(path string) (asset.Header, error) {
	var doc prefabDocument
	if err := readDocument(path, &doc); err != nil {
		return asset.Header{ID: embeddedID(path, "Prefab", "UUID")}, err
	}
	if err := validatePrefab(path, doc.Prefab, doc.Entities); err != nil {
		return asset.Header{ID: embeddedID(path, "Prefab", "UUID")}, err
	}
	return asset.Header{ID: asset.ID(doc.Prefab.UUID), Dependencies: referencedIDs(doc.Entities)}, nil
}
