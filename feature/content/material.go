package content

import (
	"fmt"
	"maps"
	"slices"

	"asset-core/core/asset"
)

// Texture slots understood by the renderer.
const (
	SlotAlbedo       = "Albedo"
	SlotNormal       = "Normal"
	SlotMetallic     = "Metallic"
	SlotRoughness    = "Roughness"
	SlotSpecular     = "Specular"
	SlotEmission     = "Emission"
	SlotAO           = "AO"
	SlotHeight       = "Height"
	SlotDetailNormal = "DetailNormal"
)

// MaterialProperties are the scalar PBR inputs of a material.
type MaterialProperties struct {
	Albedo            [4]float32 `yaml:"Albedo,flow"`
	Metallic          float32    `yaml:"Metallic"`
	Roughness         float32    `yaml:"Roughness"`
	Specular          float32    `yaml:"Specular"`
	EmissionColor     [3]float32 `yaml:"EmissionColor,flow"`
	EmissionIntensity float32    `yaml:"EmissionIntensity"`
	NormalIntensity   float32    `yaml:"NormalIntensity"`
}

// Surface controls blending and UV layout.
type Surface struct {
	AlphaMode   string     `yaml:"AlphaMode"`
	AlphaCutoff float32    `yaml:"AlphaCutoff"`
	TwoSided    bool       `yaml:"TwoSided"`
	UVTiling    [2]float32 `yaml:"UVTiling,flow"`
	UVOffset    [2]float32 `yaml:"UVOffset,flow"`
}

// DefaultMaterialProperties returns the properties of a new material.
func DefaultMaterialProperties() MaterialProperties {
	return MaterialProperties{
		Albedo:          [4]float32{1, 1, 1, 1},
		Roughness:       0.5,
		Specular:        0.5,
		NormalIntensity: 1,
	}
}

// DefaultSurface returns the surface of a new material.
func DefaultSurface() Surface {
	return Surface{AlphaMode: "Opaque", AlphaCutoff: 0.5, UVTiling: [2]float32{1, 1}}
}

// Material is a surface description that binds texture assets to slots.
type Material struct {
	asset.Base

	Properties MaterialProperties
	Surface    Surface
	// Textures maps a slot name to the texture asset bound to it.
	Textures map[string]asset.ID
}

type materialHeader struct {
	ID   uint64 `yaml:"ID"`
	Name string `yaml:"Name"`
}

type materialDocument struct {
	Material   *materialHeader    `yaml:"Material"`
	Properties MaterialProperties `yaml:"Properties"`
	Surface    Surface            `yaml:"Surface"`
	Textures   map[string]uint64  `yaml:"Textures,omitempty"`
}

// NewMaterial creates an unsaved material with default properties.
func NewMaterial(name string) *Material {
	m := &Material{
		Properties: DefaultMaterialProperties(),
		Surface:    DefaultSurface(),
		Textures:   make(map[string]asset.ID),
	}
	m.Init(name)
	m.MarkDirty()
	return m
}

// LoadMaterial reads a .lumat file.
func LoadMaterial(path string) (*Material, error) {
	doc := materialDocument{
		Properties: DefaultMaterialProperties(),
		Surface:    DefaultSurface(),
	}
	if err := readDocument(path, &doc); err != nil {
		return nil, err
	}
	if doc.Material == nil {
		return nil, fmt.Errorf("%w: %s: missing Material", asset.ErrParse, path)
	}

	m := &Material{
		Properties: doc.Properties,
		Surface:    doc.Surface,
		Textures:   make(map[string]asset.ID, len(doc.Textures)),
	}
	for slot, id := range doc.Textures {
		if id != 0 {
			m.Textures[slot] = asset.ID(id)
		}
	}
	name := doc.Material.Name
	if name == "" {
		name = stem(path)
	}
	m.Init(name)
	if id := asset.ID(doc.Material.ID); id.IsValid() {
		m.SetID(id)
	}
	m.MarkSaved(path)
	return m, nil
}

func (*Material) Type() asset.Type { return asset.TypeMaterial }

// SetTexture binds a texture to slot. NoID clears the slot.
func (m *Material) SetTexture(slot string, id asset.ID) {
	if m.Textures == nil {
		m.Textures = make(map[string]asset.ID)
	}
	if id.IsValid() {
		m.Textures[slot] = id
	} else {
		delete(m.Textures, slot)
	}
	m.MarkDirty()
}

// Dependencies returns the bound texture IDs.
func (m *Material) Dependencies() []asset.ID {
	return uniqueIDs(slices.Collect(maps.Values(m.Textures)))
}

// SaveToFile writes the material document to path.
func (m *Material) SaveToFile(path string) error {
	doc := materialDocument{
		Material:   &materialHeader{ID: uint64(m.ID()), Name: m.Name()},
		Properties: m.Properties,
		Surface:    m.Surface,
	}
	if len(m.Textures) > 0 {
		doc.Textures = make(map[string]uint64, len(m.Textures))
		for slot, id := range m.Textures {
			doc.Textures[slot] = uint64(id)
		}
	}
	if err := writeDocument(path, &doc); err != nil {
		return fmt.Errorf("save material %s: %w", m.ID(), err)
	}
	m.MarkSaved(path)
	return nil
}

func (m *Material) Metadata() asset.Metadata { return m.BaseMetadata(asset.TypeMaterial) }

// MaterialInspector reads a material's ID and bound textures. A malformed
// texture table still yields the ID.
type MaterialInspector struct{}

func (MaterialInspector) Type() asset.Type { return asset.TypeMaterial }

func (MaterialInspector) Inspect(path string) (asset.Header, error) {
	var doc struct {
		Material *struct {
			ID uint64 `yaml:"ID"`
		} `yaml:"Material"`
		Textures map[string]uint64 `yaml:"Textures"`
	}
	if err := readDocument(path, &doc); err != nil {
		return asset.Header{ID: embeddedID(path, "Material", "ID")}, err
	}
	if doc.Material == nil {
		return asset.Header{}, fmt.Errorf("%w: %s: missing Material", asset.ErrParse, path)
	}

	deps := make([]asset.ID, 0, len(doc.Textures))
	for _, id := range doc.Textures {
		deps = append(deps, asset.ID(id))
	}
	return asset.Header{ID: asset.ID(doc.Material.ID), Dependencies: uniqueIDs(deps)}, nil
}
