package content

import (
	"fmt"

	"asset-core/core/asset"
)

// ImportSettings control how a mesh source file is imported.
type ImportSettings struct {
	Scale            float32    `yaml:"Scale"`
	Rotation         [3]float32 `yaml:"Rotation,flow"`
	Translation      [3]float32 `yaml:"Translation,flow"`
	FlipUVs          bool       `yaml:"FlipUVs"`
	GenerateNormals  bool       `yaml:"GenerateNormals"`
	GenerateTangents bool       `yaml:"GenerateTangents"`
	OptimizeMesh     bool       `yaml:"OptimizeMesh"`
}

// DefaultImportSettings returns the settings used for new meshes.
func DefaultImportSettings() ImportSettings {
	return ImportSettings{
		Scale:            1,
		GenerateNormals:  true,
		GenerateTangents: true,
		OptimizeMesh:     true,
	}
}

// MeshStats describes the imported geometry.
type MeshStats struct {
	VertexCount   uint32     `yaml:"VertexCount"`
	IndexCount    uint32     `yaml:"IndexCount"`
	TriangleCount uint32     `yaml:"TriangleCount"`
	SubmeshCount  uint32     `yaml:"SubmeshCount"`
	BoundsMin     [3]float32 `yaml:"BoundsMin,flow"`
	BoundsMax     [3]float32 `yaml:"BoundsMax,flow"`
}

// Mesh is an imported mesh asset.
type Mesh struct {
	asset.Base

	Import ImportSettings
	Stats  MeshStats
}

type meshHeader struct {
	ID         uint64 `yaml:"ID"`
	Name       string `yaml:"Name"`
	SourcePath string `yaml:"SourcePath"`
}

type meshDocument struct {
	MeshAsset      *meshHeader    `yaml:"MeshAsset"`
	ImportSettings ImportSettings `yaml:"ImportSettings"`
	Metadata       MeshStats      `yaml:"Metadata"`
}

// NewMesh creates an unsaved mesh imported from sourcePath.
func NewMesh(name, sourcePath string) *Mesh {
	m := &Mesh{Import: DefaultImportSettings()}
	m.Init(name)
	m.SetSourcePath(sourcePath)
	m.MarkDirty()
	return m
}

// LoadMesh reads a .lumesh file.
func LoadMesh(path string) (*Mesh, error) {
	doc := meshDocument{ImportSettings: DefaultImportSettings()}
	if err := readDocument(path, &doc); err != nil {
		return nil, err
	}
	if doc.MeshAsset == nil {
		return nil, fmt.Errorf("%w: %s: missing MeshAsset", asset.ErrParse, path)
	}

	m := &Mesh{Import: doc.ImportSettings, Stats: doc.Metadata}
	name := doc.MeshAsset.Name
	if name == "" {
		name = stem(path)
	}
	m.Init(name)
	if id := asset.ID(doc.MeshAsset.ID); id.IsValid() {
		m.SetID(id)
	}
	m.SetSourcePath(doc.MeshAsset.SourcePath)
	m.MarkSaved(path)
	return m, nil
}

func (*Mesh) Type() asset.Type { return asset.TypeMesh }

// SaveToFile writes the mesh document to path.
func (m *Mesh) SaveToFile(path string) error {
	doc := meshDocument{
		MeshAsset: &meshHeader{
			ID:         uint64(m.ID()),
			Name:       m.Name(),
			SourcePath: m.SourcePath(),
		},
		ImportSettings: m.Import,
		Metadata:       m.Stats,
	}
	if err := writeDocument(path, &doc); err != nil {
		return fmt.Errorf("save mesh %s: %w", m.ID(), err)
	}
	m.MarkSaved(path)
	return nil
}

func (m *Mesh) Metadata() asset.Metadata { return m.BaseMetadata(asset.TypeMesh) }

// MeshInspector reads the embedded ID of a mesh. Meshes have no dependencies.
type MeshInspector struct{}

func (MeshInspector) Type() asset.Type { return asset.TypeMesh }

func (MeshInspector) Inspect(path string) (asset.Header, error) {
	var doc struct {
		MeshAsset *struct {
			ID uint64 `yaml:"ID"`
		} `yaml:"MeshAsset"`
	}
	if err := readDocument(path, &doc); err != nil {
		return asset.Header{ID: embeddedID(path, "MeshAsset", "ID")}, err
	}
	if doc.MeshAsset == nil {
		return asset.Header{}, fmt.Errorf("%w: %s: missing MeshAsset", asset.ErrParse, path)
	}
	return asset.Header{ID: asset.ID(doc.MeshAsset.ID)}, nil
}
