package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"asset-core/core/asset"
	"asset-core/core/registry"

	"gopkg.in/yaml.v3"
)

// RegisterFactories installs the mesh, material and prefab loaders into reg.
func RegisterFactories(reg *registry.Registry) {
	registry.RegisterFactory[Mesh](reg, LoadMesh)
	registry.RegisterFactory[Material](reg, LoadMaterial)
	registry.RegisterFactory[Prefab](reg, LoadPrefab)
}

// Inspectors returns the header extractors for the content types of this package.
func Inspectors() asset.Inspectors {
	return asset.NewInspectors(MeshInspector{}, MaterialInspector{}, PrefabInspector{})
}

func readDocument(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", asset.ErrNotFound, path)
		}
		return fmt.Errorf("%w: %v", asset.ErrIO, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", asset.ErrParse, path, err)
	}
	return nil
}

// embeddedID reads section.field from a document without decoding anything
// else, so a malformed body does not hide the file's identity.
func embeddedID(path, section, field string) asset.ID {
	data, err := os.ReadFile(path)
	if err != nil {
		return asset.NoID
	}
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return asset.NoID
	}
	node, ok := doc[section]
	if !ok {
		return asset.NoID
	}
	var fields map[string]yaml.Node
	if err := node.Decode(&fields); err != nil {
		return asset.NoID
	}
	raw, ok := fields[field]
	if !ok {
		return asset.NoID
	}
	var id uint64
	if err := raw.Decode(&id); err != nil {
		return asset.NoID
	}
	return asset.ID(id)
}

func writeDocument(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", asset.ErrIO, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", asset.ErrIO, err)
	}
	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// uniqueIDs returns the valid IDs in ids, sorted and without duplicates.
func uniqueIDs(ids []asset.ID) []asset.ID {
	out := make([]asset.ID, 0, len(ids))
	for _, id := range ids {
		if id.IsValid() {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
