package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"asset-core/core/asset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// headerInspector reads a tiny YAML header: {ID: 1, Deps: [2, 3]}.
type headerInspector struct{ t asset.Type }

func (h headerInspector) Type() asset.Type { return h.t }

func (h headerInspector) Inspect(path string) (asset.Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return asset.Header{}, err
	}
	var doc struct {
		ID   uint64   `yaml:"ID"`
		Deps []uint64 `yaml:"Deps"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return asset.Header{}, err
	}
	out := asset.Header{ID: asset.ID(doc.ID)}
	for _, d := range doc.Deps {
		out.Dependencies = append(out.Dependencies, asset.ID(d))
	}
	return out, nil
}

func testInspectors() asset.Inspectors {
	return asset.NewInspectors(
		headerInspector{asset.TypeMesh},
		headerInspector{asset.TypePrefab},
		headerInspector{asset.TypeMaterial},
	)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newProject(t *testing.T) (root, assets string) {
	t.Helper()
	root = t.TempDir()
	assets = filepath.Join(root, "Assets")
	require.NoError(t, os.MkdirAll(assets, 0o755))
	return root, assets
}

func newCatalog() *Catalog {
	return New("", zap.NewNop(), nil, testInspectors())
}

func TestInitialize_ScansAndPersistsWhenMissing(t *testing.T) {
	root, assets := newProject(t)
	writeFile(t, filepath.Join(assets, "meshes", "cube.lumesh"), "ID: 42\n")
	writeFile(t, filepath.Join(assets, "notes.txt"), "ignored")

	c := newCatalog()
	require.NoError(t, c.Initialize(root, "Assets"))

	assert.True(t, c.IsInitialized())
	assert.Equal(t, 1, c.Count())
	assert.FileExists(t, filepath.Join(root, DefaultFileName))

	rec, ok := c.Get(42)
	require.True(t, ok)
	assert.Equal(t, "meshes/cube.lumesh", rec.RelativePath)
	assert.Equal(t, "cube", rec.Name)
	assert.Equal(t, asset.TypeMesh, rec.Type)
	assert.Equal(t, int64(len("ID: 42\n")), rec.Size)
}

func TestInitialize_LoadsExistingFile(t *testing.T) {
	root, assets := newProject(t)
	writeFile(t, filepath.Join(assets, "a.lumesh"), "ID: 7\n")

	first := newCatalog()
	require.NoError(t, first.Initialize(root, "Assets"))

	// A new file on disk is not seen because the persisted catalog wins.
	writeFile(t, filepath.Join(assets, "b.lumesh"), "ID: 8\n")

	second := newCatalog()
	require.NoError(t, second.Initialize(root, "Assets"))
	assert.Equal(t, 1, second.Count())
	_, ok := second.Get(7)
	assert.True(t, ok)
}

func TestInitialize_CorruptFileFallsBackToScan(t *testing.T) {
	root, assets := newProject(t)
	writeFile(t, filepath.Join(assets, "a.lumesh"), "ID: 7\n")
	writeFile(t, filepath.Join(root, DefaultFileName), "AssetDatabase: [not: a map")

	c := newCatalog()
	require.NoError(t, c.Initialize(root, "Assets"))
	assert.Equal(t, 1, c.Count())

	// The rescan was persisted and is loadable again.
	again := newCatalog()
	require.NoError(t, again.Initialize(root, "Assets"))
	assert.Equal(t, 1, again.Count())
}

func TestInitialize_MissingAssetsFolder(t *testing.T) {
	root := t.TempDir()

	c := newCatalog()
	assert.NotPanics(t, func() {
		_ = c.Initialize(root, "DoesNotExist")
	})
	assert.Equal(t, 0, c.Count())
}

func TestScanAssets(t *testing.T) {
	root, assets := newProject(t)
	writeFile(t, filepath.Join(assets, "mesh.lumesh"), "ID: 42\n")
	writeFile(t, filepath.Join(assets, "copy.lumesh"), "ID: 42\n")
	writeFile(t, filepath.Join(assets, "tex", "wood.png"), "png-bytes")
	writeFile(t, filepath.Join(assets, "broken.luprefab"), "ID: [unterminated")

	c := newCatalog()
	require.NoError(t, c.Initialize(root, "Assets"))
	assert.Equal(t, 4, c.Count())

	t.Run("DuplicateEmbeddedIDIsReminted", func(t *testing.T) {
		meshes := c.ByType(asset.TypeMesh)
		require.Len(t, meshes, 2)
		assert.NotEqual(t, meshes[0].ID, meshes[1].ID)
		_, ok := c.Get(42)
		assert.True(t, ok)
	})

	t.Run("DuplicateKeepsIDAcrossRescan", func(t *testing.T) {
		before, ok := c.GetByPath("mesh.lumesh")
		require.True(t, ok)
		require.NotEqual(t, asset.ID(42), before.ID)

		c.ScanAssets()

		after, ok := c.GetByPath("mesh.lumesh")
		require.True(t, ok)
		assert.Equal(t, before.ID, after.ID)
		copied, ok := c.GetByPath("copy.lumesh")
		require.True(t, ok)
		assert.Equal(t, asset.ID(42), copied.ID)
	})

	t.Run("InspectionFailureDegrades", func(t *testing.T) {
		rec, ok := c.GetByPath("broken.luprefab")
		require.True(t, ok)
		assert.True(t, rec.ID.IsValid())
		assert.Empty(t, rec.Dependencies)
	})

	t.Run("IdentityStableAcrossRescan", func(t *testing.T) {
		before, ok := c.GetByPath("tex/wood.png")
		require.True(t, ok)

		c.ScanAssets()

		after, ok := c.GetByPath("tex/wood.png")
		require.True(t, ok)
		assert.Equal(t, before.ID, after.ID)
	})

	t.Run("AbsolutePathLookup", func(t *testing.T) {
		rec, ok := c.GetByPath(filepath.Join(assets, "tex", "wood.png"))
		require.True(t, ok)
		assert.Equal(t, "wood", rec.Name)
	})
}

// partialInspector finds the embedded ID but fails on the references.
type partialInspector struct {
	t  asset.Type
	id asset.ID
}

func (p partialInspector) Type() asset.Type { return p.t }

func (p partialInspector) Inspect(string) (asset.Header, error) {
	return asset.Header{ID: p.id, Dependencies: []asset.ID{99}}, errors.New("unknown reference kind")
}

func TestScanAssets_DependencyFailureKeepsEmbeddedID(t *testing.T) {
	root, assets := newProject(t)
	writeFile(t, filepath.Join(assets, "crate.luprefab"), "Prefab: {UUID: 7}\n")
	writeFile(t, filepath.Join(assets, "cube.lumesh"), "ID: 9\n")

	c := New("", zap.NewNop(), nil, asset.NewInspectors(
		partialInspector{t: asset.TypePrefab, id: 7},
		headerInspector{asset.TypeMesh},
	))
	require.NoError(t, c.Initialize(root, "Assets"))

	rec, ok := c.GetByPath("crate.luprefab")
	require.True(t, ok)
	assert.Equal(t, asset.ID(7), rec.ID)
	assert.Empty(t, rec.Dependencies)
	assert.Empty(t, c.Dependents(99))

	c.ScanAssets()
	rec, ok = c.Get(7)
	require.True(t, ok)
	assert.Equal(t, "crate.luprefab", rec.RelativePath)
}

func TestRegisterUnregisterUpdate(t *testing.T) {
	root, _ := newProject(t)
	c := newCatalog()
	require.NoError(t, c.Initialize(root, "Assets"))

	id := c.RegisterAsset(Record{RelativePath: "a/one.lumat", Type: asset.TypeMaterial, Name: "one"})
	require.True(t, id.IsValid())

	t.Run("PathMapsToOneID", func(t *testing.T) {
		other := c.RegisterAsset(Record{ID: 99, RelativePath: "a/one.lumat", Type: asset.TypeMaterial})
		assert.Equal(t, asset.ID(99), other)
		assert.Equal(t, 1, c.Count())

		rec, ok := c.GetByPath("a/one.lumat")
		require.True(t, ok)
		assert.Equal(t, asset.ID(99), rec.ID)
		_, ok = c.Get(id)
		assert.False(t, ok)
	})

	t.Run("UpdateMovesPath", func(t *testing.T) {
		ok := c.UpdateAsset(99, Record{RelativePath: "b/two.lumat", Type: asset.TypeMaterial, Name: "two"})
		require.True(t, ok)

		_, ok = c.GetByPath("a/one.lumat")
		assert.False(t, ok)
		rec, ok := c.GetByPath("b/two.lumat")
		require.True(t, ok)
		assert.Equal(t, asset.ID(99), rec.ID)

		assert.False(t, c.UpdateAsset(12345, Record{RelativePath: "x"}))
	})

	t.Run("Thumbnail", func(t *testing.T) {
		assert.True(t, c.SetThumbnail(99, "thumbs/two.png"))
		rec, _ := c.Get(99)
		assert.True(t, rec.HasThumbnail)
		assert.Equal(t, "thumbs/two.png", rec.ThumbnailPath)
	})

	t.Run("Unregister", func(t *testing.T) {
		assert.True(t, c.UnregisterAsset(99))
		assert.False(t, c.UnregisterAsset(99))
		_, ok := c.GetByPath("b/two.lumat")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Count())
	})

	t.Run("ReturnedRecordsAreCopies", func(t *testing.T) {
		c.RegisterAsset(Record{ID: 5, RelativePath: "p.luprefab", Dependencies: []asset.ID{1}})
		rec, _ := c.Get(5)
		rec.Dependencies[0] = 777
		assert.Equal(t, []asset.ID{1}, c.Dependencies(5))
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root, _ := newProject(t)
	src := newCatalog()
	require.NoError(t, src.Initialize(root, "Assets"))

	want := []Record{
		{ID: 1, RelativePath: "meshes/cube.lumesh", Type: asset.TypeMesh, Name: "cube", Size: 10},
		{ID: 2, RelativePath: "materials/wood.lumat", Type: asset.TypeMaterial, Name: "wood", Size: 20, Dependencies: []asset.ID{5}},
		{ID: 3, RelativePath: "prefabs/crate.luprefab", Type: asset.TypePrefab, Name: "crate", Size: 30, Dependencies: []asset.ID{1, 2}},
		{ID: 5, RelativePath: "tex/wood.png", Type: asset.TypeTexture, Name: "wood", Size: 40, HasThumbnail: true, ThumbnailPath: "thumbs/wood.png"},
	}
	for _, rec := range want {
		src.RegisterAsset(rec)
	}
	require.NoError(t, src.Save())

	dst := newCatalog()
	require.NoError(t, dst.Initialize(root, "Assets"))
	require.Equal(t, len(want), dst.Count())

	for _, w := range want {
		got, ok := dst.Get(w.ID)
		require.True(t, ok, w.RelativePath)
		assert.Equal(t, w.RelativePath, got.RelativePath)
		assert.Equal(t, w.Type, got.Type)
		assert.Equal(t, w.Name, got.Name)
		assert.Equal(t, w.Size, got.Size)
		assert.ElementsMatch(t, w.Dependencies, got.Dependencies)
		assert.Equal(t, w.HasThumbnail, got.HasThumbnail)
		assert.Equal(t, w.ThumbnailPath, got.ThumbnailPath)
	}
}

func TestDependenciesDependentsSymmetry(t *testing.T) {
	root, _ := newProject(t)
	c := newCatalog()
	require.NoError(t, c.Initialize(root, "Assets"))

	c.RegisterAsset(Record{ID: 1, RelativePath: "m.lumesh"})
	c.RegisterAsset(Record{ID: 2, RelativePath: "t.png"})
	c.RegisterAsset(Record{ID: 3, RelativePath: "mat.lumat", Dependencies: []asset.ID{2}})
	c.RegisterAsset(Record{ID: 4, RelativePath: "p.luprefab", Dependencies: []asset.ID{1, 3}})
	c.RegisterAsset(Record{ID: 5, RelativePath: "q.luprefab", Dependencies: []asset.ID{1, 4}})

	ids := []asset.ID{1, 2, 3, 4, 5}
	for _, a := range ids {
		for _, b := range ids {
			inDeps := contains(c.Dependencies(a), b)
			inDependents := contains(c.Dependents(b), a)
			assert.Equal(t, inDeps, inDependents, "a=%d b=%d", a, b)
		}
	}
	assert.Equal(t, []asset.ID{4, 5}, c.Dependents(1))
	assert.Empty(t, c.Dependents(5))
	assert.Nil(t, c.Dependencies(404))
}

func contains(ids []asset.ID, id asset.ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func TestUpdateFileWatchers(t *testing.T) {
	root, assets := newProject(t)
	touched := filepath.Join(assets, "a.lumesh")
	writeFile(t, touched, "ID: 1\n")
	writeFile(t, filepath.Join(assets, "b.lumesh"), "ID: 2\n")

	c := newCatalog()
	require.NoError(t, c.Initialize(root, "Assets"))

	var calls []asset.ID
	var paths []string
	c.SetModifiedCallback(func(id asset.ID, path string) {
		calls = append(calls, id)
		paths = append(paths, path)
	})

	assert.Empty(t, c.UpdateFileWatchers())

	writeFile(t, touched, "ID: 1\nDeps: [2]\n")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(touched, future, future))

	changed := c.UpdateFileWatchers()
	assert.Equal(t, []asset.ID{1}, changed)
	assert.Equal(t, []asset.ID{1}, calls)
	assert.Equal(t, []string{touched}, paths)
	assert.Equal(t, []asset.ID{2}, c.Dependencies(1), "changed files are inspected again")
	assert.Equal(t, []asset.ID{1}, c.Dependents(2))

	assert.Empty(t, c.UpdateFileWatchers())
	assert.Len(t, calls, 1)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"MissingHeader", "Assets: []\n"},
		{"WrongVersion", "AssetDatabase: {Version: \"9.9\"}\nAssets: []\n"},
		{"MissingUUID", "AssetDatabase: {Version: \"1.0\"}\nAssets:\n  - {Path: a.lumesh, Type: 3}\n"},
		{"Malformed", "AssetDatabase: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode([]byte(tt.doc))
			assert.True(t, errors.Is(err, asset.ErrParse), err)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	c := newCatalog()
	assert.ErrorIs(t, c.Load(), asset.ErrNoPathSet)

	root, _ := newProject(t)
	require.NoError(t, c.Initialize(root, "Assets"))
	require.NoError(t, os.Remove(c.FilePath()))
	assert.ErrorIs(t, c.Load(), asset.ErrNotFound)
}

func TestPaths(t *testing.T) {
	root, assets := newProject(t)
	c := newCatalog()
	require.NoError(t, c.Initialize(root, "Assets"))

	abs := filepath.Join(assets, "x", "y.lumat")
	assert.Equal(t, filepath.Join("x", "y.lumat"), c.RelativePath(abs))
	assert.Equal(t, abs, c.AbsolutePath("x/y.lumat"))
	outside := filepath.Join(root, "elsewhere.lumat")
	assert.Equal(t, outside, c.RelativePath(outside))
	assert.Equal(t, assets, c.AssetsFolder())
}
