package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"asset-core/core/asset"
	"asset-core/core/catalog"
	"asset-core/core/loader"
	"asset-core/core/registry"
	"asset-core/feature/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	assets := filepath.Join(root, "Assets")
	require.NoError(t, os.MkdirAll(assets, 0o755))

	mesh := content.NewMesh("cube", "")
	mesh.SetID(42)
	require.NoError(t, mesh.SaveToFile(filepath.Join(assets, "cube.lumesh")))

	pf := content.NewPrefab("crate")
	pf.AddEntity(content.Entity{
		EntityID:   1,
		Tag:        "Crate",
		Components: []content.Component{{Type: "MeshComponent", References: []content.Reference{{Kind: "Mesh", ID: 42}}}},
	})
	require.NoError(t, pf.SaveToFile(filepath.Join(assets, "crate.luprefab")))
	return root
}

func open(t *testing.T, root string) *Session {
	t.Helper()
	cfg := Config{
		Project:  catalog.Config{Root: root, AssetsFolder: "Assets"},
		Registry: registry.Config{CheckInterval: time.Second},
		Loader:   loader.Config{Workers: 2},
	}
	s := New(cfg, zap.NewNop(), nil, content.Inspectors(), content.RegisterFactories)
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	root := newProject(t)
	s := open(t, root)

	assert.Equal(t, 2, s.Catalog().Count())
	assert.FileExists(t, filepath.Join(root, catalog.DefaultFileName))
	assert.True(t, s.Loader().IsStarted())
	assert.True(t, s.Registry().HasFactory(asset.TypeMesh))
	assert.Len(t, s.Catalog().Dependents(42), 1)

	// Opening twice is a no-op.
	require.NoError(t, s.Open(context.Background()))
}

func TestTick_HotReloadsOnce(t *testing.T) {
	root := newProject(t)
	s := open(t, root)
	meshPath := s.Catalog().AbsolutePath("cube.lumesh")

	mesh, err := registry.Load[content.Mesh](s.Registry(), meshPath)
	require.NoError(t, err)

	var events []registry.ReloadEvent
	s.Registry().OnReload(func(ev registry.ReloadEvent) { events = append(events, ev) })

	edited := content.NewMesh("cube-edited", "")
	edited.SetID(42)
	require.NoError(t, edited.SaveToFile(meshPath))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(meshPath, future, future))

	s.Tick(500 * time.Millisecond)
	assert.Empty(t, events)

	s.Tick(500 * time.Millisecond)
	require.Len(t, events, 1)
	assert.Equal(t, asset.ID(42), events[0].ID)

	fresh, err := registry.Get[content.Mesh](s.Registry(), 42)
	require.NoError(t, err)
	assert.Equal(t, "cube-edited", fresh.Name())
	assert.NotSame(t, mesh, fresh)

	s.Tick(time.Second)
	assert.Len(t, events, 1)
}

func TestTick_DeliversAsyncLoads(t *testing.T) {
	root := newProject(t)
	s := open(t, root)

	var got *content.Prefab
	_, err := loader.LoadAsync[content.Prefab](s.Loader(), s.Catalog().AbsolutePath("crate.luprefab"), func(p *content.Prefab, err error) {
		assert.NoError(t, err)
		got = p
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s.Tick(10 * time.Millisecond)
		return got != nil
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []asset.ID{42}, got.Dependencies())
}

func TestSessionsAreIsolated(t *testing.T) {
	a := open(t, newProject(t))
	b := open(t, newProject(t))

	_, err := registry.Load[content.Mesh](a.Registry(), a.Catalog().AbsolutePath("cube.lumesh"))
	require.NoError(t, err)

	assert.Equal(t, 1, a.Registry().Count())
	assert.Equal(t, 0, b.Registry().Count())
	assert.NotSame(t, a.Catalog(), b.Catalog())
}

func TestClose(t *testing.T) {
	root := newProject(t)
	s := open(t, root)

	s.Catalog().RegisterAsset(catalog.Record{ID: 7, RelativePath: "textures/new.png", Type: asset.TypeTexture, Name: "new"})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Open(context.Background()), loader.ErrClosed)

	reopened := open(t, root)
	_, ok := reopened.Catalog().Get(7)
	assert.True(t, ok, "Close persists the catalog")
}
