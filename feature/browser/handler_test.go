package browser_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"asset-core/core/catalog"
	"asset-core/core/feature"
	"asset-core/core/loader"
	"asset-core/core/metrics"
	"asset-core/core/registry"
	"asset-core/core/session"
	"asset-core/feature/browser"
	"asset-core/feature/content"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*fiber.App, *session.Session, string) {
	t.Helper()
	root := t.TempDir()
	assets := filepath.Join(root, "Assets")
	require.NoError(t, os.MkdirAll(assets, 0o755))

	mesh := content.NewMesh("cube", "")
	mesh.SetID(42)
	require.NoError(t, mesh.SaveToFile(filepath.Join(assets, "cube.lumesh")))

	pf := content.NewPrefab("crate")
	pf.SetID(900)
	pf.AddEntity(content.Entity{
		EntityID:   1,
		Components: []content.Component{{Type: "MeshComponent", References: []content.Reference{{Kind: "Mesh", ID: 42}}}},
	})
	require.NoError(t, pf.SaveToFile(filepath.Join(assets, "crate.luprefab")))

	m := metrics.NewCollector("test")
	s := session.New(session.Config{
		Project:  catalog.Config{Root: root, AssetsFolder: "Assets"},
		Registry: registry.Config{CheckInterval: time.Second},
		Loader:   loader.Config{Workers: 1},
	}, zap.NewNop(), m, content.Inspectors(), content.RegisterFactories)
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	mgr := feature.NewManager(nil)
	mgr.Register(browser.NewFeature(s, m, zap.NewNop()))
	app := fiber.New()
	require.NoError(t, mgr.LoadAll(app))
	return app, s, assets
}

func get(t *testing.T, app *fiber.App, method, path string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil), 2000)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == fiber.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestCatalogRoutes(t *testing.T) {
	app, _, _ := setup(t)

	t.Run("List", func(t *testing.T) {
		var recs []browser.RecordView
		require.Equal(t, fiber.StatusOK, get(t, app, "GET", "/catalog", &recs))
		require.Len(t, recs, 2)
		assert.Equal(t, "42", recs[0].ID)
		assert.Equal(t, "Mesh", recs[0].Type)
		assert.Equal(t, "900", recs[1].ID)
		assert.Equal(t, []string{"42"}, recs[1].Dependencies)
	})

	t.Run("ListByType", func(t *testing.T) {
		var recs []browser.RecordView
		require.Equal(t, fiber.StatusOK, get(t, app, "GET", "/catalog?type=prefab", &recs))
		require.Len(t, recs, 1)
		assert.Equal(t, "crate.luprefab", recs[0].Path)

		assert.Equal(t, fiber.StatusBadRequest, get(t, app, "GET", "/catalog?type=spaceship", nil))
	})

	t.Run("Record", func(t *testing.T) {
		var rec browser.RecordView
		require.Equal(t, fiber.StatusOK, get(t, app, "GET", "/catalog/42", &rec))
		assert.Equal(t, "cube", rec.Name)
		assert.NotEmpty(t, rec.ModTime)

		assert.Equal(t, fiber.StatusNotFound, get(t, app, "GET", "/catalog/7", nil))
		assert.Equal(t, fiber.StatusBadRequest, get(t, app, "GET", "/catalog/abc", nil))
	})

	t.Run("Edges", func(t *testing.T) {
		var deps struct {
			Dependencies []string `json:"dependencies"`
		}
		require.Equal(t, fiber.StatusOK, get(t, app, "GET", "/catalog/900/dependencies", &deps))
		assert.Equal(t, []string{"42"}, deps.Dependencies)

		var dependents struct {
			Dependents []string `json:"dependents"`
		}
		require.Equal(t, fiber.StatusOK, get(t, app, "GET", "/catalog/42/dependents", &dependents))
		assert.Equal(t, []string{"900"}, dependents.Dependents)

		assert.Equal(t, fiber.StatusNotFound, get(t, app, "GET", "/catalog/7/dependencies", nil))
	})
}

func TestScanRoute(t *testing.T) {
	app, _, assets := setup(t)

	mat := content.NewMaterial("wood")
	require.NoError(t, mat.SaveToFile(filepath.Join(assets, "wood.lumat")))

	var res browser.ScanResult
	require.Equal(t, fiber.StatusOK, get(t, app, "POST", "/catalog/scan", &res))
	assert.Equal(t, 3, res.Assets)
	assert.True(t, res.Persisted)
}

func TestRegistryAndLoaderRoutes(t *testing.T) {
	app, s, _ := setup(t)

	mesh, err := registry.Load[content.Mesh](s.Registry(), s.Catalog().AbsolutePath("cube.lumesh"))
	require.NoError(t, err)

	var cached []browser.CachedView
	require.Equal(t, fiber.StatusOK, get(t, app, "GET", "/registry?type=mesh", &cached))
	require.Len(t, cached, 1)
	assert.Equal(t, "42", cached[0].ID)
	assert.Equal(t, "loaded", cached[0].State)

	var progress browser.ProgressView
	require.Equal(t, fiber.StatusOK, get(t, app, "GET", "/loader/progress", &progress))
	assert.True(t, progress.Started)
	assert.Equal(t, 0, progress.Pending)
	assert.Equal(t, 1.0, progress.Progress)

	// Keep the mesh strongly reachable until the registry was queried.
	assert.Equal(t, "cube", mesh.Name())
}

func TestMetricsRoute(t *testing.T) {
	app, s, _ := setup(t)
	_, err := registry.Load[content.Mesh](s.Registry(), s.Catalog().AbsolutePath("cube.lumesh"))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test_registry_loads_total")
	assert.Contains(t, string(body), "test_catalog_assets 2")
}
