package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"asset-core/feature/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	pf.SetID(900)
	pf.AddEntity(content.Entity{
		EntityID:   1,
		Components: []content.Component{{Type: "MeshComponent", References: []content.Reference{{Kind: "Mesh", ID: 42}}}},
	})
	require.NoError(t, pf.SaveToFile(filepath.Join(assets, "crate.luprefab")))
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		projectRoot = ""
		rescan = false
		checkOnlyIndex = false
		jsonVerify = false
		skipIndexVerify = false
		skipStoreVerify = false
	})
	err := RootCmd.Execute()
	return out.String(), err
}

func TestScanCommand(t *testing.T) {
	root := newProject(t)

	out, err := run(t, "scan", "--root", root, "--config-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Assets: 2")
	assert.Contains(t, out, "Mesh")
	assert.FileExists(t, filepath.Join(root, ".lnxast"))
}

func TestDepsCommand(t *testing.T) {
	root := newProject(t)

	out, err := run(t, "deps", "42", "--root", root, "--config-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "42 cube.lumesh (Mesh)")
	assert.Contains(t, out, "Dependents: 1\n  900 crate.luprefab")

	out, err = run(t, "deps", "crate.luprefab", "--root", root, "--config-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Dependencies: 1\n  42 cube.lumesh")

	_, err = run(t, "deps", "nope.lumesh", "--root", root, "--config-dir", t.TempDir())
	assert.Error(t, err)
}

func TestIndexThenVerify(t *testing.T) {
	root := newProject(t)
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_NAME", filepath.Join(t.TempDir(), "index.db"))

	out, err := run(t, "index", "--root", root, "--config-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 records, 1 dependency edges")
	assert.Contains(t, out, "Index schema OK")

	out, err = run(t, "verify", "--skip-storage", "--root", root, "--config-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Total Paths: 2")
	assert.Contains(t, out, "Index Missing: 0")
	assert.Contains(t, out, "Storage Missing: 2")
	assert.Contains(t, out, "Mismatch: 0")
}
