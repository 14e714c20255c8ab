package publish_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"asset-core/core/catalog"
	"asset-core/core/storage/mocks"
	"asset-core/feature/content"
	"asset-core/feature/publish"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	root := t.TempDir()
	assets := filepath.Join(root, "Assets")
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "textures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "textures", "wood.png"), []byte("1234"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "textures", "stone.png"), []byte("12345678"), 0o644))
	require.NoError(t, content.NewMesh("cube", "").SaveToFile(filepath.Join(assets, "cube.lumesh")))

	c := catalog.New("", zap.NewNop(), nil, content.Inspectors())
	require.NoError(t, c.Initialize(root, "Assets"))
	return c
}

func TestPlan(t *testing.T) {
	cat := newCatalog(t)
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "assets").Return(true, nil)
	client.On("ListObjects", mock.Anything, "assets", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
		return o.Prefix == "proj/assets/" && o.Recursive
	})).Return(mocks.Listing(
		minio.ObjectInfo{Key: "proj/assets/textures/wood.png", Size: 4},
		minio.ObjectInfo{Key: "proj/assets/textures/stone.png", Size: 3},
		minio.ObjectInfo{Key: "proj/assets/old/gone.png", Size: 1},
	))

	svc := publish.NewService(client, "assets", "/proj/", cat, zap.NewNop())
	plan, err := svc.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "proj/.lnxast", plan.CatalogKey)
	assert.Equal(t, 1, plan.UpToDate)
	require.Len(t, plan.Uploads, 2)
	assert.Equal(t, "proj/assets/cube.lumesh", plan.Uploads[0].Key)
	assert.Equal(t, publish.ReasonMissing, plan.Uploads[0].Reason)
	assert.Equal(t, "proj/assets/textures/stone.png", plan.Uploads[1].Key)
	assert.Equal(t, publish.ReasonChanged, plan.Uploads[1].Reason)
	assert.Equal(t, []string{"proj/assets/old/gone.png"}, plan.Orphans)
	client.AssertExpectations(t)
}

func TestPlan_BucketMissing(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "assets").Return(false, nil)

	_, err := publish.NewService(client, "assets", "p", newCatalog(t), nil).Plan(context.Background())
	assert.ErrorIs(t, err, publish.ErrBucketMissing)
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlan_ListError(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "assets").Return(true, nil)
	client.On("ListObjects", mock.Anything, "assets", mock.Anything).
		Return(mocks.Listing(minio.ObjectInfo{Err: errors.New("denied")}))

	_, err := publish.NewService(client, "assets", "p", newCatalog(t), nil).Plan(context.Background())
	assert.ErrorContains(t, err, "denied")
}

func TestPush(t *testing.T) {
	cat := newCatalog(t)
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "assets").Return(true, nil)
	client.On("ListObjects", mock.Anything, "assets", mock.Anything).
		Return(mocks.Listing(minio.ObjectInfo{Key: "p/assets/stale.png", Size: 1}))
	client.On("PutObject", mock.Anything, "assets", mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("RemoveObjects", mock.Anything, "assets", []string{"p/assets/stale.png"}, mock.Anything).
		Return(mocks.RemoveErrors())

	svc := publish.NewService(client, "assets", "p", cat, zap.NewNop())
	plan, err := svc.Plan(context.Background())
	require.NoError(t, err)
	require.Len(t, plan.Uploads, 3)

	res, err := svc.Push(context.Background(), plan, true)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Uploaded, "three assets plus the catalog file")
	assert.Equal(t, 1, res.Removed)

	client.AssertCalled(t, "PutObject", mock.Anything, "assets", "p/.lnxast", mock.Anything, mock.Anything,
		minio.PutObjectOptions{ContentType: "application/yaml"})
	client.AssertCalled(t, "PutObject", mock.Anything, "assets", "p/assets/textures/stone.png", mock.Anything, int64(8), mock.Anything)
	client.AssertNumberOfCalls(t, "PutObject", 4)
}

func TestPush_UploadFailure(t *testing.T) {
	cat := newCatalog(t)
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "assets", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("quota exceeded"))

	svc := publish.NewService(client, "assets", "p", cat, nil)
	plan := &publish.Plan{
		CatalogKey: "p/.lnxast",
		Uploads:    []publish.Upload{{Path: cat.AbsolutePath("cube.lumesh"), Key: "p/assets/cube.lumesh"}},
	}

	res, err := svc.Push(context.Background(), plan, false)
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, 0, res.Uploaded)
	client.AssertNotCalled(t, "PutObject", mock.Anything, "assets", "p/.lnxast", mock.Anything, mock.Anything, mock.Anything)
}

func TestEntries(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "assets", mock.Anything).
		Return(mocks.Listing(
			minio.ObjectInfo{Key: "p/assets/textures/wood.png", Size: 4},
			minio.ObjectInfo{Key: "p/assets/cube.lumesh", Size: 99},
		))

	entries, err := publish.NewService(client, "assets", "p", newCatalog(t), nil).Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int64(4), entries["textures/wood.png"].Size)
	assert.Empty(t, entries["cube.lumesh"].ID)
}
