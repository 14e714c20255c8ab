package index

import (
	"context"
	"regexp"
	"testing"

	"asset-core/core/asset"
	"asset-core/core/catalog"
	"asset-core/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const highBit = asset.ID(1<<63 | 5)

func memoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New("", zap.NewNop(), nil, nil)
	c.RegisterAsset(catalog.Record{ID: 42, RelativePath: "cube.lumesh", Type: asset.TypeMesh, Name: "cube"})
	c.RegisterAsset(catalog.Record{ID: 77, RelativePath: "wood.lumat", Type: asset.TypeMaterial, Name: "wood", Dependencies: []asset.ID{highBit}})
	c.RegisterAsset(catalog.Record{ID: 900, RelativePath: "crate.luprefab", Type: asset.TypePrefab, Name: "crate", Dependencies: []asset.ID{42, 77, 42}})
	c.RegisterAsset(catalog.Record{ID: highBit, RelativePath: "wood.png", Type: asset.TypeTexture, Name: "wood"})
	return c
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memoryDB(t), zap.NewNop())
	require.NoError(t, svc.Migrate(ctx))

	res, err := svc.Sync(ctx, newCatalog(t))
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Records: 4, Edges: 3}, res)

	deps, err := svc.Dependents(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []asset.ID{900}, deps)

	deps, err = svc.Dependencies(ctx, 900)
	require.NoError(t, err)
	assert.Equal(t, []asset.ID{42, 77}, deps)

	deps, err = svc.Dependents(ctx, highBit)
	require.NoError(t, err)
	assert.Equal(t, []asset.ID{77}, deps)

	rec, err := svc.Record(ctx, highBit)
	require.NoError(t, err)
	assert.Equal(t, "Texture", rec.Type)
	assert.Equal(t, highBit, fromColumn(rec.ID))

	_, err = svc.Record(ctx, 1)
	assert.ErrorIs(t, err, asset.ErrNotFound)

	entries, err := svc.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.Equal(t, highBit.String(), entries["wood.png"].ID)
	assert.Equal(t, "Prefab", entries["crate.luprefab"].Type)
}

func TestSync_Replaces(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memoryDB(t), nil)
	require.NoError(t, svc.Migrate(ctx))

	cat := newCatalog(t)
	_, err := svc.Sync(ctx, cat)
	require.NoError(t, err)

	cat.UnregisterAsset(900)
	res, err := svc.Sync(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Records: 3, Edges: 1}, res)

	deps, err := svc.Dependents(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("Migrated", func(t *testing.T) {
		svc := NewService(memoryDB(t), nil)
		require.NoError(t, svc.Migrate(ctx))
		assert.NoError(t, svc.Check())
	})

	t.Run("MissingTables", func(t *testing.T) {
		svc := NewService(memoryDB(t), nil)
		err := svc.Check()
		assert.ErrorIs(t, err, ErrSchemaMismatch)
		assert.ErrorContains(t, err, "asset_records: table missing")
	})

	t.Run("MissingColumn", func(t *testing.T) {
		db := memoryDB(t)
		require.NoError(t, db.Exec("CREATE TABLE asset_records (id INTEGER PRIMARY KEY, path TEXT)").Error)
		require.NoError(t, db.AutoMigrate(&AssetDependency{}))

		err := NewService(db, nil).Check()
		assert.ErrorIs(t, err, ErrSchemaMismatch)
		assert.ErrorContains(t, err, "asset_records.mod_time: column missing")
	})
}

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: conn, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestDependents_MySQL(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `asset_id` FROM `asset_dependencies` WHERE depends_on = ? ORDER BY asset_id")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"asset_id"}).AddRow(int64(900)).AddRow(int64(-1)))

	deps, err := NewService(db, nil).Dependents(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, []asset.ID{900, asset.ID(1<<64 - 1)}, deps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheck_MySQL(t *testing.T) {
	db, mock := mockDB(t)
	columns := []string{"Field", "Type", "Null", "Key", "Default", "Extra"}

	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `asset_records`")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("id", "bigint", "NO", "PRI", nil, "").
			AddRow("path", "varchar(512)", "YES", "UNI", nil, "").
			AddRow("type", "varchar(32)", "YES", "MUL", nil, "").
			AddRow("name", "varchar(255)", "YES", "", nil, "").
			AddRow("size", "bigint", "YES", "", nil, "").
			AddRow("mod_time", "datetime(3)", "YES", "", nil, "").
			AddRow("has_thumbnail", "tinyint(1)", "YES", "", nil, "").
			AddRow("synced_at", "datetime(3)", "YES", "", nil, ""))
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `asset_dependencies`")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("asset_id", "bigint", "NO", "PRI", nil, ""))

	err := NewService(db, nil).Check()
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.ErrorContains(t, err, "asset_dependencies.depends_on: column missing")
	assert.NotContains(t, err.Error(), "asset_records")
	assert.NoError(t, mock.ExpectationsWereMet())
}
