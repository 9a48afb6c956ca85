package migrate

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestRunUpAndDownOnSQLite(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	require.NoError(t, Run(ctx, db, config.DBDriverSQLite, "up"))
	for _, table := range []string{"users", "products", "cart_rows", "orders"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	version, err := CurrentVersion(ctx, db, config.DBDriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(20240601120400), version)

	require.NoError(t, Run(ctx, db, config.DBDriverSQLite, "down"))
	assert.True(t, tableExists(t, db, "orders"))
	version, err = CurrentVersion(ctx, db, config.DBDriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(20240601120300), version)

	require.NoError(t, Run(ctx, db, config.DBDriverSQLite, "down"))
	assert.False(t, tableExists(t, db, "orders"))
	assert.True(t, tableExists(t, db, "cart_rows"))
}

func TestMigrateToVersion(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	require.NoError(t, MigrateToVersion(ctx, db, config.DBDriverSQLite, "20240601120100"))
	assert.True(t, tableExists(t, db, "products"))
	assert.False(t, tableExists(t, db, "cart_rows"))

	statuses, err := Status(ctx, db, config.DBDriverSQLite)
	require.NoError(t, err)
	require.Len(t, statuses, 4)
	assert.Equal(t, goose.StateApplied, statuses[0].State)
	assert.Equal(t, goose.StatePending, statuses[3].State)

	require.NoError(t, MigrateToVersion(ctx, db, config.DBDriverSQLite, "20240601120000"))
	assert.False(t, tableExists(t, db, "products"))

	assert.Error(t, MigrateToVersion(ctx, db, config.DBDriverSQLite, "latest"))
}

func TestDialectFor(t *testing.T) {
	dialect, err := DialectFor(config.DBDriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, goose.DialectPostgres, dialect)

	dialect, err = DialectFor(config.DBDriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, goose.DialectSQLite3, dialect)

	_, err = DialectFor("mysql")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Product Tags!")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{14}_add_product_tags\.sql$`, filepath.Base(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestCreateSQLMigrationRefusesSameSlug(t *testing.T) {
	dir := t.TempDir()
	stamp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock = func() time.Time { return stamp }
	t.Cleanup(func() { clock = time.Now })

	path, err := CreateSQLMigration(dir, "backfill skus")
	require.NoError(t, err)
	assert.Equal(t, "20240601120000_backfill_skus.sql", filepath.Base(path))

	stamp = stamp.Add(time.Minute)
	_, err = CreateSQLMigration(dir, "Backfill SKUs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("20240601120000_one.sql", "-- +goose Up\n-- +goose Down\n")
	write("20240601120000_two.sql", "-- +goose Up\n-- +goose Down\n")
	write("20240601120100_flipped.sql", "-- +goose Down\n-- +goose Up\n")
	write("20240601120200_no_down.sql", "-- +goose Up\n")
	write("notes.txt", "ignored")

	err := ValidateDir(dir)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "already used by 20240601120000_one.sql")
	assert.Contains(t, msg, "20240601120100_flipped.sql: Down section comes before Up")
	assert.Contains(t, msg, "20240601120200_no_down.sql: no -- +goose Down section")
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, ValidateDir(dir))
}
