package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testModel struct {
	ID    int
	Name  string
	Email string `gorm:"uniqueIndex"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db, config.DBDriverSQLite)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed", Email: "a@example.com"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled", Email: "b@example.com"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := NewFromGorm(newTestDB(t), config.DBDriverSQLite)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.Driver() != config.DBDriverSQLite {
		t.Fatalf("unexpected driver %q", client.Driver())
	}
}

func TestNewSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	client, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverSQLite, SQLitePath: path}, nil)
	if err != nil {
		t.Fatalf("open sqlite client: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestNewRejectsMissingDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverPostgres}, nil); err == nil {
		t.Fatal("expected missing DSN error")
	}
	if _, err := New(context.Background(), config.DBConfig{Driver: "oracle"}, nil); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&testModel{Name: "one", Email: "dup@example.com"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := db.Create(&testModel{Name: "two", Email: "dup@example.com"}).Error
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected sqlite unique violation, got %v", err)
	}
	if !IsUniqueViolation(err, "email") {
		t.Fatalf("expected column name match, got %v", err)
	}

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	if !IsUniqueViolation(pgErr, "users_email_key") {
		t.Fatal("expected postgres unique violation")
	}
	if IsUniqueViolation(pgErr, "other_key") {
		t.Fatal("constraint name should be matched")
	}
	if IsUniqueViolation(errors.New("boom"), "") || IsUniqueViolation(nil, "") {
		t.Fatal("unexpected match")
	}
}
