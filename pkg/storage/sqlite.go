package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type localEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey;type:text"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (localEntry) TableName() string { return "local_entries" }

// SQLite keeps entries in a single gorm-managed table.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the sqlite file at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local sqlite: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return NewSQLite(conn)
}

// NewSQLite wraps an existing connection and ensures the entry table exists.
func NewSQLite(conn *gorm.DB) (*SQLite, error) {
	if err := conn.AutoMigrate(&localEntry{}); err != nil {
		return nil, fmt.Errorf("migrate local entries: %w", err)
	}
	return &SQLite{db: conn}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var entry localEntry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	entry := localEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&localEntry{}).Error
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
