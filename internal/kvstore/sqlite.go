package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry row of the kv_store table.
type kvEntry struct {
	Key       string `gorm:"column:item_key;primaryKey"`
	Value     string `gorm:"column:item_value;not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_store" }

// SQLiteBackend persists entries in an embedded SQLite file through gorm.
// It is the on-device default.
type SQLiteBackend struct {
	db *gorm.DB
}

// NewSQLiteBackend wraps db and makes sure the kv_store table exists.
func NewSQLiteBackend(db *gorm.DB) (*SQLiteBackend, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_store: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

var upsertEntry = clause.OnConflict{
	Columns:   []clause.Column{{Name: "item_key"}},
	DoUpdates: clause.AssignmentColumns([]string{"item_value", "updated_at"}),
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var e kvEntry
	err := b.db.WithContext(ctx).Where("item_key = ?", key).Take(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get kv entry: %w", err)
	}
	return e.Value, true, nil
}

func (b *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	e := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := b.db.WithContext(ctx).Clauses(upsertEntry).Create(&e).Error; err != nil {
		return fmt.Errorf("failed to set kv entry: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if err := b.db.WithContext(ctx).Where("item_key = ?", key).Delete(&kvEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete kv entry: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := b.db.WithContext(ctx).Model(&kvEntry{}).
		Where("substr(item_key, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix).
		Order("item_key").
		Pluck("item_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query kv keys: %w", err)
	}
	return keys, nil
}

func (b *SQLiteBackend) MultiGet(ctx context.Context, keys []string) (map[string]string, error) {
	var entries []kvEntry
	if err := b.db.WithContext(ctx).Where("item_key IN ?", keys).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query kv entries: %w", err)
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

func (b *SQLiteBackend) MultiSet(ctx context.Context, items []Item) error {
	now := time.Now()
	entries := make([]kvEntry, len(items))
	for i, it := range items {
		entries[i] = kvEntry{Key: it.Key, Value: it.Value, UpdatedAt: now}
	}
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(upsertEntry).Create(&entries).Error
	})
	if err != nil {
		return fmt.Errorf("failed to set kv entries: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) MultiDelete(ctx context.Context, keys []string) error {
	if err := b.db.WithContext(ctx).Where("item_key IN ?", keys).Delete(&kvEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete kv entries: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
