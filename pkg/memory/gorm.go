package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/model"
)

// Ensure GormStore implements Store
var _ Store = (*GormStore)(nil)

// GormStore persists settings in the orchestra_options table
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Put upserts the JSON encoding of value
func (s *GormStore) Put(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}

	err = s.db.WithContext(ctx).Exec(`
		INSERT INTO orchestra_options (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, string(data)).Error
	if err != nil {
		return fmt.Errorf("store setting %s: %w", key, err)
	}
	return nil
}

// Get decodes the stored value into dest
func (s *GormStore) Get(ctx context.Context, key string, dest interface{}) error {
	var rows []model.Option
	err := s.db.WithContext(ctx).Raw(`SELECT name, value FROM orchestra_options WHERE name = ?`, key).Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("load setting %s: %w", key, err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	if err := json.Unmarshal([]byte(rows[0].Value), dest); err != nil {
		return fmt.Errorf("decode setting %s: %w", key, err)
	}
	return nil
}
