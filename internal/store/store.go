package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pantrygo/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite" // SQLite driver
)

// ItemStore is the persistence interface for pantry items. The remote
// collection is the single source of truth; callers always re-fetch after a
// mutation rather than patching local state.
type ItemStore interface {
	ListAll(ctx context.Context) ([]models.Item, error)
	FindByExactLowercaseName(ctx context.Context, term string) ([]models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, id string, item models.Item) error
	Delete(ctx context.Context, id string) error
}

// GormStore implements ItemStore on top of a GORM-managed SQLite database.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the database at path, runs migrations, and configures the
// connection pool.
func Open(path string) (*GormStore, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(100)
	db.DB().SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.Item{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate inventory schema: %w", err)
	}

	return &GormStore{db: db}, nil
}

// NewGormStore wraps an already-open database connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Close closes the underlying database connection.
func (s *GormStore) Close() error {
	return s.db.Close()
}

// ListAll returns every item in the collection in one query. No ordering
// guarantee beyond whatever the database iterates.
func (s *GormStore) ListAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// FindByExactLowercaseName returns items whose derived lowercase name
// exactly equals the lowered term. Equality only, never substring.
func (s *GormStore) FindByExactLowercaseName(ctx context.Context, term string) ([]models.Item, error) {
	var items []models.Item
	err := s.db.Where("name_lowercase = ?", strings.ToLower(term)).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search inventory: %w", err)
	}
	return items, nil
}

// Create assigns a new id and writes the item. NameLowercase is derived in
// the same write by the model's save hook.
func (s *GormStore) Create(ctx context.Context, item *models.Item) error {
	if err := s.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// Update overwrites all fields of the item with the given id in a single
// document write. An unknown id propagates the store error unclassified.
func (s *GormStore) Update(ctx context.Context, id string, item models.Item) error {
	var existing models.Item
	if err := s.db.Where("id = ?", id).First(&existing).Error; err != nil {
		return fmt.Errorf("failed to update item %s: %w", id, err)
	}

	item.ID = id
	if err := s.db.Save(&item).Error; err != nil {
		return fmt.Errorf("failed to update item %s: %w", id, err)
	}
	return nil
}

// Delete removes the item. Deleting an id that does not exist is harmless.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := s.db.Where("id = ?", id).Delete(&models.Item{}).Error; err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	return nil
}
