package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pantrygo/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is a simple in-memory ItemStore used in tests and local
// development. It mirrors the persistent store's behavior, including the
// derived lowercase name invariant.
type MemoryStore struct {
	mu    sync.Mutex
	items []models.Item
	err   error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryStore) ListAll(ctx context.Context) ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemoryStore) FindByExactLowercaseName(ctx context.Context, term string) ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	lowered := strings.ToLower(term)
	var out []models.Item
	for _, item := range m.items {
		if item.NameLowercase == lowered {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, item *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.NameLowercase = strings.ToLower(item.Name)
	m.items = append(m.items, *item)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, item models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.items {
		if m.items[i].ID == id {
			item.ID = id
			item.NameLowercase = strings.ToLower(item.Name)
			m.items[i] = item
			return nil
		}
	}
	return fmt.Errorf("item %s not found", id)
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}
