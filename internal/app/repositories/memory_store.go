package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
)

// MemoryStore keeps tables and collections in process. It backs the memory
// drivers and the tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]models.Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]models.Record)}
}

// Put appends rows to table.
func (s *MemoryStore) Put(table string, rows ...models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.tables[table] = append(s.tables[table], r.Clone())
	}
}

func (s *MemoryStore) snapshot(ctx context.Context, table string) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.tables[table]
	out := make([]models.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out, nil
}

func (s *MemoryStore) Find(ctx context.Context, table, field, value string) ([]models.Record, error) {
	rows, err := s.snapshot(ctx, table)
	if err != nil {
		return nil, err
	}
	return filterRecords(rows, field, value), nil
}

func (s *MemoryStore) FindIn(ctx context.Context, table, field string, values []string) ([]models.Record, error) {
	rows, err := s.snapshot(ctx, table)
	if err != nil {
		return nil, err
	}
	return filterRecords(rows, field, values...), nil
}

func (s *MemoryStore) All(ctx context.Context, table string) ([]models.Record, error) {
	return s.snapshot(ctx, table)
}

func (s *MemoryStore) ReplaceTable(ctx context.Context, table string, rows []models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	copied := make([]models.Record, len(rows))
	for i, r := range rows {
		copied[i] = r.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = copied
	return nil
}

// Insert checks uniqueness and appends under one lock, so concurrent inserts
// of the same key cannot both succeed.
func (s *MemoryStore) Insert(ctx context.Context, collection string, doc models.Record, unique []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, field := range unique {
		value := doc.String(field)
		if value == "" {
			continue
		}
		for _, existing := range s.tables[collection] {
			if existing.String(field) == value {
				return apperrors.NewConflictError(fmt.Sprintf("%s already exists", field))
			}
		}
	}

	s.tables[collection] = append(s.tables[collection], doc.Clone())
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]models.Record, error) {
	return s.snapshot(ctx, collection)
}
