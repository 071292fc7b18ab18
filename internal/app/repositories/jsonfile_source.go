package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
)

// JSONFileSource reads <dir>/<table>.json on every call, so edits to the
// files show up on the next request.
type JSONFileSource struct {
	dir string
}

// NewJSONFileSource creates a source over dir.
func NewJSONFileSource(dir string) *JSONFileSource {
	return &JSONFileSource{dir: dir}
}

// Path returns the file backing table.
func (s *JSONFileSource) Path(table string) string {
	return filepath.Join(s.dir, table+".json")
}

func (s *JSONFileSource) load(ctx context.Context, table string) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(table))
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("read table %s", table), err)
	}

	var rows []models.Record
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("parse table %s", table), err)
	}
	if rows == nil {
		rows = []models.Record{}
	}
	return rows, nil
}

func (s *JSONFileSource) Find(ctx context.Context, table, field, value string) ([]models.Record, error) {
	rows, err := s.load(ctx, table)
	if err != nil {
		return nil, err
	}
	return filterRecords(rows, field, value), nil
}

func (s *JSONFileSource) FindIn(ctx context.Context, table, field string, values []string) ([]models.Record, error) {
	rows, err := s.load(ctx, table)
	if err != nil {
		return nil, err
	}
	return filterRecords(rows, field, values...), nil
}

func (s *JSONFileSource) All(ctx context.Context, table string) ([]models.Record, error) {
	return s.load(ctx, table)
}
