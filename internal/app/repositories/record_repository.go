package repositories

import (
	"context"

	"github.com/yigit/studentcrm/internal/app/models"
)

// RecordSource is a read-only backend holding every record table.
type RecordSource interface {
	// Find returns the rows of table whose field equals value, in stored order.
	Find(ctx context.Context, table, field, value string) ([]models.Record, error)
	// FindIn returns the rows of table whose field equals any of values.
	FindIn(ctx context.Context, table, field string, values []string) ([]models.Record, error)
	// All returns every row of table.
	All(ctx context.Context, table string) ([]models.Record, error)
}

// RecordWriter replaces the contents of a record table. Used by the importer.
type RecordWriter interface {
	ReplaceTable(ctx context.Context, table string, rows []models.Record) error
}

// RecordRepository is the narrow read interface of one table.
type RecordRepository interface {
	// FindByID returns the first row whose key equals id, or nil, nil when none does.
	FindByID(ctx context.Context, id string) (models.Record, error)
	FindAllByField(ctx context.Context, field, value string) ([]models.Record, error)
	FindAllIn(ctx context.Context, field string, values []string) ([]models.Record, error)
	All(ctx context.Context) ([]models.Record, error)
}

type tableRepository struct {
	source RecordSource
	table  models.Table
}

// NewRecordRepository binds source to one table.
func NewRecordRepository(source RecordSource, table models.Table) RecordRepository {
	return &tableRepository{source: source, table: table}
}

func (r *tableRepository) FindByID(ctx context.Context, id string) (models.Record, error) {
	rows, err := r.source.Find(ctx, r.table.Name, r.table.Key, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *tableRepository) FindAllByField(ctx context.Context, field, value string) ([]models.Record, error) {
	return r.source.Find(ctx, r.table.Name, field, value)
}

func (r *tableRepository) FindAllIn(ctx context.Context, field string, values []string) ([]models.Record, error) {
	if len(values) == 0 {
		return []models.Record{}, nil
	}
	return r.source.FindIn(ctx, r.table.Name, field, values)
}

func (r *tableRepository) All(ctx context.Context) ([]models.Record, error) {
	return r.source.All(ctx, r.table.Name)
}

// filterRecords keeps rows whose field matches one of values. Shared by the
// backends that filter in process.
func filterRecords(rows []models.Record, field string, values ...string) []models.Record {
	want := make(map[string]struct{}, len(values))
	for _, v := range values {
		want[v] = struct{}{}
	}

	out := make([]models.Record, 0)
	for _, row := range rows {
		if _, ok := want[row.String(field)]; ok {
			out = append(out, row)
		}
	}
	return out
}
