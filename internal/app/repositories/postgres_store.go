package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
	"github.com/yigit/studentcrm/internal/pkg/dberrors"
)

// PostgresStore keeps record tables in records(collection, body JSONB) and
// document collections in documents(collection, body JSONB).
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a store over db.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectBodies(from, collection string) squirrel.SelectBuilder {
	return psql.Select("body").
		From(from).
		Where(squirrel.Eq{"collection": collection}).
		OrderBy("id")
}

func findRecordsQuery(table, field, value string) squirrel.SelectBuilder {
	return selectBodies("records", table).Where(squirrel.Expr("body->>? = ?", field, value))
}

func findRecordsInQuery(table, field string, values []string) squirrel.SelectBuilder {
	return selectBodies("records", table).Where(squirrel.Expr("body->>? = ANY(?)", field, values))
}

func (s *PostgresStore) query(ctx context.Context, op string, b squirrel.Sqlizer) ([]models.Record, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, apperrors.NewStorageError(op, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dberrors.Wrap(op, err)
	}
	defer rows.Close()

	out := make([]models.Record, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, dberrors.Wrap(op, err)
		}
		var rec models.Record
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, apperrors.NewStorageError(op, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap(op, err)
	}
	return out, nil
}

func (s *PostgresStore) Find(ctx context.Context, table, field, value string) ([]models.Record, error) {
	return s.query(ctx, fmt.Sprintf("find %s", table), findRecordsQuery(table, field, value))
}

func (s *PostgresStore) FindIn(ctx context.Context, table, field string, values []string) ([]models.Record, error) {
	return s.query(ctx, fmt.Sprintf("find %s", table), findRecordsInQuery(table, field, values))
}

func (s *PostgresStore) All(ctx context.Context, table string) ([]models.Record, error) {
	return s.query(ctx, fmt.Sprintf("list %s", table), selectBodies("records", table))
}

// ReplaceTable deletes and bulk-copies the table inside one transaction.
func (s *PostgresStore) ReplaceTable(ctx context.Context, table string, rows []models.Record) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		sql, args, err := psql.Delete("records").Where(squirrel.Eq{"collection": table}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		src := make([][]interface{}, len(rows))
		for i, r := range rows {
			body, err := json.Marshal(r)
			if err != nil {
				return err
			}
			src[i] = []interface{}{table, string(body)}
		}

		_, err = tx.CopyFrom(ctx, pgx.Identifier{"records"}, []string{"collection", "body"}, pgx.CopyFromRows(src))
		return err
	})
	return dberrors.Wrap(fmt.Sprintf("import %s", table), err)
}

// Insert relies on the documents_email_unique index for uniqueness.
func (s *PostgresStore) Insert(ctx context.Context, collection string, doc models.Record, unique []string) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("encode %s", collection), err)
	}

	sql, args, err := psql.Insert("documents").
		Columns("collection", "body").
		Values(collection, string(body)).
		ToSql()
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("insert %s", collection), err)
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("%s already exists", firstOr(unique, "document")))
		}
		return dberrors.Wrap(fmt.Sprintf("insert %s", collection), err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([]models.Record, error) {
	return s.query(ctx, fmt.Sprintf("list %s", collection), selectBodies("documents", collection))
}
