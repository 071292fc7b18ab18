package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/studentcrm/internal/app/models"
	appRepos "github.com/yigit/studentcrm/internal/app/repositories"
)

// TableResult is the outcome for one table file
type TableResult struct {
	Table   string
	Rows    int
	Skipped bool
	Err     error
}

// CheckDirectory parses every known table file under dir without writing
// anywhere. Missing files are reported as skipped; unreadable or malformed
// files make the returned error non-nil.
func CheckDirectory(ctx context.Context, dir string) ([]TableResult, error) {
	source := appRepos.NewJSONFileSource(dir)
	results := make([]TableResult, 0, len(appModels.AllTables()))
	var finalErr error

	for _, table := range appModels.AllTables() {
		res := TableResult{Table: table.Name}
		if _, err := os.Stat(source.Path(table.Name)); errors.Is(err, os.ErrNotExist) {
			res.Skipped = true
			results = append(results, res)
			continue
		}

		rows, err := source.All(ctx, table.Name)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			res.Err = err
			finalErr = errors.Join(finalErr, fmt.Errorf("%s: %w", table.Name, err))
		}
		res.Rows = len(rows)
		results = append(results, res)
	}
	return results, finalErr
}

// ImportDirectory loads every known table file under dir into writer,
// replacing each table's current contents. A failing table does not stop
// the others; all failures are joined into the returned error.
func ImportDirectory(ctx context.Context, dir string, writer appRepos.RecordWriter, lgr zerolog.Logger) ([]TableResult, error) {
	source := appRepos.NewJSONFileSource(dir)
	results := make([]TableResult, 0, len(appModels.AllTables()))
	var finalErr error

	lgr.Info().Str("dir", dir).Msg("Importing record tables...")
	for _, table := range appModels.AllTables() {
		res := TableResult{Table: table.Name}

		if _, err := os.Stat(source.Path(table.Name)); errors.Is(err, os.ErrNotExist) {
			lgr.Warn().Str("table", table.Name).Msg("Table file not found, skipping")
			res.Skipped = true
			results = append(results, res)
			continue
		}

		rows, err := source.All(ctx, table.Name)
		if err == nil {
			err = writer.ReplaceTable(ctx, table.Name, rows)
		}
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			lgr.Error().Err(err).Str("table", table.Name).Msg("Error importing table")
			res.Err = err
			finalErr = errors.Join(finalErr, fmt.Errorf("%s: %w", table.Name, err))
			results = append(results, res)
			continue
		}

		res.Rows = len(rows)
		lgr.Debug().Str("table", table.Name).Int("rows", res.Rows).Msg("Table imported")
		results = append(results, res)
	}

	lgr.Info().Int("tables", len(results)).Msg("Record import finished")
	return results, finalErr
}
