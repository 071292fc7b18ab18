package repositories

import (
	"context"

	"github.com/yigit/studentcrm/internal/app/models"
)

// DocumentStore persists free-form documents per collection.
type DocumentStore interface {
	// Insert stores doc. A doc sharing a non-empty value of any unique field with
	// an existing doc of the same collection is rejected with apperrors.ErrConflict.
	Insert(ctx context.Context, collection string, doc models.Record, unique []string) error
	// List returns the collection in insertion order.
	List(ctx context.Context, collection string) ([]models.Record, error)
}
