package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/repositories"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
	"github.com/yigit/studentcrm/internal/pkg/helpers"
	"github.com/yigit/studentcrm/internal/pkg/validation"
)

// ResourceService creates and lists documents of one collection.
type ResourceService struct {
	schema models.ResourceSchema
	store  repositories.DocumentStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewResourceService creates a new ResourceService for schema
func NewResourceService(schema models.ResourceSchema, store repositories.DocumentStore, logger zerolog.Logger) *ResourceService {
	return &ResourceService{
		schema: schema,
		store:  store,
		logger: logger.With().Str("service", "resource").Str("collection", schema.Collection).Logger(),
		now:    time.Now,
	}
}

// Schema returns the collection description the service enforces.
func (s *ResourceService) Schema() models.ResourceSchema {
	return s.schema
}

// Create validates doc, fills defaults, converts date fields and stores it.
// The stored document is returned.
func (s *ResourceService) Create(ctx context.Context, doc models.Record) (models.Record, error) {
	if len(doc) == 0 {
		return nil, apperrors.NewValidationError("Request body must be a non-empty JSON object")
	}
	if missing := validation.MissingFields(doc, s.schema.Required); len(missing) > 0 {
		return nil, apperrors.NewValidationError("Missing required fields: " + strings.Join(missing, ", ")).
			WithDetails(map[string]interface{}{"missing": missing})
	}

	out := doc.Clone()
	for field, value := range s.schema.Defaults {
		if !out.Has(field) {
			out[field] = value
		}
	}

	for _, field := range s.schema.DateFields {
		raw, ok := out[field].(string)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		t, err := parseResourceDate(raw)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid date in "+field+", expected DD-MM-YYYY").
				WithDetails(map[string]interface{}{field: raw})
		}
		out[field] = t
	}

	if !out.Has("_id") {
		out["_id"] = uuid.NewString()
	}
	out["createdAt"] = s.now().UTC()

	if err := s.store.Insert(ctx, s.schema.Collection, out, s.schema.Unique); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("id", out.String("_id")).Msg("Document created")
	return out, nil
}

// List returns every document of the collection.
func (s *ResourceService) List(ctx context.Context) ([]models.Record, error) {
	docs, err := s.store.List(ctx, s.schema.Collection)
	if err != nil {
		return nil, err
	}
	return nonNil(docs), nil
}

// parseResourceDate accepts DD-MM-YYYY first and then any of the ISO layouts.
func parseResourceDate(raw string) (time.Time, error) {
	if t, err := helpers.ParseDayFirstDate(raw); err == nil {
		return t, nil
	}
	return helpers.ParseDate(raw)
}
