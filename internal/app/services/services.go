package services

// Services defined in this package:
// - StudentService: profile, course and assignment views of one student
// - FinanceService: payments with stipend, loan partner and fee, plus earnings
// - CommunicationService: calls with the employee who made them
// - OpportunityService: opportunities with job description and company
// - SessionService: mentor sessions with mentor details
// - TimelineService: raw timeline events
// - SummaryService: dashboard headline figures built on the services above
// - AuthService: signup, login and forgot-password
// - ResourceService: create/list of document collections

import (
	"strings"

	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
)

const notAvailable = "N/A"

// requireStudentID rejects blank ids. Lookups match the id exactly.
func requireStudentID(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", apperrors.NewValidationError("Student ID is required")
	}
	return id, nil
}

func errStudentNotFound() error {
	return apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Student not found")
}

// distinctValues collects the non-empty values of field in first-seen order.
func distinctValues(rows []models.Record, field string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		v := r.String(field)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// recordIndex maps a key to the first row carrying it.
type recordIndex map[string]models.Record

func indexBy(rows []models.Record, field string) recordIndex {
	idx := make(recordIndex, len(rows))
	for _, r := range rows {
		k := r.String(field)
		if _, exists := idx[k]; !exists && k != "" {
			idx[k] = r
		}
	}
	return idx
}

// lookup returns the matching row or an untyped nil, so it serializes as null.
func (idx recordIndex) lookup(key string) interface{} {
	if r, ok := idx[key]; ok && key != "" {
		return r
	}
	return nil
}

func (idx recordIndex) get(key string) models.Record {
	if key == "" {
		return nil
	}
	return idx[key]
}

// nonNil keeps empty results serializing as [] rather than null.
func nonNil(rows []models.Record) []models.Record {
	if rows == nil {
		return []models.Record{}
	}
	return rows
}
