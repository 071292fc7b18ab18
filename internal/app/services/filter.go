package services

import (
	"strings"
	"time"

	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/models/dto"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
	"github.com/yigit/studentcrm/internal/pkg/helpers"
)

// RecordFilter narrows list results. The zero value keeps everything.
type RecordFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Query  string
}

// filterFields names the status and date columns of one domain.
type filterFields struct {
	status string
	date   string
}

var (
	communicationFilterFields = filterFields{status: "Call Status", date: "Date"}
	sessionFilterFields       = filterFields{status: "Status", date: "Date of Session"}
	assignmentFilterFields    = filterFields{status: "Submit(Y/N)", date: "Date of submission"}
	timelineFilterFields      = filterFields{status: "status", date: "date"}
)

// ParseRecordFilter validates the raw query values. Unparsable bounds are a
// validation error.
func ParseRecordFilter(q dto.RecordFilterQuery) (RecordFilter, error) {
	f := RecordFilter{
		Status: strings.TrimSpace(q.Status),
		Query:  strings.ToLower(strings.TrimSpace(q.Q)),
	}

	bounds := []struct {
		name  string
		value string
		dst   **time.Time
	}{
		{"from", q.From, &f.From},
		{"to", q.To, &f.To},
	}
	for _, b := range bounds {
		if strings.TrimSpace(b.value) == "" {
			continue
		}
		t, err := helpers.ParseDate(b.value)
		if err != nil {
			return RecordFilter{}, apperrors.NewValidationError("invalid " + b.name + " date").
				WithDetails(map[string]interface{}{b.name: b.value})
		}
		*b.dst = &t
	}

	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return RecordFilter{}, apperrors.NewValidationError("from must not be after to")
	}
	return f, nil
}

// IsZero reports whether the filter keeps every row.
func (f RecordFilter) IsZero() bool {
	return f.Status == "" && f.From == nil && f.To == nil && f.Query == ""
}

func (f RecordFilter) apply(rows []models.Record, fields filterFields) []models.Record {
	if f.IsZero() {
		return rows
	}
	out := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		if f.matches(r, fields) {
			out = append(out, r)
		}
	}
	return out
}

func (f RecordFilter) matches(r models.Record, fields filterFields) bool {
	if f.Status != "" && r.String(fields.status) != f.Status {
		return false
	}

	if f.From != nil || f.To != nil {
		d, err := helpers.ParseDate(r.String(fields.date))
		if err != nil {
			return false
		}
		if f.From != nil && d.Before(*f.From) {
			return false
		}
		if f.To != nil && d.After(*f.To) {
			return false
		}
	}

	if f.Query != "" {
		found := false
		for _, v := range r {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), f.Query) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
