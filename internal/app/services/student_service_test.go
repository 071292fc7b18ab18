package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/models/dto"
	"github.com/yigit/studentcrm/internal/app/repositories"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
)

// fixtureRepos returns repositories over a memory store seeded with rows per table.
func fixtureRepos(t *testing.T, tables map[models.Table][]models.Record) (*repositories.Repositories, *repositories.MemoryStore) {
	t.Helper()
	store := repositories.NewMemoryStore()
	for table, rows := range tables {
		store.Put(table.Name, rows...)
	}
	return repositories.NewRepositories(store, store, repositories.NewMemoryUserRepository()), store
}

func TestGetProfile(t *testing.T) {
	repos, _ := fixtureRepos(t, map[models.Table][]models.Record{
		models.StudentProfilesTable: {
			{"Student_Id": "ABC", "Name": "Asha", "Email_Id": "x@y.com", "Contact_No.": "98765", "University Name": "NLU"},
			{"Student_Id": "NOADDR", "Email_Id": "n@y.com"},
		},
		models.AddressesTable: {
			{"Address_id": "A1", "Student_Id": "ABC", "city": "Pune"},
			{"Address_id": "A2", "Student_Id": "ABC", "city": "Second"},
		},
		models.SkillsTable: {
			{"Student_Id": "ABC", "skills": "Drafting"},
			{"Student_Id": "ABC", "skills": "Research"},
		},
	})
	svc := NewStudentService(repos, zerolog.Nop())
	ctx := context.Background()

	profile, err := svc.GetProfile(ctx, "ABC")
	require.NoError(t, err)
	require.NotNil(t, profile.Address)
	assert.Equal(t, "Pune", profile.Address.City, "first address wins")
	assert.Equal(t, "98765", profile.ContactNo)
	assert.Equal(t, "NLU", profile.UniversityName)
	assert.Equal(t, []interface{}{"Drafting", "Research"}, profile.Skills)

	bare, err := svc.GetProfile(ctx, "NOADDR")
	require.NoError(t, err)
	assert.Nil(t, bare.Address)
	assert.NotNil(t, bare.Skills)
	assert.Empty(t, bare.Skills)

	_, err = svc.GetProfile(ctx, "ZZZ")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = svc.GetProfile(ctx, "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.GetProfile(ctx, " ABC ")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestGetCourseDetails(t *testing.T) {
	repos, _ := fixtureRepos(t, map[models.Table][]models.Record{
		models.EnrollmentsTable: {
			{"Student_Id": "ABC", "student_course_id": "SC1", "course_id": "CR1", "Batch": "B1"},
			{"Student_Id": "ABC", "student_course_id": "SC2", "course_id": "CR2", "batch_id": "B9"},
		},
		models.CoursesTable: {
			{"course_id": "CR1", "Courses": "Contract Law", "brand_id": "BR1"},
			{"course_id": "CR2", "Courses": "Torts", "brand_id": "BR404"},
		},
		models.BrandsTable: {
			{"brand_id": "BR1", "brand": "LawSikho", "domain": "Law", "url": "https://lawsikho.com"},
		},
		models.BatchesTable: {
			{"batch_id": "B1", "name": "Jan"},
		},
	})
	svc := NewStudentService(repos, zerolog.Nop())

	rows, err := svc.GetCourseDetails(context.Background(), "ABC")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]["courses"].([]models.Record)
	require.Len(t, first, 1)
	assert.Equal(t, "LawSikho", first[0]["brand"])
	assert.Equal(t, "Law", first[0]["brandDomain"])
	assert.Equal(t, "https://lawsikho.com", first[0]["brandUrl"])
	assert.Equal(t, models.Record{"batch_id": "B1", "name": "Jan"}, rows[0]["batch"])

	second := rows[1]["courses"].([]models.Record)
	require.Len(t, second, 1)
	assert.Equal(t, notAvailable, second[0]["brand"])
	assert.Equal(t, notAvailable, second[0]["brandUrl"])
	assert.Nil(t, rows[1]["batch"])

	none, err := svc.GetCourseDetails(context.Background(), "ZZZ")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetAssignmentDetails(t *testing.T) {
	repos, _ := fixtureRepos(t, map[models.Table][]models.Record{
		models.EnrollmentsTable: {
			{"Student_Id": "ABC", "student_course_id": "SC1"},
			{"Student_Id": "ABC", "student_course_id": "SC2"},
		},
		models.AssignmentsTable: {
			{"assignment_id": "AS1", "student_course_id": "SC1", "Submit(Y/N)": "Y", "Date of submission": "2024-01-10"},
			{"assignment_id": "AS2", "student_course_id": "SC2", "Submit(Y/N)": "N", "Date of submission": "2024-03-10"},
			{"assignment_id": "AS3", "student_course_id": "OTHER", "Submit(Y/N)": "Y"},
		},
		models.CertificationsTable: {
			{"student_course_id": "SC2", "certificate": "Torts"},
		},
	})
	svc := NewStudentService(repos, zerolog.Nop())
	ctx := context.Background()

	got, err := svc.GetAssignmentDetails(ctx, "ABC", RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, "SC1", got.Student.String("student_course_id"))
	assert.Len(t, got.Assignments, 2, "assignments span every enrollment")
	assert.Len(t, got.Certifications, 1)

	filtered, err := svc.GetAssignmentDetails(ctx, "ABC", RecordFilter{Status: "N"})
	require.NoError(t, err)
	require.Len(t, filtered.Assignments, 1)
	assert.Equal(t, "AS2", filtered.Assignments[0]["assignment_id"])

	_, err = svc.GetAssignmentDetails(ctx, "ZZZ", RecordFilter{})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestParseRecordFilter(t *testing.T) {
	f, err := ParseRecordFilter(dto.RecordFilterQuery{Status: " Completed ", From: "01-01-2024", To: "2024-01-31", Q: "PUNE"})
	require.NoError(t, err)
	assert.Equal(t, "Completed", f.Status)
	assert.Equal(t, "pune", f.Query)
	require.NotNil(t, f.From)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.From)

	zero, err := ParseRecordFilter(dto.RecordFilterQuery{})
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseRecordFilter(dto.RecordFilterQuery{From: "yesterday"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = ParseRecordFilter(dto.RecordFilterQuery{From: "2024-02-01", To: "2024-01-01"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRecordFilterApply(t *testing.T) {
	rows := []models.Record{
		{"Call Status": "Completed", "Date": "2024-01-05", "note": "Pune office"},
		{"Call Status": "Missed", "Date": "2024-01-20", "note": "Delhi"},
		{"Call Status": "Completed", "Date": "not a date", "note": "Pune again"},
	}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter RecordFilter
		want   []string
	}{
		{"zero keeps all", RecordFilter{}, []string{"Pune office", "Delhi", "Pune again"}},
		{"status", RecordFilter{Status: "Completed"}, []string{"Pune office", "Pune again"}},
		{"inclusive range drops unparsable", RecordFilter{From: &from, To: &to}, []string{"Pune office"}},
		{"query", RecordFilter{Query: "pune"}, []string{"Pune office", "Pune again"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range tt.filter.apply(rows, communicationFilterFields) {
				got = append(got, r.String("note"))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
