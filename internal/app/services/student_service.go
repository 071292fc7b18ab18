package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/models/dto"
	"github.com/yigit/studentcrm/internal/app/repositories"
)

// StudentService builds the profile, course and coursework views of a student.
type StudentService struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(repos *repositories.Repositories, logger zerolog.Logger) *StudentService {
	return &StudentService{
		repos:  repos,
		logger: logger.With().Str("service", "student").Logger(),
	}
}

// GetProfile returns the student with address and skills. Unknown students
// are a not-found error.
func (s *StudentService) GetProfile(ctx context.Context, studentID string) (*dto.StudentProfileResponse, error) {
	studentID, err := requireStudentID(studentID)
	if err != nil {
		return nil, err
	}

	student, err := s.repos.StudentProfiles.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		s.logger.Debug().Str("studentId", studentID).Msg("Student profile not found")
		return nil, errStudentNotFound()
	}

	addresses, err := s.repos.Addresses.FindAllByField(ctx, models.FieldStudentID, studentID)
	if err != nil {
		return nil, err
	}
	var address models.Record
	if len(addresses) > 0 {
		address = addresses[0]
	}

	skillRows, err := s.repos.Skills.FindAllByField(ctx, models.FieldStudentID, studentID)
	if err != nil {
		return nil, err
	}
	skills := make([]interface{}, 0, len(skillRows))
	for _, row := range skillRows {
		skills = append(skills, row["skills"])
	}

	return dto.NewStudentProfileResponse(student, address, skills), nil
}

// enrollmentBatchID prefers the "Batch" column and falls back to batch_id.
func enrollmentBatchID(enrollment models.Record) string {
	if id := enrollment.String("Batch"); id != "" {
		return id
	}
	return enrollment.String("batch_id")
}

// GetCourseDetails returns one entry per enrollment with its courses (each
// carrying brand fields, "N/A" when the brand is unknown) and its batch.
func (s *StudentService) GetCourseDetails(ctx context.Context, studentID string) ([]models.Record, error) {
	studentID, err := requireStudentID(studentID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.repos.Enrollments.FindAllByField(ctx, models.FieldStudentID, studentID)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return []models.Record{}, nil
	}

	courses, err := s.repos.Courses.FindAllIn(ctx, "course_id", distinctValues(enrollments, "course_id"))
	if err != nil {
		return nil, err
	}
	brands, err := s.repos.Brands.FindAllIn(ctx, "brand_id", distinctValues(courses, "brand_id"))
	if err != nil {
		return nil, err
	}

	batchIDs := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		if id := enrollmentBatchID(e); id != "" {
			batchIDs = append(batchIDs, id)
		}
	}
	batches, err := s.repos.Batches.FindAllIn(ctx, "batch_id", batchIDs)
	if err != nil {
		return nil, err
	}

	brandIdx := indexBy(brands, "brand_id")
	batchIdx := indexBy(batches, "batch_id")

	result := make([]models.Record, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courseID := enrollment.String("course_id")
		enrolled := make([]models.Record, 0, 1)
		for _, course := range courses {
			if courseID == "" || course.String("course_id") != courseID {
				continue
			}
			c := course.Clone()
			if brand := brandIdx.get(course.String("brand_id")); brand != nil {
				c["brand"] = brand["brand"]
				c["brandDomain"] = brand["domain"]
				c["brandUrl"] = brand["url"]
			} else {
				c["brand"] = notAvailable
				c["brandDomain"] = notAvailable
				c["brandUrl"] = notAvailable
			}
			enrolled = append(enrolled, c)
		}

		row := enrollment.Clone()
		row["courses"] = enrolled
		row["batch"] = batchIdx.lookup(enrollmentBatchID(enrollment))
		result = append(result, row)
	}
	return result, nil
}

// GetAssignmentDetails returns the first enrollment row with the assignments
// and certifications of every enrollment of the student.
func (s *StudentService) GetAssignmentDetails(ctx context.Context, studentID string, filter RecordFilter) (*dto.AssignmentDetailsResponse, error) {
	studentID, err := requireStudentID(studentID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.repos.Enrollments.FindAllByField(ctx, models.FieldStudentID, studentID)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, errStudentNotFound()
	}

	courseIDs := distinctValues(enrollments, models.FieldStudentCourseID)

	assignments, err := s.repos.Assignments.FindAllIn(ctx, models.FieldStudentCourseID, courseIDs)
	if err != nil {
		return nil, err
	}
	certifications, err := s.repos.Certifications.FindAllIn(ctx, models.FieldStudentCourseID, courseIDs)
	if err != nil {
		return nil, err
	}

	return &dto.AssignmentDetailsResponse{
		Student:        enrollments[0],
		Assignments:    nonNil(filter.apply(assignments, assignmentFilterFields)),
		Certifications: nonNil(certifications),
	}, nil
}
