package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/repositories"
)

// CommunicationService lists calls made to a student.
type CommunicationService struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewCommunicationService creates a new CommunicationService
func NewCommunicationService(repos *repositories.Repositories, logger zerolog.Logger) *CommunicationService {
	return &CommunicationService{
		repos:  repos,
		logger: logger.With().Str("service", "communication").Logger(),
	}
}

// GetCommunicationDetails returns the student's calls, each with the employee
// whose employee_id equals the call's Caller_id.
func (s *CommunicationService) GetCommunicationDetails(ctx context.Context, studentID string, filter RecordFilter) ([]models.Record, error) {
	studentID, err := requireStudentID(studentID)
	if err != nil {
		return nil, err
	}

	calls, err := s.repos.Communications.FindAllByField(ctx, models.FieldStudentID, studentID)
	if err != nil {
		return nil, err
	}
	calls = filter.apply(calls, communicationFilterFields)
	if len(calls) == 0 {
		return []models.Record{}, nil
	}

	employees, err := s.repos.Employees.FindAllIn(ctx, "employee_id", distinctValues(calls, "Caller_id"))
	if err != nil {
		return nil, err
	}
	employeeIdx := indexBy(employees, "employee_id")

	result := make([]models.Record, 0, len(calls))
	for _, call := range calls {
		row := call.Clone()
		row["employee"] = employeeIdx.lookup(call.String("Caller_id"))
		result = append(result, row)
	}
	return result, nil
}

// OpportunityService lists placement opportunities of a student.
type OpportunityService struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewOpportunityService creates a new OpportunityService
func NewOpportunityService(repos *repositories.Repositories, logger zerolog.Logger) *OpportunityService {
	return &OpportunityService{
		repos:  repos,
		logger: logger.With().Str("service", "opportunity").Logger(),
	}
}

// GetOpportunityDetails returns opportunities with their job description and
// the company named by that job description.
func (s *OpportunityService) GetOpportunityDetails(ctx context.Context, studentID string) ([]models.Record, error) {
	studentID, err := requireStudentID(studentID)
	if err != nil {
		return nil, err
	}

	opportunities, err := s.repos.Opportunities.FindAllByField(ctx, models.FieldStudentID, studentID)
	if err != nil {
		return nil, err
	}
	if len(opportunities) == 0 {
		return []models.Record{}, nil
	}

	jds, err := s.repos.JobDescriptions.FindAllIn(ctx, "jd_id", distinctValues(opportunities, "jd_id"))
	if err != nil {
		return nil, err
	}
	companies, err := s.repos.Companies.FindAllIn(ctx, "company_id", distinctValues(jds, "company_id"))
	if err != nil {
		return nil, err
	}
	jdIdx := indexBy(jds, "jd_id")
	companyIdx := indexBy(companies, "company_id")

	result := make([]models.Record, 0, len(opportunities))
	for _, opportunity := range opportunities {
		row := opportunity.Clone()
		row["jobDescription"] = nil
		row["companyDetails"] = nil
		if jd := jdIdx.get(opportunity.String("jd_id")); jd != nil {
			row["jobDescription"] = jd
			row["companyDetails"] = companyIdx.lookup(jd.String("company_id"))
		}
		result = append(result, row)
	}
	return result, nil
}

// SessionService lists mentor sessions of a student.
type SessionService struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(repos *repositories.Repositories, logger zerolog.Logger) *SessionService {
	return &SessionService{
		repos:  repos,
		logger: logger.With().Str("service", "session").Logger(),
	}
}

// GetSessionDetails returns sessions with the mentor who ran them.
func (s *SessionService) GetSessionDetails(ctx context.Context, studentID string, filter RecordFilter) ([]models.Record, error) {
	studentID, err := requireStudentID(studentID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repos.Sessions.FindAllByField(ctx, models.FieldStudentID, studentID)
	if err != nil {
		return nil, err
	}
	sessions = filter.apply(sessions, sessionFilterFields)
	if len(sessions) == 0 {
		return []models.Record{}, nil
	}

	mentors, err := s.repos.Mentors.FindAllIn(ctx, "mentor_id", distinctValues(sessions, "mentor_id"))
	if err != nil {
		return nil, err
	}
	mentorIdx := indexBy(mentors, "mentor_id")

	result := make([]models.Record, 0, len(sessions))
	for _, session := range sessions {
		row := session.Clone()
		row["mentorDetails"] = mentorIdx.lookup(session.String("mentor_id"))
		result = append(result, row)
	}
	return result, nil
}

// TimelineService lists raw timeline events.
type TimelineService struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewTimelineService creates a new TimelineService
func NewTimelineService(repos *repositories.Repositories, logger zerolog.Logger) *TimelineService {
	return &TimelineService{
		repos:  repos,
		logger: logger.With().Str("service", "timeline").Logger(),
	}
}

// GetTimeline returns the student's events, narrowed to category when it is
// not blank.
func (s *TimelineService) GetTimeline(ctx context.Context, studentID, category string, filter RecordFilter) ([]models.Record, error) {
	studentID, err := requireStudentID(studentID)
	if err != nil {
		return nil, err
	}

	events, err := s.repos.Timeline.FindAllByField(ctx, models.FieldStudentID, studentID)
	if err != nil {
		return nil, err
	}
	if category != "" {
		events = filterByField(events, "category", category)
	}
	return nonNil(filter.apply(events, timelineFilterFields)), nil
}

func filterByField(rows []models.Record, field, value string) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		if r.String(field) == value {
			out = append(out, r)
		}
	}
	return out
}
