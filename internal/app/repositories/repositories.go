package repositories

import "github.com/yigit/studentcrm/internal/app/models"

// Repositories holds all the repository instances
type Repositories struct {
	StudentProfiles     RecordRepository
	Addresses           RecordRepository
	Skills              RecordRepository
	Enrollments         RecordRepository
	Courses             RecordRepository
	Batches             RecordRepository
	Brands              RecordRepository
	Payments            RecordRepository
	Stipends            RecordRepository
	LoanPartners        RecordRepository
	CourseFees          RecordRepository
	Communications      RecordRepository
	Employees           RecordRepository
	Opportunities       RecordRepository
	JobDescriptions     RecordRepository
	Companies           RecordRepository
	Assignments         RecordRepository
	Certifications      RecordRepository
	Sessions            RecordRepository
	Mentors             RecordRepository
	OpportunityEarnings RecordRepository
	Earnings            RecordRepository
	Timeline            RecordRepository

	Documents DocumentStore
	Users     UserRepository
}

// NewRepositories initializes all repositories
func NewRepositories(records RecordSource, documents DocumentStore, users UserRepository) *Repositories {
	table := func(t models.Table) RecordRepository {
		return NewRecordRepository(records, t)
	}

	return &Repositories{
		StudentProfiles:     table(models.StudentProfilesTable),
		Addresses:           table(models.AddressesTable),
		Skills:              table(models.SkillsTable),
		Enrollments:         table(models.EnrollmentsTable),
		Courses:             table(models.CoursesTable),
		Batches:             table(models.BatchesTable),
		Brands:              table(models.BrandsTable),
		Payments:            table(models.PaymentsTable),
		Stipends:            table(models.StipendsTable),
		LoanPartners:        table(models.LoanPartnersTable),
		CourseFees:          table(models.CourseFeesTable),
		Communications:      table(models.CommunicationsTable),
		Employees:           table(models.EmployeesTable),
		Opportunities:       table(models.OpportunitiesTable),
		JobDescriptions:     table(models.JobDescriptionsTable),
		Companies:           table(models.CompaniesTable),
		Assignments:         table(models.AssignmentsTable),
		Certifications:      table(models.CertificationsTable),
		Sessions:            table(models.SessionsTable),
		Mentors:             table(models.MentorsTable),
		OpportunityEarnings: table(models.OpportunityEarningsTable),
		Earnings:            table(models.EarningsTable),
		Timeline:            table(models.TimelineTable),

		Documents: documents,
		Users:     users,
	}
}
