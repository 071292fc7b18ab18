package models

// Table names a record table and its natural key field. The name doubles as
// the JSON file stem, the Mongo collection and the records.collection value.
type Table struct {
	Name string
	Key  string
}

// Common link fields
const (
	FieldStudentID       = "Student_Id"
	FieldStudentCourseID = "student_course_id"
)

var (
	StudentProfilesTable     = Table{Name: "studentProfile", Key: FieldStudentID}
	AddressesTable           = Table{Name: "addressDetails", Key: "Address_id"}
	SkillsTable              = Table{Name: "skillDetails", Key: FieldStudentID}
	EnrollmentsTable         = Table{Name: "studentDetails", Key: FieldStudentCourseID}
	CoursesTable             = Table{Name: "courseDetails", Key: "course_id"}
	BatchesTable             = Table{Name: "batchDetails", Key: "batch_id"}
	BrandsTable              = Table{Name: "brandDetails", Key: "brand_id"}
	PaymentsTable            = Table{Name: "paymentDetails", Key: FieldStudentCourseID}
	StipendsTable            = Table{Name: "stipendDetails", Key: FieldStudentCourseID}
	LoanPartnersTable        = Table{Name: "loanpartnerDetails", Key: "partner_id"}
	CourseFeesTable          = Table{Name: "coursefeeDetails", Key: "fee_id"}
	CommunicationsTable      = Table{Name: "communicationDetails", Key: FieldStudentID}
	EmployeesTable           = Table{Name: "empInfo", Key: "employee_id"}
	OpportunitiesTable       = Table{Name: "opportunityDetails", Key: "opportunity_id"}
	JobDescriptionsTable     = Table{Name: "jdDetails", Key: "jd_id"}
	CompaniesTable           = Table{Name: "companyDetails", Key: "company_id"}
	AssignmentsTable         = Table{Name: "assignmentDetails", Key: "assignment_id"}
	CertificationsTable      = Table{Name: "certificationDetails", Key: FieldStudentCourseID}
	SessionsTable            = Table{Name: "sessionDetails", Key: "mentor_session_id"}
	MentorsTable             = Table{Name: "mentorDetails", Key: "mentor_id"}
	OpportunityEarningsTable = Table{Name: "opportunityearningDetails", Key: "opportunity_id"}
	EarningsTable            = Table{Name: "earningDetails", Key: "earning_id"}
	TimelineTable            = Table{Name: "timeline", Key: FieldStudentID}
)

// AllTables lists every record table in import order.
func AllTables() []Table {
	return []Table{
		StudentProfilesTable, AddressesTable, SkillsTable,
		EnrollmentsTable, CoursesTable, BatchesTable, BrandsTable,
		PaymentsTable, StipendsTable, LoanPartnersTable, CourseFeesTable,
		CommunicationsTable, EmployeesTable,
		OpportunitiesTable, JobDescriptionsTable, CompaniesTable,
		AssignmentsTable, CertificationsTable,
		SessionsTable, MentorsTable,
		OpportunityEarningsTable, EarningsTable,
		TimelineTable,
	}
}

// TableByName looks up a table by its name.
func TableByName(name string) (Table, bool) {
	for _, t := range AllTables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
