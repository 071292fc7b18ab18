package dto

import "github.com/yigit/studentcrm/internal/app/models"

// AddressDetails is the address block of a student profile
type AddressDetails struct {
	AddressID   interface{} `json:"Address_id"`
	HouseNo     interface{} `json:"house_no"`
	StreetName  interface{} `json:"street_name"`
	City        interface{} `json:"city"`
	District    interface{} `json:"district"`
	State       interface{} `json:"state"`
	Pincode     interface{} `json:"pincode"`
	Country     interface{} `json:"country"`
	FullAddress interface{} `json:"full_address"`
}

// NewAddressDetails projects an address row; nil in, nil out.
func NewAddressDetails(rec models.Record) *AddressDetails {
	if rec == nil {
		return nil
	}
	return &AddressDetails{
		AddressID:   rec["Address_id"],
		HouseNo:     rec["house_no"],
		StreetName:  rec["street_name"],
		City:        rec["city"],
		District:    rec["district"],
		State:       rec["state"],
		Pincode:     rec["pincode"],
		Country:     rec["country"],
		FullAddress: rec["full_address"],
	}
}

// StudentProfileResponse is the denormalized student profile
type StudentProfileResponse struct {
	StudentID      interface{}     `json:"Student_Id"`
	Name           interface{}     `json:"Name"`
	Gender         interface{}     `json:"Gender"`
	LinkedInID     interface{}     `json:"LinkedIn_Id"`
	EmailID        interface{}     `json:"Email_Id"`
	ContactNo      interface{}     `json:"Contact_No"`
	UniversityName interface{}     `json:"University_Name"`
	Qualification  interface{}     `json:"Qualification"`
	CVName         interface{}     `json:"cv_Name"`
	CVLink         interface{}     `json:"CV_Link"`
	Brand          interface{}     `json:"Brand"`
	Address        *AddressDetails `json:"address"`
	Skills         []interface{}   `json:"skills"`
}

// NewStudentProfileResponse renames the source columns that carry
// punctuation ("Contact_No.", "University Name") to plain keys.
func NewStudentProfileResponse(student, address models.Record, skills []interface{}) *StudentProfileResponse {
	if skills == nil {
		skills = []interface{}{}
	}
	return &StudentProfileResponse{
		StudentID:      student["Student_Id"],
		Name:           student["Name"],
		Gender:         student["Gender"],
		LinkedInID:     student["LinkedIn_Id"],
		EmailID:        student["Email_Id"],
		ContactNo:      student["Contact_No."],
		UniversityName: student["University Name"],
		Qualification:  student["Qualification"],
		CVName:         student["cv_Name"],
		CVLink:         student["CV_Link"],
		Brand:          student["Brand"],
		Address:        NewAddressDetails(address),
		Skills:         skills,
	}
}

// AssignmentDetailsResponse groups a student's coursework
type AssignmentDetailsResponse struct {
	Student        models.Record   `json:"student"`
	Assignments    []models.Record `json:"assignments"`
	Certifications []models.Record `json:"certifications"`
}

// RecordFilterQuery carries the optional list filters
type RecordFilterQuery struct {
	Status string `form:"status"`
	From   string `form:"from"`
	To     string `form:"to"`
	Q      string `form:"q"`
}
