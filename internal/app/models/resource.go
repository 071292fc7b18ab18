package models

// ResourceSchema describes a document collection exposed as a create/list pair.
type ResourceSchema struct {
	// Collection is the store name documents are written to
	Collection string
	// Path is the route segment under /api
	Path     string
	Required []string
	Unique   []string
	Defaults map[string]interface{}
	// DateFields are accepted as DD-MM-YYYY and stored as dates
	DateFields []string
}

const notAvailable = "Not Available"

var (
	StudentResource = ResourceSchema{
		Collection: "students",
		Path:       "students",
		Required:   []string{"Email_Id"},
		Unique:     []string{"Email_Id"},
		DateFields: []string{"Date", "Date_of_Session"},
	}

	CommunicationResource = ResourceSchema{
		Collection: "communications",
		Path:       "communications",
		Required: []string{
			"Name", "Email_Id", "Domestic/International", "Country", "Date",
			"Start_Time", "Caller", "From", "Call Duration", "Call Type",
			"Campaign", "Call Status",
		},
	}

	OpportunityResource = ResourceSchema{
		Collection: "opportunities",
		Path:       "opportunities",
		Required: []string{
			"Name", "Email_Id", "opportunity_name", "Offer status", "Type",
			"Company", "Organisation Category", "Month of Sucess", "Month Of Joining",
		},
		Defaults: map[string]interface{}{
			"Position":        notAvailable,
			"Type of Company": notAvailable,
			"Legal/Non Legal": notAvailable,
		},
	}

	ProfileResource = ResourceSchema{
		Collection: "profiles",
		Path:       "profiles",
		Required: []string{
			"Name", "Email_Id", "Domestic_International", "Country", "Date",
			"Start_Time", "Caller", "From", "Call_Duration", "Call_Type", "Call_Status",
		},
		Unique: []string{"Email_Id"},
	}

	SessionResource = ResourceSchema{
		Collection: "sessions",
		Path:       "sessions",
		Required: []string{
			"Name", "Email_Id", "Mentor", "Type of Session", "Topic",
			"Date of Session", "Start Time", "End Time", "Meeting Duration",
			"Session Sub Type", "Status", "Session ID", "Scheduler Email ID",
			"Mentor Email ID",
		},
	}
)

// Resources lists every exposed document collection.
func Resources() []ResourceSchema {
	return []ResourceSchema{
		StudentResource,
		CommunicationResource,
		OpportunityResource,
		ProfileResource,
		SessionResource,
	}
}
