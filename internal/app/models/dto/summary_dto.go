package dto

// CommunicationSummary counts calls by outcome
type CommunicationSummary struct {
	Total           int    `json:"total"`
	Completed       int    `json:"completed"`
	Missed          int    `json:"missed"`
	InProgress      int    `json:"inProgress"`
	IssuesRaised    int    `json:"issuesRaised"`
	LastConnectedBy string `json:"lastConnectedBy"`
}

// SessionSummary counts mentor sessions
type SessionSummary struct {
	Total     int `json:"total"`
	Booked    int `json:"booked"`
	Attended  int `json:"attended"`
	Cancelled int `json:"cancelled"`
	Upcoming  int `json:"upcoming"`
}

// AssignmentSummary counts submissions and adds up scores
type AssignmentSummary struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Pending    int     `json:"pending"`
	Upcoming   int     `json:"upcoming"`
	TotalScore float64 `json:"totalScore"`
}

// PaymentSummary totals loans and refunds
type PaymentSummary struct {
	TotalLoanAmount float64 `json:"totalLoanAmount"`
	PendingAmount   float64 `json:"pendingAmount"`
	TotalRefund     float64 `json:"totalRefund"`
	LoanPartner     string  `json:"loanPartner"`
}

// EarningSummary totals stipend and salary amounts
type EarningSummary struct {
	TotalEarnings float64 `json:"totalEarnings"`
}

// StudentSummaryResponse holds the dashboard headline figures for one student
type StudentSummaryResponse struct {
	StudentID      string               `json:"studentId"`
	Communications CommunicationSummary `json:"communications"`
	Sessions       SessionSummary       `json:"sessions"`
	Assignments    AssignmentSummary    `json:"assignments"`
	Payments       PaymentSummary       `json:"payments"`
	Earnings       EarningSummary       `json:"earnings"`
}
