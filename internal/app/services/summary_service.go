package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/models/dto"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
	"github.com/yigit/studentcrm/internal/pkg/helpers"
)

// SummaryService computes the dashboard headline figures of a student from
// the same joined views the detail endpoints return.
type SummaryService struct {
	students       *StudentService
	finance        *FinanceService
	communications *CommunicationService
	sessions       *SessionService
	logger         zerolog.Logger
	now            func() time.Time
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(
	students *StudentService,
	finance *FinanceService,
	communications *CommunicationService,
	sessions *SessionService,
	logger zerolog.Logger,
) *SummaryService {
	return &SummaryService{
		students:       students,
		finance:        finance,
		communications: communications,
		sessions:       sessions,
		logger:         logger.With().Str("service", "summary").Logger(),
		now:            time.Now,
	}
}

// GetStudentSummary returns per-domain counts and totals. Unknown students
// produce an all-zero summary.
func (s *SummaryService) GetStudentSummary(ctx context.Context, studentID string) (*dto.StudentSummaryResponse, error) {
	studentID, err := requireStudentID(studentID)
	if err != nil {
		return nil, err
	}

	calls, err := s.communications.GetCommunicationDetails(ctx, studentID, RecordFilter{})
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.GetSessionDetails(ctx, studentID, RecordFilter{})
	if err != nil {
		return nil, err
	}
	var assignments []models.Record
	details, err := s.students.GetAssignmentDetails(ctx, studentID, RecordFilter{})
	switch {
	case err == nil:
		assignments = details.Assignments
	case !errors.Is(err, apperrors.ErrStudentNotFound):
		return nil, err
	}
	payments, err := s.finance.GetPaymentDetails(ctx, studentID)
	if err != nil {
		return nil, err
	}
	earnings, err := s.finance.GetEarnings(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &dto.StudentSummaryResponse{
		StudentID:      studentID,
		Communications: summarizeCommunications(calls),
		Sessions:       summarizeSessions(sessions),
		Assignments:    summarizeAssignments(assignments, s.now()),
		Payments:       summarizePayments(payments),
		Earnings:       summarizeEarnings(earnings),
	}, nil
}

// nested returns the joined record stored under field, or nil.
func nested(r models.Record, field string) models.Record {
	switch v := r[field].(type) {
	case models.Record:
		return v
	case map[string]interface{}:
		return v
	}
	return nil
}

func summarizeCommunications(calls []models.Record) dto.CommunicationSummary {
	sum := dto.CommunicationSummary{Total: len(calls), LastConnectedBy: notAvailable}
	for _, call := range calls {
		switch call.String("Call Status") {
		case "Completed":
			sum.Completed++
		case "Missed":
			sum.Missed++
		case "In Progress":
			sum.InProgress++
		}
		if call.Has("call_details") {
			sum.IssuesRaised++
		}
	}
	if len(calls) > 0 {
		if emp := nested(calls[len(calls)-1], "employee"); emp.Has("full_name") {
			sum.LastConnectedBy = emp.String("full_name")
		}
	}
	return sum
}

func summarizeSessions(sessions []models.Record) dto.SessionSummary {
	sum := dto.SessionSummary{Total: len(sessions)}
	for _, session := range sessions {
		status := session.String("Status")
		if status != "Cancelled" {
			sum.Booked++
		}
		switch status {
		case "Attended", "Completed":
			sum.Attended++
		case "Cancelled":
			sum.Cancelled++
		case "Scheduled", "Upcoming":
			sum.Upcoming++
		}
	}
	return sum
}

func summarizeAssignments(assignments []models.Record, now time.Time) dto.AssignmentSummary {
	sum := dto.AssignmentSummary{Total: len(assignments)}
	for _, a := range assignments {
		switch strings.ToUpper(a.String("Submit(Y/N)")) {
		case "Y":
			sum.Completed++
			sum.TotalScore += a.Number("Result")
		case "N":
			sum.Pending++
		}
		if due, err := helpers.ParseDate(a.String("Date of submission")); err == nil && due.After(now) {
			sum.Upcoming++
		}
	}
	return sum
}

func summarizePayments(payments []models.Record) dto.PaymentSummary {
	sum := dto.PaymentSummary{LoanPartner: notAvailable}
	for _, p := range payments {
		sum.TotalRefund += p.Number("Refund_Amount")
		if stipend := nested(p, "stipend"); stipend != nil {
			sum.TotalLoanAmount += stipend.Number("loan_amount")
			sum.PendingAmount += stipend.Number("emi")
		}
	}
	if len(payments) > 0 {
		if partner := nested(payments[0], "loanPartner"); partner.Has("partner_name") {
			sum.LoanPartner = partner.String("partner_name")
		}
	}
	return sum
}

func summarizeEarnings(rows []models.Record) dto.EarningSummary {
	var sum dto.EarningSummary
	for _, r := range rows {
		if e := nested(r, "earnings"); e != nil {
			sum.TotalEarnings += e.Number("Stipend/Salary Amount")
		}
	}
	return sum
}
