package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/repositories"
)

// FinanceService joins payments with their stipend, loan partner and course fee,
// and opportunity earnings with their earning rows.
type FinanceService struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(repos *repositories.Repositories, logger zerolog.Logger) *FinanceService {
	return &FinanceService{
		repos:  repos,
		logger: logger.With().Str("service", "finance").Logger(),
	}
}

// GetPaymentDetails returns every payment of the student. A payment whose
// stipend is missing is still returned, with null joins and courseName "N/A".
func (s *FinanceService) GetPaymentDetails(ctx context.Context, studentID string) ([]models.Record, error) {
	studentID, err := requireStudentID(studentID)
	if err != nil {
		return nil, err
	}

	payments, err := s.repos.Payments.FindAllByField(ctx, models.FieldStudentID, studentID)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return []models.Record{}, nil
	}

	stipends, err := s.repos.Stipends.FindAllIn(ctx, models.FieldStudentCourseID,
		distinctValues(payments, models.FieldStudentCourseID))
	if err != nil {
		return nil, err
	}
	partners, err := s.repos.LoanPartners.FindAllIn(ctx, "partner_id", distinctValues(stipends, "partner_id"))
	if err != nil {
		return nil, err
	}
	fees, err := s.repos.CourseFees.FindAllIn(ctx, "fee_id", distinctValues(stipends, "fee_id"))
	if err != nil {
		return nil, err
	}
	courses, err := s.repos.Courses.FindAllIn(ctx, "course_id", distinctValues(fees, "course_id"))
	if err != nil {
		return nil, err
	}

	stipendIdx := indexBy(stipends, models.FieldStudentCourseID)
	partnerIdx := indexBy(partners, "partner_id")
	feeIdx := indexBy(fees, "fee_id")
	courseIdx := indexBy(courses, "course_id")

	result := make([]models.Record, 0, len(payments))
	for _, payment := range payments {
		row := payment.Clone()
		row["stipend"] = nil
		row["loanPartner"] = nil
		row["courseFee"] = nil
		row["courseName"] = notAvailable

		stipend := stipendIdx.get(payment.String(models.FieldStudentCourseID))
		if stipend == nil {
			s.logger.Debug().
				Str("studentId", studentID).
				Str("studentCourseId", payment.String(models.FieldStudentCourseID)).
				Msg("Payment has no stipend")
			result = append(result, row)
			continue
		}
		row["stipend"] = stipend
		row["loanPartner"] = partnerIdx.lookup(stipend.String("partner_id"))

		if fee := feeIdx.get(stipend.String("fee_id")); fee != nil {
			row["courseFee"] = fee
			if course := courseIdx.get(fee.String("course_id")); course != nil && course.Has("Courses") {
				row["courseName"] = course["Courses"]
			}
		}
		result = append(result, row)
	}
	return result, nil
}

// GetEarnings returns the student's opportunity rows, each with its earning
// record (or null).
func (s *FinanceService) GetEarnings(ctx context.Context, studentID string) ([]models.Record, error) {
	studentID, err := requireStudentID(studentID)
	if err != nil {
		return nil, err
	}

	opportunities, err := s.repos.OpportunityEarnings.FindAllByField(ctx, models.FieldStudentID, studentID)
	if err != nil {
		return nil, err
	}
	if len(opportunities) == 0 {
		return []models.Record{}, nil
	}

	earnings, err := s.repos.Earnings.FindAllIn(ctx, "opportunity_id", distinctValues(opportunities, "opportunity_id"))
	if err != nil {
		return nil, err
	}
	earningIdx := indexBy(earnings, "opportunity_id")

	result := make([]models.Record, 0, len(opportunities))
	for _, opportunity := range opportunities {
		row := opportunity.Clone()
		row["earnings"] = earningIdx.lookup(opportunity.String("opportunity_id"))
		result = append(result, row)
	}
	return result, nil
}
