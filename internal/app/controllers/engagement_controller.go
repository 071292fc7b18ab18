package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/studentcrm/internal/app/services"
	"github.com/yigit/studentcrm/internal/middleware"
)

// EngagementController serves communications, opportunities, sessions,
// payments and earnings of a student
type EngagementController struct {
	communicationService *services.CommunicationService
	opportunityService   *services.OpportunityService
	sessionService       *services.SessionService
	financeService       *services.FinanceService
}

// NewEngagementController creates a new EngagementController
func NewEngagementController(
	communicationService *services.CommunicationService,
	opportunityService *services.OpportunityService,
	sessionService *services.SessionService,
	financeService *services.FinanceService,
) *EngagementController {
	return &EngagementController{
		communicationService: communicationService,
		opportunityService:   opportunityService,
		sessionService:       sessionService,
		financeService:       financeService,
	}
}

// GetCommunicationDetails returns calls with the calling employee
// @Summary Communication details
// @Tags engagement
// @Produce json
// @Param studentId query string true "Student ID"
// @Param status query string false "Call Status"
// @Param from query string false "Earliest call date"
// @Param to query string false "Latest call date"
// @Param q query string false "Free-text search"
// @Router /communication-details [get]
func (c *EngagementController) GetCommunicationDetails(ctx *gin.Context) {
	filter, ok := bindFilter(ctx)
	if !ok {
		return
	}
	rows, err := c.communicationService.GetCommunicationDetails(ctx.Request.Context(), ctx.Query(studentIDQuery), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondRecords(ctx, rows)
}

// GetOpportunityDetails returns opportunities with job description and company
// @Summary Opportunity details
// @Tags engagement
// @Produce json
// @Param studentId query string true "Student ID"
// @Router /opportunity-details [get]
func (c *EngagementController) GetOpportunityDetails(ctx *gin.Context) {
	rows, err := c.opportunityService.GetOpportunityDetails(ctx.Request.Context(), ctx.Query(studentIDQuery))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondRecords(ctx, rows)
}

// GetSessionDetails returns mentor sessions with mentor details
// @Summary Session details
// @Tags engagement
// @Produce json
// @Param studentId query string true "Student ID"
// @Param status query string false "Session status"
// @Router /session-details [get]
func (c *EngagementController) GetSessionDetails(ctx *gin.Context) {
	filter, ok := bindFilter(ctx)
	if !ok {
		return
	}
	rows, err := c.sessionService.GetSessionDetails(ctx.Request.Context(), ctx.Query(studentIDQuery), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondRecords(ctx, rows)
}

// GetPaymentDetails returns payments with stipend, loan partner, fee and course name
// @Summary Payment details
// @Tags finance
// @Produce json
// @Param studentId query string true "Student ID"
// @Router /payment-details [get]
func (c *EngagementController) GetPaymentDetails(ctx *gin.Context) {
	rows, err := c.financeService.GetPaymentDetails(ctx.Request.Context(), ctx.Query(studentIDQuery))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondRecords(ctx, rows)
}

// GetEarnings returns opportunity earnings
// @Summary Earnings
// @Tags finance
// @Produce json
// @Param studentId query string true "Student ID"
// @Router /earning [get]
func (c *EngagementController) GetEarnings(ctx *gin.Context) {
	rows, err := c.financeService.GetEarnings(ctx.Request.Context(), ctx.Query(studentIDQuery))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondRecords(ctx, rows)
}
