package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentcrm/internal/app/services"
	"github.com/yigit/studentcrm/internal/middleware"
)

// StudentController serves the per-student dashboard views
type StudentController struct {
	studentService  *services.StudentService
	timelineService *services.TimelineService
	summaryService  *services.SummaryService
}

// NewStudentController creates a new StudentController
func NewStudentController(
	studentService *services.StudentService,
	timelineService *services.TimelineService,
	summaryService *services.SummaryService,
) *StudentController {
	return &StudentController{
		studentService:  studentService,
		timelineService: timelineService,
		summaryService:  summaryService,
	}
}

// GetProfile returns the student profile with address and skills
// @Summary Student profile
// @Tags students
// @Produce json
// @Param studentId query string true "Student ID"
// @Success 200 {object} dto.StudentProfileResponse
// @Failure 400 {object} dto.ErrorResponse "Missing studentId"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /student-profile [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	profile, err := c.studentService.GetProfile(ctx.Request.Context(), ctx.Query(studentIDQuery))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// GetCourseDetails returns enrollments with courses, brand and batch
// @Summary Course details
// @Tags students
// @Produce json
// @Param studentId query string true "Student ID"
// @Router /course-details [get]
func (c *StudentController) GetCourseDetails(ctx *gin.Context) {
	rows, err := c.studentService.GetCourseDetails(ctx.Request.Context(), ctx.Query(studentIDQuery))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondRecords(ctx, rows)
}

// GetAssignmentDetails returns the first enrollment with assignments and certifications
// @Summary Assignment details
// @Tags students
// @Produce json
// @Param studentId query string true "Student ID"
// @Param status query string false "Submit(Y/N) value"
// @Param from query string false "Earliest submission date"
// @Param to query string false "Latest submission date"
// @Success 200 {object} dto.AssignmentDetailsResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /assignment-details [get]
func (c *StudentController) GetAssignmentDetails(ctx *gin.Context) {
	filter, ok := bindFilter(ctx)
	if !ok {
		return
	}
	details, err := c.studentService.GetAssignmentDetails(ctx.Request.Context(), ctx.Query(studentIDQuery), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, details)
}

// GetTimeline returns timeline events, optionally for one category
// @Summary Timeline
// @Tags students
// @Produce json
// @Param studentId query string true "Student ID"
// @Param category query string false "Event category"
// @Router /timeline [get]
func (c *StudentController) GetTimeline(ctx *gin.Context) {
	filter, ok := bindFilter(ctx)
	if !ok {
		return
	}
	rows, err := c.timelineService.GetTimeline(ctx.Request.Context(),
		ctx.Query(studentIDQuery), ctx.Query("category"), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondRecords(ctx, rows)
}

// GetSummary returns the dashboard headline figures
// @Summary Student summary
// @Tags students
// @Produce json
// @Param studentId query string true "Student ID"
// @Success 200 {object} dto.StudentSummaryResponse
// @Router /student-summary [get]
func (c *StudentController) GetSummary(ctx *gin.Context) {
	summary, err := c.summaryService.GetStudentSummary(ctx.Request.Context(), ctx.Query(studentIDQuery))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}
