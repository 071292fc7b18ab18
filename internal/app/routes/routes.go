package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/studentcrm/internal/app/controllers"
	"github.com/yigit/studentcrm/internal/middleware"
)

// Controllers groups every handler mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Student    *controllers.StudentController
	Engagement *controllers.EngagementController
	Health     *controllers.HealthController
	Resources  []*controllers.ResourceController
}

// SetupRouter configures all application routes. When requireAuth is set the
// dashboard and resource routes need a bearer token; /api/user and
// /api/health stay public.
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	requireAuth bool,
) {
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFoundHandler())
	router.NoMethod(middleware.MethodNotAllowedHandler())

	api := router.Group("/api")

	// --- Public routes ---
	api.GET("/health", ctrl.Health.Health)

	user := api.Group("/user")
	{
		user.POST("/signup", ctrl.Auth.Signup)
		user.POST("/login", ctrl.Auth.Login)
		user.POST("/forgot-password", ctrl.Auth.ForgotPassword)
	}

	// --- Dashboard routes ---
	protected := api.Group("")
	if requireAuth {
		protected.Use(authMiddleware.JWTAuth())
	}

	protected.GET("/student-profile", ctrl.Student.GetProfile)
	protected.GET("/course-details", ctrl.Student.GetCourseDetails)
	protected.GET("/assignment-details", ctrl.Student.GetAssignmentDetails)
	protected.GET("/timeline", ctrl.Student.GetTimeline)
	protected.GET("/student-summary", ctrl.Student.GetSummary)

	protected.GET("/payment-details", ctrl.Engagement.GetPaymentDetails)
	protected.GET("/earning", ctrl.Engagement.GetEarnings)
	protected.GET("/communication-details", ctrl.Engagement.GetCommunicationDetails)
	protected.GET("/opportunity-details", ctrl.Engagement.GetOpportunityDetails)
	protected.GET("/session-details", ctrl.Engagement.GetSessionDetails)

	// Generic document collections
	for _, rc := range ctrl.Resources {
		group := protected.Group("/" + rc.Path())
		group.POST("", rc.Create)
		group.GET("", rc.List)
	}
}
