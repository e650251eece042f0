// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/config"
	"github.com/internhub/internhub-backend/internal/grading"
	"github.com/internhub/internhub-backend/internal/handlers"
	"github.com/internhub/internhub-backend/internal/middleware"
	"github.com/internhub/internhub-backend/internal/models"
	"github.com/internhub/internhub-backend/internal/services"
	"github.com/internhub/internhub-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Grading policy from configuration
	gradeTable, err := grading.ParseTable(cfg.Grading.GradeBands)
	if err != nil {
		return nil, err
	}
	weights := grading.Weights{
		Supervisor: cfg.Grading.SupervisorWeight,
		Company:    cfg.Grading.CompanyWeight,
	}

	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	documentService := services.NewDocumentService(storageService)
	reportService := services.NewReportService(db)

	authService := services.NewAuthService(db, cfg)
	jobService := services.NewJobService(db)
	applicationService := services.NewApplicationService(db, notificationService, documentService, reportService)
	evaluationService := services.NewEvaluationService(db, gradeTable)
	finalService, err := services.NewFinalEvaluationService(db, weights, gradeTable, documentService, notificationService)
	if err != nil {
		return nil, err
	}
	offerService := services.NewOfferService(db, notificationService)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	jobHandler := handlers.NewJobHandler(jobService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	evaluationHandler := handlers.NewEvaluationHandler(evaluationService)
	finalHandler := handlers.NewFinalEvaluationHandler(finalService)
	offerHandler := handlers.NewOfferHandler(offerService)
	reportHandler := handlers.NewReportHandler(reportService, storageService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Public job browsing
		jobs := v1.Group("/jobs")
		{
			jobs.GET("", jobHandler.ListJobs)
			jobs.GET("/:id", jobHandler.GetJob)
		}

		// Shared authenticated routes
		authed := v1.Group("")
		authed.Use(middleware.AuthRequired())
		{
			authed.GET("/supervisors", authHandler.ListSupervisors)
			authed.GET("/applications", applicationHandler.ListApplications)
			authed.GET("/applications/:id", applicationHandler.GetApplication)
			authed.GET("/applications/:id/final-result", finalHandler.ViewResult)
			authed.GET("/applications/:id/evaluations/supervisor", evaluationHandler.GetSupervisorEvaluation)
			authed.GET("/applications/:id/evaluations/company", evaluationHandler.GetCompanyEvaluation)
			authed.GET("/evaluations/rubrics", evaluationHandler.GetRubrics)
			authed.GET("/reports/:id/attachments", reportHandler.ListAttachments)
		}

		// Student routes
		student := v1.Group("/student")
		student.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserTypeStudent))
		{
			student.POST("/applications", applicationHandler.Apply)
			student.GET("/applications/:id/offer", offerHandler.GetOffer)
			student.GET("/offers", offerHandler.ListOffers)
			student.POST("/offers/:id/respond", offerHandler.Respond)
			student.GET("/applications/:id/reports", reportHandler.GetStudentCycle)
			student.POST("/report-cycles/:id/reports", reportHandler.SubmitReport)
			student.POST("/report-attachments", reportHandler.UploadAttachment)
		}

		// Company routes
		company := v1.Group("/company")
		company.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserTypeCompany))
		{
			company.POST("/jobs", jobHandler.CreateJob)
			company.GET("/jobs", jobHandler.ListCompanyJobs)
			company.PUT("/jobs/:id", jobHandler.UpdateJob)
			company.DELETE("/jobs/:id", jobHandler.DeactivateJob)
			company.PUT("/applications/:id/decision", applicationHandler.SetApproval)
			company.POST("/applications/:id/interview", applicationHandler.ScheduleInterview)
			company.POST("/applications/:id/interview/done", applicationHandler.MarkInterviewDone)
			company.POST("/applications/:id/decide", applicationHandler.Decide)
			company.POST("/evaluations", evaluationHandler.SubmitCompanyEvaluation)
			company.GET("/offers", offerHandler.ListOffers)
		}

		// Supervisor routes
		supervisor := v1.Group("/supervisor")
		supervisor.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserTypeSupervisor))
		{
			supervisor.PUT("/applications/:id/decision", applicationHandler.SetApproval)
			supervisor.POST("/evaluations", evaluationHandler.SubmitSupervisorEvaluation)
			supervisor.GET("/placements", finalHandler.ListPlacements)
			supervisor.GET("/applications/:id/final-result", finalHandler.ComputeFinal)
			supervisor.POST("/applications/:id/final-result/send", finalHandler.SendFinalResult)
			supervisor.GET("/report-cycles", reportHandler.ListSupervisorCycles)
			supervisor.PUT("/reports/:id/review", reportHandler.ReviewReport)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
			admin.GET("/notifications", adminHandler.ListNotifications)
			admin.PUT("/notifications/:id/read", adminHandler.MarkNotificationRead)
			admin.PUT("/evaluations/supervisor/:id/status", evaluationHandler.UpdateSupervisorEvaluationStatus)
			admin.PUT("/evaluations/company/:id/status", evaluationHandler.UpdateCompanyEvaluationStatus)
			admin.PUT("/evaluations/supervisor/:id/override", evaluationHandler.OverrideSupervisorScores)
			admin.PUT("/evaluations/company/:id/override", evaluationHandler.OverrideCompanyScores)
		}
	}

	return r, nil
}
