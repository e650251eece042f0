// internal/handlers/application.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/internhub/internhub-backend/internal/i18n"
	"github.com/internhub/internhub-backend/internal/models"
	"github.com/internhub/internhub-backend/internal/services"
	"github.com/internhub/internhub-backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// POST /student/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	studentID, _, ok := actor(c)
	if !ok {
		return
	}

	var req services.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	application, err := h.applicationService.Apply(studentID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyApplicationCreated),
		"application": application,
	})
}

// PUT /supervisor/applications/:id/decision
// PUT /company/applications/:id/decision
func (h *ApplicationHandler) SetApproval(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actorID, actorType, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	application, err := h.applicationService.SetApproval(actorID, actorType, applicationID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyApplicationDecisionSaved),
		"application": application,
	})
}

// POST /company/applications/:id/interview
func (h *ApplicationHandler) ScheduleInterview(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	companyID, _, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.ScheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	application, err := h.applicationService.ScheduleInterview(companyID, applicationID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyApplicationInterviewSet),
		"application": application,
	})
}

// POST /company/applications/:id/interview/done
func (h *ApplicationHandler) MarkInterviewDone(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	companyID, _, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	application, err := h.applicationService.MarkInterviewDone(companyID, applicationID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyApplicationInterviewDone),
		"application": application,
	})
}

// POST /company/applications/:id/decide
func (h *ApplicationHandler) Decide(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	companyID, _, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	application, err := h.applicationService.Decide(companyID, applicationID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	messageKey := i18n.KeyApplicationRejected
	if application.Status == models.ApplicationStatusHired {
		messageKey = i18n.KeyApplicationHired
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, messageKey),
		"application": application,
	})
}

// GET /applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	actorID, actorType, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	application, err := h.applicationService.GetApplication(actorID, actorType, applicationID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, application)
}

// GET /applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	actorID, actorType, ok := actor(c)
	if !ok {
		return
	}

	params := services.ApplicationSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if status := c.Query("status"); status != "" {
		s := models.ApplicationStatus(status)
		params.Status = &s
	}
	if jobID := c.Query("job_id"); jobID != "" {
		if parsed, err := uuid.Parse(jobID); err == nil {
			params.JobID = &parsed
		}
	}

	applications, total, err := h.applicationService.ListApplications(actorID, actorType, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(applications, total, params.PaginationParams))
}
