// internal/handlers/job.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/internhub/internhub-backend/internal/i18n"
	"github.com/internhub/internhub-backend/internal/services"
	"github.com/internhub/internhub-backend/internal/utils"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// POST /company/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	companyID, _, ok := actor(c)
	if !ok {
		return
	}

	var req services.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	job, err := h.jobService.CreateJob(companyID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyJobCreated),
		"job":     job,
	})
}

// PUT /company/jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	companyID, _, ok := actor(c)
	if !ok {
		return
	}
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	job, err := h.jobService.UpdateJob(companyID, jobID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyJobUpdated),
		"job":     job,
	})
}

// DELETE /company/jobs/:id
func (h *JobHandler) DeactivateJob(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	companyID, _, ok := actor(c)
	if !ok {
		return
	}
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.DeactivateJob(companyID, jobID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyJobDeactivated),
		"job":     job,
	})
}

// GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(jobID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, job)
}

// GET /jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	params := services.JobSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		ActiveOnly:       true,
	}
	if companyID := c.Query("company_id"); companyID != "" {
		if parsed, err := uuid.Parse(companyID); err == nil {
			params.CompanyID = &parsed
		}
	}

	jobs, total, err := h.jobService.ListJobs(params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(jobs, total, params.PaginationParams))
}

// GET /company/jobs
func (h *JobHandler) ListCompanyJobs(c *gin.Context) {
	companyID, _, ok := actor(c)
	if !ok {
		return
	}

	params := services.JobSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		CompanyID:        &companyID,
	}

	jobs, total, err := h.jobService.ListJobs(params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(jobs, total, params.PaginationParams))
}
