// internal/handlers/report.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/internhub/internhub-backend/internal/i18n"
	"github.com/internhub/internhub-backend/internal/services"
	"github.com/internhub/internhub-backend/internal/utils"
)

type ReportHandler struct {
	reportService  *services.ReportService
	storageService *services.StorageService
}

func NewReportHandler(reportService *services.ReportService, storageService *services.StorageService) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		storageService: storageService,
	}
}

// GET /student/applications/:id/reports
func (h *ReportHandler) GetStudentCycle(c *gin.Context) {
	studentID, _, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	cycle, err := h.reportService.GetCycleForStudent(studentID, applicationID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, cycle)
}

// POST /student/report-cycles/:id/reports
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	studentID, _, ok := actor(c)
	if !ok {
		return
	}
	cycleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	report, err := h.reportService.SubmitReport(studentID, cycleID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportSubmitted),
		"report":  report,
	})
}

// POST /student/report-attachments
// The returned key is referenced in a later report submission.
func (h *ReportHandler) UploadAttachment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, _, ok := actor(c); !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "file"), err.Error())
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions("report_attachments")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "file"), err.Error())
		return
	}

	utils.CreatedResponse(c, result)
}

// GET /reports/:id/attachments
func (h *ReportHandler) ListAttachments(c *gin.Context) {
	actorID, actorType, ok := actor(c)
	if !ok {
		return
	}
	reportID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	keys, err := h.reportService.ReportAttachments(actorID, actorType, reportID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	attachments := make([]gin.H, 0, len(keys))
	for _, key := range keys {
		// Presigning needs S3; local development returns the bare key.
		url, err := h.storageService.GeneratePresignedURL(key, 15*time.Minute)
		if err != nil {
			url = ""
		}
		attachments = append(attachments, gin.H{"key": key, "url": url})
	}

	utils.SuccessResponse(c, attachments)
}

// GET /supervisor/report-cycles
func (h *ReportHandler) ListSupervisorCycles(c *gin.Context) {
	supervisorID, _, ok := actor(c)
	if !ok {
		return
	}

	cycles, err := h.reportService.ListCyclesForSupervisor(supervisorID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, cycles)
}

// PUT /supervisor/reports/:id/review
func (h *ReportHandler) ReviewReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	supervisorID, _, ok := actor(c)
	if !ok {
		return
	}
	reportID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.ReviewReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	report, err := h.reportService.ReviewReport(supervisorID, reportID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportReviewed),
		"report":  report,
	})
}
