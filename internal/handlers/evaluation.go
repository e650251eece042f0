// internal/handlers/evaluation.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/internhub/internhub-backend/internal/i18n"
	"github.com/internhub/internhub-backend/internal/services"
	"github.com/internhub/internhub-backend/internal/utils"
)

type EvaluationHandler struct {
	evaluationService *services.EvaluationService
}

func NewEvaluationHandler(evaluationService *services.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
	}
}

// GET /evaluations/rubrics
func (h *EvaluationHandler) GetRubrics(c *gin.Context) {
	utils.SuccessResponse(c, h.evaluationService.Rubrics())
}

// POST /supervisor/evaluations
func (h *EvaluationHandler) SubmitSupervisorEvaluation(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	supervisorID, _, ok := actor(c)
	if !ok {
		return
	}

	var req services.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	evaluation, err := h.evaluationService.SubmitSupervisorEvaluation(supervisorID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyEvaluationSubmitted),
		"evaluation": evaluation,
	})
}

// POST /company/evaluations
func (h *EvaluationHandler) SubmitCompanyEvaluation(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	companyID, _, ok := actor(c)
	if !ok {
		return
	}

	var req services.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	evaluation, err := h.evaluationService.SubmitCompanyEvaluation(companyID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyEvaluationSubmitted),
		"evaluation": evaluation,
	})
}

// GET /applications/:id/evaluations/supervisor
func (h *EvaluationHandler) GetSupervisorEvaluation(c *gin.Context) {
	actorID, actorType, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	evaluation, err := h.evaluationService.GetSupervisorEvaluation(actorID, actorType, applicationID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, evaluation)
}

// GET /applications/:id/evaluations/company
func (h *EvaluationHandler) GetCompanyEvaluation(c *gin.Context) {
	actorID, actorType, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	evaluation, err := h.evaluationService.GetCompanyEvaluation(actorID, actorType, applicationID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, evaluation)
}

// PUT /admin/evaluations/supervisor/:id/status
func (h *EvaluationHandler) UpdateSupervisorEvaluationStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	evaluationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateEvaluationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	evaluation, err := h.evaluationService.UpdateSupervisorEvaluationStatus(evaluationID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyEvaluationStatusSet),
		"evaluation": evaluation,
	})
}

// PUT /admin/evaluations/company/:id/status
func (h *EvaluationHandler) UpdateCompanyEvaluationStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	evaluationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateEvaluationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	evaluation, err := h.evaluationService.UpdateCompanyEvaluationStatus(evaluationID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyEvaluationStatusSet),
		"evaluation": evaluation,
	})
}

// PUT /admin/evaluations/supervisor/:id/override
func (h *EvaluationHandler) OverrideSupervisorScores(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, _, ok := actor(c)
	if !ok {
		return
	}
	evaluationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.OverrideScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	evaluation, err := h.evaluationService.OverrideSupervisorScores(adminID, evaluationID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyEvaluationOverridden),
		"evaluation": evaluation,
	})
}

// PUT /admin/evaluations/company/:id/override
func (h *EvaluationHandler) OverrideCompanyScores(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, _, ok := actor(c)
	if !ok {
		return
	}
	evaluationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.OverrideScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	evaluation, err := h.evaluationService.OverrideCompanyScores(adminID, evaluationID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyEvaluationOverridden),
		"evaluation": evaluation,
	})
}
