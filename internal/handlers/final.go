// internal/handlers/final.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/internhub/internhub-backend/internal/i18n"
	"github.com/internhub/internhub-backend/internal/services"
	"github.com/internhub/internhub-backend/internal/utils"
)

type FinalEvaluationHandler struct {
	finalService *services.FinalEvaluationService
}

func NewFinalEvaluationHandler(finalService *services.FinalEvaluationService) *FinalEvaluationHandler {
	return &FinalEvaluationHandler{
		finalService: finalService,
	}
}

// GET /supervisor/placements
func (h *FinalEvaluationHandler) ListPlacements(c *gin.Context) {
	supervisorID, _, ok := actor(c)
	if !ok {
		return
	}

	placements, err := h.finalService.ListPlacements(supervisorID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, placements)
}

// GET /supervisor/applications/:id/final-result
func (h *FinalEvaluationHandler) ComputeFinal(c *gin.Context) {
	supervisorID, _, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.finalService.ComputeFinal(supervisorID, applicationID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /supervisor/applications/:id/final-result/send
func (h *FinalEvaluationHandler) SendFinalResult(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actorID, _, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.finalService.SendFinalResult(applicationID, actorID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFinalResultSent),
		"result":  result,
	})
}

// GET /applications/:id/final-result
func (h *FinalEvaluationHandler) ViewResult(c *gin.Context) {
	actorID, actorType, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.finalService.ViewSentResult(actorID, actorType, applicationID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}
