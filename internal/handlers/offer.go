// internal/handlers/offer.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/internhub/internhub-backend/internal/i18n"
	"github.com/internhub/internhub-backend/internal/models"
	"github.com/internhub/internhub-backend/internal/services"
	"github.com/internhub/internhub-backend/internal/utils"
)

type OfferHandler struct {
	offerService *services.OfferService
}

func NewOfferHandler(offerService *services.OfferService) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
	}
}

// POST /student/offers/:id/respond
func (h *OfferHandler) Respond(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	studentID, _, ok := actor(c)
	if !ok {
		return
	}
	offerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.OfferResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	offer, err := h.offerService.Respond(studentID, offerID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOfferResponded),
		"offer":   offer,
	})
}

// GET /student/offers
// GET /company/offers
func (h *OfferHandler) ListOffers(c *gin.Context) {
	actorID, actorType, ok := actor(c)
	if !ok {
		return
	}

	var (
		offers []models.OfferLetter
		err    error
	)
	switch actorType {
	case models.UserTypeStudent:
		offers, err = h.offerService.ListForStudent(actorID)
	case models.UserTypeCompany:
		offers, err = h.offerService.ListForCompany(actorID)
	default:
		utils.ForbiddenResponse(c, "")
		return
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, offers)
}

// GET /student/applications/:id/offer
func (h *OfferHandler) GetOffer(c *gin.Context) {
	studentID, _, ok := actor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	offer, err := h.offerService.GetForStudent(studentID, applicationID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, offer)
}
