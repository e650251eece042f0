// internal/services/offer_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/models"
	"github.com/internhub/internhub-backend/internal/utils"
)

// OfferService handles the student response to an offer letter. An offer is
// answered once; the first response wins and later attempts surface it.
type OfferService struct {
	db            *gorm.DB
	notifications *NotificationService
}

type OfferResponseRequest struct {
	Response models.OfferResponse `json:"response" validate:"required,oneof=accepted rejected"`
	Comments string               `json:"comments,omitempty"`
}

func NewOfferService(db *gorm.DB, notifications *NotificationService) *OfferService {
	return &OfferService{db: db, notifications: notifications}
}

// Respond records the addressed student's accept/reject decision.
func (s *OfferService) Respond(studentID, offerID uuid.UUID, req *OfferResponseRequest) (*models.OfferLetter, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	var offer models.OfferLetter
	if err := s.db.First(&offer, offerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("offer letter")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if offer.StudentID != studentID {
		return nil, apperrors.Forbidden("only the addressed student may respond to this offer")
	}

	now := time.Now()
	newStatus := models.OfferStatusAccepted
	if req.Response == models.OfferResponseRejected {
		newStatus = models.OfferStatusRejected
	}

	// Guarded write: only an unanswered offer can take a response.
	result := s.db.Model(&models.OfferLetter{}).
		Where("id = ? AND status = ?", offerID, models.OfferStatusSent).
		Updates(map[string]interface{}{
			"status":            newStatus,
			"response":          req.Response,
			"response_comments": req.Comments,
			"responded_at":      now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to record offer response: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := s.db.First(&offer, offerID).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		response := ""
		if offer.Response != nil {
			response = string(*offer.Response)
		}
		return nil, apperrors.AlreadyResponded(response, offer.RespondedAt)
	}

	s.db.Preload("Student").Preload("Company").Preload("Application").First(&offer, offerID)

	go s.notifications.SendOfferResponseNotification(&offer)

	return &offer, nil
}

// GetForStudent returns the student's offer for an application.
func (s *OfferService) GetForStudent(studentID, applicationID uuid.UUID) (*models.OfferLetter, error) {
	var offer models.OfferLetter
	if err := s.db.Preload("Company").
		Where("application_id = ? AND student_id = ?", applicationID, studentID).
		First(&offer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("offer letter")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &offer, nil
}

// ListForStudent returns all offers addressed to a student.
func (s *OfferService) ListForStudent(studentID uuid.UUID) ([]models.OfferLetter, error) {
	var offers []models.OfferLetter
	if err := s.db.Preload("Company").Preload("Application").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return offers, nil
}

// ListForCompany returns the offers a company has extended.
func (s *OfferService) ListForCompany(companyID uuid.UUID) ([]models.OfferLetter, error) {
	var offers []models.OfferLetter
	if err := s.db.Preload("Student").Preload("Application").
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return offers, nil
}
