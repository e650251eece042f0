// internal/services/final_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/grading"
	"github.com/internhub/internhub-backend/internal/models"
)

// ResultRenderer produces the final-result artifact for a placement.
type ResultRenderer interface {
	RenderFinalResult(application *models.Application, result *FinalResult) (*Document, error)
}

// ResultDispatcher delivers the rendered result to the student. An error
// means nothing was delivered and the send may be retried.
type ResultDispatcher interface {
	DispatchFinalResult(application *models.Application, result *FinalResult, doc *Document) error
}

// FinalResult is the derived aggregate of the two scorecards. It is computed
// on demand and never stored; only the delivery guard persists.
type FinalResult struct {
	ApplicationID     uuid.UUID  `json:"application_id"`
	Ready             bool       `json:"ready"`
	SupervisorPercent float64    `json:"supervisor_percent,omitempty"`
	CompanyPercent    float64    `json:"company_percent,omitempty"`
	SupervisorWeight  float64    `json:"supervisor_weight"`
	CompanyWeight     float64    `json:"company_weight"`
	CombinedScore     float64    `json:"combined_score,omitempty"`
	Grade             string     `json:"grade,omitempty"`
	Sent              bool       `json:"sent"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	SentBy            *uuid.UUID `json:"sent_by,omitempty"`
}

// PlacementResult pairs an application with its readiness for the supervisor
// dashboard.
type PlacementResult struct {
	Application models.Application `json:"application"`
	Result      FinalResult        `json:"result"`
}

// FinalEvaluationService computes combined results and owns the one
// irreversible action in the system: sending a final result to a student.
type FinalEvaluationService struct {
	db         *gorm.DB
	weights    grading.Weights
	gradeTable *grading.Table
	renderer   ResultRenderer
	dispatcher ResultDispatcher
}

func NewFinalEvaluationService(db *gorm.DB, weights grading.Weights, gradeTable *grading.Table, renderer ResultRenderer, dispatcher ResultDispatcher) (*FinalEvaluationService, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &FinalEvaluationService{
		db:         db,
		weights:    weights,
		gradeTable: gradeTable,
		renderer:   renderer,
		dispatcher: dispatcher,
	}, nil
}

// ComputeFinal derives the combined result for one of the supervisor's own
// placements. With either scorecard missing the result is not ready; a
// missing side is never treated as zero marks.
func (s *FinalEvaluationService) ComputeFinal(supervisorID, applicationID uuid.UUID) (*FinalResult, error) {
	var application models.Application
	if err := s.db.First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if application.SupervisorID == nil || *application.SupervisorID != supervisorID {
		return nil, apperrors.Forbidden("not your placement")
	}
	return s.computeFor(&application)
}

func (s *FinalEvaluationService) computeFor(application *models.Application) (*FinalResult, error) {
	result := &FinalResult{
		ApplicationID:    application.ID,
		SupervisorWeight: s.weights.Supervisor,
		CompanyWeight:    s.weights.Company,
	}

	var supervisorEval models.SupervisorEvaluation
	err := s.db.Where("application_id = ?", application.ID).First(&supervisorEval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	result.Sent = supervisorEval.FinalResultSent
	result.SentAt = supervisorEval.FinalResultSentAt
	result.SentBy = supervisorEval.FinalResultSentBy

	var companyEval models.CompanyEvaluation
	err = s.db.Where("application_id = ?", application.ID).First(&companyEval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	result.Ready = true
	result.SupervisorPercent = supervisorEval.Percentage
	result.CompanyPercent = companyEval.Percentage
	result.CombinedScore = grading.Combine(supervisorEval.Percentage, companyEval.Percentage, s.weights)
	result.Grade = s.gradeTable.Grade(result.CombinedScore)

	return result, nil
}

// SendFinalResult delivers the combined result to the student at most once.
// The guard check happens before any side effect; a dispatch failure leaves
// the guard unset so the send can be retried, and a lost race surfaces the
// original delivery.
func (s *FinalEvaluationService) SendFinalResult(applicationID, actorID uuid.UUID) (*FinalResult, error) {
	var application models.Application
	if err := s.db.Preload("Student").Preload("Job").Preload("Company").
		First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if application.SupervisorID == nil || *application.SupervisorID != actorID {
		return nil, apperrors.Forbidden("only the supervisor of record may send the final result")
	}

	result, err := s.computeFor(&application)
	if err != nil {
		return nil, err
	}
	if result.Sent {
		return nil, apperrors.AlreadySent(result.SentAt, result.SentBy)
	}
	if !result.Ready {
		return nil, apperrors.PreconditionFailed("both evaluations must be submitted before sending the final result", map[string]interface{}{
			"application_id": applicationID,
		})
	}

	var doc *Document
	if s.renderer != nil {
		doc, err = s.renderer.RenderFinalResult(&application, result)
		if err != nil {
			return nil, apperrors.DispatchFailed(err)
		}
	}
	if s.dispatcher != nil {
		if err := s.dispatcher.DispatchFinalResult(&application, result, doc); err != nil {
			return nil, apperrors.DispatchFailed(err)
		}
	}

	now := time.Now()
	update := s.db.Model(&models.SupervisorEvaluation{}).
		Where("application_id = ? AND final_result_sent = ?", applicationID, false).
		Updates(map[string]interface{}{
			"final_result_sent":    true,
			"final_result_sent_at": now,
			"final_result_sent_by": actorID,
			"status":               models.EvaluationStatusFinalized,
		})
	if update.Error != nil {
		return nil, fmt.Errorf("failed to set delivery guard: %w", update.Error)
	}
	if update.RowsAffected == 0 {
		// Lost the race: report the delivery that won.
		var existing models.SupervisorEvaluation
		if err := s.db.Where("application_id = ?", applicationID).First(&existing).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		return nil, apperrors.AlreadySent(existing.FinalResultSentAt, existing.FinalResultSentBy)
	}

	if err := s.db.Model(&models.CompanyEvaluation{}).
		Where("application_id = ?", applicationID).
		Update("status", models.EvaluationStatusFinalized).Error; err != nil {
		logrus.WithError(err).WithField("application_id", applicationID).
			Warn("Failed to finalize company evaluation status")
	}

	result.Sent = true
	result.SentAt = &now
	result.SentBy = &actorID

	logrus.WithFields(logrus.Fields{
		"application_id": applicationID,
		"student_id":     application.StudentID,
		"combined_score": result.CombinedScore,
		"grade":          result.Grade,
		"sent_by":        actorID,
	}).Info("Final result sent")

	return result, nil
}

// ViewSentResult is the student-facing read. Results are visible only after
// delivery.
func (s *FinalEvaluationService) ViewSentResult(actorID uuid.UUID, actorType models.UserType, applicationID uuid.UUID) (*FinalResult, error) {
	var application models.Application
	if err := s.db.First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	switch actorType {
	case models.UserTypeAdmin:
	case models.UserTypeStudent:
		if application.StudentID != actorID {
			return nil, apperrors.Forbidden("not your result")
		}
	case models.UserTypeSupervisor:
		if application.SupervisorID == nil || *application.SupervisorID != actorID {
			return nil, apperrors.Forbidden("not your placement")
		}
	default:
		return nil, apperrors.Forbidden("role cannot view final results")
	}

	result, err := s.computeFor(&application)
	if err != nil {
		return nil, err
	}
	if actorType == models.UserTypeStudent && !result.Sent {
		return nil, apperrors.NotFound("final result")
	}
	return result, nil
}

// ListPlacements partitions a supervisor's hired placements into sent and
// pending-send for their dashboard.
func (s *FinalEvaluationService) ListPlacements(supervisorID uuid.UUID) ([]PlacementResult, error) {
	var applications []models.Application
	if err := s.db.Preload("Student").Preload("Job").
		Where("supervisor_id = ? AND status = ?", supervisorID, models.ApplicationStatusHired).
		Order("hired_at DESC").
		Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	placements := make([]PlacementResult, 0, len(applications))
	for i := range applications {
		result, err := s.computeFor(&applications[i])
		if err != nil {
			return nil, err
		}
		placements = append(placements, PlacementResult{
			Application: applications[i],
			Result:      *result,
		})
	}
	return placements, nil
}
