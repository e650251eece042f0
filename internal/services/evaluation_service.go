// internal/services/evaluation_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/database"
	"github.com/internhub/internhub-backend/internal/grading"
	"github.com/internhub/internhub-backend/internal/models"
	"github.com/internhub/internhub-backend/internal/utils"
)

// EvaluationService owns the two write-once scorecards of a hired placement.
// Totals, percentages and grades are always computed here, never trusted from
// the request.
type EvaluationService struct {
	db               *gorm.DB
	gradeTable       *grading.Table
	supervisorRubric grading.Rubric
	companyRubric    grading.Rubric
}

type SubmitEvaluationRequest struct {
	ApplicationID uuid.UUID      `json:"application_id" validate:"required"`
	Scores        map[string]int `json:"scores" validate:"required"`
	Comments      string         `json:"comments,omitempty"`
}

type UpdateEvaluationStatusRequest struct {
	Status models.EvaluationStatus `json:"status" validate:"required,oneof=reviewed finalized"`
}

type OverrideScoresRequest struct {
	Scores map[string]int `json:"scores" validate:"required"`
	Reason string         `json:"reason" validate:"required,min=10"`
}

func NewEvaluationService(db *gorm.DB, gradeTable *grading.Table) *EvaluationService {
	return &EvaluationService{
		db:               db,
		gradeTable:       gradeTable,
		supervisorRubric: grading.SupervisorRubric(),
		companyRubric:    grading.CompanyRubric(),
	}
}

// SubmitSupervisorEvaluation records the supervisor scorecard for a hired
// application. Exactly one may ever exist; a duplicate attempt leaves the
// original untouched.
func (s *EvaluationService) SubmitSupervisorEvaluation(supervisorID uuid.UUID, req *SubmitEvaluationRequest) (*models.SupervisorEvaluation, error) {
	application, err := s.hiredApplication(req)
	if err != nil {
		return nil, err
	}
	if application.SupervisorID == nil || *application.SupervisorID != supervisorID {
		return nil, apperrors.Forbidden("only the supervisor of record may evaluate this placement")
	}

	total, problems := s.supervisorRubric.Score(req.Scores)
	if problems != nil {
		return nil, apperrors.Validation("scorecard is invalid", problems)
	}

	maxMarks := s.supervisorRubric.MaxMarks()
	evaluation := &models.SupervisorEvaluation{
		ApplicationID: application.ID,
		SupervisorID:  supervisorID,
		StudentID:     application.StudentID,
		Scores:        scoresToJSONB(req.Scores),
		TotalMarks:    total,
		MaxMarks:      maxMarks,
		Percentage:    grading.Percent(total, maxMarks),
		Grade:         s.gradeTable.Grade(grading.Percent(total, maxMarks)),
		Comments:      req.Comments,
		Status:        models.EvaluationStatusSubmitted,
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.SupervisorEvaluation{}).
			Where("application_id = ?", application.ID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if existing > 0 {
			return apperrors.DuplicateSubmission("a supervisor evaluation already exists for this application")
		}
		if err := tx.Create(evaluation).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.DuplicateSubmission("a supervisor evaluation already exists for this application")
			}
			return fmt.Errorf("failed to create evaluation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return evaluation, nil
}

// SubmitCompanyEvaluation records the company scorecard for a hired
// application. Same write-once rule as the supervisor side.
func (s *EvaluationService) SubmitCompanyEvaluation(companyID uuid.UUID, req *SubmitEvaluationRequest) (*models.CompanyEvaluation, error) {
	application, err := s.hiredApplication(req)
	if err != nil {
		return nil, err
	}
	if application.CompanyID != companyID {
		return nil, apperrors.Forbidden("only the hosting company may evaluate this placement")
	}

	total, problems := s.companyRubric.Score(req.Scores)
	if problems != nil {
		return nil, apperrors.Validation("scorecard is invalid", problems)
	}

	maxMarks := s.companyRubric.MaxMarks()
	evaluation := &models.CompanyEvaluation{
		ApplicationID: application.ID,
		CompanyID:     companyID,
		StudentID:     application.StudentID,
		Scores:        scoresToJSONB(req.Scores),
		TotalMarks:    total,
		MaxMarks:      maxMarks,
		Percentage:    grading.Percent(total, maxMarks),
		Grade:         s.gradeTable.Grade(grading.Percent(total, maxMarks)),
		Comments:      req.Comments,
		Status:        models.EvaluationStatusSubmitted,
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.CompanyEvaluation{}).
			Where("application_id = ?", application.ID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if existing > 0 {
			return apperrors.DuplicateSubmission("a company evaluation already exists for this application")
		}
		if err := tx.Create(evaluation).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.DuplicateSubmission("a company evaluation already exists for this application")
			}
			return fmt.Errorf("failed to create evaluation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return evaluation, nil
}

func (s *EvaluationService) hiredApplication(req *SubmitEvaluationRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	var application models.Application
	if err := s.db.First(&application, req.ApplicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if application.Status != models.ApplicationStatusHired {
		return nil, apperrors.PreconditionFailed("evaluations require a hired application", map[string]interface{}{
			"current_status": application.Status,
		})
	}
	return &application, nil
}

// UpdateSupervisorEvaluationStatus advances a scorecard along the review
// ladder. Admin only; scores are untouched.
func (s *EvaluationService) UpdateSupervisorEvaluationStatus(evaluationID uuid.UUID, req *UpdateEvaluationStatusRequest) (*models.SupervisorEvaluation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	var evaluation models.SupervisorEvaluation
	if err := s.db.First(&evaluation, evaluationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("evaluation")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !models.CanTransitionEvaluationStatus(evaluation.Status, req.Status) {
		return nil, apperrors.InvalidTransition("evaluation", string(evaluation.Status), string(req.Status))
	}

	if err := s.db.Model(&evaluation).Update("status", req.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to update evaluation status: %w", err)
	}
	evaluation.Status = req.Status
	return &evaluation, nil
}

// UpdateCompanyEvaluationStatus mirrors the supervisor-side status ladder.
func (s *EvaluationService) UpdateCompanyEvaluationStatus(evaluationID uuid.UUID, req *UpdateEvaluationStatusRequest) (*models.CompanyEvaluation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	var evaluation models.CompanyEvaluation
	if err := s.db.First(&evaluation, evaluationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("evaluation")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !models.CanTransitionEvaluationStatus(evaluation.Status, req.Status) {
		return nil, apperrors.InvalidTransition("evaluation", string(evaluation.Status), string(req.Status))
	}

	if err := s.db.Model(&evaluation).Update("status", req.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to update evaluation status: %w", err)
	}
	evaluation.Status = req.Status
	return &evaluation, nil
}

// OverrideSupervisorScores is the audited admin correction path, the only
// write allowed on a submitted scorecard. The delivery guard is never touched.
func (s *EvaluationService) OverrideSupervisorScores(adminID, evaluationID uuid.UUID, req *OverrideScoresRequest) (*models.SupervisorEvaluation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	total, problems := s.supervisorRubric.Score(req.Scores)
	if problems != nil {
		return nil, apperrors.Validation("scorecard is invalid", problems)
	}

	var evaluation models.SupervisorEvaluation
	if err := s.db.First(&evaluation, evaluationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("evaluation")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldValues := models.JSONB{
		"scores":      map[string]interface{}(evaluation.Scores),
		"total_marks": evaluation.TotalMarks,
		"percentage":  evaluation.Percentage,
		"grade":       evaluation.Grade,
	}

	maxMarks := s.supervisorRubric.MaxMarks()
	percentage := grading.Percent(total, maxMarks)
	grade := s.gradeTable.Grade(percentage)

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&evaluation).Updates(map[string]interface{}{
			"scores":      scoresToJSONB(req.Scores),
			"total_marks": total,
			"percentage":  percentage,
			"grade":       grade,
		}).Error; err != nil {
			return fmt.Errorf("failed to override scores: %w", err)
		}

		audit := &models.AuditLog{
			UserID:       &adminID,
			Action:       "evaluation.override_scores",
			ResourceType: "supervisor_evaluations",
			ResourceID:   &evaluation.ID,
			OldValues:    oldValues,
			NewValues: models.JSONB{
				"scores":      scoresToJSONB(req.Scores),
				"total_marks": total,
				"percentage":  percentage,
				"grade":       grade,
			},
			Reason: req.Reason,
		}
		return tx.Create(audit).Error
	})
	if err != nil {
		return nil, err
	}

	evaluation.Scores = scoresToJSONB(req.Scores)
	evaluation.TotalMarks = total
	evaluation.Percentage = percentage
	evaluation.Grade = grade
	return &evaluation, nil
}

// OverrideCompanyScores is the company-side audited correction path.
func (s *EvaluationService) OverrideCompanyScores(adminID, evaluationID uuid.UUID, req *OverrideScoresRequest) (*models.CompanyEvaluation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	total, problems := s.companyRubric.Score(req.Scores)
	if problems != nil {
		return nil, apperrors.Validation("scorecard is invalid", problems)
	}

	var evaluation models.CompanyEvaluation
	if err := s.db.First(&evaluation, evaluationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("evaluation")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldValues := models.JSONB{
		"scores":      map[string]interface{}(evaluation.Scores),
		"total_marks": evaluation.TotalMarks,
		"percentage":  evaluation.Percentage,
		"grade":       evaluation.Grade,
	}

	maxMarks := s.companyRubric.MaxMarks()
	percentage := grading.Percent(total, maxMarks)
	grade := s.gradeTable.Grade(percentage)

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&evaluation).Updates(map[string]interface{}{
			"scores":      scoresToJSONB(req.Scores),
			"total_marks": total,
			"percentage":  percentage,
			"grade":       grade,
		}).Error; err != nil {
			return fmt.Errorf("failed to override scores: %w", err)
		}

		audit := &models.AuditLog{
			UserID:       &adminID,
			Action:       "evaluation.override_scores",
			ResourceType: "company_evaluations",
			ResourceID:   &evaluation.ID,
			OldValues:    oldValues,
			NewValues: models.JSONB{
				"scores":      scoresToJSONB(req.Scores),
				"total_marks": total,
				"percentage":  percentage,
				"grade":       grade,
			},
			Reason: req.Reason,
		}
		return tx.Create(audit).Error
	})
	if err != nil {
		return nil, err
	}

	evaluation.Scores = scoresToJSONB(req.Scores)
	evaluation.TotalMarks = total
	evaluation.Percentage = percentage
	evaluation.Grade = grade
	return &evaluation, nil
}

// scorecardApplication loads the application and enforces who may read its
// scorecards: admins, the actors of record, and the student once the final
// result has been delivered.
func (s *EvaluationService) scorecardApplication(actorID uuid.UUID, actorType models.UserType, applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := s.db.First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	switch actorType {
	case models.UserTypeAdmin:
	case models.UserTypeSupervisor:
		if application.SupervisorID == nil || *application.SupervisorID != actorID {
			return nil, apperrors.Forbidden("not your placement")
		}
	case models.UserTypeCompany:
		if application.CompanyID != actorID {
			return nil, apperrors.Forbidden("not your applicant")
		}
	case models.UserTypeStudent:
		if application.StudentID != actorID {
			return nil, apperrors.Forbidden("not your application")
		}
		var delivered int64
		if err := s.db.Model(&models.SupervisorEvaluation{}).
			Where("application_id = ? AND final_result_sent = ?", applicationID, true).
			Count(&delivered).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if delivered == 0 {
			return nil, apperrors.NotFound("evaluation")
		}
	default:
		return nil, apperrors.Forbidden("role cannot view evaluations")
	}

	return &application, nil
}

// GetSupervisorEvaluation returns the supervisor scorecard for an application.
func (s *EvaluationService) GetSupervisorEvaluation(actorID uuid.UUID, actorType models.UserType, applicationID uuid.UUID) (*models.SupervisorEvaluation, error) {
	if _, err := s.scorecardApplication(actorID, actorType, applicationID); err != nil {
		return nil, err
	}

	var evaluation models.SupervisorEvaluation
	if err := s.db.Where("application_id = ?", applicationID).First(&evaluation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("supervisor evaluation")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &evaluation, nil
}

// GetCompanyEvaluation returns the company scorecard for an application.
func (s *EvaluationService) GetCompanyEvaluation(actorID uuid.UUID, actorType models.UserType, applicationID uuid.UUID) (*models.CompanyEvaluation, error) {
	if _, err := s.scorecardApplication(actorID, actorType, applicationID); err != nil {
		return nil, err
	}

	var evaluation models.CompanyEvaluation
	if err := s.db.Where("application_id = ?", applicationID).First(&evaluation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("company evaluation")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &evaluation, nil
}

// Rubrics exposes the active criteria sets so clients can render scorecards.
func (s *EvaluationService) Rubrics() map[string]grading.Rubric {
	return map[string]grading.Rubric{
		"supervisor": s.supervisorRubric,
		"company":    s.companyRubric,
	}
}

func scoresToJSONB(scores map[string]int) models.JSONB {
	out := make(models.JSONB, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}
