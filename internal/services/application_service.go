// internal/services/application_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/database"
	"github.com/internhub/internhub-backend/internal/models"
	"github.com/internhub/internhub-backend/internal/utils"
)

// ApplicationService owns the application lifecycle: the only mutation entry
// points for application state are its methods.
type ApplicationService struct {
	db            *gorm.DB
	notifications *NotificationService
	documents     *DocumentService
	reports       *ReportService
}

type ApplyRequest struct {
	JobID        uuid.UUID `json:"job_id" validate:"required"`
	SupervisorID uuid.UUID `json:"supervisor_id" validate:"required"`
}

type ApprovalRequest struct {
	Decision models.ApprovalStatus `json:"decision" validate:"required,oneof=approved rejected"`
}

type ScheduleInterviewRequest struct {
	Mode models.InterviewMode `json:"mode" validate:"required,oneof=remote on_site"`
	Time time.Time            `json:"time" validate:"required"`
}

type DecideRequest struct {
	Outcome    string     `json:"outcome" validate:"required,oneof=hire reject"`
	Position   string     `json:"position,omitempty"`
	Department string     `json:"department,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

type ApplicationSearchParams struct {
	utils.PaginationParams
	Status *models.ApplicationStatus
	JobID  *uuid.UUID
}

func NewApplicationService(db *gorm.DB, notifications *NotificationService, documents *DocumentService, reports *ReportService) *ApplicationService {
	return &ApplicationService{
		db:            db,
		notifications: notifications,
		documents:     documents,
		reports:       reports,
	}
}

// Apply creates a pending application for (student, job). The company of
// record is derived from the job; the student names their academic
// supervisor.
func (s *ApplicationService) Apply(studentID uuid.UUID, req *ApplyRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	var student models.User
	if err := s.db.First(&student, studentID).Error; err != nil {
		return nil, apperrors.NotFound("student")
	}
	if student.Status != models.UserStatusActive {
		return nil, apperrors.Forbidden("account is not active")
	}

	var job models.Job
	if err := s.db.First(&job, req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("job")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !job.IsActive {
		return nil, apperrors.PreconditionFailed("job posting is no longer active", nil)
	}

	var supervisor models.User
	if err := s.db.Where("id = ? AND user_type = ?", req.SupervisorID, models.UserTypeSupervisor).
		First(&supervisor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("supervisor")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var existing int64
	if err := s.db.Model(&models.Application{}).
		Where("student_id = ? AND job_id = ?", studentID, req.JobID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.DuplicateSubmission("you have already applied to this job")
	}

	application := &models.Application{
		StudentID:        studentID,
		JobID:            req.JobID,
		CompanyID:        job.CompanyID,
		SupervisorID:     &req.SupervisorID,
		SupervisorStatus: models.ApprovalStatusPending,
		CompanyStatus:    models.ApprovalStatusPending,
		OverallStatus:    models.ApprovalStatusPending,
		Status:           models.ApplicationStatusPending,
	}

	if err := s.db.Create(application).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.DuplicateSubmission("you have already applied to this job")
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.db.Preload("Job").Preload("Student").Preload("Supervisor").First(application, application.ID)

	go s.notifications.SendApplicationReceivedNotification(application)

	return application, nil
}

// SetApproval records one side's one-time approve/reject decision and
// recomputes the derived overall status.
func (s *ApplicationService) SetApproval(actorID uuid.UUID, actorType models.UserType, applicationID uuid.UUID, req *ApprovalRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	var application models.Application
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&application, applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("application")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if application.IsTerminal() {
			return apperrors.InvalidTransition("application", string(application.Status), string(req.Decision))
		}

		switch actorType {
		case models.UserTypeSupervisor:
			if application.SupervisorID == nil || *application.SupervisorID != actorID {
				return apperrors.Forbidden("only the supervisor of record may decide this application")
			}
			if application.SupervisorStatus != models.ApprovalStatusPending {
				return apperrors.InvalidTransition("supervisor approval", string(application.SupervisorStatus), string(req.Decision))
			}
			application.SupervisorStatus = req.Decision
		case models.UserTypeCompany:
			if application.CompanyID != actorID {
				return apperrors.Forbidden("only the hosting company may decide this application")
			}
			if application.CompanyStatus != models.ApprovalStatusPending {
				return apperrors.InvalidTransition("company approval", string(application.CompanyStatus), string(req.Decision))
			}
			application.CompanyStatus = req.Decision
		default:
			return apperrors.Forbidden("role cannot decide approvals")
		}

		application.OverallStatus = models.ComputeOverallStatus(application.SupervisorStatus, application.CompanyStatus)

		return tx.Model(&application).Updates(map[string]interface{}{
			"supervisor_status": application.SupervisorStatus,
			"company_status":    application.CompanyStatus,
			"overall_status":    application.OverallStatus,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go s.notifications.SendApprovalDecisionNotification(&application, actorType, req.Decision)

	return &application, nil
}

// ScheduleInterview moves pending → interview_scheduled and stamps the
// interview metadata. The state check and the update are one guarded write.
func (s *ApplicationService) ScheduleInterview(companyID, applicationID uuid.UUID, req *ScheduleInterviewRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	application, err := s.getCompanyApplication(companyID, applicationID)
	if err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", applicationID, models.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":         models.ApplicationStatusInterviewScheduled,
			"interview_mode": req.Mode,
			"interview_at":   req.Time,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to schedule interview: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidTransition("application", string(application.Status), string(models.ApplicationStatusInterviewScheduled))
	}

	s.db.Preload("Student").Preload("Job").First(application, applicationID)

	go s.notifications.SendInterviewScheduledNotification(application)

	return application, nil
}

// MarkInterviewDone moves interview_scheduled → interview_done.
func (s *ApplicationService) MarkInterviewDone(companyID, applicationID uuid.UUID) (*models.Application, error) {
	application, err := s.getCompanyApplication(companyID, applicationID)
	if err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", applicationID, models.ApplicationStatusInterviewScheduled).
		Update("status", models.ApplicationStatusInterviewDone)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to mark interview done: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidTransition("application", string(application.Status), string(models.ApplicationStatusInterviewDone))
	}

	s.db.First(application, applicationID)
	return application, nil
}

// Decide resolves an interviewed application. A hire requires both-sides
// approval and commits atomically with the offer letter and report cycle it
// opens; a student can hold at most one hired application at a time.
func (s *ApplicationService) Decide(companyID, applicationID uuid.UUID, req *DecideRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	application, err := s.getCompanyApplication(companyID, applicationID)
	if err != nil {
		return nil, err
	}

	if req.Outcome == "reject" {
		result := s.db.Model(&models.Application{}).
			Where("id = ? AND status = ?", applicationID, models.ApplicationStatusInterviewDone).
			Update("status", models.ApplicationStatusRejected)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to reject application: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.InvalidTransition("application", string(application.Status), string(models.ApplicationStatusRejected))
		}

		s.db.Preload("Student").Preload("Job").First(application, applicationID)
		go s.notifications.SendApplicationRejectedNotification(application)
		return application, nil
	}

	return s.hire(application, req)
}

func (s *ApplicationService) hire(application *models.Application, req *DecideRequest) (*models.Application, error) {
	if !application.CanTransition(models.ApplicationStatusHired) {
		return nil, apperrors.InvalidTransition("application", string(application.Status), string(models.ApplicationStatusHired))
	}

	if application.OverallStatus != models.ApprovalStatusApproved {
		return nil, apperrors.PreconditionFailed("both supervisor and company approval are required before hiring", map[string]interface{}{
			"supervisor_status": application.SupervisorStatus,
			"company_status":    application.CompanyStatus,
			"overall_status":    application.OverallStatus,
		})
	}

	if req.StartDate == nil || req.EndDate == nil {
		return nil, apperrors.Validation("internship start and end dates are required to hire", nil)
	}
	if !req.EndDate.After(*req.StartDate) {
		return nil, apperrors.Validation("internship end date must be after the start date", nil)
	}

	position := req.Position
	department := req.Department
	if position == "" {
		position = application.Job.Title
	}
	if department == "" {
		department = application.Job.Department
	}

	now := time.Now()
	var offer *models.OfferLetter

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		// Single-hire invariant, backed by a partial unique index.
		var hired int64
		if err := tx.Model(&models.Application{}).
			Where("student_id = ? AND status = ? AND id != ?", application.StudentID, models.ApplicationStatusHired, application.ID).
			Count(&hired).Error; err != nil {
			return fmt.Errorf("failed to check hired applications: %w", err)
		}
		if hired > 0 {
			return apperrors.ConflictingState("student already holds a hired application", map[string]interface{}{
				"student_id": application.StudentID,
			})
		}

		result := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", application.ID, models.ApplicationStatusInterviewDone).
			Updates(map[string]interface{}{
				"status":     models.ApplicationStatusHired,
				"hired_at":   now,
				"position":   position,
				"department": department,
				"start_date": req.StartDate,
				"end_date":   req.EndDate,
			})
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return apperrors.ConflictingState("student already holds a hired application", nil)
			}
			return fmt.Errorf("failed to hire: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.InvalidTransition("application", string(application.Status), string(models.ApplicationStatusHired))
		}

		// The offer letter and reporting cycle are part of the hire: a hire
		// that commits without them is an invalid end state.
		offer = &models.OfferLetter{
			ApplicationID: application.ID,
			StudentID:     application.StudentID,
			CompanyID:     application.CompanyID,
			Position:      position,
			Department:    department,
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
			Status:        models.OfferStatusSent,
		}
		if err := tx.Create(offer).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ConflictingState("an offer letter already exists for this application", nil)
			}
			return fmt.Errorf("failed to create offer letter: %w", err)
		}

		return s.reports.StartCycle(tx, application.ID, application.StudentID, *application.SupervisorID, *req.StartDate, *req.EndDate)
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Student").Preload("Job").Preload("Company").Preload("OfferLetter").First(application, application.ID)

	go s.dispatchOfferLetter(application, offer)

	return application, nil
}

// dispatchOfferLetter renders and emails the offer after the hire has
// committed. Rendering failures do not undo the hire; the artifact can be
// regenerated.
func (s *ApplicationService) dispatchOfferLetter(application *models.Application, offer *models.OfferLetter) {
	if s.documents != nil {
		if doc, err := s.documents.RenderOfferLetter(application, offer); err == nil {
			s.db.Model(offer).Update("artifact_url", doc.URL)
			offer.ArtifactURL = doc.URL
		}
	}
	if s.notifications != nil {
		s.notifications.SendOfferLetterNotification(application, offer)
	}
}

func (s *ApplicationService) getCompanyApplication(companyID, applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := s.db.Preload("Job").First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if application.CompanyID != companyID {
		return nil, apperrors.Forbidden("only the hosting company may act on this application")
	}
	return &application, nil
}

// GetApplication enforces per-role visibility: owner student, company or
// supervisor of record, or admin.
func (s *ApplicationService) GetApplication(actorID uuid.UUID, actorType models.UserType, applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := s.db.Preload("Student").Preload("Job").Preload("Company").Preload("Supervisor").
		Preload("OfferLetter").Preload("ReportCycle").
		First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	switch actorType {
	case models.UserTypeAdmin:
	case models.UserTypeStudent:
		if application.StudentID != actorID {
			return nil, apperrors.Forbidden("not your application")
		}
	case models.UserTypeCompany:
		if application.CompanyID != actorID {
			return nil, apperrors.Forbidden("not your application")
		}
	case models.UserTypeSupervisor:
		if application.SupervisorID == nil || *application.SupervisorID != actorID {
			return nil, apperrors.Forbidden("not your application")
		}
	default:
		return nil, apperrors.Forbidden("role cannot view applications")
	}

	return &application, nil
}

// ListApplications returns the applications visible to the actor's role.
func (s *ApplicationService) ListApplications(actorID uuid.UUID, actorType models.UserType, params ApplicationSearchParams) ([]models.Application, int64, error) {
	query := s.db.Model(&models.Application{}).
		Preload("Student").Preload("Job").Preload("Company").Preload("Supervisor")

	switch actorType {
	case models.UserTypeAdmin:
	case models.UserTypeStudent:
		query = query.Where("student_id = ?", actorID)
	case models.UserTypeCompany:
		query = query.Where("company_id = ?", actorID)
	case models.UserTypeSupervisor:
		query = query.Where("supervisor_id = ?", actorID)
	default:
		return nil, 0, apperrors.Forbidden("role cannot list applications")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.JobID != nil {
		query = query.Where("job_id = ?", *params.JobID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status", "hired_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var applications []models.Application
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, total, nil
}

// validationDetails converts validator output into the error taxonomy's
// details map.
func validationDetails(err error) map[string]interface{} {
	details := make(map[string]interface{})
	for _, ve := range utils.GetValidationErrors(err) {
		details[ve.Field] = ve.Message
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
