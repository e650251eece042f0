// internal/services/report_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/models"
	"github.com/internhub/internhub-backend/internal/utils"
)

// ReportService manages the weekly report cycle opened by a hire.
type ReportService struct {
	db *gorm.DB
}

type SubmitReportRequest struct {
	WeekNumber     int      `json:"week_number" validate:"required,min=1"`
	Summary        string   `json:"summary" validate:"required,min=10"`
	Challenges     string   `json:"challenges,omitempty"`
	AttachmentKeys []string `json:"attachment_keys,omitempty"`
}

type ReviewReportRequest struct {
	Rating models.ReportRating `json:"rating" validate:"required,oneof=good bad"`
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// StartCycle opens the reporting cycle inside the hire transaction. Week
// count is derived from the internship dates, minimum one week.
func (s *ReportService) StartCycle(tx *gorm.DB, applicationID, studentID, supervisorID uuid.UUID, startDate, endDate time.Time) error {
	weeks := int(math.Ceil(endDate.Sub(startDate).Hours() / (24 * 7)))
	if weeks < 1 {
		weeks = 1
	}

	cycle := &models.ReportCycle{
		ApplicationID: applicationID,
		StudentID:     studentID,
		SupervisorID:  supervisorID,
		StartDate:     startDate,
		EndDate:       endDate,
		WeeksTotal:    weeks,
		IsActive:      true,
	}
	if err := tx.Create(cycle).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ConflictingState("a report cycle already exists for this application", nil)
		}
		return fmt.Errorf("failed to create report cycle: %w", err)
	}
	return nil
}

// SubmitReport files the student's progress report for one week. One report
// per (cycle, week).
func (s *ReportService) SubmitReport(studentID, cycleID uuid.UUID, req *SubmitReportRequest) (*models.WeeklyReport, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	var cycle models.ReportCycle
	if err := s.db.First(&cycle, cycleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("report cycle")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if cycle.StudentID != studentID {
		return nil, apperrors.Forbidden("not your report cycle")
	}
	if !cycle.IsActive {
		return nil, apperrors.PreconditionFailed("report cycle is closed", nil)
	}
	if req.WeekNumber > cycle.WeeksTotal {
		return nil, apperrors.Validation(fmt.Sprintf("week number exceeds cycle length of %d weeks", cycle.WeeksTotal), map[string]interface{}{
			"week_number": req.WeekNumber,
			"weeks_total": cycle.WeeksTotal,
		})
	}

	var existing int64
	if err := s.db.Model(&models.WeeklyReport{}).
		Where("cycle_id = ? AND week_number = ?", cycleID, req.WeekNumber).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.DuplicateSubmission(fmt.Sprintf("a report for week %d has already been submitted", req.WeekNumber))
	}

	report := &models.WeeklyReport{
		CycleID:        cycleID,
		WeekNumber:     req.WeekNumber,
		StudentID:      studentID,
		Summary:        req.Summary,
		Challenges:     req.Challenges,
		AttachmentKeys: pq.StringArray(req.AttachmentKeys),
		Status:         models.ReportStatusSubmitted,
	}
	if err := s.db.Create(report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.DuplicateSubmission(fmt.Sprintf("a report for week %d has already been submitted", req.WeekNumber))
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return report, nil
}

// ReviewReport records the supervisor's rating for a submitted report.
func (s *ReportService) ReviewReport(supervisorID, reportID uuid.UUID, req *ReviewReportRequest) (*models.WeeklyReport, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	var report models.WeeklyReport
	if err := s.db.Preload("Cycle").First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("report")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if report.Cycle.SupervisorID != supervisorID {
		return nil, apperrors.Forbidden("only the supervisor of record may review this report")
	}

	now := time.Now()
	result := s.db.Model(&models.WeeklyReport{}).
		Where("id = ? AND status = ?", reportID, models.ReportStatusSubmitted).
		Updates(map[string]interface{}{
			"status":      models.ReportStatusReviewed,
			"rating":      req.Rating,
			"reviewed_by": supervisorID,
			"reviewed_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to review report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidTransition("report", string(report.Status), string(models.ReportStatusReviewed))
	}

	s.db.First(&report, reportID)
	return &report, nil
}

// GetCycleForStudent returns the student's cycle with its reports.
func (s *ReportService) GetCycleForStudent(studentID, applicationID uuid.UUID) (*models.ReportCycle, error) {
	var cycle models.ReportCycle
	if err := s.db.Preload("Reports", func(db *gorm.DB) *gorm.DB {
		return db.Order("week_number ASC")
	}).Where("application_id = ? AND student_id = ?", applicationID, studentID).
		First(&cycle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("report cycle")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &cycle, nil
}

// ListCyclesForSupervisor returns the active cycles a supervisor oversees.
func (s *ReportService) ListCyclesForSupervisor(supervisorID uuid.UUID) ([]models.ReportCycle, error) {
	var cycles []models.ReportCycle
	if err := s.db.Preload("Reports", func(db *gorm.DB) *gorm.DB {
		return db.Order("week_number ASC")
	}).Preload("Application.Student").
		Where("supervisor_id = ?", supervisorID).
		Order("created_at DESC").
		Find(&cycles).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return cycles, nil
}

// ReportAttachments returns the stored attachment keys for a report, scoped
// to the cycle's student and supervisor.
func (s *ReportService) ReportAttachments(actorID uuid.UUID, actorType models.UserType, reportID uuid.UUID) ([]string, error) {
	var report models.WeeklyReport
	if err := s.db.Preload("Cycle").First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("report")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	switch actorType {
	case models.UserTypeAdmin:
	case models.UserTypeStudent:
		if report.Cycle.StudentID != actorID {
			return nil, apperrors.Forbidden("not your report")
		}
	case models.UserTypeSupervisor:
		if report.Cycle.SupervisorID != actorID {
			return nil, apperrors.Forbidden("not your report")
		}
	default:
		return nil, apperrors.Forbidden("access denied")
	}

	return []string(report.AttachmentKeys), nil
}

// OverdueCycles returns active cycles whose current week has no submitted
// report yet. Used by the reminder scheduler.
func (s *ReportService) OverdueCycles(now time.Time) ([]models.ReportCycle, error) {
	var cycles []models.ReportCycle
	if err := s.db.Preload("Application.Student").
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Find(&cycles).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	overdue := make([]models.ReportCycle, 0)
	for _, cycle := range cycles {
		week := CurrentWeek(cycle.StartDate, now)
		if week < 1 || week > cycle.WeeksTotal {
			continue
		}
		var count int64
		if err := s.db.Model(&models.WeeklyReport{}).
			Where("cycle_id = ? AND week_number = ?", cycle.ID, week).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			overdue = append(overdue, cycle)
		}
	}
	return overdue, nil
}

// CloseFinishedCycles deactivates cycles past their end date.
func (s *ReportService) CloseFinishedCycles(now time.Time) (int64, error) {
	result := s.db.Model(&models.ReportCycle{}).
		Where("is_active = ? AND end_date < ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// CurrentWeek converts a point in time into the 1-based week of a cycle.
func CurrentWeek(startDate, now time.Time) int {
	if now.Before(startDate) {
		return 0
	}
	return int(now.Sub(startDate).Hours()/(24*7)) + 1
}
