// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/models"
	"github.com/internhub/internhub-backend/internal/utils"
)

// AdminService is the read-mostly oversight surface. Pipeline state is never
// mutated here; corrections go through the audited override paths.
type AdminService struct {
	db *gorm.DB
}

type DashboardStats struct {
	TotalUsers           int64            `json:"total_users"`
	UsersByType          map[string]int64 `json:"users_by_type"`
	TotalJobs            int64            `json:"total_jobs"`
	ActiveJobs           int64            `json:"active_jobs"`
	TotalApplications    int64            `json:"total_applications"`
	ApplicationsByStatus map[string]int64 `json:"applications_by_status"`
	HiredPlacements      int64            `json:"hired_placements"`
	PendingFinalSends    int64            `json:"pending_final_sends"`
	SentFinalResults     int64            `json:"sent_final_results"`
}

type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required,oneof=active suspended"`
	Reason string            `json:"reason" validate:"required,min=5"`
}

type UserSearchParams struct {
	utils.PaginationParams
	UserType *models.UserType
	Status   *models.UserStatus
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// GetDashboardStats aggregates platform counters for the admin dashboard.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		UsersByType:          make(map[string]int64),
		ApplicationsByStatus: make(map[string]int64),
	}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	type typeCount struct {
		Key   string
		Count int64
	}
	var userCounts []typeCount
	if err := s.db.Model(&models.User{}).
		Select("user_type as key, count(*) as count").
		Group("user_type").
		Scan(&userCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count users by type: %w", err)
	}
	for _, c := range userCounts {
		stats.UsersByType[c.Key] = c.Count
	}

	if err := s.db.Model(&models.Job{}).Count(&stats.TotalJobs).Error; err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	if err := s.db.Model(&models.Job{}).Where("is_active = ?", true).Count(&stats.ActiveJobs).Error; err != nil {
		return nil, fmt.Errorf("failed to count active jobs: %w", err)
	}

	if err := s.db.Model(&models.Application{}).Count(&stats.TotalApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	var appCounts []typeCount
	if err := s.db.Model(&models.Application{}).
		Select("status as key, count(*) as count").
		Group("status").
		Scan(&appCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications by status: %w", err)
	}
	for _, c := range appCounts {
		stats.ApplicationsByStatus[c.Key] = c.Count
	}
	stats.HiredPlacements = stats.ApplicationsByStatus[string(models.ApplicationStatusHired)]

	if err := s.db.Model(&models.SupervisorEvaluation{}).
		Where("final_result_sent = ?", true).
		Count(&stats.SentFinalResults).Error; err != nil {
		return nil, fmt.Errorf("failed to count sent results: %w", err)
	}

	// Placements where both scorecards exist but the result has not gone out.
	if err := s.db.Model(&models.SupervisorEvaluation{}).
		Joins("JOIN company_evaluations ON company_evaluations.application_id = supervisor_evaluations.application_id").
		Where("supervisor_evaluations.final_result_sent = ?", false).
		Count(&stats.PendingFinalSends).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending sends: %w", err)
	}

	return stats, nil
}

// ListUsers returns the user roster with optional type/status filters.
func (s *AdminService) ListUsers(params UserSearchParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if params.UserType != nil {
		query = query.Where("user_type = ?", *params.UserType)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "username", "user_type", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, total, nil
}

// UpdateUserStatus suspends or reactivates an account, with an audit row.
func (s *AdminService) UpdateUserStatus(adminID, userID uuid.UUID, req *UpdateUserStatusRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.UserType == models.UserTypeAdmin {
		return nil, apperrors.Forbidden("admin accounts cannot be suspended")
	}
	if user.Status == req.Status {
		return nil, apperrors.ConflictingState("user already has this status", map[string]interface{}{
			"status": user.Status,
		})
	}

	oldStatus := user.Status
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("status", req.Status).Error; err != nil {
			return fmt.Errorf("failed to update user status: %w", err)
		}

		audit := &models.AuditLog{
			UserID:       &adminID,
			Action:       "user.update_status",
			ResourceType: "users",
			ResourceID:   &user.ID,
			OldValues:    models.JSONB{"status": string(oldStatus)},
			NewValues:    models.JSONB{"status": string(req.Status)},
			Reason:       req.Reason,
		}
		return tx.Create(audit).Error
	})
	if err != nil {
		return nil, err
	}

	user.Status = req.Status
	return &user, nil
}

// ListAuditLogs returns the audit trail, newest first.
func (s *AdminService) ListAuditLogs(params utils.PaginationParams, resourceType string) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return logs, total, nil
}

// ListNotifications returns in-app notifications, optionally unread only.
func (s *AdminService) ListNotifications(params utils.PaginationParams, unreadOnly bool) ([]models.AdminNotification, int64, error) {
	query := s.db.Model(&models.AdminNotification{})
	if unreadOnly {
		query = query.Where("status = ?", "unread")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "priority"})
	query = utils.ApplyPagination(query, params)

	var notifications []models.AdminNotification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkNotificationRead flips an unread notification to read.
func (s *AdminService) MarkNotificationRead(notificationID uuid.UUID) error {
	result := s.db.Model(&models.AdminNotification{}).
		Where("id = ? AND status = ?", notificationID, "unread").
		Update("status", "read")
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("unread notification")
	}
	return nil
}
