// internal/services/job_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/models"
	"github.com/internhub/internhub-backend/internal/utils"
)

// JobService manages the internship postings applications are filed against.
type JobService struct {
	db *gorm.DB
}

type CreateJobRequest struct {
	Title          string     `json:"title" validate:"required,min=3,max=255"`
	Department     string     `json:"department,omitempty" validate:"max=100"`
	Description    string     `json:"description,omitempty"`
	RequiredSkills []string   `json:"required_skills,omitempty"`
	OpenPositions  int        `json:"open_positions,omitempty" validate:"omitempty,min=1"`
	ClosesAt       *time.Time `json:"closes_at,omitempty"`
}

type UpdateJobRequest struct {
	Title          *string    `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Department     *string    `json:"department,omitempty" validate:"omitempty,max=100"`
	Description    *string    `json:"description,omitempty"`
	RequiredSkills []string   `json:"required_skills,omitempty"`
	OpenPositions  *int       `json:"open_positions,omitempty" validate:"omitempty,min=1"`
	ClosesAt       *time.Time `json:"closes_at,omitempty"`
}

type JobSearchParams struct {
	utils.PaginationParams
	CompanyID  *uuid.UUID
	ActiveOnly bool
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db}
}

func (s *JobService) CreateJob(companyID uuid.UUID, req *CreateJobRequest) (*models.Job, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	openPositions := req.OpenPositions
	if openPositions == 0 {
		openPositions = 1
	}

	job := &models.Job{
		CompanyID:      companyID,
		Title:          req.Title,
		Department:     req.Department,
		Description:    req.Description,
		RequiredSkills: pq.StringArray(req.RequiredSkills),
		OpenPositions:  openPositions,
		IsActive:       true,
		ClosesAt:       req.ClosesAt,
	}
	if err := s.db.Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

func (s *JobService) UpdateJob(companyID, jobID uuid.UUID, req *UpdateJobRequest) (*models.Job, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("validation failed", validationDetails(err))
	}

	job, err := s.ownedJob(companyID, jobID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.RequiredSkills != nil {
		updates["required_skills"] = pq.StringArray(req.RequiredSkills)
	}
	if req.OpenPositions != nil {
		updates["open_positions"] = *req.OpenPositions
	}
	if req.ClosesAt != nil {
		updates["closes_at"] = *req.ClosesAt
	}

	if len(updates) > 0 {
		if err := s.db.Model(job).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update job: %w", err)
		}
	}

	s.db.First(job, jobID)
	return job, nil
}

// DeactivateJob closes a posting to new applications. Existing applications
// continue through the pipeline.
func (s *JobService) DeactivateJob(companyID, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.ownedJob(companyID, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, apperrors.ConflictingState("job is already inactive", nil)
	}
	if err := s.db.Model(job).Update("is_active", false).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate job: %w", err)
	}
	job.IsActive = false
	return job, nil
}

func (s *JobService) GetJob(jobID uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.db.Preload("Company").First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("job")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &job, nil
}

func (s *JobService) ListJobs(params JobSearchParams) ([]models.Job, int64, error) {
	query := s.db.Model(&models.Job{}).Preload("Company")

	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if params.CompanyID != nil {
		query = query.Where("company_id = ?", *params.CompanyID)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "closes_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var jobs []models.Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	return jobs, total, nil
}

func (s *JobService) ownedJob(companyID, jobID uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("job")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if job.CompanyID != companyID {
		return nil, apperrors.Forbidden("not your job posting")
	}
	return &job, nil
}
