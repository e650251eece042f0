// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeStudent    UserType = "student"
	UserTypeCompany    UserType = "company"
	UserTypeSupervisor UserType = "supervisor"
	UserTypeAdmin      UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// ApprovalStatus covers the independent supervisor/company approval flags
// and the derived overall status of an application.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// ApplicationStatus is the primary lifecycle state of an application.
type ApplicationStatus string

const (
	ApplicationStatusPending            ApplicationStatus = "pending"
	ApplicationStatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	ApplicationStatusInterviewDone      ApplicationStatus = "interview_done"
	ApplicationStatusHired              ApplicationStatus = "hired"
	ApplicationStatusRejected           ApplicationStatus = "rejected"
)

type InterviewMode string

const (
	InterviewModeRemote InterviewMode = "remote"
	InterviewModeOnSite InterviewMode = "on_site"
)

type OfferStatus string

const (
	OfferStatusSent     OfferStatus = "sent"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

type OfferResponse string

const (
	OfferResponseAccepted OfferResponse = "accepted"
	OfferResponseRejected OfferResponse = "rejected"
)

// EvaluationStatus is the administrative review state of a submitted scorecard.
// Scores themselves are immutable outside the audited override path.
type EvaluationStatus string

const (
	EvaluationStatusSubmitted EvaluationStatus = "submitted"
	EvaluationStatusReviewed  EvaluationStatus = "reviewed"
	EvaluationStatusFinalized EvaluationStatus = "finalized"
)

type ReportStatus string

const (
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusReviewed  ReportStatus = "reviewed"
)

type ReportRating string

const (
	ReportRatingGood ReportRating = "good"
	ReportRatingBad  ReportRating = "bad"
)
