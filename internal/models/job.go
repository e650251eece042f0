// internal/models/job.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job is an internship opening posted by a company. Applications reference a
// job; the company of record on an application is derived from it.
type Job struct {
	BaseModel
	CompanyID      uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	Title          string         `json:"title" gorm:"size:255;not null"`
	Department     string         `json:"department" gorm:"size:100"`
	Description    string         `json:"description" gorm:"type:text"`
	RequiredSkills pq.StringArray `json:"required_skills" gorm:"type:text[]"`
	OpenPositions  int            `json:"open_positions" gorm:"default:1"`
	IsActive       bool           `json:"is_active" gorm:"default:true;index"`
	ClosesAt       *time.Time     `json:"closes_at"`

	// Relationships
	Company      User          `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:JobID"`
}
