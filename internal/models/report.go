// internal/models/report.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ReportCycle is opened when an application is hired and spans the internship
// dates. One per application.
type ReportCycle struct {
	BaseModel
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;not null;uniqueIndex"`
	StudentID     uuid.UUID `json:"student_id" gorm:"type:uuid;not null;index"`
	SupervisorID  uuid.UUID `json:"supervisor_id" gorm:"type:uuid;not null;index"`

	StartDate  time.Time `json:"start_date" gorm:"not null"`
	EndDate    time.Time `json:"end_date" gorm:"not null"`
	WeeksTotal int       `json:"weeks_total" gorm:"not null"`
	IsActive   bool      `json:"is_active" gorm:"default:true;index"`

	// Relationships
	Application Application    `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
	Reports     []WeeklyReport `json:"reports,omitempty" gorm:"foreignKey:CycleID"`
}

// WeeklyReport is a student's progress report for one week of a cycle.
// One per (cycle, week).
type WeeklyReport struct {
	BaseModel
	CycleID    uuid.UUID `json:"cycle_id" gorm:"type:uuid;not null;uniqueIndex:idx_reports_cycle_week"`
	WeekNumber int       `json:"week_number" gorm:"not null;uniqueIndex:idx_reports_cycle_week"`
	StudentID  uuid.UUID `json:"student_id" gorm:"type:uuid;not null;index"`

	Summary        string         `json:"summary" gorm:"type:text;not null"`
	Challenges     string         `json:"challenges,omitempty" gorm:"type:text"`
	AttachmentKeys pq.StringArray `json:"attachment_keys,omitempty" gorm:"type:text[]"`

	Status     ReportStatus  `json:"status" gorm:"type:varchar(20);default:'submitted'"`
	Rating     *ReportRating `json:"rating,omitempty" gorm:"type:varchar(10)"`
	ReviewedBy *uuid.UUID    `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt *time.Time    `json:"reviewed_at,omitempty"`

	// Relationships
	Cycle   ReportCycle `json:"cycle,omitempty" gorm:"foreignKey:CycleID"`
	Student User        `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}
