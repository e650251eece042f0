// internal/models/evaluation.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// SupervisorEvaluation is the academic supervisor's scorecard for a hired
// placement. One per application, write-once; it also carries the
// final-result delivery guard, which is set exactly once and never reverted.
type SupervisorEvaluation struct {
	BaseModel
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;not null;uniqueIndex"`
	SupervisorID  uuid.UUID `json:"supervisor_id" gorm:"type:uuid;not null;index"`
	StudentID     uuid.UUID `json:"student_id" gorm:"type:uuid;not null;index"`

	Scores     JSONB            `json:"scores" gorm:"type:jsonb;not null"`
	TotalMarks int              `json:"total_marks" gorm:"not null"`
	MaxMarks   int              `json:"max_marks" gorm:"not null"`
	Percentage float64          `json:"percentage" gorm:"not null"`
	Grade      string           `json:"grade" gorm:"size:5;not null"`
	Comments   string           `json:"comments,omitempty" gorm:"type:text"`
	Status     EvaluationStatus `json:"status" gorm:"type:varchar(20);default:'submitted'"`

	// Delivery guard
	FinalResultSent   bool       `json:"final_result_sent" gorm:"not null;default:false"`
	FinalResultSentAt *time.Time `json:"final_result_sent_at,omitempty"`
	FinalResultSentBy *uuid.UUID `json:"final_result_sent_by,omitempty" gorm:"type:uuid"`

	// Relationships
	Application Application `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
	Supervisor  User        `json:"supervisor,omitempty" gorm:"foreignKey:SupervisorID"`
	Student     User        `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// CompanyEvaluation is the hosting company's scorecard for a hired placement.
// One per application, write-once.
type CompanyEvaluation struct {
	BaseModel
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;not null;uniqueIndex"`
	CompanyID     uuid.UUID `json:"company_id" gorm:"type:uuid;not null;index"`
	StudentID     uuid.UUID `json:"student_id" gorm:"type:uuid;not null;index"`

	Scores     JSONB            `json:"scores" gorm:"type:jsonb;not null"`
	TotalMarks int              `json:"total_marks" gorm:"not null"`
	MaxMarks   int              `json:"max_marks" gorm:"not null"`
	Percentage float64          `json:"percentage" gorm:"not null"`
	Grade      string           `json:"grade" gorm:"size:5;not null"`
	Comments   string           `json:"comments,omitempty" gorm:"type:text"`
	Status     EvaluationStatus `json:"status" gorm:"type:varchar(20);default:'submitted'"`

	// Relationships
	Application Application `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
	Company     User        `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Student     User        `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// evaluationStatusTransitions is the review ladder for submitted scorecards.
var evaluationStatusTransitions = map[EvaluationStatus][]EvaluationStatus{
	EvaluationStatusSubmitted: {EvaluationStatusReviewed, EvaluationStatusFinalized},
	EvaluationStatusReviewed:  {EvaluationStatusFinalized},
}

func CanTransitionEvaluationStatus(from, to EvaluationStatus) bool {
	for _, next := range evaluationStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
