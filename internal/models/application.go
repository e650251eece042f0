// internal/models/application.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Application tracks one student's candidacy for one job through the
// approval and hiring pipeline. The (student, job) pair is unique.
type Application struct {
	BaseModel
	StudentID    uuid.UUID  `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_applications_student_job"`
	JobID        uuid.UUID  `json:"job_id" gorm:"type:uuid;not null;uniqueIndex:idx_applications_student_job"`
	CompanyID    uuid.UUID  `json:"company_id" gorm:"type:uuid;not null;index"`
	SupervisorID *uuid.UUID `json:"supervisor_id" gorm:"type:uuid;index"`

	// Independent approval flags and their derived overall state.
	SupervisorStatus ApprovalStatus `json:"supervisor_status" gorm:"type:varchar(20);default:'pending'"`
	CompanyStatus    ApprovalStatus `json:"company_status" gorm:"type:varchar(20);default:'pending'"`
	OverallStatus    ApprovalStatus `json:"overall_status" gorm:"type:varchar(20);default:'pending'"`

	// Primary lifecycle state.
	Status ApplicationStatus `json:"status" gorm:"type:varchar(30);default:'pending';index"`

	// Interview metadata, present once scheduled.
	InterviewMode *InterviewMode `json:"interview_mode,omitempty" gorm:"type:varchar(20)"`
	InterviewAt   *time.Time     `json:"interview_at,omitempty"`

	// Hiring metadata, populated on transition to hired.
	HiredAt    *time.Time `json:"hired_at,omitempty"`
	Position   string     `json:"position,omitempty" gorm:"size:100"`
	Department string     `json:"department,omitempty" gorm:"size:100"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`

	// Relationships
	Student              User                  `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Job                  Job                   `json:"job,omitempty" gorm:"foreignKey:JobID"`
	Company              User                  `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Supervisor           *User                 `json:"supervisor,omitempty" gorm:"foreignKey:SupervisorID"`
	OfferLetter          *OfferLetter          `json:"offer_letter,omitempty" gorm:"foreignKey:ApplicationID"`
	SupervisorEvaluation *SupervisorEvaluation `json:"supervisor_evaluation,omitempty" gorm:"foreignKey:ApplicationID"`
	CompanyEvaluation    *CompanyEvaluation    `json:"company_evaluation,omitempty" gorm:"foreignKey:ApplicationID"`
	ReportCycle          *ReportCycle          `json:"report_cycle,omitempty" gorm:"foreignKey:ApplicationID"`
}

// applicationTransitions is the closed transition table of the lifecycle.
// Hired and rejected are terminal.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:            {ApplicationStatusInterviewScheduled, ApplicationStatusRejected},
	ApplicationStatusInterviewScheduled: {ApplicationStatusInterviewDone, ApplicationStatusRejected},
	ApplicationStatusInterviewDone:      {ApplicationStatusHired, ApplicationStatusRejected},
}

func (a *Application) CanTransition(to ApplicationStatus) bool {
	for _, next := range applicationTransitions[a.Status] {
		if next == to {
			return true
		}
	}
	return false
}

func (a *Application) IsTerminal() bool {
	return a.Status == ApplicationStatusHired || a.Status == ApplicationStatusRejected
}

// ComputeOverallStatus derives the overall approval state: approved iff both
// sides approved, rejected if either side rejected, pending otherwise.
func ComputeOverallStatus(supervisor, company ApprovalStatus) ApprovalStatus {
	if supervisor == ApprovalStatusRejected || company == ApprovalStatusRejected {
		return ApprovalStatusRejected
	}
	if supervisor == ApprovalStatusApproved && company == ApprovalStatusApproved {
		return ApprovalStatusApproved
	}
	return ApprovalStatusPending
}
