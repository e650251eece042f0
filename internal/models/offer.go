// internal/models/offer.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// OfferLetter is opened in the same transaction that hires an application.
// It starts in sent and becomes immutable once the student responds.
type OfferLetter struct {
	BaseModel
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;not null;uniqueIndex"`
	StudentID     uuid.UUID `json:"student_id" gorm:"type:uuid;not null;index"`
	CompanyID     uuid.UUID `json:"company_id" gorm:"type:uuid;not null;index"`

	Position    string     `json:"position" gorm:"size:100;not null"`
	Department  string     `json:"department" gorm:"size:100"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ArtifactURL string     `json:"artifact_url,omitempty" gorm:"size:512"`

	Status OfferStatus `json:"status" gorm:"type:varchar(20);default:'sent';index"`

	// Student response, populated only on transition out of sent.
	Response         *OfferResponse `json:"response,omitempty" gorm:"type:varchar(20)"`
	ResponseComments string         `json:"response_comments,omitempty" gorm:"type:text"`
	RespondedAt      *time.Time     `json:"responded_at,omitempty"`

	// Relationships
	Application Application `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
	Student     User        `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Company     User        `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

func (o *OfferLetter) IsTerminal() bool {
	return o.Status == OfferStatusAccepted || o.Status == OfferStatusRejected
}
