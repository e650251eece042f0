// internal/models/admin.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog records every mutating request plus explicit administrative
// overrides, which are never a silent path.
type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:50;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid"`
	OldValues    JSONB      `json:"old_values,omitempty" gorm:"type:jsonb"`
	NewValues    JSONB      `json:"new_values,omitempty" gorm:"type:jsonb"`
	Reason       string     `json:"reason,omitempty" gorm:"type:text"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"size:512"`
}

// AdminNotification is an in-app notification row, created alongside emails.
type AdminNotification struct {
	BaseModel
	Type                string     `json:"type" gorm:"size:50;not null;index"`
	Title               string     `json:"title" gorm:"size:255;not null"`
	Message             string     `json:"message" gorm:"type:text"`
	Priority            string     `json:"priority" gorm:"size:20;default:'medium'"`
	Status              string     `json:"status" gorm:"size:20;default:'unread';index"`
	RelatedResourceType string     `json:"related_resource_type,omitempty" gorm:"size:50"`
	RelatedResourceID   *uuid.UUID `json:"related_resource_id,omitempty" gorm:"type:uuid"`
}
