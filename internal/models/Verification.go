package models

import (
	"time"

	"gorm.io/gorm"
)

// Verification statuses
const (
	VerificationPending     = "PENDING"
	VerificationUnderReview = "UNDER_REVIEW"
	VerificationVerified    = "VERIFIED"
	VerificationRejected    = "REJECTED"
)

// Verification tracks a youth's identity-confirmation lifecycle.
// Exactly one record exists per youth, created at registration in PENDING.
type Verification struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"uniqueIndex"` // Foreign key to the youth User
	Status string `json:"status" gorm:"default:PENDING"`

	AdminID      *uint  `json:"admin_id,omitempty"`
	FieldAgentID *uint  `json:"field_agent_id,omitempty"`
	AdminNotes   string `json:"admin_notes,omitempty"`
	FieldNotes   string `json:"field_notes,omitempty"`

	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	User        User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Admin       *User        `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	FieldAgent  *User        `gorm:"foreignKey:FieldAgentID" json:"field_agent,omitempty"`
	FieldVisits []FieldVisit `gorm:"foreignKey:VerificationID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"field_visits,omitempty"`
}
