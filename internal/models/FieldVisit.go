package models

import (
	"time"

	"gorm.io/gorm"
)

// FieldVisit is one physical-verification visit logged against a
// verification case. Append-only.
type FieldVisit struct {
	gorm.Model
	VerificationID uint `json:"verification_id" gorm:"index"`
	FieldAgentID   uint `json:"field_agent_id" gorm:"index"`

	VisitDate time.Time `json:"visit_date"`
	Notes     string    `json:"notes,omitempty"`
	// Photo URLs captured during the visit
	Photos []string `json:"photos" gorm:"serializer:json;type:text"`

	Verification Verification `gorm:"foreignKey:VerificationID" json:"verification,omitempty"`
	FieldAgent   User         `gorm:"foreignKey:FieldAgentID" json:"field_agent,omitempty"`
}
