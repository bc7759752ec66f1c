package models

import (
	"time"

	"gorm.io/gorm"
)

// Application statuses
const (
	ApplicationPending     = "PENDING"
	ApplicationUnderReview = "UNDER_REVIEW"
	ApplicationSelected    = "SELECTED"
	ApplicationRejected    = "REJECTED"
)

// Application is a youth's submission against one opportunity.
// At most one row per (youth, opportunity).
type Application struct {
	gorm.Model
	YouthID       uint `json:"youth_id" gorm:"uniqueIndex:idx_applications_youth_opportunity"`
	OpportunityID uint `json:"opportunity_id" gorm:"uniqueIndex:idx_applications_youth_opportunity"`

	Status         string    `json:"status" gorm:"default:PENDING"` // "PENDING", "UNDER_REVIEW", "SELECTED", "REJECTED"
	CoverLetter    string    `json:"cover_letter,omitempty"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`

	Youth       User        `gorm:"foreignKey:YouthID" json:"youth,omitempty"`
	Opportunity Opportunity `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
}
