package models

import (
	"time"

	"gorm.io/gorm"
)

// Opportunity is a donor-posted program youths can apply to.
// A donor owns its opportunities; only the owner may update or delete.
type Opportunity struct {
	gorm.Model
	DonorID uint `json:"donor_id" gorm:"index"`

	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements,omitempty"`

	// Eligible youth categories and target countries, in submission order
	Category  []string `json:"category" gorm:"serializer:json;type:text"`
	Countries []string `json:"countries" gorm:"serializer:json;type:text"`

	Deadline      *time.Time `json:"deadline,omitempty"`
	MaxApplicants *int       `json:"max_applicants,omitempty"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`

	Donor        User          `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	Applications []Application `gorm:"foreignKey:OpportunityID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"applications,omitempty"`
}
