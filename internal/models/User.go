package models

import (
	"time"

	"gorm.io/gorm"
)

// Platform roles
const (
	RoleYouth      = "YOUTH"
	RoleDonor      = "DONOR"
	RoleAdmin      = "ADMIN"
	RoleFieldAgent = "FIELD_AGENT"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Youth categories
const (
	CategoryRefugee    = "REFUGEE"
	CategoryIDP        = "IDP"
	CategoryVulnerable = "VULNERABLE"
	CategoryPWD        = "PWD"
)

type User struct {
	gorm.Model
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" gorm:"unique"`
	Password  string `json:"-"`
	Phone     string `json:"phone"`
	Role      string `json:"role"` // "YOUTH", "DONOR", "ADMIN", "FIELD_AGENT", "SUPER_ADMIN"

	// Youth profile fields; the locality values drive field-agent matching
	Category    string     `json:"category,omitempty"`
	Country     string     `json:"country,omitempty"`
	Camp        string     `json:"camp,omitempty"`
	Community   string     `json:"community,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender,omitempty"`

	// Donor profile fields
	OrganizationName string `json:"organization_name,omitempty"`
	OrganizationType string `json:"organization_type,omitempty"`

	// Actor-specific relations
	Verification *Verification `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"verification,omitempty"`
	Documents    []Document    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"documents,omitempty"`
}
