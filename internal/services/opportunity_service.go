package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fursa_connect/internal/models"
)

type CreateOpportunityInput struct {
	Title         string
	Description   string
	Requirements  string
	Category      []string
	Countries     []string
	Deadline      *time.Time
	MaxApplicants *int
}

// CreateOpportunity posts a new opportunity owned by the donor.
func CreateOpportunity(db *gorm.DB, donorID uint, input CreateOpportunityInput) (*models.Opportunity, error) {
	opportunity := models.Opportunity{
		DonorID:       donorID,
		Title:         input.Title,
		Description:   input.Description,
		Requirements:  input.Requirements,
		Category:      input.Category,
		Countries:     input.Countries,
		Deadline:      input.Deadline,
		MaxApplicants: input.MaxApplicants,
		IsActive:      true,
	}
	if err := db.Create(&opportunity).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Donor").First(&opportunity, opportunity.ID).Error; err != nil {
		return nil, err
	}
	return &opportunity, nil
}

type UpdateOpportunityInput struct {
	Title         *string
	Description   *string
	Requirements  *string
	Category      []string
	Countries     []string
	Deadline      *time.Time
	MaxApplicants *int
	IsActive      *bool
}

// UpdateOpportunity applies a partial update. Only the owning donor may
// touch an opportunity; anyone else gets an authorization error, never a
// silent no-op.
func UpdateOpportunity(db *gorm.DB, opportunityID, donorID uint, input UpdateOpportunityInput) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	if err := db.First(&opportunity, opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("opportunity not found")
		}
		return nil, err
	}
	if opportunity.DonorID != donorID {
		return nil, authorizationErrorf("you can only update your own opportunities")
	}

	if input.Title != nil {
		opportunity.Title = *input.Title
	}
	if input.Description != nil {
		opportunity.Description = *input.Description
	}
	if input.Requirements != nil {
		opportunity.Requirements = *input.Requirements
	}
	if input.Category != nil {
		opportunity.Category = input.Category
	}
	if input.Countries != nil {
		opportunity.Countries = input.Countries
	}
	if input.Deadline != nil {
		opportunity.Deadline = input.Deadline
	}
	if input.MaxApplicants != nil {
		opportunity.MaxApplicants = input.MaxApplicants
	}
	if input.IsActive != nil {
		opportunity.IsActive = *input.IsActive
	}

	if err := db.Save(&opportunity).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Donor").First(&opportunity, opportunity.ID).Error; err != nil {
		return nil, err
	}
	return &opportunity, nil
}

// OpportunityFilter narrows a listing; zero-valued fields are ignored.
type OpportunityFilter struct {
	Category string
	Country  string
	IsActive *bool
	DonorID  uint
}

// OpportunityListing is a list entry carrying the opportunity along with
// how many applications it has received.
type OpportunityListing struct {
	models.Opportunity
	ApplicationCount int64 `json:"application_count"`
}

// ListOpportunities returns opportunities matching the filter, newest
// first, each with its donor and application count. Category and country
// match against the stored lists.
func ListOpportunities(db *gorm.DB, filter OpportunityFilter) ([]OpportunityListing, error) {
	query := db.Model(&models.Opportunity{})
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.DonorID != 0 {
		query = query.Where("donor_id = ?", filter.DonorID)
	}
	// List columns are JSON-encoded text; membership is a quoted-element match
	if filter.Category != "" {
		query = query.Where("category LIKE ?", `%"`+filter.Category+`"%`)
	}
	if filter.Country != "" {
		query = query.Where("countries LIKE ?", `%"`+filter.Country+`"%`)
	}

	var opportunities []models.Opportunity
	if err := query.Preload("Donor").Order("created_at desc").Find(&opportunities).Error; err != nil {
		return nil, err
	}

	listings := make([]OpportunityListing, len(opportunities))
	for i, opportunity := range opportunities {
		listings[i] = OpportunityListing{Opportunity: opportunity}
	}
	if len(opportunities) == 0 {
		return listings, nil
	}

	ids := make([]uint, len(opportunities))
	for i, opportunity := range opportunities {
		ids[i] = opportunity.ID
	}
	var counts []struct {
		OpportunityID uint
		Total         int64
	}
	err := db.Model(&models.Application{}).
		Select("opportunity_id, count(*) as total").
		Where("opportunity_id IN ?", ids).
		Group("opportunity_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countByID := make(map[uint]int64, len(counts))
	for _, row := range counts {
		countByID[row.OpportunityID] = row.Total
	}
	for i := range listings {
		listings[i].ApplicationCount = countByID[listings[i].ID]
	}
	return listings, nil
}

// OpportunityByID fetches one opportunity with its donor summary.
func OpportunityByID(db *gorm.DB, opportunityID uint) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	if err := db.Preload("Donor").First(&opportunity, opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("opportunity not found")
		}
		return nil, err
	}
	return &opportunity, nil
}

// CountApplications reports how many applications an opportunity has.
func CountApplications(db *gorm.DB, opportunityID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("opportunity_id = ?", opportunityID).
		Count(&count).Error
	return count, err
}

// DeleteOpportunity removes an opportunity; owner only.
func DeleteOpportunity(db *gorm.DB, opportunityID, donorID uint) error {
	var opportunity models.Opportunity
	if err := db.First(&opportunity, opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErrorf("opportunity not found")
		}
		return err
	}
	if opportunity.DonorID != donorID {
		return authorizationErrorf("you can only delete your own opportunities")
	}
	return db.Delete(&opportunity).Error
}
