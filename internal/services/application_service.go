package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fursa_connect/internal/models"
)

type CreateApplicationInput struct {
	OpportunityID  uint
	CoverLetter    string
	AdditionalInfo string
}

// CreateApplication runs the eligibility gate and, if every check passes,
// creates the application in PENDING. Checks run in order and the first
// failure wins: opportunity exists, is active, deadline not passed, youth
// is VERIFIED, no duplicate application, applicant cap not reached. The
// whole read-then-write sequence sits in one transaction so concurrent
// submissions cannot slip past the duplicate or cap checks.
func CreateApplication(db *gorm.DB, youthID uint, input CreateApplicationInput) (*models.Application, error) {
	var application models.Application

	err := db.Transaction(func(tx *gorm.DB) error {
		var opportunity models.Opportunity
		if err := tx.First(&opportunity, input.OpportunityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErrorf("opportunity not found")
			}
			return err
		}

		if !opportunity.IsActive {
			return validationErrorf("this opportunity is no longer active")
		}
		if opportunity.Deadline != nil && opportunity.Deadline.Before(time.Now()) {
			return validationErrorf("the deadline for this opportunity has passed")
		}

		var verification models.Verification
		err := tx.Where("user_id = ?", youthID).First(&verification).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err != nil || verification.Status != models.VerificationVerified {
			return validationErrorf("you must be verified before applying to opportunities")
		}

		var existing int64
		err = tx.Model(&models.Application{}).
			Where("youth_id = ? AND opportunity_id = ?", youthID, opportunity.ID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return validationErrorf("you have already applied to this opportunity")
		}

		if opportunity.MaxApplicants != nil {
			var count int64
			err = tx.Model(&models.Application{}).
				Where("opportunity_id = ?", opportunity.ID).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count >= int64(*opportunity.MaxApplicants) {
				return validationErrorf("this opportunity has reached its maximum number of applicants")
			}
		}

		application = models.Application{
			YouthID:        youthID,
			OpportunityID:  opportunity.ID,
			Status:         models.ApplicationPending,
			CoverLetter:    input.CoverLetter,
			AdditionalInfo: input.AdditionalInfo,
			SubmittedAt:    time.Now(),
		}
		return tx.Create(&application).Error
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Opportunity").Preload("Opportunity.Donor").Preload("Youth").
		First(&application, application.ID).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// YouthApplications lists a youth's applications, newest submission first.
func YouthApplications(db *gorm.DB, youthID uint) ([]models.Application, error) {
	var applications []models.Application
	err := db.Where("youth_id = ?", youthID).
		Preload("Opportunity").
		Preload("Opportunity.Donor").
		Order("submitted_at desc").
		Find(&applications).Error
	return applications, err
}

// OpportunityApplications lists the applications against one opportunity.
// Owner only.
func OpportunityApplications(db *gorm.DB, opportunityID, donorID uint) ([]models.Application, error) {
	var opportunity models.Opportunity
	if err := db.First(&opportunity, opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("opportunity not found")
		}
		return nil, err
	}
	if opportunity.DonorID != donorID {
		return nil, authorizationErrorf("you can only view applications for your own opportunities")
	}

	var applications []models.Application
	err := db.Where("opportunity_id = ?", opportunityID).
		Preload("Youth").
		Preload("Youth.Verification").
		Order("submitted_at desc").
		Find(&applications).Error
	return applications, err
}

// UpdateApplicationStatus moves an application through the donor's review
// pipeline. The caller must own the opportunity the application targets.
func UpdateApplicationStatus(db *gorm.DB, applicationID, donorID uint, status string) (*models.Application, error) {
	switch status {
	case models.ApplicationPending, models.ApplicationUnderReview,
		models.ApplicationSelected, models.ApplicationRejected:
	default:
		return nil, validationErrorf("invalid application status: %s", status)
	}

	var application models.Application
	if err := db.Preload("Opportunity").First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("application not found")
		}
		return nil, err
	}
	if application.Opportunity.DonorID != donorID {
		return nil, authorizationErrorf("you can only update applications for your own opportunities")
	}

	application.Status = status
	if err := db.Save(&application).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("Opportunity").Preload("Opportunity.Donor").Preload("Youth").
		First(&application, application.ID).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// ApplicationByID fetches one application. Visible to the applying youth
// and the donor who owns the opportunity.
func ApplicationByID(db *gorm.DB, applicationID, callerID uint) (*models.Application, error) {
	var application models.Application
	err := db.Preload("Opportunity").Preload("Opportunity.Donor").Preload("Youth").
		First(&application, applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("application not found")
		}
		return nil, err
	}
	if application.YouthID != callerID && application.Opportunity.DonorID != callerID {
		return nil, authorizationErrorf("you can only view your own applications")
	}
	return &application, nil
}
