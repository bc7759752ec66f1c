package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"fursa_connect/internal/models"
)

type ApplicationServiceSuite struct {
	suite.Suite
	db    *gorm.DB
	donor models.User
}

func TestApplicationServiceSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceSuite))
}

func (s *ApplicationServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.donor = models.User{Email: "donor@example.com", Role: models.RoleDonor, OrganizationName: "Hope Fund"}
	s.Require().NoError(s.db.Create(&s.donor).Error)
}

func (s *ApplicationServiceSuite) createVerifiedYouth(email string) models.User {
	youth := models.User{Email: email, Role: models.RoleYouth, Country: "Kenya"}
	s.Require().NoError(s.db.Create(&youth).Error)
	now := time.Now()
	verification := models.Verification{
		UserID:     youth.ID,
		Status:     models.VerificationVerified,
		VerifiedAt: &now,
	}
	s.Require().NoError(s.db.Create(&verification).Error)
	return youth
}

func (s *ApplicationServiceSuite) createOpportunity(mutate func(*models.Opportunity)) models.Opportunity {
	opportunity := models.Opportunity{
		DonorID:     s.donor.ID,
		Title:       "Scholarship",
		Description: "Tuition support",
		Category:    []string{models.CategoryRefugee},
		Countries:   []string{"Kenya"},
		IsActive:    true,
	}
	if mutate != nil {
		mutate(&opportunity)
	}
	s.Require().NoError(s.db.Create(&opportunity).Error)
	return opportunity
}

func (s *ApplicationServiceSuite) countApplications(opportunityID uint) int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.Application{}).
		Where("opportunity_id = ?", opportunityID).Count(&count).Error)
	return count
}

func (s *ApplicationServiceSuite) TestCreateApplication() {
	youth := s.createVerifiedYouth("youth@example.com")
	opportunity := s.createOpportunity(nil)

	application, err := CreateApplication(s.db, youth.ID, CreateApplicationInput{
		OpportunityID: opportunity.ID,
		CoverLetter:   "I would benefit greatly",
	})
	s.Require().NoError(err)
	s.Equal(models.ApplicationPending, application.Status)
	s.False(application.SubmittedAt.IsZero())
	s.Equal(opportunity.ID, application.Opportunity.ID)
	s.Equal(s.donor.ID, application.Opportunity.DonorID)
}

func (s *ApplicationServiceSuite) TestCreateApplicationGate() {
	youth := s.createVerifiedYouth("youth@example.com")

	s.Run("opportunity must exist", func() {
		_, err := CreateApplication(s.db, youth.ID, CreateApplicationInput{OpportunityID: 9999})
		var notFoundErr *NotFoundError
		s.ErrorAs(err, &notFoundErr)
	})

	s.Run("inactive opportunity", func() {
		opportunity := s.createOpportunity(func(o *models.Opportunity) { o.IsActive = false })
		_, err := CreateApplication(s.db, youth.ID, CreateApplicationInput{OpportunityID: opportunity.ID})
		var validationErr *ValidationError
		s.Require().ErrorAs(err, &validationErr)
		s.Contains(validationErr.Message, "no longer active")
		s.EqualValues(0, s.countApplications(opportunity.ID))
	})

	s.Run("deadline passed", func() {
		past := time.Now().Add(-24 * time.Hour)
		opportunity := s.createOpportunity(func(o *models.Opportunity) { o.Deadline = &past })
		_, err := CreateApplication(s.db, youth.ID, CreateApplicationInput{OpportunityID: opportunity.ID})
		var validationErr *ValidationError
		s.Require().ErrorAs(err, &validationErr)
		s.Contains(validationErr.Message, "deadline")
		s.EqualValues(0, s.countApplications(opportunity.ID))
	})

	s.Run("unverified youth", func() {
		pending := models.User{Email: "pending@example.com", Role: models.RoleYouth}
		s.Require().NoError(s.db.Create(&pending).Error)
		s.Require().NoError(s.db.Create(&models.Verification{
			UserID: pending.ID,
			Status: models.VerificationPending,
		}).Error)

		opportunity := s.createOpportunity(nil)
		_, err := CreateApplication(s.db, pending.ID, CreateApplicationInput{OpportunityID: opportunity.ID})
		var validationErr *ValidationError
		s.Require().ErrorAs(err, &validationErr)
		s.Contains(validationErr.Message, "must be verified")
		s.EqualValues(0, s.countApplications(opportunity.ID))
	})

	s.Run("duplicate application", func() {
		opportunity := s.createOpportunity(nil)
		_, err := CreateApplication(s.db, youth.ID, CreateApplicationInput{OpportunityID: opportunity.ID})
		s.Require().NoError(err)

		_, err = CreateApplication(s.db, youth.ID, CreateApplicationInput{OpportunityID: opportunity.ID})
		var validationErr *ValidationError
		s.Require().ErrorAs(err, &validationErr)
		s.Contains(validationErr.Message, "already applied")
		s.EqualValues(1, s.countApplications(opportunity.ID))
	})
}

func (s *ApplicationServiceSuite) TestCreateApplicationRespectsApplicantCap() {
	capOne := 1
	opportunity := s.createOpportunity(func(o *models.Opportunity) { o.MaxApplicants = &capOne })

	first := s.createVerifiedYouth("first@example.com")
	second := s.createVerifiedYouth("second@example.com")

	_, err := CreateApplication(s.db, first.ID, CreateApplicationInput{OpportunityID: opportunity.ID})
	s.Require().NoError(err)

	_, err = CreateApplication(s.db, second.ID, CreateApplicationInput{OpportunityID: opportunity.ID})
	var validationErr *ValidationError
	s.Require().ErrorAs(err, &validationErr)
	s.Contains(validationErr.Message, "maximum number of applicants")
	s.EqualValues(1, s.countApplications(opportunity.ID))
}

func (s *ApplicationServiceSuite) TestYouthApplications() {
	youth := s.createVerifiedYouth("youth@example.com")
	older := s.createOpportunity(nil)
	newer := s.createOpportunity(func(o *models.Opportunity) { o.Title = "Mentorship" })

	olderApp := models.Application{
		YouthID: youth.ID, OpportunityID: older.ID,
		Status: models.ApplicationPending, SubmittedAt: time.Now().Add(-time.Hour),
	}
	newerApp := models.Application{
		YouthID: youth.ID, OpportunityID: newer.ID,
		Status: models.ApplicationPending, SubmittedAt: time.Now(),
	}
	s.Require().NoError(s.db.Create(&olderApp).Error)
	s.Require().NoError(s.db.Create(&newerApp).Error)

	applications, err := YouthApplications(s.db, youth.ID)
	s.Require().NoError(err)
	s.Require().Len(applications, 2)
	s.Equal(newerApp.ID, applications[0].ID)
	s.Equal(olderApp.ID, applications[1].ID)
}

func (s *ApplicationServiceSuite) TestOpportunityApplicationsOwnership() {
	youth := s.createVerifiedYouth("youth@example.com")
	opportunity := s.createOpportunity(nil)
	_, err := CreateApplication(s.db, youth.ID, CreateApplicationInput{OpportunityID: opportunity.ID})
	s.Require().NoError(err)

	otherDonor := models.User{Email: "other@example.com", Role: models.RoleDonor}
	s.Require().NoError(s.db.Create(&otherDonor).Error)

	s.Run("owner sees applications", func() {
		applications, err := OpportunityApplications(s.db, opportunity.ID, s.donor.ID)
		s.Require().NoError(err)
		s.Len(applications, 1)
	})

	s.Run("non-owner is refused", func() {
		_, err := OpportunityApplications(s.db, opportunity.ID, otherDonor.ID)
		var authErr *AuthorizationError
		s.ErrorAs(err, &authErr)
	})
}

func (s *ApplicationServiceSuite) TestUpdateApplicationStatus() {
	youth := s.createVerifiedYouth("youth@example.com")
	opportunity := s.createOpportunity(nil)
	application, err := CreateApplication(s.db, youth.ID, CreateApplicationInput{OpportunityID: opportunity.ID})
	s.Require().NoError(err)

	otherDonor := models.User{Email: "other@example.com", Role: models.RoleDonor}
	s.Require().NoError(s.db.Create(&otherDonor).Error)

	s.Run("owner updates status", func() {
		updated, err := UpdateApplicationStatus(s.db, application.ID, s.donor.ID, models.ApplicationSelected)
		s.Require().NoError(err)
		s.Equal(models.ApplicationSelected, updated.Status)
	})

	s.Run("non-owner is refused", func() {
		_, err := UpdateApplicationStatus(s.db, application.ID, otherDonor.ID, models.ApplicationRejected)
		var authErr *AuthorizationError
		s.ErrorAs(err, &authErr)
	})

	s.Run("invalid status", func() {
		_, err := UpdateApplicationStatus(s.db, application.ID, s.donor.ID, "SHORTLISTED")
		var validationErr *ValidationError
		s.ErrorAs(err, &validationErr)
	})
}

func (s *ApplicationServiceSuite) TestApplicationByIDAccess() {
	youth := s.createVerifiedYouth("youth@example.com")
	opportunity := s.createOpportunity(nil)
	application, err := CreateApplication(s.db, youth.ID, CreateApplicationInput{OpportunityID: opportunity.ID})
	s.Require().NoError(err)

	stranger := s.createVerifiedYouth("stranger@example.com")

	s.Run("youth owner", func() {
		got, err := ApplicationByID(s.db, application.ID, youth.ID)
		s.Require().NoError(err)
		s.Equal(application.ID, got.ID)
	})

	s.Run("owning donor", func() {
		got, err := ApplicationByID(s.db, application.ID, s.donor.ID)
		s.Require().NoError(err)
		s.Equal(application.ID, got.ID)
	})

	s.Run("anyone else is refused", func() {
		_, err := ApplicationByID(s.db, application.ID, stranger.ID)
		var authErr *AuthorizationError
		s.ErrorAs(err, &authErr)
	})
}
