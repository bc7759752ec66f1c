package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"fursa_connect/internal/models"
)

type UserServiceSuite struct {
	suite.Suite
	db *gorm.DB
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
}

func (s *UserServiceSuite) TestUpdateProfilePartial() {
	user := models.User{Email: "youth@example.com", Role: models.RoleYouth, FirstName: "Amina", Country: "Kenya"}
	s.Require().NoError(s.db.Create(&user).Error)

	camp := "Kakuma"
	phone := "+254700000000"
	updated, err := UpdateProfile(s.db, user.ID, UpdateProfileInput{Camp: &camp, Phone: &phone})
	s.Require().NoError(err)
	s.Equal("Kakuma", updated.Camp)
	s.Equal("+254700000000", updated.Phone)
	// Untouched fields survive
	s.Equal("Amina", updated.FirstName)
	s.Equal("Kenya", updated.Country)
}

func (s *UserServiceSuite) TestUpdateProfileMissingUser() {
	camp := "Kakuma"
	_, err := UpdateProfile(s.db, 9999, UpdateProfileInput{Camp: &camp})
	var notFoundErr *NotFoundError
	s.ErrorAs(err, &notFoundErr)
}

func (s *UserServiceSuite) TestUserDocumentsNewestFirst() {
	user := models.User{Email: "youth@example.com", Role: models.RoleYouth}
	s.Require().NoError(s.db.Create(&user).Error)

	older := models.Document{
		UserID: user.ID, Type: models.DocumentID,
		FileName: "id.pdf", FileURL: "https://files.example.com/id.pdf",
		UploadedAt: time.Now().Add(-time.Hour),
	}
	newer := models.Document{
		UserID: user.ID, Type: models.DocumentTranscript,
		FileName: "transcript.pdf", FileURL: "https://files.example.com/t.pdf",
		UploadedAt: time.Now(),
	}
	s.Require().NoError(s.db.Create(&older).Error)
	s.Require().NoError(s.db.Create(&newer).Error)

	documents, err := UserDocuments(s.db, user.ID)
	s.Require().NoError(err)
	s.Require().Len(documents, 2)
	s.Equal(newer.ID, documents[0].ID)
	s.Equal(older.ID, documents[1].ID)
}

func (s *UserServiceSuite) TestUserVerification() {
	user := models.User{Email: "youth@example.com", Role: models.RoleYouth}
	s.Require().NoError(s.db.Create(&user).Error)
	verification := models.Verification{UserID: user.ID, Status: models.VerificationPending}
	s.Require().NoError(s.db.Create(&verification).Error)

	got, err := UserVerification(s.db, user.ID)
	s.Require().NoError(err)
	s.Equal(verification.ID, got.ID)

	donor := models.User{Email: "donor@example.com", Role: models.RoleDonor}
	s.Require().NoError(s.db.Create(&donor).Error)
	_, err = UserVerification(s.db, donor.ID)
	var notFoundErr *NotFoundError
	s.ErrorAs(err, &notFoundErr)
}
