package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fursa_connect/internal/models"
)

// UserByID fetches a user or a NotFoundError.
func UserByID(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}

type UpdateProfileInput struct {
	FirstName        *string
	LastName         *string
	Phone            *string
	Category         *string
	Country          *string
	Camp             *string
	Community        *string
	DateOfBirth      *time.Time
	Gender           *string
	OrganizationName *string
	OrganizationType *string
}

// UpdateProfile applies a partial profile update. Email, password and role
// are not editable through this path.
func UpdateProfile(db *gorm.DB, userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := UserByID(db, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Category != nil {
		user.Category = *input.Category
	}
	if input.Country != nil {
		user.Country = *input.Country
	}
	if input.Camp != nil {
		user.Camp = *input.Camp
	}
	if input.Community != nil {
		user.Community = *input.Community
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = input.DateOfBirth
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.OrganizationName != nil {
		user.OrganizationName = *input.OrganizationName
	}
	if input.OrganizationType != nil {
		user.OrganizationType = *input.OrganizationType
	}

	if err := db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UserDocuments lists a user's documents, newest upload first.
func UserDocuments(db *gorm.DB, userID uint) ([]models.Document, error) {
	var documents []models.Document
	err := db.Where("user_id = ?", userID).
		Order("uploaded_at desc").
		Find(&documents).Error
	return documents, err
}

// UserVerification fetches the caller's verification with reviewer and
// visit history, or a NotFoundError for users without one.
func UserVerification(db *gorm.DB, userID uint) (*models.Verification, error) {
	var verification models.Verification
	err := db.Where("user_id = ?", userID).
		Preload("Admin").
		Preload("FieldAgent").
		Preload("FieldVisits", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("field_visits.visit_date desc")
		}).
		First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("verification not found")
		}
		return nil, err
	}
	return &verification, nil
}
