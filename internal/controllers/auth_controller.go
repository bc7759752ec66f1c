package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fursa_connect/internal/config"
	"fursa_connect/internal/middleware"
	"fursa_connect/internal/models"
)

type registerInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`

	// Youth-specific fields
	Category    string `json:"category"`
	Country     string `json:"country"`
	Camp        string `json:"camp"`
	Community   string `json:"community"`
	DateOfBirth string `json:"date_of_birth"` // ISO date string
	Gender      string `json:"gender"`

	// Donor-specific fields
	OrganizationName string `json:"organization_name"`
	OrganizationType string `json:"organization_type"`
}

// RegisterUser creates an account and, for youths, opens their
// verification case in PENDING within the same transaction.
func RegisterUser(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Role = role

	if input.Category != "" {
		if err := validateCategory(input.Category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	dateOfBirth, err := parseDateOfBirth(input.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	user, err := createUserRecord(tx, input, hashedPassword, dateOfBirth)
	if err != nil {
		tx.Rollback()
		if isDuplicateEmail(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
		return
	}

	if err := createVerificationRecord(tx, &user); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create verification record: " + err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

// LoginUser checks credentials and issues a JWT.
func LoginUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := config.DB.Where("email = ?", body.Email).
		Preload("Verification").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func validateAndNormalizeRole(roleInput string) (string, error) {
	role := strings.ToUpper(strings.TrimSpace(roleInput))
	if role == "" {
		role = models.RoleYouth
	}
	switch role {
	case models.RoleYouth, models.RoleDonor, models.RoleAdmin, models.RoleFieldAgent:
		return role, nil
	default:
		return "", errors.New("invalid role")
	}
}

func validateCategory(category string) error {
	switch category {
	case models.CategoryRefugee, models.CategoryIDP, models.CategoryVulnerable, models.CategoryPWD:
		return nil
	default:
		return errors.New("invalid category")
	}
}

func parseDateOfBirth(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errors.New("date_of_birth must be an ISO date")
	}
	return &t, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// isDuplicateEmail recognizes a unique violation from Postgres (23505) or
// from the SQLite driver used in tests.
func isDuplicateEmail(err error) bool {
	if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}

func createUserRecord(tx *gorm.DB, input registerInput, hashedPassword string, dateOfBirth *time.Time) (models.User, error) {
	user := models.User{
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Email:            input.Email,
		Password:         hashedPassword,
		Phone:            input.Phone,
		Role:             input.Role,
		Category:         input.Category,
		Country:          input.Country,
		Camp:             input.Camp,
		Community:        input.Community,
		DateOfBirth:      dateOfBirth,
		Gender:           input.Gender,
		OrganizationName: input.OrganizationName,
		OrganizationType: input.OrganizationType,
	}
	if err := tx.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// createVerificationRecord opens the PENDING verification case for youth
// accounts. Other roles carry no verification.
func createVerificationRecord(tx *gorm.DB, user *models.User) error {
	if user.Role != models.RoleYouth {
		return nil
	}
	verification := models.Verification{
		UserID: user.ID,
		Status: models.VerificationPending,
	}
	if err := tx.Create(&verification).Error; err != nil {
		return err
	}
	user.Verification = &verification
	return nil
}

func prepareUserResponse(user models.User) gin.H {
	responseUser := gin.H{
		"ID":         user.ID,
		"CreatedAt":  user.CreatedAt,
		"UpdatedAt":  user.UpdatedAt,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"phone":      user.Phone,
		"role":       user.Role,
	}

	if user.Role == models.RoleYouth {
		responseUser["category"] = user.Category
		responseUser["country"] = user.Country
		responseUser["camp"] = user.Camp
		responseUser["community"] = user.Community
		if user.Verification != nil {
			responseUser["verification"] = gin.H{
				"ID":     user.Verification.ID,
				"status": user.Verification.Status,
			}
		}
	}
	if user.Role == models.RoleDonor {
		responseUser["organization_name"] = user.OrganizationName
		responseUser["organization_type"] = user.OrganizationType
	}
	return responseUser
}
