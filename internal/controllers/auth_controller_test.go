package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fursa_connect/internal/config"
	"fursa_connect/internal/models"
)

type AuthControllerSuite struct {
	suite.Suite
	router *gin.Engine
}

func TestAuthControllerSuite(t *testing.T) {
	suite.Run(t, new(AuthControllerSuite))
}

func (s *AuthControllerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(s.T().Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Verification{},
		&models.Document{},
		&models.FieldVisit{},
		&models.Opportunity{},
		&models.Application{},
	))
	config.DB = db

	s.router = gin.New()
	s.router.POST("/auth/register", RegisterUser)
	s.router.POST("/auth/login", LoginUser)
}

func (s *AuthControllerSuite) postJSON(path string, body gin.H) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AuthControllerSuite) TestRegisterYouthOpensVerificationCase() {
	rec := s.postJSON("/auth/register", gin.H{
		"email":      "amina@example.com",
		"password":   "longenough",
		"first_name": "Amina",
		"role":       "YOUTH",
		"category":   "REFUGEE",
		"country":    "Kenya",
		"camp":       "Kakuma",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var response struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.NotEmpty(response.Token)

	var user models.User
	s.Require().NoError(config.DB.Where("email = ?", "amina@example.com").First(&user).Error)
	s.NotEqual("longenough", user.Password) // stored hashed

	// Exactly one PENDING verification exists for the new youth
	var verifications []models.Verification
	s.Require().NoError(config.DB.Where("user_id = ?", user.ID).Find(&verifications).Error)
	s.Require().Len(verifications, 1)
	s.Equal(models.VerificationPending, verifications[0].Status)
}

func (s *AuthControllerSuite) TestRegisterDonorHasNoVerification() {
	rec := s.postJSON("/auth/register", gin.H{
		"email":             "donor@example.com",
		"password":          "longenough",
		"role":              "DONOR",
		"organization_name": "Hope Fund",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var user models.User
	s.Require().NoError(config.DB.Where("email = ?", "donor@example.com").First(&user).Error)

	var count int64
	s.Require().NoError(config.DB.Model(&models.Verification{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	s.EqualValues(0, count)
}

func (s *AuthControllerSuite) TestRegisterValidation() {
	s.Run("short password", func() {
		rec := s.postJSON("/auth/register", gin.H{"email": "a@example.com", "password": "short"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("invalid role", func() {
		rec := s.postJSON("/auth/register", gin.H{
			"email": "a@example.com", "password": "longenough", "role": "WIZARD",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("super admin cannot self-register", func() {
		rec := s.postJSON("/auth/register", gin.H{
			"email": "a@example.com", "password": "longenough", "role": "SUPER_ADMIN",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("invalid category", func() {
		rec := s.postJSON("/auth/register", gin.H{
			"email": "a@example.com", "password": "longenough", "category": "OTHER",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AuthControllerSuite) TestRegisterDuplicateEmail() {
	first := s.postJSON("/auth/register", gin.H{"email": "dup@example.com", "password": "longenough"})
	s.Require().Equal(http.StatusCreated, first.Code, first.Body.String())

	second := s.postJSON("/auth/register", gin.H{"email": "dup@example.com", "password": "different1"})
	s.Equal(http.StatusConflict, second.Code, second.Body.String())
}

func (s *AuthControllerSuite) TestLogin() {
	rec := s.postJSON("/auth/register", gin.H{"email": "amina@example.com", "password": "longenough"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	s.Run("valid credentials", func() {
		rec := s.postJSON("/auth/login", gin.H{"email": "amina@example.com", "password": "longenough"})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var response struct {
			Token string `json:"token"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.NotEmpty(response.Token)
	})

	s.Run("wrong password", func() {
		rec := s.postJSON("/auth/login", gin.H{"email": "amina@example.com", "password": "wrongpassword"})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("unknown email", func() {
		rec := s.postJSON("/auth/login", gin.H{"email": "nobody@example.com", "password": "longenough"})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}
