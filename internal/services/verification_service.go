package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"fursa_connect/internal/models"
)

// Document upload outcomes
const (
	DocumentActionCreated  = "created"
	DocumentActionReplaced = "replaced"
)

type UploadDocumentInput struct {
	Type     string
	FileName string
	FileURL  string
	MimeType string
	Size     int64
}

// UploadDocument stores or replaces the user's document of the given type.
// Latest submission wins: a repeat upload updates the existing row in place
// so review always sees at most one document per type.
// A youth re-uploading while REJECTED goes back to the PENDING queue.
func UploadDocument(db *gorm.DB, userID uint, input UploadDocumentInput) (*models.Document, string, error) {
	switch input.Type {
	case models.DocumentID, models.DocumentTranscript, models.DocumentRecommendationLetter:
	default:
		return nil, "", validationErrorf("invalid document type: %s", input.Type)
	}

	var doc models.Document
	action := DocumentActionCreated

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Document
		err := tx.Where("user_id = ? AND type = ?", userID, input.Type).First(&existing).Error
		switch {
		case err == nil:
			existing.FileName = input.FileName
			existing.FileURL = input.FileURL
			existing.MimeType = input.MimeType
			existing.Size = input.Size
			existing.UploadedAt = time.Now()
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			doc = existing
			action = DocumentActionReplaced
		case errors.Is(err, gorm.ErrRecordNotFound):
			doc = models.Document{
				UserID:     userID,
				Type:       input.Type,
				FileName:   input.FileName,
				FileURL:    input.FileURL,
				MimeType:   input.MimeType,
				Size:       input.Size,
				UploadedAt: time.Now(),
			}
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
		default:
			return err
		}

		// A rejected youth resubmitting documents re-enters the admin queue.
		var verification models.Verification
		err = tx.Where("user_id = ?", userID).First(&verification).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if verification.Status == models.VerificationRejected {
			verification.Status = models.VerificationPending
			verification.VerifiedAt = nil
			return tx.Save(&verification).Error
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &doc, action, nil
}

// PendingVerifications lists cases awaiting admin review, newest first.
func PendingVerifications(db *gorm.DB) ([]models.Verification, error) {
	var verifications []models.Verification
	err := db.Where("status = ?", models.VerificationPending).
		Preload("User").
		Preload("User.Documents").
		Order("created_at desc").
		Find(&verifications).Error
	return verifications, err
}

// AdminReview records an admin decision on a verification case.
// VERIFIED stamps VerifiedAt; any other status leaves it unchanged.
func AdminReview(db *gorm.DB, verificationID, adminID uint, status, notes string) (*models.Verification, error) {
	switch status {
	case models.VerificationVerified, models.VerificationRejected, models.VerificationUnderReview:
	default:
		return nil, validationErrorf("invalid review status: %s", status)
	}

	var verification models.Verification
	if err := db.First(&verification, verificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("verification not found")
		}
		return nil, err
	}

	verification.Status = status
	verification.AdminID = &adminID
	verification.AdminNotes = notes
	if status == models.VerificationVerified {
		now := time.Now()
		verification.VerifiedAt = &now
	}
	if err := db.Save(&verification).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("User").Preload("Admin").First(&verification, verification.ID).Error; err != nil {
		return nil, err
	}
	return &verification, nil
}

// AssignFieldAgent puts a named agent on the case and forces UNDER_REVIEW,
// whatever the prior status: a human is now actively working it.
func AssignFieldAgent(db *gorm.DB, verificationID, fieldAgentID uint) (*models.Verification, error) {
	var verification models.Verification
	if err := db.First(&verification, verificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("verification not found")
		}
		return nil, err
	}

	var agent models.User
	if err := db.First(&agent, fieldAgentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErrorf("field agent not found")
		}
		return nil, err
	}
	if agent.Role != models.RoleFieldAgent {
		return nil, validationErrorf("user %d is not a field agent", fieldAgentID)
	}

	verification.FieldAgentID = &agent.ID
	verification.Status = models.VerificationUnderReview
	if err := db.Save(&verification).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("User").Preload("FieldAgent").First(&verification, verification.ID).Error; err != nil {
		return nil, err
	}
	return &verification, nil
}

type ScheduleVisitInput struct {
	VerificationID   uint
	VisitDate        time.Time
	Notes            string
	PreferredAgentID *uint
}

// ScheduleVisit books a physical verification visit. With a preferred agent
// it assigns directly; otherwise it cascades through the youth's locality
// (camp, then community, then country) and stops at the first tier with
// candidates. Within a tier the least-loaded agent wins, ties going to the
// lowest id. Creates exactly one FieldVisit and forces the case into
// UNDER_REVIEW with the chosen agent, or fails with no side effects.
func ScheduleVisit(db *gorm.DB, input ScheduleVisitInput) (*models.FieldVisit, *models.User, error) {
	var visit models.FieldVisit
	var agent models.User

	// Agent selection and the writes share one transaction so the load
	// counts the picker reads cannot drift from the assignment it commits.
	err := db.Transaction(func(tx *gorm.DB) error {
		var verification models.Verification
		if err := tx.Preload("User").First(&verification, input.VerificationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErrorf("verification not found")
			}
			return err
		}

		if input.PreferredAgentID != nil {
			if err := tx.First(&agent, *input.PreferredAgentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return validationErrorf("preferred field agent not found")
				}
				return err
			}
			if agent.Role != models.RoleFieldAgent {
				return validationErrorf("preferred user %d is not a field agent", agent.ID)
			}
		} else {
			found, err := matchFieldAgent(tx, verification.User)
			if err != nil {
				return err
			}
			agent = *found
		}

		visit = models.FieldVisit{
			VerificationID: verification.ID,
			FieldAgentID:   agent.ID,
			VisitDate:      input.VisitDate,
			Notes:          input.Notes,
		}
		if err := tx.Create(&visit).Error; err != nil {
			return err
		}
		verification.FieldAgentID = &agent.ID
		verification.Status = models.VerificationUnderReview
		return tx.Save(&verification).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &visit, &agent, nil
}

// matchFieldAgent resolves a candidate agent for the youth by cascading
// locality match: camp, then community, then country, exact values only.
// The first non-empty tier wins.
func matchFieldAgent(db *gorm.DB, youth models.User) (*models.User, error) {
	tiers := []struct {
		column string
		value  string
	}{
		{"camp", youth.Camp},
		{"community", youth.Community},
		{"country", youth.Country},
	}

	for _, tier := range tiers {
		if tier.value == "" {
			continue
		}
		var agents []models.User
		err := db.Where("role = ? AND "+tier.column+" = ?", models.RoleFieldAgent, tier.value).
			Order("id asc").
			Find(&agents).Error
		if err != nil {
			return nil, err
		}
		if len(agents) > 0 {
			return pickLeastLoadedAgent(db, agents)
		}
	}

	return nil, validationErrorf("no field agents available in the user's camp, community, or country; add agents or assign manually")
}

// pickLeastLoadedAgent chooses the agent with the fewest verifications
// currently UNDER_REVIEW assigned to them. Candidates arrive in ascending
// id order, so on equal load the lowest id sticks.
func pickLeastLoadedAgent(db *gorm.DB, agents []models.User) (*models.User, error) {
	best := 0
	bestLoad := int64(-1)
	for i, agent := range agents {
		var load int64
		err := db.Model(&models.Verification{}).
			Where("field_agent_id = ? AND status = ?", agent.ID, models.VerificationUnderReview).
			Count(&load).Error
		if err != nil {
			return nil, err
		}
		if bestLoad < 0 || load < bestLoad {
			best = i
			bestLoad = load
		}
	}
	return &agents[best], nil
}

// FieldAgentVerifications lists the cases assigned to an agent, newest
// first, visits newest first within each.
func FieldAgentVerifications(db *gorm.DB, fieldAgentID uint) ([]models.Verification, error) {
	var verifications []models.Verification
	err := db.Where("field_agent_id = ?", fieldAgentID).
		Preload("User").
		Preload("User.Documents").
		Preload("FieldVisits", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("field_visits.visit_date desc")
		}).
		Order("created_at desc").
		Find(&verifications).Error
	return verifications, err
}

type FieldVisitInput struct {
	VerificationID uint
	VisitDate      time.Time
	Notes          string
	Photos         []string
}

// CreateFieldVisit appends a visit record. A visit asserts physical
// presence, so only the agent currently assigned to the case may log one.
func CreateFieldVisit(db *gorm.DB, fieldAgentID uint, input FieldVisitInput) (*models.FieldVisit, error) {
	var verification models.Verification
	if err := db.First(&verification, input.VerificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("verification not found")
		}
		return nil, err
	}
	if verification.FieldAgentID == nil || *verification.FieldAgentID != fieldAgentID {
		return nil, authorizationErrorf("you are not the field agent assigned to this verification")
	}

	photos := input.Photos
	if photos == nil {
		photos = []string{}
	}
	visit := models.FieldVisit{
		VerificationID: verification.ID,
		FieldAgentID:   fieldAgentID,
		VisitDate:      input.VisitDate,
		Notes:          input.Notes,
		Photos:         photos,
	}
	if err := db.Create(&visit).Error; err != nil {
		return nil, err
	}
	return &visit, nil
}

// CompleteFieldVerification is the field path to VERIFIED, independent of
// admin review. Only the assigned agent may complete their own case.
func CompleteFieldVerification(db *gorm.DB, verificationID, fieldAgentID uint, notes string) (*models.Verification, error) {
	var verification models.Verification
	if err := db.First(&verification, verificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("verification not found")
		}
		return nil, err
	}
	if verification.FieldAgentID == nil || *verification.FieldAgentID != fieldAgentID {
		return nil, authorizationErrorf("you are not the field agent assigned to this verification")
	}

	now := time.Now()
	verification.Status = models.VerificationVerified
	verification.FieldNotes = notes
	verification.VerifiedAt = &now
	if err := db.Save(&verification).Error; err != nil {
		return nil, err
	}

	err := db.Preload("User").
		Preload("FieldVisits", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("field_visits.visit_date desc")
		}).
		First(&verification, verification.ID).Error
	if err != nil {
		return nil, err
	}
	return &verification, nil
}

// YouthFilter narrows a youth search; zero-valued fields are ignored.
type YouthFilter struct {
	Category string
	Country  string
	Camp     string // substring, case-insensitive
	Status   string // verification status
}

// SearchYouth lists youths matching the filter, newest first, with their
// verification and document summaries.
func SearchYouth(db *gorm.DB, filter YouthFilter) ([]models.User, error) {
	query := db.Where("role = ?", models.RoleYouth)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.Camp != "" {
		query = query.Where("LOWER(camp) LIKE ?", "%"+strings.ToLower(filter.Camp)+"%")
	}
	if filter.Status != "" {
		query = query.Select("users.*").
			Joins("JOIN verifications ON verifications.user_id = users.id AND verifications.deleted_at IS NULL").
			Where("verifications.status = ?", filter.Status)
	}

	var youths []models.User
	err := query.Preload("Verification").
		Preload("Documents").
		Order("users.created_at desc").
		Find(&youths).Error
	return youths, err
}
