package models

import (
	"time"

	"gorm.io/gorm"
)

// Document types
const (
	DocumentID                   = "ID"
	DocumentTranscript           = "TRANSCRIPT"
	DocumentRecommendationLetter = "RECOMMENDATION_LETTER"
)

// Document is a user-submitted supporting file. Only metadata lives here;
// the bytes sit in an external object store behind FileURL.
// At most one row per (user, type): a repeat upload replaces the record.
type Document struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"uniqueIndex:idx_documents_user_type"`
	Type   string `json:"type" gorm:"uniqueIndex:idx_documents_user_type"` // "ID", "TRANSCRIPT", "RECOMMENDATION_LETTER"

	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	MimeType   string    `json:"mime_type,omitempty"`
	Size       int64     `json:"size,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}
