package models

import (
	"time"

	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationRequest is a user's identity submission awaiting admin review.
type VerificationRequest struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	User           *User                    `gorm:"foreignKey:UserID"`
	DocumentType   enums.DocumentType       `gorm:"column:document_type;type:text;not null"`
	DocumentURL    string                   `gorm:"column:document_url;not null"`
	SelfieURL      *string                  `gorm:"column:selfie_url"`
	AdditionalInfo *string                  `gorm:"column:additional_info"`
	Status         enums.VerificationStatus `gorm:"column:status;type:text;not null;default:PENDING;index"`
	ReviewedAt     *time.Time               `gorm:"column:reviewed_at"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *VerificationRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	if v.Status == "" {
		v.Status = enums.VerificationStatusPending
	}
	return nil
}
