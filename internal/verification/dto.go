package verification

import (
	"time"

	"github.com/angelmondragon/gradevault-backend/internal/users"
	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	"github.com/google/uuid"
)

// RequestDTO is the transport shape of a verification request.
type RequestDTO struct {
	ID             uuid.UUID                `json:"id"`
	UserID         uuid.UUID                `json:"user_id"`
	DocumentType   enums.DocumentType       `json:"document_type"`
	DocumentURL    string                   `json:"document_url"`
	SelfieURL      *string                  `json:"selfie_url"`
	AdditionalInfo *string                  `json:"additional_info"`
	Status         enums.VerificationStatus `json:"status"`
	ReviewedAt     *time.Time               `json:"reviewed_at"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
	User           *users.SummaryDTO        `json:"user,omitempty"`
}

// StatusDTO answers "where is my verification" for the caller.
type StatusDTO struct {
	IsVerified bool        `json:"is_verified"`
	Request    *RequestDTO `json:"request"`
}

func NewRequestDTO(req *models.VerificationRequest) *RequestDTO {
	if req == nil {
		return nil
	}
	return &RequestDTO{
		ID:             req.ID,
		UserID:         req.UserID,
		DocumentType:   req.DocumentType,
		DocumentURL:    req.DocumentURL,
		SelfieURL:      req.SelfieURL,
		AdditionalInfo: req.AdditionalInfo,
		Status:         req.Status,
		ReviewedAt:     req.ReviewedAt,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
		User:           users.SummaryFromModel(req.User),
	}
}
