package verification

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const pendingIndex = "idx_verification_requests_one_pending"

// Repository persists verification requests.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListWithUsers returns every request newest first with its owner preloaded.
func (r *Repository) ListWithUsers(ctx context.Context) ([]models.VerificationRequest, error) {
	var rows []models.VerificationRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("verification_requests.created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	if err := r.db.WithContext(ctx).Preload("User").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// LatestForUser returns the user's most recent request, or nil when none exists.
func (r *Repository) LatestForUser(ctx context.Context, userID uuid.UUID) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repository) HasPending(ctx context.Context, userID uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.VerificationRequest{}).
		Where("user_id = ? AND status = ?", userID, enums.VerificationStatusPending).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository) Create(ctx context.Context, req *models.VerificationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// Finalize moves a pending request to status. It reports false when the
// request was no longer pending, leaving the row untouched.
func (r *Repository) Finalize(ctx context.Context, id uuid.UUID, status enums.VerificationStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.VerificationRequest{}).
		Where("id = ? AND status = ?", id, enums.VerificationStatusPending).
		Updates(map[string]any{
			"status":      status,
			"reviewed_at": at,
			"updated_at":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
