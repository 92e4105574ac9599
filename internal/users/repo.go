package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
)

// Repository is the gorm-backed store for accounts.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to tx for the duration of a unit of work.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.conn(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindOrCreate returns the account registered under dto.Email, inserting it
// first when missing. created reports which path ran.
func (r *Repository) FindOrCreate(ctx context.Context, dto CreateUserDTO) (*models.User, bool, error) {
	want := dto.ToModel()
	var user models.User
	res := r.conn(ctx).
		Where(&models.User{Email: want.Email}).
		Attrs(models.User{Name: want.Name, Image: want.Image, Role: want.Role}).
		FirstOrCreate(&user)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &user, res.RowsAffected > 0, nil
}

// FindByEmail matches case-insensitively; emails are stored lowercased.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.conn(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// MarkVerified sets is_verified on an unverified account. It reports false
// when the account was already verified or does not exist.
func (r *Repository) MarkVerified(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.conn(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_verified = ?", id, false).
		Update("is_verified", true)
	return res.RowsAffected > 0, res.Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
