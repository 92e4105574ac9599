package models

import (
	"time"

	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the marketplace identity. Credentials live with the external auth provider.
type User struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name       string         `gorm:"column:name;not null"`
	Email      string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	Image      *string        `gorm:"column:image"`
	Role       enums.UserRole `gorm:"column:role;type:text;not null;default:USER"`
	IsVerified bool           `gorm:"column:is_verified;not null;default:false"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
