package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/domain/user"
)

// UserToken pairs an issued access token with its refresh token. ExpiresAt is
// the refresh deadline; access expiry lives in the JWT.
type UserToken struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"userId"`
	User         *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	AccessToken  string         `gorm:"uniqueIndex;not null;column:access_token" json:"-"`
	RefreshToken string         `gorm:"uniqueIndex;not null;column:refresh_token" json:"-"`
	ExpiresAt    time.Time      `gorm:"not null;column:expires_at" json:"expiresAt"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserToken) TableName() string { return "user_token" }

func (t UserToken) Expired(now time.Time) bool { return !t.ExpiresAt.After(now) }
