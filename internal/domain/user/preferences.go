package user

import (
	"time"

	"github.com/google/uuid"
)

// Preferences holds per-user UI settings. One row per user.
type Preferences struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_preferences_user_id" json:"userId"`
	DarkMode           bool      `gorm:"not null;column:dark_mode" json:"darkMode"`
	EmailNotifications bool      `gorm:"not null;column:email_notifications" json:"emailNotifications"`
	CreatedAt          time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Preferences) TableName() string { return "user_preferences" }

// DefaultPreferences is what a user without a stored row sees.
func DefaultPreferences(userID uuid.UUID) Preferences {
	return Preferences{UserID: userID, DarkMode: false, EmailNotifications: true}
}
