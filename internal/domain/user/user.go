package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID string    `gorm:"size:9;not null;uniqueIndex:idx_user_student_id;column:student_id" json:"studentId"`
	Username  string    `gorm:"not null;uniqueIndex:idx_user_username;column:username" json:"username"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	// ProfileImage is a data:image/ URL.
	ProfileImage string `gorm:"type:text;column:profile_image" json:"profileImage,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "user" }
