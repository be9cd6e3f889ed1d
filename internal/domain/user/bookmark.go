package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookmarkedMajor struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	MajorName string         `gorm:"not null;column:major_name" json:"majorName"`
	Notes     string         `gorm:"type:text;column:notes" json:"notes,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BookmarkedMajor) TableName() string { return "bookmarked_major" }
