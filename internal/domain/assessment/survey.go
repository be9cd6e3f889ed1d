package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SatisfactionSurvey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	AssessmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"assessmentId"`

	Assessment *Assessment `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"-"`

	OverallSatisfaction    int        `gorm:"not null;column:overall_satisfaction" json:"overallSatisfaction"`
	RecommendationAccuracy int        `gorm:"not null;column:recommendation_accuracy" json:"recommendationAccuracy"`
	SystemUsability        int        `gorm:"not null;column:system_usability" json:"systemUsability"`
	WouldRecommend         bool       `gorm:"not null;column:would_recommend" json:"wouldRecommend"`
	Feedback               string     `gorm:"type:text;column:feedback" json:"feedback,omitempty"`
	SelectedMajor          string     `gorm:"column:selected_major" json:"selectedMajor,omitempty"`
	MajorSatisfaction      *int       `gorm:"column:major_satisfaction" json:"majorSatisfaction,omitempty"`
	FollowUpDate           *time.Time `gorm:"column:follow_up_date" json:"followUpDate,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SatisfactionSurvey) TableName() string { return "satisfaction_survey" }
