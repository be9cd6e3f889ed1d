package assessment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/riasec"
)

// Assessment is one completed questionnaire with its scores and the
// recommendations produced for it. Rows are insert-only.
type Assessment struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_assessment_user_created,priority:1" json:"userId"`

	Responses         datatypes.JSON `gorm:"type:jsonb;column:responses;not null;default:'{}'" json:"responses"`
	RiasecScores      datatypes.JSON `gorm:"type:jsonb;column:riasec_scores;not null" json:"riasecScores"`
	RecommendedMajors datatypes.JSON `gorm:"type:jsonb;column:recommended_majors;not null;default:'[]'" json:"recommendedMajors"`
	Recommendations   datatypes.JSON `gorm:"type:jsonb;column:recommendations;not null;default:'[]'" json:"recommendations"`

	Explanation          string `gorm:"type:text;column:explanation;not null;default:''" json:"explanation"`
	SimilarCasesFeedback string `gorm:"type:text;column:similar_cases_feedback" json:"similarCasesFeedback,omitempty"`

	// ValidationIssues holds the advisory findings recorded at submission.
	ValidationIssues datatypes.JSON `gorm:"type:jsonb;column:validation_issues;not null;default:'[]'" json:"validationIssues,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now();index:idx_assessment_user_created,priority:2,sort:desc" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Assessment) TableName() string { return "assessment" }

func (a *Assessment) Scores() (riasec.Scores, error) {
	var s riasec.Scores
	if a == nil || len(a.RiasecScores) == 0 {
		return s, fmt.Errorf("assessment has no scores")
	}
	if err := json.Unmarshal(a.RiasecScores, &s); err != nil {
		return s, fmt.Errorf("decode riasec_scores: %w", err)
	}
	return s, nil
}

// JSON encodes v for a jsonb column.
func JSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
