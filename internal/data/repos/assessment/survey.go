package assessment

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/data/pgerr"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type SurveyRepo interface {
	Create(dbc dbctx.Context, s *types.SatisfactionSurvey) (*types.SatisfactionSurvey, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SatisfactionSurvey, error)
	// GetByAssessment returns the most recent survey for an assessment.
	GetByAssessment(dbc dbctx.Context, assessmentID uuid.UUID) (*types.SatisfactionSurvey, error)
}

type surveyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSurveyRepo(db *gorm.DB, baseLog *logger.Logger) SurveyRepo {
	return &surveyRepo{db: db, log: baseLog.With("repo", "SurveyRepo")}
}

func (r *surveyRepo) Create(dbc dbctx.Context, s *types.SatisfactionSurvey) (*types.SatisfactionSurvey, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		return nil, pgerr.Classify("create survey", err)
	}
	return s, nil
}

func (r *surveyRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SatisfactionSurvey, error) {
	out := []*types.SatisfactionSurvey{}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *surveyRepo) GetByAssessment(dbc dbctx.Context, assessmentID uuid.UUID) (*types.SatisfactionSurvey, error) {
	var s types.SatisfactionSurvey
	if err := dbc.DB(r.db).
		Where("assessment_id = ?", assessmentID).
		Order("created_at DESC").
		Take(&s).Error; err != nil {
		return nil, pgerr.Classify("get survey", err)
	}
	return &s, nil
}
