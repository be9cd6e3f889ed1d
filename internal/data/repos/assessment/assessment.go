package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/data/pgerr"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type AssessmentRepo interface {
	// Create assigns the id and timestamps and inserts a in one statement.
	Create(dbc dbctx.Context, a *types.Assessment) (*types.Assessment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error)
	// ListByUser returns the user's assessments, newest first.
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Assessment, error)
	GetLatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.Assessment, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (r *assessmentRepo) Create(dbc dbctx.Context, a *types.Assessment) (*types.Assessment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = a.CreatedAt
	if err := dbc.DB(r.db).Create(a).Error; err != nil {
		return nil, pgerr.Classify("create assessment", err)
	}
	return a, nil
}

func (r *assessmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error) {
	var a types.Assessment
	if err := dbc.DB(r.db).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, pgerr.Classify("get assessment", err)
	}
	return &a, nil
}

func (r *assessmentRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Assessment, error) {
	out := []*types.Assessment{}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, pgerr.Classify("list assessments", err)
	}
	return out, nil
}

func (r *assessmentRepo) GetLatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.Assessment, error) {
	var a types.Assessment
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Take(&a).Error; err != nil {
		return nil, pgerr.Classify("get latest assessment", err)
	}
	return &a, nil
}
