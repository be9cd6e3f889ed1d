package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type PreferencesRepo interface {
	// GetByUserID returns nil when the user has no stored preferences.
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Preferences, error)
	Upsert(dbc dbctx.Context, prefs *types.Preferences) (*types.Preferences, error)
}

type preferencesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferencesRepo(db *gorm.DB, baseLog *logger.Logger) PreferencesRepo {
	return &preferencesRepo{db: db, log: baseLog.With("repo", "PreferencesRepo")}
}

func (r *preferencesRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Preferences, error) {
	var p types.Preferences
	err := dbc.DB(r.db).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *preferencesRepo) Upsert(dbc dbctx.Context, prefs *types.Preferences) (*types.Preferences, error) {
	if prefs.ID == uuid.Nil {
		prefs.ID = uuid.New()
	}
	prefs.UpdatedAt = time.Now().UTC()
	err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"dark_mode", "email_notifications", "updated_at"}),
		}).
		Create(prefs).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, prefs.UserID)
}
