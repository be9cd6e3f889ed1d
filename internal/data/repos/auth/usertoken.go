package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/data/pgerr"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error)
	GetByAccessToken(dbc dbctx.Context, accessToken string) (*types.UserToken, error)
	GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.UserToken, error)
	GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.UserToken, error)
	FullDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error
	FullDeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) error
	// DeleteExpired removes tokens whose refresh deadline is before cutoff.
	DeleteExpired(dbc dbctx.Context, cutoff time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	repoLog := baseLog.With("repo", "UserTokenRepo")
	return &userTokenRepo{db: db, log: repoLog}
}

func (utr *userTokenRepo) Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error) {
	if len(userTokens) == 0 {
		return []*types.UserToken{}, nil
	}
	if err := dbc.DB(utr.db).Create(&userTokens).Error; err != nil {
		return nil, pgerr.Classify("create user token", err)
	}
	return userTokens, nil
}

func (utr *userTokenRepo) GetByAccessToken(dbc dbctx.Context, accessToken string) (*types.UserToken, error) {
	var tok types.UserToken
	if err := dbc.DB(utr.db).
		Where("access_token = ?", accessToken).
		First(&tok).Error; err != nil {
		return nil, pgerr.Classify("get token by access token", err)
	}
	return &tok, nil
}

func (utr *userTokenRepo) GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.UserToken, error) {
	var tok types.UserToken
	if err := dbc.DB(utr.db).
		Where("refresh_token = ?", refreshToken).
		First(&tok).Error; err != nil {
		return nil, pgerr.Classify("get token by refresh token", err)
	}
	return &tok, nil
}

func (utr *userTokenRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.UserToken, error) {
	var results []*types.UserToken
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(utr.db).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) FullDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error {
	if len(tokenIDs) == 0 {
		return nil
	}
	return dbc.DB(utr.db).
		Unscoped().
		Where("id IN ?", tokenIDs).
		Delete(&types.UserToken{}).Error
}

func (utr *userTokenRepo) FullDeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	return dbc.DB(utr.db).
		Unscoped().
		Where("user_id IN ?", userIDs).
		Delete(&types.UserToken{}).Error
}

func (utr *userTokenRepo) DeleteExpired(dbc dbctx.Context, cutoff time.Time) (int64, error) {
	res := dbc.DB(utr.db).
		Unscoped().
		Where("expires_at < ?", cutoff).
		Delete(&types.UserToken{})
	return res.RowsAffected, res.Error
}
