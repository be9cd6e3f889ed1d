package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/data/pgerr"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type BookmarkRepo interface {
	Create(dbc dbctx.Context, b *types.BookmarkedMajor) (*types.BookmarkedMajor, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.BookmarkedMajor, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.BookmarkedMajor, error)
	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type bookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	return &bookmarkRepo{db: db, log: baseLog.With("repo", "BookmarkRepo")}
}

func (r *bookmarkRepo) Create(dbc dbctx.Context, b *types.BookmarkedMajor) (*types.BookmarkedMajor, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(b).Error; err != nil {
		return nil, pgerr.Classify("create bookmark", err)
	}
	return b, nil
}

func (r *bookmarkRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.BookmarkedMajor, error) {
	var b types.BookmarkedMajor
	if err := dbc.DB(r.db).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, pgerr.Classify("get bookmark", err)
	}
	return &b, nil
}

func (r *bookmarkRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.BookmarkedMajor, error) {
	var out []*types.BookmarkedMajor
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookmarkRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.BookmarkedMajor{}).Error
}
