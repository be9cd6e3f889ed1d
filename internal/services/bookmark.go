package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/majormatch-backend/internal/data/repos"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

type BookmarkService interface {
	List(ctx context.Context) ([]*types.BookmarkedMajor, error)
	Add(ctx context.Context, majorName, notes string) (*types.BookmarkedMajor, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type bookmarkService struct {
	log          *logger.Logger
	bookmarkRepo repos.BookmarkRepo
	catalog      *riasec.Catalog
}

func NewBookmarkService(log *logger.Logger, bookmarkRepo repos.BookmarkRepo, catalog *riasec.Catalog) BookmarkService {
	return &bookmarkService{
		log:          log.With("service", "BookmarkService"),
		bookmarkRepo: bookmarkRepo,
		catalog:      catalog,
	}
}

func (bs *bookmarkService) List(ctx context.Context) ([]*types.BookmarkedMajor, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	return bs.bookmarkRepo.ListByUser(dbctx.New(ctx), userID)
}

func (bs *bookmarkService) Add(ctx context.Context, majorName, notes string) (*types.BookmarkedMajor, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	name := bs.catalog.Canonical(strings.TrimSpace(majorName))
	if !bs.catalog.Contains(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMajor, majorName)
	}
	return bs.bookmarkRepo.Create(dbctx.New(ctx), &types.BookmarkedMajor{
		UserID:    userID,
		MajorName: name,
		Notes:     strings.TrimSpace(notes),
	})
}

// Remove soft-deletes a bookmark the caller owns.
func (bs *bookmarkService) Remove(ctx context.Context, id uuid.UUID) error {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return err
	}
	dbc := dbctx.New(ctx)
	b, err := bs.bookmarkRepo.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		return pkgErrors.ErrForbidden
	}
	return bs.bookmarkRepo.SoftDeleteByIDs(dbc, []uuid.UUID{id})
}
