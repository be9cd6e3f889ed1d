package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/data/repos"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

// MaxProfileImageBytes caps the stored data URL.
const MaxProfileImageBytes = 5 << 20

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdateProfileImage(ctx context.Context, imageData string) error

	GetPreferences(ctx context.Context) (*types.Preferences, error)
	UpdatePreferences(ctx context.Context, patch PreferencesPatch) (*types.Preferences, error)
}

// PreferencesPatch carries the fields a PUT sets; nil fields keep their value.
type PreferencesPatch struct {
	DarkMode           *bool `json:"darkMode"`
	EmailNotifications *bool `json:"emailNotifications"`
}

type userService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	prefsRepo repos.PreferencesRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, prefsRepo repos.PreferencesRepo) UserService {
	return &userService{
		db:        db,
		log:       log.With("service", "UserService"),
		userRepo:  userRepo,
		prefsRepo: prefsRepo,
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	userID, err := requireUser(ctxutil.GetRequestData(dbc.Ctx))
	if err != nil {
		return nil, err
	}
	found, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("user %s: %w", userID, pkgErrors.ErrUnauthorized)
	}
	return found[0], nil
}

func (us *userService) UpdateProfileImage(ctx context.Context, imageData string) error {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return err
	}
	imageData = strings.TrimSpace(imageData)
	if !strings.HasPrefix(imageData, "data:image/") || len(imageData) > MaxProfileImageBytes {
		return ErrInvalidImage
	}
	if err := us.userRepo.UpdateProfileImage(dbctx.New(ctx), userID, imageData); err != nil {
		return err
	}
	us.log.Info("Updated profile image", "user_id", userID, "bytes", len(imageData))
	return nil
}

func (us *userService) GetPreferences(ctx context.Context) (*types.Preferences, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	p, err := us.prefsRepo.GetByUserID(dbctx.New(ctx), userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		def := types.DefaultPreferences(userID)
		return &def, nil
	}
	return p, nil
}

func (us *userService) UpdatePreferences(ctx context.Context, patch PreferencesPatch) (*types.Preferences, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	var out *types.Preferences
	err = inTx(ctx, us.db, func(dbc dbctx.Context) error {
		current, err := us.prefsRepo.GetByUserID(dbc, userID)
		if err != nil {
			return err
		}
		next := types.DefaultPreferences(userID)
		if current != nil {
			next = *current
		}
		if patch.DarkMode != nil {
			next.DarkMode = *patch.DarkMode
		}
		if patch.EmailNotifications != nil {
			next.EmailNotifications = *patch.EmailNotifications
		}
		out, err = us.prefsRepo.Upsert(dbc, &next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
