package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/data/pgerr"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

// Unique index names on the user table, reported by ConflictError.
const (
	UsernameIndex  = "idx_user_username"
	StudentIDIndex = "idx_user_student_id"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.User, error)
	// Taken reports which of username and studentID are already registered.
	Taken(dbc dbctx.Context, username, studentID string) (usernameTaken, studentIDTaken bool, err error)
	UpdateProfileImage(dbc dbctx.Context, userID uuid.UUID, image string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := dbc.DB(ur.db).Create(&users).Error; err != nil {
		return nil, pgerr.Classify("create user", err)
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(ur.db).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	var u types.User
	if err := dbc.DB(ur.db).
		Where("username = ?", username).
		First(&u).Error; err != nil {
		return nil, pgerr.Classify("get user by username", err)
	}
	return &u, nil
}

func (ur *userRepo) Taken(dbc dbctx.Context, username, studentID string) (bool, bool, error) {
	var rows []struct {
		Username  string
		StudentID string
	}
	if err := dbc.DB(ur.db).
		Model(&types.User{}).
		Select("username", "student_id").
		Where("username = ? OR student_id = ?", username, studentID).
		Find(&rows).Error; err != nil {
		return false, false, err
	}
	var usernameTaken, studentIDTaken bool
	for _, r := range rows {
		usernameTaken = usernameTaken || r.Username == username
		studentIDTaken = studentIDTaken || r.StudentID == studentID
	}
	return usernameTaken, studentIDTaken, nil
}

func (ur *userRepo) UpdateProfileImage(dbc dbctx.Context, userID uuid.UUID, image string) error {
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("profile_image", image)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pgerr.Classify("update profile image", gorm.ErrRecordNotFound)
	}
	return nil
}
