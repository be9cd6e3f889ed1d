package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/data/repos/assessment"
	"github.com/yungbote/majormatch-backend/internal/data/repos/auth"
	"github.com/yungbote/majormatch-backend/internal/data/repos/chat"
	"github.com/yungbote/majormatch-backend/internal/data/repos/user"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type PreferencesRepo = user.PreferencesRepo
type BookmarkRepo = user.BookmarkRepo
type UserTokenRepo = auth.UserTokenRepo
type AssessmentRepo = assessment.AssessmentRepo
type SurveyRepo = assessment.SurveyRepo
type ChatSessionRepo = chat.SessionRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewPreferencesRepo(db *gorm.DB, log *logger.Logger) PreferencesRepo {
	return user.NewPreferencesRepo(db, log)
}
func NewBookmarkRepo(db *gorm.DB, log *logger.Logger) BookmarkRepo {
	return user.NewBookmarkRepo(db, log)
}
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}
func NewAssessmentRepo(db *gorm.DB, log *logger.Logger) AssessmentRepo {
	return assessment.NewAssessmentRepo(db, log)
}
func NewSurveyRepo(db *gorm.DB, log *logger.Logger) SurveyRepo {
	return assessment.NewSurveyRepo(db, log)
}
func NewChatSessionRepo(db *gorm.DB, log *logger.Logger) ChatSessionRepo {
	return chat.NewSessionRepo(db, log)
}
