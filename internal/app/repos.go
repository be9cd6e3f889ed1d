package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/data/repos"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	UserToken   repos.UserTokenRepo
	Preferences repos.PreferencesRepo
	Bookmark    repos.BookmarkRepo
	Assessment  repos.AssessmentRepo
	Survey      repos.SurveyRepo
	ChatSession repos.ChatSessionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		UserToken:   repos.NewUserTokenRepo(db, log),
		Preferences: repos.NewPreferencesRepo(db, log),
		Bookmark:    repos.NewBookmarkRepo(db, log),
		Assessment:  repos.NewAssessmentRepo(db, log),
		Survey:      repos.NewSurveyRepo(db, log),
		ChatSession: repos.NewChatSessionRepo(db, log),
	}
}
