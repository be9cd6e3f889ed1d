package domain

import (
	"github.com/google/uuid"

	"github.com/yungbote/majormatch-backend/internal/domain/assessment"
	"github.com/yungbote/majormatch-backend/internal/domain/auth"
	"github.com/yungbote/majormatch-backend/internal/domain/chat"
	"github.com/yungbote/majormatch-backend/internal/domain/user"
)

type User = user.User
type Preferences = user.Preferences
type BookmarkedMajor = user.BookmarkedMajor
type UserToken = auth.UserToken

type Assessment = assessment.Assessment
type SatisfactionSurvey = assessment.SatisfactionSurvey

type ChatSession = chat.ChatSession
type SessionMessage = chat.SessionMessage

func DefaultPreferences(userID uuid.UUID) Preferences { return user.DefaultPreferences(userID) }
