package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/chat"
	"github.com/yungbote/majormatch-backend/internal/data/repos"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

var ErrMissingMessage = fmt.Errorf("%w: message required", pkgErrors.ErrInvalidArgument)

// Assistant is the conversational surface of chat.Assistant.
type Assistant interface {
	Respond(ctx context.Context, userID, message string) chat.Reply
	UpdateScores(ctx context.Context, userID string, s riasec.Scores) error
	State(ctx context.Context, userID string) (chat.Profile, chat.Context, error)
	Summarize(ctx context.Context, userID string) string
}

type ChatInput struct {
	Message      string         `json:"message"`
	SessionID    string         `json:"sessionId,omitempty"`
	RiasecScores map[string]any `json:"riasecScores,omitempty"`
}

type ChatOutcome struct {
	Response  string    `json:"response"`
	SessionID uuid.UUID `json:"sessionId"`
}

// Conversation is a stored chat session with the assistant's running analysis.
type Conversation struct {
	SessionID       uuid.UUID              `json:"sessionId"`
	Stage           string                 `json:"stage"`
	Messages        []types.SessionMessage `json:"messages"`
	TopicsDiscussed []string               `json:"topicsDiscussed"`
	LastMessageAt   time.Time              `json:"lastMessageAt"`
}

type ChatService interface {
	Send(ctx context.Context, in ChatInput) (*ChatOutcome, error)
	GetConversation(ctx context.Context, sessionID uuid.UUID) (*Conversation, error)
	Summary(ctx context.Context) (string, error)
}

type chatService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.ChatSessionRepo
	assistant   Assistant
}

func NewChatService(db *gorm.DB, log *logger.Logger, sessionRepo repos.ChatSessionRepo, assistant Assistant) ChatService {
	return &chatService{
		db:          db,
		log:         log.With("service", "ChatService"),
		sessionRepo: sessionRepo,
		assistant:   assistant,
	}
}

func (cs *chatService) Send(ctx context.Context, in ChatInput) (*ChatOutcome, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrMissingMessage
	}

	existing, err := cs.resolveSession(ctx, userID, in.SessionID)
	if err != nil {
		return nil, err
	}

	uid := userID.String()
	if scores, ok := scoresFromMap(in.RiasecScores); ok {
		if err := cs.assistant.UpdateScores(ctx, uid, scores); err != nil {
			cs.log.Warn("Chat profile score update failed", "user_id", userID, "error", err)
		}
	}

	sent := time.Now().UTC()
	reply := cs.assistant.Respond(ctx, uid, message)
	answered := time.Now().UTC()

	stage := string(chat.StageGreeting)
	if _, c, err := cs.assistant.State(ctx, uid); err == nil && c.Stage != "" {
		stage = string(c.Stage)
	}

	sessionID := uuid.New()
	if existing != nil {
		sessionID = existing.ID
	}
	err = inTx(ctx, cs.db, func(dbc dbctx.Context) error {
		var s *types.ChatSession
		if existing == nil {
			created, err := cs.sessionRepo.Create(dbc, &types.ChatSession{ID: sessionID, UserID: userID, Stage: stage})
			if err != nil {
				return err
			}
			s = created
		} else {
			locked, err := cs.sessionRepo.GetForUpdate(dbc, existing.ID)
			if err != nil {
				return err
			}
			s = locked
		}
		if err := s.AppendMessages(
			types.SessionMessage{Role: string(chat.RoleUser), Content: message, Timestamp: sent},
			types.SessionMessage{Role: string(chat.RoleAssistant), Content: reply.Text, Timestamp: answered},
		); err != nil {
			return err
		}
		s.Stage = stage
		return cs.sessionRepo.Save(dbc, s)
	})
	if err != nil {
		// The reply is already in the assistant's history; only the transcript row is lost.
		cs.log.Error("Chat session save failed", "user_id", userID, "session_id", sessionID, "error", err)
	}
	return &ChatOutcome{Response: reply.Text, SessionID: sessionID}, nil
}

// resolveSession returns the caller's session named by raw, or nil when a new
// one should be started. Another user's session is forbidden.
func (cs *chatService) resolveSession(ctx context.Context, userID uuid.UUID, raw string) (*types.ChatSession, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, nil
	}
	s, err := cs.sessionRepo.GetByID(dbctx.New(ctx), id)
	if errors.Is(err, pkgErrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, pkgErrors.ErrForbidden
	}
	return s, nil
}

func (cs *chatService) GetConversation(ctx context.Context, sessionID uuid.UUID) (*Conversation, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	s, err := cs.sessionRepo.GetByID(dbctx.New(ctx), sessionID)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, pkgErrors.ErrForbidden
	}
	out := &Conversation{
		SessionID:       s.ID,
		Stage:           s.Stage,
		Messages:        s.DecodeMessages(),
		TopicsDiscussed: []string{},
		LastMessageAt:   s.LastMessageAt,
	}
	if _, c, err := cs.assistant.State(ctx, userID.String()); err == nil && c.TopicsDiscussed != nil {
		out.TopicsDiscussed = c.TopicsDiscussed
	}
	return out, nil
}

func (cs *chatService) Summary(ctx context.Context) (string, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return "", err
	}
	return cs.assistant.Summarize(ctx, userID.String()), nil
}
