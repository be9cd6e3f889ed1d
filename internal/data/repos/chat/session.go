package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/majormatch-backend/internal/data/pgerr"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type SessionRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ChatSession, error)
	// GetForUpdate locks the row inside dbc.Tx.
	GetForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.ChatSession, error)
	Create(dbc dbctx.Context, s *types.ChatSession) (*types.ChatSession, error)
	Save(dbc dbctx.Context, s *types.ChatSession) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ChatSession, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "ChatSessionRepo")}
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ChatSession, error) {
	var s types.ChatSession
	if err := dbc.DB(r.db).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, pgerr.Classify("get chat session", err)
	}
	return &s, nil
}

func (r *sessionRepo) GetForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.ChatSession, error) {
	var s types.ChatSession
	if err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&s).Error; err != nil {
		return nil, pgerr.Classify("lock chat session", err)
	}
	return &s, nil
}

func (r *sessionRepo) Create(dbc dbctx.Context, s *types.ChatSession) (*types.ChatSession, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if len(s.Messages) == 0 {
		s.Messages = []byte("[]")
	}
	if s.LastMessageAt.IsZero() {
		s.LastMessageAt = time.Now().UTC()
	}
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		return nil, pgerr.Classify("create chat session", err)
	}
	return s, nil
}

func (r *sessionRepo) Save(dbc dbctx.Context, s *types.ChatSession) error {
	return dbc.DB(r.db).
		Model(&types.ChatSession{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"messages":        s.Messages,
			"stage":           s.Stage,
			"last_message_at": s.LastMessageAt,
			"updated_at":      time.Now().UTC(),
		}).Error
}

func (r *sessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ChatSession, error) {
	out := []*types.ChatSession{}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("last_message_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
