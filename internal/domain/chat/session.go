package chat

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionMessage is one stored turn of a chat session.
type SessionMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is the durable transcript of one conversation. The assistant's
// working state lives in the chat state store; this row is what the user can
// list and reopen.
type ChatSession struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`

	Messages datatypes.JSON `gorm:"type:jsonb;column:messages;not null;default:'[]'" json:"messages"`
	Stage    string         `gorm:"column:stage;not null;default:'greeting'" json:"stage"`

	LastMessageAt time.Time      `gorm:"column:last_message_at;not null;default:now();index" json:"lastMessageAt"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ChatSession) TableName() string { return "chat_session" }

// DecodeMessages returns the stored transcript; a malformed column reads as empty.
func (s *ChatSession) DecodeMessages() []SessionMessage {
	var out []SessionMessage
	if s == nil || len(s.Messages) == 0 {
		return []SessionMessage{}
	}
	if err := json.Unmarshal(s.Messages, &out); err != nil || out == nil {
		return []SessionMessage{}
	}
	return out
}

func (s *ChatSession) AppendMessages(msgs ...SessionMessage) error {
	all := append(s.DecodeMessages(), msgs...)
	raw, err := json.Marshal(all)
	if err != nil {
		return err
	}
	s.Messages = datatypes.JSON(raw)
	if n := len(msgs); n > 0 {
		s.LastMessageAt = msgs[n-1].Timestamp
	}
	return nil
}
