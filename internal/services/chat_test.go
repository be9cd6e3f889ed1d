package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/majormatch-backend/internal/chat"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

func newChatFixture() (ChatService, *fakeSessionRepo, *fakeAssistant) {
	sessions := newFakeSessionRepo()
	assistant := &fakeAssistant{
		reply: chat.Reply{Text: "어떤 과목을 좋아하시나요?", Outcome: chat.OutcomeOK},
		stage: chat.StageExploring,
	}
	return NewChatService(nil, logger.Nop(), sessions, assistant), sessions, assistant
}

func TestChatSendStartsSession(t *testing.T) {
	svc, sessions, assistant := newChatFixture()
	userID := uuid.New()

	out, err := svc.Send(asUser(userID), ChatInput{Message: "  안녕하세요  "})
	require.NoError(t, err)
	assert.Equal(t, "어떤 과목을 좋아하시나요?", out.Response)
	assert.Equal(t, []string{"안녕하세요"}, assistant.messages)

	s, err := sessions.GetByID(dbcBackground(), out.SessionID)
	require.NoError(t, err)
	assert.Equal(t, userID, s.UserID)
	assert.Equal(t, string(chat.StageExploring), s.Stage)
	msgs := s.DecodeMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, string(chat.RoleUser), msgs[0].Role)
	assert.Equal(t, "안녕하세요", msgs[0].Content)
	assert.Equal(t, string(chat.RoleAssistant), msgs[1].Role)
	assert.True(t, msgs[1].Timestamp.Equal(s.LastMessageAt))
}

func TestChatSendContinuesSession(t *testing.T) {
	svc, sessions, _ := newChatFixture()
	userID := uuid.New()

	first, err := svc.Send(asUser(userID), ChatInput{Message: "하나"})
	require.NoError(t, err)
	second, err := svc.Send(asUser(userID), ChatInput{Message: "둘", SessionID: first.SessionID.String()})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	s, err := sessions.GetByID(dbcBackground(), first.SessionID)
	require.NoError(t, err)
	assert.Len(t, s.DecodeMessages(), 4)
}

func TestChatSendUnknownSessionStartsNew(t *testing.T) {
	svc, sessions, _ := newChatFixture()
	userID := uuid.New()
	missing := uuid.New()

	for _, raw := range []string{"not-a-uuid", missing.String()} {
		out, err := svc.Send(asUser(userID), ChatInput{Message: "안녕", SessionID: raw})
		require.NoError(t, err)
		assert.NotEqual(t, missing, out.SessionID)
	}
	list, err := sessions.ListByUser(dbcBackground(), userID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestChatSendRejects(t *testing.T) {
	svc, sessions, assistant := newChatFixture()

	_, err := svc.Send(context.Background(), ChatInput{Message: "hi"})
	assert.ErrorIs(t, err, ErrMissingUser)

	_, err = svc.Send(asUser(uuid.New()), ChatInput{Message: "   "})
	assert.ErrorIs(t, err, ErrMissingMessage)
	assert.ErrorIs(t, err, pkgErrors.ErrInvalidArgument)

	other, err := sessions.Create(dbcBackground(), &types.ChatSession{UserID: uuid.New()})
	require.NoError(t, err)
	_, err = svc.Send(asUser(uuid.New()), ChatInput{Message: "hi", SessionID: other.ID.String()})
	assert.ErrorIs(t, err, pkgErrors.ErrForbidden)
	assert.Empty(t, assistant.messages)
}

func TestChatSendForwardsScores(t *testing.T) {
	svc, _, assistant := newChatFixture()
	userID := uuid.New()

	_, err := svc.Send(asUser(userID), ChatInput{
		Message:      "추천해주세요",
		RiasecScores: map[string]any{"investigative": 90.0, "artistic": 40.0},
	})
	require.NoError(t, err)
	got := assistant.scores[userID.String()]
	assert.Equal(t, 90, got.Investigative)
	assert.Equal(t, 40, got.Artistic)
}

func TestChatSendStoresFailedReply(t *testing.T) {
	svc, sessions, assistant := newChatFixture()
	assistant.reply = chat.Reply{Text: "잠시 후 다시 시도해주세요.", Outcome: chat.OutcomeFailed}

	out, err := svc.Send(asUser(uuid.New()), ChatInput{Message: "hi"})
	require.NoError(t, err)
	s, err := sessions.GetByID(dbcBackground(), out.SessionID)
	require.NoError(t, err)
	assert.Len(t, s.DecodeMessages(), 2)
}

func TestChatSendReturnsReplyWhenSessionSaveFails(t *testing.T) {
	svc, sessions, _ := newChatFixture()
	sessions.saveErr = errors.New("db down")

	out, err := svc.Send(asUser(uuid.New()), ChatInput{Message: "전공 고민이 있어요"})
	require.NoError(t, err)
	assert.Equal(t, "어떤 과목을 좋아하시나요?", out.Response)
	assert.NotEqual(t, uuid.Nil, out.SessionID)
}

func TestChatConversationAndSummary(t *testing.T) {
	svc, _, assistant := newChatFixture()
	assistant.topics = []string{"과목"}
	assistant.summary = "요약"
	userID := uuid.New()

	out, err := svc.Send(asUser(userID), ChatInput{Message: "hi"})
	require.NoError(t, err)

	conv, err := svc.GetConversation(asUser(userID), out.SessionID)
	require.NoError(t, err)
	assert.Equal(t, out.SessionID, conv.SessionID)
	assert.Len(t, conv.Messages, 2)
	assert.Equal(t, []string{"과목"}, conv.TopicsDiscussed)

	_, err = svc.GetConversation(asUser(uuid.New()), out.SessionID)
	assert.ErrorIs(t, err, pkgErrors.ErrForbidden)

	_, err = svc.GetConversation(asUser(userID), uuid.New())
	assert.ErrorIs(t, err, pkgErrors.ErrNotFound)

	summary, err := svc.Summary(asUser(userID))
	require.NoError(t, err)
	assert.Equal(t, "요약", summary)
}
