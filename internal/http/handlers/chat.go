package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/majormatch-backend/internal/http/response"
	"github.com/yungbote/majormatch-backend/internal/services"
)

const msgConversationNotFound = "대화를 찾을 수 없습니다."

type ChatHandler struct {
	chat services.ChatService
}

func NewChatHandler(chat services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// POST /api/chat
// body: { "message": "...", "sessionId": "...", "riasecScores": {...} }
func (h *ChatHandler) Send(c *gin.Context) {
	var req services.ChatInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "메시지가 필요합니다.")
		return
	}
	out, err := h.chat.Send(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "채팅 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, out)
}

// GET /api/conversation/:sessionId
func (h *ChatHandler) Conversation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		notFoundMessage(c, msgConversationNotFound)
		return
	}
	conv, err := h.chat.GetConversation(c.Request.Context(), id)
	if err != nil {
		if notFound(c, err, msgConversationNotFound) {
			return
		}
		fail(c, err, "대화 정보 조회 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, conv)
}

// GET /api/chat/summary
func (h *ChatHandler) Summary(c *gin.Context) {
	summary, err := h.chat.Summary(c.Request.Context())
	if err != nil {
		fail(c, err, "대화 요약 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, gin.H{"summary": summary})
}
