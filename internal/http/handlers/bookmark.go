package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/majormatch-backend/internal/http/response"
	"github.com/yungbote/majormatch-backend/internal/services"
)

type BookmarkHandler struct {
	bookmarks services.BookmarkService
}

func NewBookmarkHandler(bookmarks services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// GET /api/bookmarks
func (h *BookmarkHandler) List(c *gin.Context) {
	list, err := h.bookmarks.List(c.Request.Context())
	if err != nil {
		fail(c, err, "북마크 조회 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, list)
}

// POST /api/bookmarks
// body: { "majorName": "...", "notes": "..." }
func (h *BookmarkHandler) Add(c *gin.Context) {
	var req struct {
		MajorName string `json:"majorName"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgBadRequest)
		return
	}
	b, err := h.bookmarks.Add(c.Request.Context(), req.MajorName, req.Notes)
	if err != nil {
		fail(c, err, "북마크 저장 중 오류가 발생했습니다.")
		return
	}
	response.RespondCreated(c, b)
}

// DELETE /api/bookmarks/:id
func (h *BookmarkHandler) Remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, msgBadRequest)
		return
	}
	if err := h.bookmarks.Remove(c.Request.Context(), id); err != nil {
		if notFound(c, err, "북마크를 찾을 수 없습니다.") {
			return
		}
		fail(c, err, "북마크 삭제 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
