package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/majormatch-backend/internal/http/response"
	"github.com/yungbote/majormatch-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// POST /api/profile/image
// body: { "imageData": "data:image/png;base64,..." }
func (uh *UserHandler) UploadProfileImage(c *gin.Context) {
	var req struct {
		ImageData string `json:"imageData"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "올바른 이미지 데이터가 필요합니다.")
		return
	}
	if err := uh.userService.UpdateProfileImage(c.Request.Context(), req.ImageData); err != nil {
		fail(c, err, "프로필 이미지 업로드 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, gin.H{"message": "프로필 이미지가 성공적으로 업데이트되었습니다."})
}

// GET /api/preferences
func (uh *UserHandler) GetPreferences(c *gin.Context) {
	p, err := uh.userService.GetPreferences(c.Request.Context())
	if err != nil {
		fail(c, err, "설정 조회 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, p)
}

// PUT /api/preferences
// body: { "darkMode": bool?, "emailNotifications": bool? }
func (uh *UserHandler) UpdatePreferences(c *gin.Context) {
	var patch services.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, msgBadRequest)
		return
	}
	p, err := uh.userService.UpdatePreferences(c.Request.Context(), patch)
	if err != nil {
		fail(c, err, "설정 저장 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, p)
}
