package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/http/response"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/majormatch-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

type tokenResponse struct {
	User         *types.User `json:"user,omitempty"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int         `json:"expiresIn"`
}

func newTokenResponse(u *types.User, t services.Tokens) tokenResponse {
	return tokenResponse{
		User:         u,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    int(t.ExpiresIn.Seconds()),
	}
}

// POST /api/auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		StudentID string `json:"studentId"`
		Username  string `json:"username"`
		Password  string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, services.MsgCheckInput)
		return
	}
	user, err := ah.authService.Register(c.Request.Context(), services.RegisterInput{
		StudentID: req.StudentID,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		fail(c, err, "회원가입 중 오류가 발생했습니다")
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, services.MsgCheckInput)
		return
	}
	user, tokens, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err, "로그인 중 오류가 발생했습니다")
		return
	}
	response.RespondOK(c, newTokenResponse(user, tokens))
}

// POST /api/auth/refresh
// body: { "refreshToken": "..." }
func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, services.MsgCheckInput)
		return
	}
	tokens, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err, "토큰 갱신 중 오류가 발생했습니다")
		return
	}
	response.RespondOK(c, newTokenResponse(nil, tokens))
}

// POST /api/auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		fail(c, err, "로그아웃 중 오류가 발생했습니다")
		return
	}
	response.RespondOK(c, gin.H{"message": "로그아웃되었습니다"})
}

// GET /api/auth/user
func (ah *AuthHandler) User(c *gin.Context) {
	me, err := ah.userService.GetMe(dbctx.New(c.Request.Context()))
	if err != nil {
		fail(c, err, "사용자 정보 조회 중 오류가 발생했습니다")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": me})
}
