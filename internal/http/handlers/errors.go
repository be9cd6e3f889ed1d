package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/majormatch-backend/internal/http/response"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/apierr"
	"github.com/yungbote/majormatch-backend/internal/services"
)

const (
	msgForbidden    = "접근 권한이 없습니다."
	msgAuthRequired = "인증이 필요합니다"
	msgBadRequest   = "잘못된 요청입니다."
	msgNotFound     = "요청한 항목을 찾을 수 없습니다."
)

// sentinelMessages are the user-facing texts for known service errors,
// checked in order.
var sentinelMessages = []struct {
	err error
	msg string
}{
	{services.ErrUsernameTaken, "이미 사용 중인 사용자명입니다"},
	{services.ErrStudentIDTaken, "이미 등록된 학번입니다"},
	{services.ErrInvalidCredentials, "사용자명 또는 비밀번호가 올바르지 않습니다"},
	{services.ErrTokenExpired, "로그인이 만료되었습니다. 다시 로그인해주세요"},
	{services.ErrMissingUser, msgAuthRequired},
	{services.ErrInvalidImage, "올바른 이미지 데이터가 필요합니다."},
	{services.ErrUnknownMajor, "전공 목록에 없는 전공입니다."},
	{services.ErrMissingResponses, "응답 데이터가 필요합니다."},
	{services.ErrMissingScores, "RIASEC 점수가 필요합니다."},
	{services.ErrMissingMessage, "메시지가 필요합니다."},
	{pkgErrors.ErrForbidden, msgForbidden},
	{pkgErrors.ErrUnauthorized, msgAuthRequired},
	{pkgErrors.ErrNotFound, msgNotFound},
}

// fail writes err as the error envelope. Server errors carry internalMsg and
// the cause is attached to the gin context for the request log.
func fail(c *gin.Context, err error, internalMsg string) {
	var input *services.InputError
	if errors.As(err, &input) {
		response.RespondFields(c, "invalid_request", input.Message, input.Fields)
		return
	}
	ae := apierr.FromSentinel(err)
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		response.RespondMessage(c, ae.Status, ae.Code, internalMsg)
		return
	}
	response.RespondMessage(c, ae.Status, ae.Code, messageFor(err))
}

func messageFor(err error) string {
	for _, m := range sentinelMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return msgBadRequest
}

// notFound answers 404 with msg when err is ErrNotFound and reports whether it did.
func notFound(c *gin.Context, err error, msg string) bool {
	if !errors.Is(err, pkgErrors.ErrNotFound) {
		return false
	}
	notFoundMessage(c, msg)
	return true
}

func badRequest(c *gin.Context, msg string) {
	response.RespondMessage(c, http.StatusBadRequest, "invalid_request", msg)
}

func notFoundMessage(c *gin.Context, msg string) {
	response.RespondMessage(c, http.StatusNotFound, "not_found", msg)
}
