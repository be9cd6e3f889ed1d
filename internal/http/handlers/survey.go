package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/majormatch-backend/internal/http/response"
	"github.com/yungbote/majormatch-backend/internal/services"
)

const (
	msgSurveyNotFound  = "만족도 조사를 찾을 수 없습니다"
	msgSurveyLookupErr = "만족도 조사 조회 중 오류가 발생했습니다"
)

type SurveyHandler struct {
	surveys services.SurveyService
}

func NewSurveyHandler(surveys services.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// POST /api/satisfaction-surveys
func (h *SurveyHandler) Create(c *gin.Context) {
	var req services.SurveyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, services.MsgCheckInput)
		return
	}
	out, err := h.surveys.Create(c.Request.Context(), req)
	if err != nil {
		if notFound(c, err, msgAssessmentNotFound) {
			return
		}
		fail(c, err, "만족도 조사 저장 중 오류가 발생했습니다")
		return
	}
	response.RespondCreated(c, out)
}

// GET /api/satisfaction-surveys
func (h *SurveyHandler) List(c *gin.Context) {
	list, err := h.surveys.List(c.Request.Context())
	if err != nil {
		fail(c, err, msgSurveyLookupErr)
		return
	}
	response.RespondOK(c, list)
}

// GET /api/satisfaction-surveys/assessment/:assessmentId
func (h *SurveyHandler) GetByAssessment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("assessmentId"))
	if err != nil {
		notFoundMessage(c, msgSurveyNotFound)
		return
	}
	s, err := h.surveys.GetByAssessment(c.Request.Context(), id)
	if err != nil {
		if notFound(c, err, msgSurveyNotFound) {
			return
		}
		fail(c, err, msgSurveyLookupErr)
		return
	}
	response.RespondOK(c, s)
}
