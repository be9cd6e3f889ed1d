package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/majormatch-backend/internal/http/response"
	"github.com/yungbote/majormatch-backend/internal/services"
)

const msgAssessmentNotFound = "진단 결과를 찾을 수 없습니다."

type AssessmentHandler struct {
	assessments services.AssessmentService
}

func NewAssessmentHandler(assessments services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments}
}

// POST /api/analyze-riasec
// body: { "responses": { "1": 4, "2": 5, ... } }
func (h *AssessmentHandler) Analyze(c *gin.Context) {
	var req struct {
		Responses map[string]any `json:"responses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Responses == nil {
		badRequest(c, "응답 데이터가 필요합니다.")
		return
	}
	out, err := h.assessments.Submit(c.Request.Context(), req.Responses)
	if err != nil {
		fail(c, err, "성향 분석 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, out)
}

// POST /api/recommend-majors
// body: { "riasecScores": { "realistic": 40, ... } }
func (h *AssessmentHandler) RecommendMajors(c *gin.Context) {
	var req struct {
		RiasecScores map[string]any `json:"riasecScores"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RiasecScores == nil {
		badRequest(c, "RIASEC 점수가 필요합니다.")
		return
	}
	out, err := h.assessments.RecommendFromScores(c.Request.Context(), req.RiasecScores)
	if err != nil {
		fail(c, err, "전공 추천 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, out)
}

// POST /api/assessments
func (h *AssessmentHandler) Save(c *gin.Context) {
	var req services.SaveAssessmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgBadRequest)
		return
	}
	a, err := h.assessments.Save(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "진단 결과 저장 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, a)
}

// GET /api/assessments
func (h *AssessmentHandler) List(c *gin.Context) {
	list, err := h.assessments.List(c.Request.Context())
	if err != nil {
		fail(c, err, "진단 결과 조회 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, list)
}

// GET /api/assessments/:id
func (h *AssessmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		notFoundMessage(c, msgAssessmentNotFound)
		return
	}
	a, err := h.assessments.Get(c.Request.Context(), id)
	if err != nil {
		if notFound(c, err, msgAssessmentNotFound) {
			return
		}
		fail(c, err, "진단 결과 조회 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, a)
}
