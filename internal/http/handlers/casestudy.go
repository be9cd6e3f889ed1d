package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/majormatch-backend/internal/http/response"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/riasec"
	"github.com/yungbote/majormatch-backend/internal/services"
	"github.com/yungbote/majormatch-backend/internal/similarcases"
)

const msgMissingCaseFields = "필수 정보가 누락되었습니다."

type CaseStudyHandler struct {
	cases services.CaseStudyService
}

func NewCaseStudyHandler(cases services.CaseStudyService) *CaseStudyHandler {
	return &CaseStudyHandler{cases: cases}
}

// POST /api/store-case-study
func (h *CaseStudyHandler) Store(c *gin.Context) {
	var req struct {
		RiasecScores       *riasec.Scores `json:"riasecScores"`
		SelectedMajor      string         `json:"selectedMajor"`
		SatisfactionRating int            `json:"satisfactionRating"`
		Description        string         `json:"description"`
		GraduationYear     int            `json:"graduationYear"`
		CareerPath         string         `json:"careerPath"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgMissingCaseFields)
		return
	}
	if req.RiasecScores == nil || strings.TrimSpace(req.SelectedMajor) == "" || req.SatisfactionRating == 0 {
		badRequest(c, msgMissingCaseFields)
		return
	}
	stored, err := h.cases.Store(c.Request.Context(), similarcases.CaseStudy{
		Scores:             *req.RiasecScores,
		SelectedMajor:      strings.TrimSpace(req.SelectedMajor),
		SatisfactionRating: req.SatisfactionRating,
		Description:        req.Description,
		GraduationYear:     req.GraduationYear,
		CareerPath:         req.CareerPath,
	})
	switch {
	case err == nil:
	case errors.Is(err, similarcases.ErrDisabled):
		response.RespondMessage(c, http.StatusServiceUnavailable, "cases_disabled", "사례 저장 기능이 비활성화되어 있습니다.")
		return
	case errors.Is(err, pkgErrors.ErrInvalidArgument):
		badRequest(c, msgMissingCaseFields)
		return
	default:
		fail(c, err, "사례 저장 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, gin.H{"message": "사례가 성공적으로 저장되었습니다.", "caseId": stored.ID})
}

// POST /api/similar-cases
// body: { "riasecScores": {...}, "topK": 5 }
func (h *CaseStudyHandler) FindSimilar(c *gin.Context) {
	var req struct {
		RiasecScores map[string]any `json:"riasecScores"`
		TopK         int            `json:"topK"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RiasecScores == nil {
		badRequest(c, "RIASEC 점수가 필요합니다.")
		return
	}
	found, err := h.cases.FindSimilar(c.Request.Context(), req.RiasecScores, req.TopK)
	if err != nil {
		fail(c, err, "유사 사례 검색 중 오류가 발생했습니다.")
		return
	}
	response.RespondOK(c, gin.H{"similarCases": found})
}
