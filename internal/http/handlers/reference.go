package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/majormatch-backend/internal/http/response"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

// ReferenceHandler serves the static questionnaire and major catalog.
type ReferenceHandler struct {
	catalog *riasec.Catalog
}

func NewReferenceHandler(catalog *riasec.Catalog) *ReferenceHandler {
	if catalog == nil {
		catalog = riasec.DefaultCatalog()
	}
	return &ReferenceHandler{catalog: catalog}
}

// GET /api/majors
func (h *ReferenceHandler) Majors(c *gin.Context) {
	response.RespondOK(c, h.catalog.Majors())
}

// GET /api/questions
func (h *ReferenceHandler) Questions(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"questions":     riasec.Questions(),
		"answerOptions": riasec.AnswerOptions(),
	})
}
