package services

import (
	"context"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/similarcases"
)

const defaultSimilarTopK = 5

type CaseStudyService interface {
	// Store returns similarcases.ErrDisabled when no vector index is configured.
	Store(ctx context.Context, c similarcases.CaseStudy) (similarcases.CaseStudy, error)
	FindSimilar(ctx context.Context, scores map[string]any, topK int) ([]similarcases.CaseStudy, error)
}

type caseStudyService struct {
	log   *logger.Logger
	cases CaseRetriever
}

func NewCaseStudyService(log *logger.Logger, cases CaseRetriever) CaseStudyService {
	return &caseStudyService{log: log.With("service", "CaseStudyService"), cases: cases}
}

func (cs *caseStudyService) Store(ctx context.Context, c similarcases.CaseStudy) (similarcases.CaseStudy, error) {
	if cs.cases == nil || !cs.cases.Enabled() {
		return similarcases.CaseStudy{}, similarcases.ErrDisabled
	}
	return cs.cases.Store(ctx, c)
}

func (cs *caseStudyService) FindSimilar(ctx context.Context, obj map[string]any, topK int) ([]similarcases.CaseStudy, error) {
	scores, ok := scoresFromMap(obj)
	if !ok {
		return nil, ErrMissingScores
	}
	if topK <= 0 {
		topK = defaultSimilarTopK
	}
	if topK > similarcases.MaxTopK {
		topK = similarcases.MaxTopK
	}
	if cs.cases == nil {
		return []similarcases.CaseStudy{}, nil
	}
	return cs.cases.FindSimilar(ctx, scores, topK), nil
}
