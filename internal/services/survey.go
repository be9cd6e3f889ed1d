package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/majormatch-backend/internal/data/repos"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/observability"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/riasec"
	"github.com/yungbote/majormatch-backend/internal/similarcases"
	"github.com/yungbote/majormatch-backend/internal/validation"
)

const msgMajorNotInCatalog = "선택한 전공이 전공 목록에 없습니다. 전공명을 확인해주세요."

type SurveyInput struct {
	AssessmentID           uuid.UUID  `json:"assessmentId"`
	OverallSatisfaction    int        `json:"overallSatisfaction"`
	RecommendationAccuracy int        `json:"recommendationAccuracy"`
	SystemUsability        int        `json:"systemUsability"`
	WouldRecommend         bool       `json:"wouldRecommend"`
	Feedback               string     `json:"feedback,omitempty"`
	SelectedMajor          string     `json:"selectedMajor,omitempty"`
	MajorSatisfaction      *int       `json:"majorSatisfaction,omitempty"`
	FollowUpDate           *time.Time `json:"followUpDate,omitempty"`
}

type SurveyOutcome struct {
	Survey             *types.SatisfactionSurvey `json:"survey"`
	ValidationWarnings []string                  `json:"validationWarnings,omitempty"`
}

type SurveyService interface {
	Create(ctx context.Context, in SurveyInput) (*SurveyOutcome, error)
	List(ctx context.Context) ([]*types.SatisfactionSurvey, error)
	GetByAssessment(ctx context.Context, assessmentID uuid.UUID) (*types.SatisfactionSurvey, error)
}

type surveyService struct {
	log            *logger.Logger
	surveyRepo     repos.SurveyRepo
	assessmentRepo repos.AssessmentRepo
	cases          CaseRetriever
	catalog        *riasec.Catalog
}

func NewSurveyService(log *logger.Logger, surveyRepo repos.SurveyRepo, assessmentRepo repos.AssessmentRepo, cases CaseRetriever, catalog *riasec.Catalog) SurveyService {
	if catalog == nil {
		catalog = riasec.DefaultCatalog()
	}
	return &surveyService{
		log:            log.With("service", "SurveyService"),
		surveyRepo:     surveyRepo,
		assessmentRepo: assessmentRepo,
		cases:          cases,
		catalog:        catalog,
	}
}

func (ss *surveyService) Create(ctx context.Context, in SurveyInput) (*SurveyOutcome, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	if in.AssessmentID == uuid.Nil {
		return nil, &InputError{Message: MsgCheckInput, Fields: map[string]string{"assessmentId": "진단 결과 ID가 필요합니다"}}
	}
	v := validation.ValidateSurvey(validation.SurveyRatings{
		OverallSatisfaction:    in.OverallSatisfaction,
		RecommendationAccuracy: in.RecommendationAccuracy,
		SystemUsability:        in.SystemUsability,
		MajorSatisfaction:      in.MajorSatisfaction,
	})
	if !v.IsValid {
		for _, kind := range v.Kinds {
			observability.Current().IncValidationIssue(kind)
		}
		return nil, &InputError{Message: MsgCheckInput, Fields: map[string]string{"ratings": strings.Join(v.Issues, "; ")}}
	}

	dbc := dbctx.New(ctx)
	a, err := ss.assessmentRepo.GetByID(dbc, in.AssessmentID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, pkgErrors.ErrForbidden
	}

	out := &SurveyOutcome{}
	major := strings.TrimSpace(in.SelectedMajor)
	if major != "" {
		if ss.catalog.Contains(major) {
			major = ss.catalog.Canonical(major)
		} else {
			out.ValidationWarnings = append(out.ValidationWarnings, msgMajorNotInCatalog)
		}
	}
	survey, err := ss.surveyRepo.Create(dbc, &types.SatisfactionSurvey{
		UserID:                 userID,
		AssessmentID:           a.ID,
		OverallSatisfaction:    in.OverallSatisfaction,
		RecommendationAccuracy: in.RecommendationAccuracy,
		SystemUsability:        in.SystemUsability,
		WouldRecommend:         in.WouldRecommend,
		Feedback:               strings.TrimSpace(in.Feedback),
		SelectedMajor:          major,
		MajorSatisfaction:      in.MajorSatisfaction,
		FollowUpDate:           in.FollowUpDate,
	})
	if err != nil {
		return nil, err
	}
	out.Survey = survey

	if major != "" {
		ss.storeCase(ctx, a, survey)
	}
	return out, nil
}

// storeCase adds the survey to the similar-case index. Failures are logged only.
func (ss *surveyService) storeCase(ctx context.Context, a *types.Assessment, s *types.SatisfactionSurvey) {
	if ss.cases == nil || !ss.cases.Enabled() {
		return
	}
	scores, err := a.Scores()
	if err != nil {
		ss.log.Warn("Survey case skipped: unreadable scores", "assessment_id", a.ID, "error", err)
		return
	}
	rating := s.OverallSatisfaction
	if s.MajorSatisfaction != nil {
		rating = *s.MajorSatisfaction
	}
	_, err = ss.cases.Store(ctx, similarcases.CaseStudy{
		ID:                 "survey-" + s.ID.String(),
		Scores:             scores,
		SelectedMajor:      s.SelectedMajor,
		SatisfactionRating: rating,
		Description:        s.Feedback,
	})
	if err != nil && !errors.Is(err, similarcases.ErrDisabled) {
		ss.log.Warn("Survey case store failed", "survey_id", s.ID, "error", err)
	}
}

func (ss *surveyService) List(ctx context.Context) ([]*types.SatisfactionSurvey, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	return ss.surveyRepo.ListByUser(dbctx.New(ctx), userID)
}

func (ss *surveyService) GetByAssessment(ctx context.Context, assessmentID uuid.UUID) (*types.SatisfactionSurvey, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	s, err := ss.surveyRepo.GetByAssessment(dbctx.New(ctx), assessmentID)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, pkgErrors.ErrForbidden
	}
	return s, nil
}
