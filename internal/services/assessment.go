package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/majormatch-backend/internal/data/repos"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	domainassessment "github.com/yungbote/majormatch-backend/internal/domain/assessment"
	"github.com/yungbote/majormatch-backend/internal/observability"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/recommend"
	"github.com/yungbote/majormatch-backend/internal/riasec"
	"github.com/yungbote/majormatch-backend/internal/similarcases"
	"github.com/yungbote/majormatch-backend/internal/validation"
)

const similarCasesForAssessment = 5

type Recommender interface {
	RecommendScores(ctx context.Context, scores riasec.Scores) (recommend.Result, error)
}

// CaseRetriever is the similar-case surface the services need.
type CaseRetriever interface {
	Enabled() bool
	FindSimilar(ctx context.Context, scores riasec.Scores, k int) []similarcases.CaseStudy
	NarrateCases(ctx context.Context, scores riasec.Scores, majors []string, cases []similarcases.CaseStudy) string
	Store(ctx context.Context, c similarcases.CaseStudy) (similarcases.CaseStudy, error)
}

// ProfileUpdater receives fresh scores for the chat profile.
type ProfileUpdater interface {
	UpdateScores(ctx context.Context, userID string, s riasec.Scores) error
}

// AssessmentOutcome is the body returned for a completed analysis.
type AssessmentOutcome struct {
	AssessmentID         uuid.UUID                  `json:"assessmentId"`
	Scores               riasec.Scores              `json:"riasecScores"`
	Recommendations      []recommend.Recommendation `json:"recommendations"`
	Explanation          string                     `json:"explanation"`
	SimilarCasesFeedback string                     `json:"similarCasesFeedback"`
	ValidationWarnings   []string                   `json:"validationWarnings,omitempty"`
	ValidationNote       string                     `json:"validationNote,omitempty"`
}

// SaveAssessmentInput is a client-computed result stored as is.
type SaveAssessmentInput struct {
	Responses         map[string]int `json:"responses"`
	RiasecScores      riasec.Scores  `json:"riasecScores"`
	RecommendedMajors []string       `json:"recommendedMajors"`
	Explanation       string         `json:"explanation"`
}

// SavedAssessment is a stored client-side result plus advisory validation output.
type SavedAssessment struct {
	*types.Assessment
	ValidationWarnings []string `json:"validationWarnings,omitempty"`
	ValidationNote     string   `json:"validationNote,omitempty"`
}

type AssessmentService interface {
	// Submit scores raw questionnaire answers, recommends majors, and stores the result.
	Submit(ctx context.Context, responses map[string]any) (*AssessmentOutcome, error)
	// RecommendFromScores runs the same pipeline on already normalized scores.
	RecommendFromScores(ctx context.Context, scores map[string]any) (*AssessmentOutcome, error)
	Save(ctx context.Context, in SaveAssessmentInput) (*SavedAssessment, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Assessment, error)
	List(ctx context.Context) ([]*types.Assessment, error)
}

type assessmentService struct {
	log         *logger.Logger
	repo        repos.AssessmentRepo
	recommender Recommender
	cases       CaseRetriever
	profiles    ProfileUpdater
	catalog     *riasec.Catalog
	table       riasec.QuestionTable
}

func NewAssessmentService(
	log *logger.Logger,
	repo repos.AssessmentRepo,
	recommender Recommender,
	cases CaseRetriever,
	profiles ProfileUpdater,
	catalog *riasec.Catalog,
) AssessmentService {
	if catalog == nil {
		catalog = riasec.DefaultCatalog()
	}
	return &assessmentService{
		log:         log.With("service", "AssessmentService"),
		repo:        repo,
		recommender: recommender,
		cases:       cases,
		profiles:    profiles,
		catalog:     catalog,
		table:       riasec.DefaultTable(),
	}
}

func (s *assessmentService) Submit(ctx context.Context, responses map[string]any) (*AssessmentOutcome, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	if responses == nil {
		return nil, ErrMissingResponses
	}
	raw := riasec.ParseResponses(responses)
	scores := riasec.Normalize(raw, s.table)
	return s.run(ctx, userID, raw, scores)
}

func (s *assessmentService) RecommendFromScores(ctx context.Context, obj map[string]any) (*AssessmentOutcome, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	scores, ok := scoresFromMap(obj)
	if !ok {
		return nil, ErrMissingScores
	}
	return s.run(ctx, userID, riasec.Responses{}, scores)
}

func (s *assessmentService) run(ctx context.Context, userID uuid.UUID, raw riasec.Responses, scores riasec.Scores) (*AssessmentOutcome, error) {
	metrics := observability.Current()

	var (
		rec   recommend.Result
		cases []similarcases.CaseStudy
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rec, err = s.recommender.RecommendScores(gctx, scores)
		return err
	})
	if s.cases != nil {
		g.Go(func() error {
			cases = s.cases.FindSimilar(gctx, scores, similarCasesForAssessment)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.IncAssessment("recommendation_failed")
		s.log.Warn("Recommendation failed", "user_id", userID, "error", err)
		return nil, err
	}

	majors := rec.Majors()
	feedback := similarcases.NarrativeUnavailable
	if s.cases != nil {
		feedback = s.cases.NarrateCases(ctx, scores, majors, cases)
	}

	v := validation.ValidateAssessment(raw, scores, majors, s.catalog)
	for _, kind := range v.Kinds {
		metrics.IncValidationIssue(kind)
	}
	if !v.IsValid {
		s.log.Warn("Assessment validation issues", "user_id", userID, "issues", v.Issues)
	}

	row, err := s.buildRow(userID, raw.StringKeys(), scores, majors, rec.Recommendations, rec.Explanation, feedback, v.Issues)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Create(dbctx.New(ctx), row); err != nil {
		metrics.IncAssessment("persist_failed")
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	metrics.IncAssessment("succeeded")

	if s.profiles != nil {
		if err := s.profiles.UpdateScores(ctx, userID.String(), scores); err != nil {
			s.log.Warn("Chat profile update failed", "user_id", userID, "error", err)
		}
	}

	out := &AssessmentOutcome{
		AssessmentID:         row.ID,
		Scores:               scores,
		Recommendations:      rec.Recommendations,
		Explanation:          rec.Explanation,
		SimilarCasesFeedback: feedback,
	}
	if !v.IsValid {
		out.ValidationWarnings = v.Suggestions
		out.ValidationNote = validation.Note
	}
	return out, nil
}

func (s *assessmentService) buildRow(
	userID uuid.UUID,
	responses map[string]int,
	scores riasec.Scores,
	majors []string,
	recs []recommend.Recommendation,
	explanation, feedback string,
	issues []string,
) (*types.Assessment, error) {
	if majors == nil {
		majors = []string{}
	}
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	if issues == nil {
		issues = []string{}
	}
	row := &types.Assessment{UserID: userID, Explanation: explanation, SimilarCasesFeedback: feedback}
	var err error
	if row.Responses, err = domainassessment.JSON(responses); err != nil {
		return nil, err
	}
	if row.RiasecScores, err = domainassessment.JSON(scores); err != nil {
		return nil, err
	}
	if row.RecommendedMajors, err = domainassessment.JSON(majors); err != nil {
		return nil, err
	}
	if row.Recommendations, err = domainassessment.JSON(recs); err != nil {
		return nil, err
	}
	if row.ValidationIssues, err = domainassessment.JSON(issues); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *assessmentService) Save(ctx context.Context, in SaveAssessmentInput) (*SavedAssessment, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	answers := make(map[string]any, len(in.Responses))
	for k, v := range in.Responses {
		answers[k] = v
	}
	raw := riasec.ParseResponses(answers)
	explanation := strings.TrimSpace(in.Explanation)
	if explanation == "" {
		explanation = recommend.FallbackExplanation
	}

	v := validation.ValidateAssessment(raw, in.RiasecScores, in.RecommendedMajors, s.catalog)
	metrics := observability.Current()
	for _, kind := range v.Kinds {
		metrics.IncValidationIssue(kind)
	}
	if !v.IsValid {
		s.log.Warn("Saved assessment validation issues", "user_id", userID, "issues", v.Issues)
	}

	row, err := s.buildRow(userID, raw.StringKeys(), in.RiasecScores, in.RecommendedMajors, nil, explanation, "", v.Issues)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Create(dbctx.New(ctx), row); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	out := &SavedAssessment{Assessment: row}
	if !v.IsValid {
		out.ValidationWarnings = v.Suggestions
		out.ValidationNote = validation.Note
	}
	return out, nil
}

func (s *assessmentService) Get(ctx context.Context, id uuid.UUID) (*types.Assessment, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, pkgErrors.ErrForbidden
	}
	return a, nil
}

func (s *assessmentService) List(ctx context.Context) ([]*types.Assessment, error) {
	userID, err := requireUser(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(dbctx.New(ctx), userID)
}

// ScoreLookup hydrates the chat profile from stored assessments.
type ScoreLookup struct {
	repo repos.AssessmentRepo
}

func NewScoreLookup(repo repos.AssessmentRepo) *ScoreLookup { return &ScoreLookup{repo: repo} }

// LatestScores returns the scores of the user's newest assessment, or nil
// when the user has none.
func (l *ScoreLookup) LatestScores(ctx context.Context, userID string) (*riasec.Scores, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	a, err := l.repo.GetLatestByUser(dbctx.New(ctx), id)
	if errors.Is(err, pkgErrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	scores, err := a.Scores()
	if err != nil {
		return nil, err
	}
	return &scores, nil
}

// scoresFromMap reads category scores keyed by their lowercase names.
// It reports false when no category is present.
func scoresFromMap(obj map[string]any) (riasec.Scores, bool) {
	var out riasec.Scores
	found := false
	for _, cat := range riasec.Categories {
		v, ok := obj[cat.Name()]
		if !ok {
			continue
		}
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		out.Set(cat, int(math.Floor(f+0.5)))
		found = true
	}
	return out, found
}
