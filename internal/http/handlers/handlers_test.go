package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/http/response"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/recommend"
	"github.com/yungbote/majormatch-backend/internal/riasec"
	"github.com/yungbote/majormatch-backend/internal/services"
	"github.com/yungbote/majormatch-backend/internal/similarcases"
)

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope %q: %v", rec.Body.String(), err)
	}
	return env.Error
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// ---- assessments ----

type stubAssessments struct {
	services.AssessmentService
	submitErr error
	got       map[string]any
	getErr    error
}

func (s *stubAssessments) Submit(_ context.Context, responses map[string]any) (*services.AssessmentOutcome, error) {
	s.got = responses
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &services.AssessmentOutcome{
		AssessmentID:    uuid.New(),
		Scores:          riasec.Scores{Investigative: 90},
		Recommendations: []recommend.Recommendation{{Major: "컴퓨터공학과", MatchRate: 90}},
		Explanation:     "설명",
	}, nil
}

func (s *stubAssessments) Get(_ context.Context, id uuid.UUID) (*types.Assessment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &types.Assessment{ID: id}, nil
}

func TestAnalyzeRiasec(t *testing.T) {
	stub := &stubAssessments{}
	r := newEngine()
	h := NewAssessmentHandler(stub)
	r.POST("/api/analyze-riasec", h.Analyze)

	for _, body := range []string{``, `{}`, `{"responses": [1,2]}`, `{"responses": "x"}`} {
		rec := do(t, r, http.MethodPost, "/api/analyze-riasec", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status got %d", body, rec.Code)
		}
		if msg := decodeError(t, rec).Message; msg != "응답 데이터가 필요합니다." {
			t.Fatalf("body %q: message %q", body, msg)
		}
	}

	rec := do(t, r, http.MethodPost, "/api/analyze-riasec", `{"responses": {"1": 5, "2": 4}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d body %s", rec.Code, rec.Body.String())
	}
	if stub.got["1"] != 5.0 {
		t.Fatalf("responses not forwarded: %+v", stub.got)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"assessmentId", "riasecScores", "recommendations", "explanation", "similarCasesFeedback"} {
		if _, ok := out[key]; !ok {
			t.Fatalf("missing %q in %s", key, rec.Body.String())
		}
	}
	if _, ok := out["validationWarnings"]; ok {
		t.Fatalf("validationWarnings should be omitted when valid")
	}
}

func TestAnalyzeRiasecRecommendationFailure(t *testing.T) {
	stub := &stubAssessments{submitErr: &recommend.ExternalServiceError{Err: errors.New("timeout")}}
	r := newEngine()
	r.POST("/api/analyze-riasec", NewAssessmentHandler(stub).Analyze)

	rec := do(t, r, http.MethodPost, "/api/analyze-riasec", `{"responses": {"1": 5}}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status got %d", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Message != "성향 분석 중 오류가 발생했습니다." {
		t.Fatalf("message %q", apiErr.Message)
	}
	if strings.Contains(rec.Body.String(), "timeout") {
		t.Fatalf("internal cause leaked: %s", rec.Body.String())
	}
}

func TestGetAssessmentStatuses(t *testing.T) {
	cases := []struct {
		err  error
		path string
		want int
	}{
		{nil, "/api/assessments/" + uuid.NewString(), http.StatusOK},
		{pkgErrors.ErrNotFound, "/api/assessments/" + uuid.NewString(), http.StatusNotFound},
		{pkgErrors.ErrForbidden, "/api/assessments/" + uuid.NewString(), http.StatusForbidden},
		{nil, "/api/assessments/not-a-uuid", http.StatusNotFound},
		{errors.New("db down"), "/api/assessments/" + uuid.NewString(), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := newEngine()
		r.GET("/api/assessments/:id", NewAssessmentHandler(&stubAssessments{getErr: tc.err}).Get)
		rec := do(t, r, http.MethodGet, tc.path, "")
		if rec.Code != tc.want {
			t.Fatalf("%v: status got %d want %d", tc.err, rec.Code, tc.want)
		}
		if tc.want == http.StatusForbidden && decodeError(t, rec).Message != msgForbidden {
			t.Fatalf("forbidden message: %s", rec.Body.String())
		}
	}
}

// ---- chat ----

type stubChat struct {
	services.ChatService
	in      services.ChatInput
	sendErr error
	convErr error
}

func (s *stubChat) Send(_ context.Context, in services.ChatInput) (*services.ChatOutcome, error) {
	s.in = in
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &services.ChatOutcome{Response: "안녕하세요", SessionID: uuid.New()}, nil
}

func (s *stubChat) GetConversation(_ context.Context, id uuid.UUID) (*services.Conversation, error) {
	if s.convErr != nil {
		return nil, s.convErr
	}
	return &services.Conversation{SessionID: id, Stage: "greeting"}, nil
}

func TestChatSend(t *testing.T) {
	stub := &stubChat{}
	r := newEngine()
	r.POST("/api/chat", NewChatHandler(stub).Send)

	rec := do(t, r, http.MethodPost, "/api/chat", `{"message":"hi","sessionId":"abc","riasecScores":{"social":70}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d", rec.Code)
	}
	if stub.in.SessionID != "abc" || stub.in.RiasecScores["social"] != 70.0 {
		t.Fatalf("input not forwarded: %+v", stub.in)
	}
	var out struct {
		Response  string `json:"response"`
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out.Response != "안녕하세요" {
		t.Fatalf("unexpected body %s (%v)", rec.Body.String(), err)
	}

	stub.sendErr = services.ErrMissingMessage
	rec = do(t, r, http.MethodPost, "/api/chat", `{"message":"  "}`)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Message != "메시지가 필요합니다." {
		t.Fatalf("missing message: %d %s", rec.Code, rec.Body.String())
	}
}

func TestConversationNotFound(t *testing.T) {
	r := newEngine()
	r.GET("/api/conversation/:sessionId", NewChatHandler(&stubChat{convErr: fmt.Errorf("get: %w", pkgErrors.ErrNotFound)}).Conversation)

	rec := do(t, r, http.MethodGet, "/api/conversation/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Message != msgConversationNotFound {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
}

// ---- case studies ----

type stubCases struct {
	services.CaseStudyService
	storeErr error
	stored   similarcases.CaseStudy
	topK     int
	findErr  error
}

func (s *stubCases) Store(_ context.Context, c similarcases.CaseStudy) (similarcases.CaseStudy, error) {
	if s.storeErr != nil {
		return similarcases.CaseStudy{}, s.storeErr
	}
	c.ID = "case-1"
	s.stored = c
	return c, nil
}

func (s *stubCases) FindSimilar(_ context.Context, _ map[string]any, topK int) ([]similarcases.CaseStudy, error) {
	s.topK = topK
	if s.findErr != nil {
		return nil, s.findErr
	}
	return []similarcases.CaseStudy{{ID: "a"}}, nil
}

func TestStoreCaseStudy(t *testing.T) {
	stub := &stubCases{}
	r := newEngine()
	r.POST("/api/store-case-study", NewCaseStudyHandler(stub).Store)

	for _, body := range []string{
		`{"selectedMajor":"컴퓨터공학과","satisfactionRating":4}`,
		`{"riasecScores":{"realistic":10},"satisfactionRating":4}`,
		`{"riasecScores":{"realistic":10},"selectedMajor":"컴퓨터공학과"}`,
	} {
		rec := do(t, r, http.MethodPost, "/api/store-case-study", body)
		if rec.Code != http.StatusBadRequest || decodeError(t, rec).Message != msgMissingCaseFields {
			t.Fatalf("body %s: %d %s", body, rec.Code, rec.Body.String())
		}
	}

	rec := do(t, r, http.MethodPost, "/api/store-case-study", `{"riasecScores":{"realistic":10},"selectedMajor":" 컴퓨터공학과 ","satisfactionRating":4}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"caseId":"case-1"`) {
		t.Fatalf("%d %s", rec.Code, rec.Body.String())
	}
	if stub.stored.SelectedMajor != "컴퓨터공학과" || stub.stored.Scores.Realistic != 10 {
		t.Fatalf("unexpected stored case %+v", stub.stored)
	}

	stub.storeErr = similarcases.ErrDisabled
	rec = do(t, r, http.MethodPost, "/api/store-case-study", `{"riasecScores":{"realistic":10},"selectedMajor":"컴퓨터공학과","satisfactionRating":4}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("disabled: got %d", rec.Code)
	}
}

func TestSimilarCases(t *testing.T) {
	stub := &stubCases{}
	r := newEngine()
	r.POST("/api/similar-cases", NewCaseStudyHandler(stub).FindSimilar)

	rec := do(t, r, http.MethodPost, "/api/similar-cases", `{}`)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Message != "RIASEC 점수가 필요합니다." {
		t.Fatalf("%d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodPost, "/api/similar-cases", `{"riasecScores":{"social":50},"topK":3}`)
	if rec.Code != http.StatusOK || stub.topK != 3 || !strings.Contains(rec.Body.String(), `"similarCases"`) {
		t.Fatalf("%d %s topK=%d", rec.Code, rec.Body.String(), stub.topK)
	}
}

// ---- reference data ----

func TestReferenceData(t *testing.T) {
	r := newEngine()
	h := NewReferenceHandler(nil)
	r.GET("/api/majors", h.Majors)
	r.GET("/api/questions", h.Questions)

	rec := do(t, r, http.MethodGet, "/api/majors", "")
	var majors []riasec.Major
	if err := json.Unmarshal(rec.Body.Bytes(), &majors); err != nil {
		t.Fatalf("decode majors: %v", err)
	}
	if len(majors) != riasec.DefaultCatalog().Len() {
		t.Fatalf("majors: got %d", len(majors))
	}

	rec = do(t, r, http.MethodGet, "/api/questions", "")
	var q struct {
		Questions     []riasec.Question     `json:"questions"`
		AnswerOptions []riasec.AnswerOption `json:"answerOptions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	if len(q.Questions) != 18 || len(q.AnswerOptions) != 5 {
		t.Fatalf("questions=%d options=%d", len(q.Questions), len(q.AnswerOptions))
	}
}

// ---- error mapping ----

func TestFailMapsServiceErrors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{services.ErrUsernameTaken, http.StatusConflict, "이미 사용 중인 사용자명입니다"},
		{services.ErrStudentIDTaken, http.StatusConflict, "이미 등록된 학번입니다"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "사용자명 또는 비밀번호가 올바르지 않습니다"},
		{services.ErrInvalidImage, http.StatusBadRequest, "올바른 이미지 데이터가 필요합니다."},
		{fmt.Errorf("%w: \"x\"", services.ErrUnknownMajor), http.StatusBadRequest, "전공 목록에 없는 전공입니다."},
		{errors.New("db down"), http.StatusInternalServerError, "fallback"},
	}
	for _, tc := range cases {
		r := newEngine()
		err := tc.err
		r.GET("/x", func(c *gin.Context) { fail(c, err, "fallback") })
		rec := do(t, r, http.MethodGet, "/x", "")
		if rec.Code != tc.status {
			t.Fatalf("%v: status got %d want %d", tc.err, rec.Code, tc.status)
		}
		if got := decodeError(t, rec).Message; got != tc.message {
			t.Fatalf("%v: message got %q want %q", tc.err, got, tc.message)
		}
	}
}

func TestFailRendersInputFields(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		fail(c, &services.InputError{Message: services.MsgCheckInput, Fields: map[string]string{"username": "짧음"}}, "fallback")
	})
	rec := do(t, r, http.MethodGet, "/x", "")
	apiErr := decodeError(t, rec)
	if rec.Code != http.StatusBadRequest || apiErr.Message != services.MsgCheckInput || apiErr.Fields["username"] != "짧음" {
		t.Fatalf("%d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	r := newEngine()
	r.GET("/ok", NewHealthHandler(Check{Name: "postgres", Fn: func(context.Context) error { return nil }}).HealthCheck)
	r.GET("/bad", NewHealthHandler(Check{Name: "redis", Fn: func(context.Context) error { return errors.New("down") }}).HealthCheck)

	if rec := do(t, r, http.MethodGet, "/ok", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("ok: %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(t, r, http.MethodGet, "/bad", ""); rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "redis") {
		t.Fatalf("bad: %d %q", rec.Code, rec.Body.String())
	}
}
