package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/openai"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

type fakeGenerator struct {
	answers []any // map[string]any or error
	prompts []Prompt
	schemas []map[string]any
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, system, user, name string, schema map[string]any, opts ...openai.CallOption) (map[string]any, error) {
	f.prompts = append(f.prompts, Prompt{System: system, User: user})
	f.schemas = append(f.schemas, schema)
	if len(f.answers) == 0 {
		return nil, fmt.Errorf("no more answers")
	}
	next := f.answers[0]
	f.answers = f.answers[1:]
	if err, ok := next.(error); ok {
		return nil, err
	}
	return next.(map[string]any), nil
}

func (f *fakeGenerator) GenerateText(ctx context.Context, system, user string, opts ...openai.CallOption) (string, error) {
	return "", fmt.Errorf("not used")
}

func rec(major string, rate float64) map[string]any {
	return map[string]any{"major": major, "matchRate": rate, "reason": major + " 추천 이유"}
}

func answerOf(explanation string, recs ...map[string]any) map[string]any {
	list := make([]any, 0, len(recs))
	for _, r := range recs {
		list = append(list, r)
	}
	return map[string]any{"recommendations": list, "explanation": explanation}
}

func newRecommender(t *testing.T, gen Generator) *Recommender {
	t.Helper()
	r, err := New(logger.Nop(), gen, riasec.DefaultCatalog(), 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func neutralScores() riasec.Scores {
	return riasec.Scores{Realistic: 60, Investigative: 60, Artistic: 60, Social: 60, Enterprising: 60, Conventional: 60}
}

func TestBuildPromptContainsScoresAndCatalog(t *testing.T) {
	p := BuildPrompt(neutralScores(), riasec.DefaultCatalog())
	if !strings.Contains(p.User, `"realistic":60`) {
		t.Fatalf("prompt missing serialized scores:\n%s", p.User)
	}
	for _, name := range riasec.DefaultCatalog().Names() {
		if !strings.Contains(p.User, "- "+name) {
			t.Fatalf("prompt missing catalog entry %s", name)
		}
	}
	if !strings.Contains(p.User, "상위 3개") || !strings.Contains(p.User, `"explanation"`) {
		t.Fatalf("prompt missing instructions")
	}
}

func TestRecommendSortsAndDedupes(t *testing.T) {
	gen := &fakeGenerator{answers: []any{answerOf("설명",
		rec("건축학과", 70), rec("컴퓨터공학과", 90), rec("건축학과", 95))}}
	res, err := newRecommender(t, gen).RecommendScores(context.Background(), neutralScores())
	if err != nil {
		t.Fatalf("RecommendScores: %v", err)
	}
	got := res.Majors()
	if len(got) != 2 || got[0] != "컴퓨터공학과" || got[1] != "건축학과" {
		t.Fatalf("unexpected majors %v", got)
	}
	if res.Attempts != 1 || len(gen.prompts) != 1 {
		t.Fatalf("expected one call, got %d", len(gen.prompts))
	}
	enum := gen.schemas[0]["properties"].(map[string]any)["recommendations"].(map[string]any)["items"].(map[string]any)["properties"].(map[string]any)["major"].(map[string]any)["enum"].([]any)
	if len(enum) != 10 {
		t.Fatalf("schema enum should list the catalog, got %d", len(enum))
	}
}

func TestRecommendStableOnTies(t *testing.T) {
	gen := &fakeGenerator{answers: []any{answerOf("설명",
		rec("환경공학과", 80), rec("화학공학과", 80), rec("산업공학과", 80))}}
	res, err := newRecommender(t, gen).RecommendScores(context.Background(), neutralScores())
	if err != nil {
		t.Fatalf("RecommendScores: %v", err)
	}
	got := strings.Join(res.Majors(), ",")
	if got != "환경공학과,화학공학과,산업공학과" {
		t.Fatalf("ties should keep generator order, got %s", got)
	}
}

func TestRecommendBlankExplanationTwiceFails(t *testing.T) {
	gen := &fakeGenerator{answers: []any{
		answerOf("   ", rec("컴퓨터공학과", 90)),
		answerOf("", rec("컴퓨터공학과", 90)),
	}}
	_, err := newRecommender(t, gen).RecommendScores(context.Background(), neutralScores())
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestRecommendRepairsMalformedOnce(t *testing.T) {
	gen := &fakeGenerator{answers: []any{
		map[string]any{"recommendations": []any{}},
		answerOf("설명", rec("컴퓨터공학과", 90)),
	}}
	res, err := newRecommender(t, gen).RecommendScores(context.Background(), neutralScores())
	if err != nil {
		t.Fatalf("RecommendScores: %v", err)
	}
	if res.Attempts != 2 || len(gen.prompts) != 2 {
		t.Fatalf("expected a repair attempt, got %d calls", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[1].User, "이전 응답에 문제가 있었습니다") {
		t.Fatalf("second prompt should be the repair prompt")
	}
}

func TestRecommendFailsAfterSecondMalformed(t *testing.T) {
	gen := &fakeGenerator{answers: []any{
		fmt.Errorf("wrap: %w", openai.ErrMalformedOutput),
		answerOf("설명", rec("컴퓨터공학과", 150)),
	}}
	_, err := newRecommender(t, gen).RecommendScores(context.Background(), neutralScores())
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
	if len(gen.prompts) != 2 {
		t.Fatalf("expected exactly two calls, got %d", len(gen.prompts))
	}
}

func TestRecommendEmptyExplanationGetsRepairRetry(t *testing.T) {
	gen := &fakeGenerator{answers: []any{
		answerOf("", rec("컴퓨터공학과", 90)),
		answerOf("탐구형 성향이 뚜렷합니다.", rec("컴퓨터공학과", 90)),
	}}
	res, err := newRecommender(t, gen).RecommendScores(context.Background(), neutralScores())
	if err != nil {
		t.Fatalf("RecommendScores: %v", err)
	}
	if len(gen.prompts) != 2 || res.Attempts != 2 {
		t.Fatalf("expected a repair retry, calls=%d attempts=%d", len(gen.prompts), res.Attempts)
	}
	if res.Explanation != "탐구형 성향이 뚜렷합니다." {
		t.Fatalf("unexpected explanation %q", res.Explanation)
	}
}

func TestRecommendExternalFailureNotRetried(t *testing.T) {
	gen := &fakeGenerator{answers: []any{errors.New("connection refused")}}
	_, err := newRecommender(t, gen).RecommendScores(context.Background(), neutralScores())
	var ext *ExternalServiceError
	if !errors.As(err, &ext) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("transport errors must not be retried, got %d calls", len(gen.prompts))
	}
}

func TestRecommendOutOfCatalogRetriedThenReported(t *testing.T) {
	gen := &fakeGenerator{answers: []any{
		answerOf("설명", rec("의예과", 90)),
		answerOf("설명", rec("법학과", 85), rec("건축학과", 80)),
	}}
	res, err := newRecommender(t, gen).RecommendScores(context.Background(), neutralScores())
	if err != nil {
		t.Fatalf("RecommendScores: %v", err)
	}
	if len(res.OutOfCatalog) != 1 || res.OutOfCatalog[0] != "법학과" {
		t.Fatalf("unexpected out-of-catalog %v", res.OutOfCatalog)
	}
	if !strings.Contains(gen.prompts[1].User, "의예과") {
		t.Fatalf("repair prompt should name the offending major")
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	cases := map[string]map[string]any{
		"missing explanation": {"recommendations": []any{rec("건축학과", 50)}},
		"empty explanation":   answerOf("", rec("건축학과", 50)),
		"blank explanation":   answerOf("   ", rec("건축학과", 50)),
		"too many":            answerOf("x", rec("a", 1), rec("b", 2), rec("c", 3), rec("d", 4)),
		"fractional rate":     answerOf("x", rec("건축학과", 50.5)),
		"empty reason":        answerOf("x", map[string]any{"major": "건축학과", "matchRate": 50, "reason": ""}),
		"wrong type":          {"recommendations": "건축학과", "explanation": "x"},
	}
	for name, obj := range cases {
		if _, err := Parse(obj, riasec.DefaultCatalog()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
