// Package validation runs the deterministic range and catalog checks on an
// assessment round trip. Findings are advisory and never block persistence.
package validation

import (
	"fmt"
	"sort"

	"github.com/yungbote/majormatch-backend/internal/riasec"
)

// Confidence is the fixed confidence reported by the deterministic checks.
const Confidence = 0.95

// Note accompanies validation warnings in the assessment response.
const Note = "분석 결과에 일부 불일치가 감지되었습니다. 추가 상담을 권장합니다."

// Issue kinds, used as metric labels.
const (
	KindResponseRange  = "response_range"
	KindScoreRange     = "score_range"
	KindCatalog        = "catalog"
	KindRecommendCount = "recommendation_count"
	KindSurveyRating   = "survey_rating"
)

type Result struct {
	IsValid     bool     `json:"isValid"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Confidence  float64  `json:"confidence"`
	Kinds       []string `json:"-"`
}

func (r *Result) add(kind, issue, suggestion string) {
	r.Issues = append(r.Issues, issue)
	r.Suggestions = append(r.Suggestions, suggestion)
	r.Kinds = append(r.Kinds, kind)
}

func (r *Result) finish() Result {
	r.IsValid = len(r.Issues) == 0
	r.Confidence = Confidence
	if r.Issues == nil {
		r.Issues = []string{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	return *r
}

// ValidateAssessment checks that every raw answer is in [1,5], every score is
// in [0,100], every major is a catalog member, and that 1-3 majors were named.
func ValidateAssessment(raw riasec.Responses, scores riasec.Scores, majors []string, catalog *riasec.Catalog) Result {
	var res Result

	for _, v := range raw {
		if v < 1 || v > riasec.MaxLikert {
			res.add(KindResponseRange, "일부 응답이 1-5 범위를 벗어남", "응답 값을 1-5 사이로 다시 입력해주세요.")
			break
		}
	}

	for _, v := range scores.Values() {
		if v < 0 || v > 100 {
			res.add(KindScoreRange, "일부 RIASEC 점수가 0-100 범위를 벗어남", "진단을 다시 진행해주세요.")
			break
		}
	}

	var unknown []string
	seen := map[string]bool{}
	for _, m := range majors {
		if !catalog.Contains(m) && !seen[m] {
			seen[m] = true
			unknown = append(unknown, m)
		}
	}
	sort.Strings(unknown)
	for _, m := range unknown {
		res.add(KindCatalog, "카탈로그에 없는 전공이 추천됨: "+m, "추천 전공 목록을 상담사와 함께 확인해주세요.")
	}

	if n := len(majors); n < 1 || n > 3 {
		res.add(KindRecommendCount, fmt.Sprintf("추천 전공 수가 1-3개 범위를 벗어남 (%d개)", n), "전공 추천을 다시 요청해주세요.")
	}

	return res.finish()
}
