package similarcases

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/majormatch-backend/internal/platform/openai"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

const (
	NarrativeUnavailable = "사례 기반 피드백 기능이 설정되지 않아 피드백을 생성할 수 없습니다."
	NarrativeNoCases     = "아직 유사한 사례가 충분하지 않지만, 추천된 전공들이 당신의 성향에 잘 맞을 것으로 예상됩니다."
	NarrativeEmpty       = "유사한 사례를 바탕으로 좋은 선택이 될 것으로 예상됩니다."
	NarrativeFailed      = "사례 기반 피드백을 생성하는 중 오류가 발생했습니다."
)

const narrativeTemperature = 0.7

const narrativeSystem = "당신은 전공 상담 전문가입니다. 선배들의 실제 사례를 근거로 학생에게 따뜻하고 구체적인 조언을 합니다."

// Narrate looks up three similar cases and narrates them. It always returns text.
func (r *Retriever) Narrate(ctx context.Context, scores riasec.Scores, majors []string) string {
	if r == nil || r.gen == nil || !r.Enabled() {
		return NarrativeUnavailable
	}
	return r.NarrateCases(ctx, scores, majors, r.FindSimilar(ctx, scores, 3))
}

// NarrateCases narrates up to three already retrieved cases.
func (r *Retriever) NarrateCases(ctx context.Context, scores riasec.Scores, majors []string, cases []CaseStudy) string {
	if r == nil || r.gen == nil {
		return NarrativeUnavailable
	}
	if len(cases) == 0 {
		return NarrativeNoCases
	}
	if len(cases) > 3 {
		cases = cases[:3]
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	text, err := r.gen.GenerateText(ctx, narrativeSystem, narrativePrompt(scores, majors, cases), openai.WithTemperature(narrativeTemperature))
	if err != nil {
		r.log.Warn("Similar-case narration failed", "error", err)
		return NarrativeFailed
	}
	if text = strings.TrimSpace(text); text == "" {
		return NarrativeEmpty
	}
	return text
}

func narrativePrompt(scores riasec.Scores, majors []string, cases []CaseStudy) string {
	var b strings.Builder
	b.WriteString("다음 정보를 바탕으로 피드백을 작성해주세요.\n\n사용자 RIASEC 성향 (100점 만점):\n")
	b.WriteString(profileLine(scores))
	b.WriteString("\n\n추천 전공: ")
	if len(majors) == 0 {
		b.WriteString("아직 없음")
	} else {
		b.WriteString(strings.Join(majors, ", "))
	}
	b.WriteString("\n\n유사한 성향의 선배들 사례:\n")
	for i, c := range cases {
		fmt.Fprintf(&b, "사례 %d: %s 선택, 만족도 %d/5점\n성향: %s\n후기: %s\n", i+1, c.SelectedMajor, c.SatisfactionRating, profileLine(c.Scores), c.Description)
		if c.CareerPath != "" {
			fmt.Fprintf(&b, "진로: %s\n", c.CareerPath)
		}
		b.WriteString("\n")
	}
	b.WriteString("이 사례들을 참고하여 사용자에게 도움이 되는 조언을 3-4문장으로 작성해주세요.\n")
	b.WriteString("구체적인 만족도나 경험담을 언급하며 격려하는 톤으로 작성해주세요.")
	return b.String()
}

func profileLine(s riasec.Scores) string {
	parts := make([]string, 0, len(riasec.Categories))
	for _, c := range riasec.Categories {
		parts = append(parts, fmt.Sprintf("%s:%d", c, s.Get(c)))
	}
	return strings.Join(parts, " ")
}
