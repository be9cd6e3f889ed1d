package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/majormatch-backend/internal/riasec"
)

const systemPrompt = "당신은 대학 전공 상담 전문가입니다. RIASEC 성향에 맞는 전공을 추천해주세요."

type Prompt struct {
	System string
	User   string
}

// BuildPrompt renders the recommendation request for scores over the closed catalog.
func BuildPrompt(scores riasec.Scores, catalog *riasec.Catalog) Prompt {
	raw, _ := json.Marshal(scores)

	var b strings.Builder
	b.WriteString("다음 RIASEC 성향 분석 결과를 바탕으로 창의융합학부의 전공을 추천해주세요.\n\n")
	fmt.Fprintf(&b, "RIASEC 점수 (각 항목 100점 만점): %s\n\n", raw)
	b.WriteString("창의융합학부 전공 목록:\n")
	for _, name := range catalog.Names() {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString(`
각 전공에 대해 다음 정보를 포함하여 JSON으로 응답해주세요:
{
  "recommendations": [
    {
      "major": "전공명",
      "matchRate": 0-100,
      "reason": "추천 이유 (2-3문장)"
    }
  ],
  "explanation": "전체적인 성향 분석 및 전공 추천 근거 (4-5문장)"
}

규칙:
- 상위 3개 전공만 추천해주세요.
- "major"에는 위 목록의 전공명을 글자 그대로 사용하고, 목록에 없는 전공을 만들지 마세요.
- 같은 전공을 두 번 추천하지 마세요.
- "matchRate"는 0에서 100 사이의 정수입니다.
- recommendations는 matchRate가 높은 순서로 정렬해주세요.`)

	return Prompt{System: systemPrompt, User: b.String()}
}

// BuildRepairPrompt is the stricter follow-up sent once after an unusable answer.
func BuildRepairPrompt(p Prompt, problem string) Prompt {
	problem = strings.TrimSpace(problem)
	if problem == "" {
		problem = "응답 형식이 올바르지 않습니다"
	}
	var b strings.Builder
	b.WriteString(p.User)
	b.WriteString("\n\n이전 응답에 문제가 있었습니다: ")
	b.WriteString(problem)
	b.WriteString(`
반드시 다음을 지켜 다시 응답해주세요:
- 정확히 3개의 추천만 포함합니다.
- 모든 "major" 값은 전공 목록에 있는 이름과 정확히 같아야 합니다.
- "reason"과 "explanation"은 비워두지 않습니다.
- JSON 객체 외의 텍스트는 포함하지 않습니다.`)
	return Prompt{System: p.System, User: b.String()}
}
