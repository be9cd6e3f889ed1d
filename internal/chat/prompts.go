package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/majormatch-backend/internal/riasec"
)

const counselorName = "김상담"

const (
	analysisSystem   = "당신은 대학생 전공 상담 전문가입니다. 대화를 분석해 상담 단계와 학생의 상태를 분류합니다."
	followUpSystem   = "당신은 대학생 전공 상담 전문가입니다. 대화를 자연스럽게 이어갈 질문을 제안합니다."
	extractionSystem = "당신은 학생의 메시지에서 관심사와 우려사항을 추출하는 분석가입니다."
	summarySystem    = "당신은 대학생 전공 상담 전문가입니다. 상담 대화를 간결하게 요약합니다."
)

func joinOr(xs []string, empty string) string {
	if len(xs) == 0 {
		return empty
	}
	return strings.Join(xs, ", ")
}

func historyLines(history []Message, userLabel, assistantLabel string) string {
	var b strings.Builder
	for _, m := range history {
		label := assistantLabel
		if m.Role == RoleUser {
			label = userLabel
		}
		fmt.Fprintf(&b, "%s: %s\n", label, m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func scoresJSON(s *riasec.Scores) string {
	if s == nil {
		return "없음"
	}
	raw, _ := json.Marshal(s)
	return string(raw)
}

func topCategories(s *riasec.Scores) string {
	if s == nil {
		return "미진단"
	}
	parts := make([]string, 0, 2)
	for _, r := range s.Top(2) {
		parts = append(parts, fmt.Sprintf("%s(%d점)", r.Category.Name(), r.Score))
	}
	return strings.Join(parts, ", ")
}

func analysisPrompt(p Profile, message string) string {
	return fmt.Sprintf(`다음 대화를 분석해주세요.

최근 대화 기록:
%s

현재 사용자 메시지: "%s"

사용자 프로필:
- RIASEC 점수: %s
- 관심사: %s
- 우려사항: %s

모든 메시지를 전공 추천이나 진로 상담과 관련된 맥락으로 해석하세요.

stage는 다음 중 하나입니다:
- greeting: 인사와 첫 만남
- exploring: 관심사와 성향 탐색
- recommending: 전공 추천과 비교
- follow_up: 추천 이후의 구체적인 계획과 후속 질문

emotional_state는 positive, neutral, concerned, excited 중 하나입니다.
topics_discussed에는 전공 관련으로 논의된 주제를 짧게 적어주세요.`,
		historyLines(lastN(p.History, 5), "user", "assistant"),
		message,
		scoresJSON(p.Scores),
		joinOr(p.Interests, "알 수 없음"),
		joinOr(p.Concerns, "없음"),
	)
}

func followUpPrompt(message string, interests []string, focus string) string {
	return fmt.Sprintf(`사용자 메시지: "%s"
사용자 관심사: %s
대화 맥락: %s

위 정보를 바탕으로 자연스럽게 대화를 이어갈 수 있는 3개의 질문을 "questions" 배열에 담아주세요.
1. 사용자가 더 많이 이야기할 수 있도록 개방형 질문
2. 전공이나 진로와 연관성 있는 내용
3. 개인적 경험이나 생각을 묻는 질문
4. 자연스럽고 부담스럽지 않은 어조`, message, joinOr(interests, "없음"), focus)
}

func extractionPrompt(message string) string {
	return fmt.Sprintf(`다음 메시지에서 사용자의 관심사, 우려사항, 선호도를 추출해주세요.
해당하는 내용이 없으면 빈 배열로 두세요.

메시지: "%s"`, message)
}

func replySystemPrompt(p Profile, c Context, narrative string, catalog *riasec.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "당신은 충남대학교 창의융합대학의 전공 상담 전문가 \"%s\"입니다.\n\n", counselorName)
	b.WriteString(`성격: 따뜻하고 친근하며, 학생들의 고민을 잘 이해하고 공감하는 상담사. 대화를 풍부하게 이어가는 것을 좋아함
전문 분야: 전공 선택, 진로 상담, RIASEC 성향 해석, 대학 생활 조언, 취업 준비, 학과 생활
대화 스타일: 자연스럽고 친근하면서도 전문적인 조언 제공. 학생이 더 많이 이야기할 수 있도록 유도

모든 질문을 전공 추천과 진로 상담 맥락으로 해석하고 응답하세요.
`)
	fmt.Fprintf(&b, `
현재 대화 상황:
- 대화 단계: %s
- 현재 초점: %s
- 사용자 감정 상태: %s
- 논의된 주제들: %s

사용자 프로필:
- RIASEC 성향: %s
- 관심사: %s
- 우려사항: %s
- 학년: %s
`,
		c.Stage,
		orDefault(c.CurrentFocus, "일반 상담"),
		orDefault(c.EmotionalState, "neutral"),
		joinOr(c.TopicsDiscussed, "없음"),
		topCategories(p.Scores),
		joinOr(p.Interests, "파악 중"),
		joinOr(p.Concerns, "없음"),
		orDefault(p.AcademicLevel, "미확인"),
	)
	if narrative != "" {
		b.WriteString("\n유사한 케이스 참고사항:\n")
		b.WriteString(narrative)
		b.WriteString("\n")
	}
	b.WriteString("\n충남대학교 창의융합대학 전공들:\n")
	for _, m := range catalog.Majors() {
		types := make([]string, 0, len(m.Types))
		for _, t := range m.Types {
			types = append(types, string(t))
		}
		fmt.Fprintf(&b, "- %s: %s (%s 성향 적합)\n", m.Name, m.Description, strings.Join(types, ","))
	}
	b.WriteString(`
응답 가이드라인:
1. 친근하고 자연스러운 말투 사용
2. 학생의 감정과 상황에 공감 표현
3. 구체적이고 실용적인 조언 제공
4. 호기심을 유발하는 질문으로 대화 이어가기
5. 2-4문장으로 구성하되 대화가 이어지도록
6. 이모티콘이나 특수문자 사용 금지
7. 존댓말 사용하되 너무 딱딱하지 않게
8. 개방형 질문과 개인적 경험에 대한 질문 포함
9. 일반 질문도 관심사에 맞는 전공으로 연결
10. 위 전공 목록에 없는 학과를 추천하지 않기`)
	b.WriteString(stageHint(c.Stage))
	return b.String()
}

func stageHint(s Stage) string {
	switch s {
	case StageGreeting:
		return "\n\n지금은 첫 만남 단계입니다. 편안하게 인사하고 학생의 관심사를 물어보세요."
	case StageExploring:
		return "\n\n지금은 탐색 단계입니다. 학생의 경험과 흥미를 더 깊이 알아보세요."
	case StageRecommending:
		return "\n\n지금은 추천 단계입니다. 성향에 맞는 전공을 근거와 함께 비교해 주세요."
	case StageFollowUp:
		return "\n\n지금은 후속 상담 단계입니다. 선택한 방향을 위한 구체적인 다음 행동을 제안하세요."
	}
	return ""
}

func replyUserPrompt(history []Message, message string, depth Depth, diversity Diversity, followUps, topics []string) string {
	var b strings.Builder
	b.WriteString("최근 대화:\n")
	b.WriteString(historyLines(history, "학생", "상담사"))
	fmt.Fprintf(&b, "\n\n학생: %s\n\n", message)
	fmt.Fprintf(&b, "대화 분석:\n- 대화 깊이: %s\n- 대화 다양성: %s\n- 탐구되지 않은 영역: %s\n- 이어갈 만한 주제: %s\n\n",
		depth.Level, diversity.Level, joinOr(diversity.Unexplored, "없음"), joinOr(topics, "없음"))
	b.WriteString("추천 후속 질문들:\n")
	for i, q := range followUps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	b.WriteString("\n위 정보를 참고하여 자연스럽고 도움이 되는 응답을 해주세요. 학생의 질문 내용이 무엇이든 전공 추천이나 진로 상담과 연결하여 응답하세요.")
	return b.String()
}

func summaryPrompt(p Profile, c Context) string {
	return fmt.Sprintf(`다음 대화 내용을 요약해주세요.

사용자 프로필:
- RIASEC 성향: %s
- 관심사: %s
- 우려사항: %s

대화 맥락:
- 논의된 주제: %s
- 현재 초점: %s

최근 대화:
%s

주요 논의 내용, 사용자의 관심 분야, 권장사항, 후속 조치를 포함해 2-3문장으로 간결하게 작성해주세요.`,
		scoresJSON(p.Scores),
		joinOr(p.Interests, "없음"),
		joinOr(p.Concerns, "없음"),
		joinOr(c.TopicsDiscussed, "없음"),
		orDefault(c.CurrentFocus, "일반 상담"),
		historyLines(lastN(p.History, 10), "user", "assistant"),
	)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
