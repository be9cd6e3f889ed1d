package chat

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/openai"
)

type TopicCategory struct {
	Name      string
	Topics    []string
	Questions []string
}

var topicCategories = []TopicCategory{
	{
		Name:   "전공 탐색",
		Topics: []string{"전공별 특징", "커리큘럼", "교수진", "연구실", "졸업 요건"},
		Questions: []string{
			"어떤 분야에서 일하는 모습을 상상해보신 적 있나요?",
			"평소에 관심 있던 기술이나 분야가 있으신가요?",
			"어떤 프로젝트를 해보고 싶으신가요?",
		},
	},
	{
		Name:   "진로와 취업",
		Topics: []string{"취업 전망", "대기업 vs 스타트업", "대학원 진학", "창업", "해외 취업"},
		Questions: []string{
			"졸업 후 어떤 환경에서 일하고 싶으신가요?",
			"10년 후 본인의 모습을 어떻게 그려보시나요?",
			"어떤 규모의 회사에서 일하고 싶으신가요?",
		},
	},
	{
		Name:   "대학 생활",
		Topics: []string{"동아리", "학회", "인턴십", "공모전", "교환학생", "봉사활동"},
		Questions: []string{
			"대학 생활에서 가장 중요하게 생각하는 것은 무엇인가요?",
			"어떤 경험을 통해 성장하고 싶으신가요?",
			"평소 관심 있는 활동이나 취미가 있나요?",
		},
	},
	{
		Name:   "개인적 관심사",
		Topics: []string{"취미", "특기", "성격", "가치관", "학습 스타일"},
		Questions: []string{
			"평소에 시간 가는 줄 모르고 하는 일이 있나요?",
			"어떤 상황에서 가장 집중이 잘 되시나요?",
			"팀 프로젝트와 개인 작업 중 어느 쪽을 선호하시나요?",
		},
	},
	{
		Name:   "실무와 기술",
		Topics: []string{"프로그래밍", "디자인", "데이터 분석", "하드웨어", "연구"},
		Questions: []string{
			"실제로 만들어보고 싶은 것이 있나요?",
			"어떤 문제를 해결해보고 싶으신가요?",
			"기술적인 것과 창의적인 것 중 어느 쪽에 더 흥미가 있으신가요?",
		},
	},
}

var defaultFollowUps = []string{
	"그 부분에 대해 더 자세히 말씀해 주실 수 있나요?",
	"어떤 점이 가장 관심 있게 느껴지시나요?",
	"실제로 경험해보신 적이 있으신가요?",
}

type Depth struct {
	Level       string
	Suggestions []string
}

type Diversity struct {
	Level      string
	Unexplored []string
}

// Enhancer suggests follow-up questions and grades how deep and varied a
// conversation has been.
type Enhancer struct {
	log *logger.Logger
	gen Generator
}

func NewEnhancer(log *logger.Logger, gen Generator) *Enhancer {
	return &Enhancer{log: log, gen: gen}
}

var followUpSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"questions"},
	"properties": map[string]any{
		"questions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
}

// FollowUpQuestions asks the generator for three open questions, falling back
// to a fixed set.
func (e *Enhancer) FollowUpQuestions(ctx context.Context, message string, interests []string, focus string) []string {
	if e.gen == nil {
		return append([]string(nil), defaultFollowUps...)
	}
	obj, err := e.gen.GenerateJSON(ctx, followUpSystem, followUpPrompt(message, interests, focus), "follow_up_questions", followUpSchema, openai.WithTemperature(0.7))
	if err != nil {
		e.log.Warn("Follow-up question generation failed", "error", err)
		return append([]string(nil), defaultFollowUps...)
	}
	raw, _ := obj["questions"].([]any)
	out := make([]string, 0, 3)
	for _, q := range raw {
		if s, ok := q.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
		if len(out) == 3 {
			break
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultFollowUps...)
	}
	return out
}

func (e *Enhancer) EvaluateDepth(history []Message) Depth {
	var userMsgs, totalLen int
	for _, m := range history {
		if m.Role == RoleUser {
			userMsgs++
			totalLen += utf8.RuneCountInString(m.Content)
		}
	}
	avg := 0.0
	if userMsgs > 0 {
		avg = float64(totalLen) / float64(userMsgs)
	}
	switch n := len(history); {
	case n > 10 && avg > 50:
		return Depth{Level: "deep", Suggestions: []string{"구체적인 계획이나 목표에 대해 더 논의해보세요", "실제 경험담을 공유해보세요"}}
	case n > 5 && avg > 30:
		return Depth{Level: "moderate", Suggestions: []string{"개인적인 경험에 대해 물어보세요", "구체적인 예시를 요청해보세요"}}
	default:
		return Depth{Level: "shallow", Suggestions: []string{"개방형 질문으로 더 많은 정보를 얻어보세요", "관심사에 대해 더 깊이 탐구해보세요"}}
	}
}

func (e *Enhancer) CheckDiversity(discussed []string) Diversity {
	set := make(map[string]bool, len(discussed))
	for _, t := range discussed {
		set[t] = true
	}
	covered := 0
	var unexplored []string
	for _, c := range topicCategories {
		hit := false
		for _, t := range c.Topics {
			if set[t] {
				hit = true
				break
			}
		}
		if hit {
			covered++
		} else {
			unexplored = append(unexplored, c.Name)
		}
	}
	ratio := float64(covered) / float64(len(topicCategories))
	level := "low"
	switch {
	case ratio > 0.7:
		level = "high"
	case ratio > 0.4:
		level = "medium"
	}
	return Diversity{Level: level, Unexplored: unexplored}
}

// SuggestTopics returns up to three topics not yet discussed.
func (e *Enhancer) SuggestTopics(discussed []string) []string {
	set := make(map[string]bool, len(discussed))
	for _, t := range discussed {
		set[t] = true
	}
	out := make([]string, 0, 3)
	for _, c := range topicCategories {
		for _, t := range c.Topics {
			if !set[t] {
				out = append(out, t)
				if len(out) == 3 {
					return out
				}
			}
		}
	}
	return out
}
