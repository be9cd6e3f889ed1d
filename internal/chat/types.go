package chat

import (
	"time"

	"github.com/yungbote/majormatch-backend/internal/riasec"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Profile is what the assistant knows about a student across turns.
type Profile struct {
	Scores        *riasec.Scores `json:"riasecScores,omitempty"`
	Interests     []string       `json:"interests,omitempty"`
	Concerns      []string       `json:"concerns,omitempty"`
	Preferences   []string       `json:"preferences,omitempty"`
	AcademicLevel string         `json:"academicLevel,omitempty"`
	History       []Message      `json:"conversationHistory"`
}

// Stage is the soft conversation stage. It only biases prompt phrasing.
type Stage string

const (
	StageGreeting     Stage = "greeting"
	StageExploring    Stage = "exploring"
	StageRecommending Stage = "recommending"
	StageFollowUp     Stage = "follow_up"
)

var stages = []Stage{StageGreeting, StageExploring, StageRecommending, StageFollowUp}

func (s Stage) Valid() bool {
	for _, v := range stages {
		if s == v {
			return true
		}
	}
	return false
}

// Context is the running analysis of a student's conversation.
type Context struct {
	Stage           Stage    `json:"stage"`
	CurrentFocus    string   `json:"currentFocus,omitempty"`
	EmotionalState  string   `json:"emotionalState"`
	TopicsDiscussed []string `json:"topicsDiscussed"`
	UserQuestions   []string `json:"userQuestions"`
}

func newContext() Context {
	return Context{Stage: StageGreeting, EmotionalState: "neutral", TopicsDiscussed: []string{}, UserQuestions: []string{}}
}

// Reply is the outcome of one turn. Text is always set.
type Reply struct {
	Text    string
	Outcome string
}

// Turn outcomes, also used as metric labels.
const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeFiltered    = "filtered"
	OutcomeFailed      = "generation_failed"
	OutcomeEmpty       = "empty"
)

// Answered reports whether the generator produced the reply.
func (r Reply) Answered() bool { return r.Outcome == OutcomeOK }

// mergeUnique appends the items of add missing from base, trimming blanks.
func mergeUnique(base, add []string) []string {
	seen := make(map[string]bool, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func lastN[T any](xs []T, n int) []T {
	if n <= 0 || len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}
