// Package chat is the counseling assistant: per-user profile and history,
// rate limiting, content filtering, and context-augmented replies.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/majormatch-backend/internal/observability"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/openai"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

const (
	ApologyMessage    = "죄송해요, 일시적인 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
	EmptyReplyMessage = "죄송해요, 잠시 후 다시 말씀해 주세요."

	SummaryNotFound = "대화 내용을 찾을 수 없습니다."
	SummaryEmpty    = "대화 요약을 생성할 수 없습니다."
	SummaryFailed   = "요약 생성 중 오류가 발생했습니다."
)

const (
	replyTemperature    = 0.7
	analysisTemperature = 0.3
	summaryTemperature  = 0.5

	promptHistoryTurns = 8
)

type Generator interface {
	GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, opts ...openai.CallOption) (map[string]any, error)
	GenerateText(ctx context.Context, system, user string, opts ...openai.CallOption) (string, error)
}

// Narrator produces the best-effort similar-case paragraph.
type Narrator interface {
	Narrate(ctx context.Context, scores riasec.Scores, majors []string) string
}

// ScoreSource yields a user's latest assessment scores, or nil when there are none.
type ScoreSource interface {
	LatestScores(ctx context.Context, userID string) (*riasec.Scores, error)
}

type Config struct {
	RateLimit   int
	RateWindow  time.Duration
	HistorySize int
	// Timeout bounds each generation call.
	Timeout time.Duration
}

type Assistant struct {
	log      *logger.Logger
	gen      Generator
	store    StateStore
	limiter  *RateLimiter
	enhancer *Enhancer
	narrator Narrator
	scores   ScoreSource
	catalog  *riasec.Catalog
	cfg      Config

	bg sync.WaitGroup
}

func NewAssistant(log *logger.Logger, gen Generator, store StateStore, narrator Narrator, scores ScoreSource, catalog *riasec.Catalog, cfg Config) *Assistant {
	if log == nil {
		log = logger.Nop()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if catalog == nil {
		catalog = riasec.DefaultCatalog()
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	log = log.With("service", "ChatAssistant")
	return &Assistant{
		log:      log,
		gen:      gen,
		store:    store,
		limiter:  NewRateLimiter(log, store, cfg.RateLimit, cfg.RateWindow),
		enhancer: NewEnhancer(log, gen),
		narrator: narrator,
		scores:   scores,
		catalog:  catalog,
		cfg:      cfg,
	}
}

// Wait blocks until background interest extraction has finished.
func (a *Assistant) Wait() { a.bg.Wait() }

func (a *Assistant) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.Timeout)
}

// UpdateScores records the student's latest RIASEC scores in the profile.
func (a *Assistant) UpdateScores(ctx context.Context, userID string, s riasec.Scores) error {
	p, err := a.store.LoadProfile(ctx, userID)
	if err != nil {
		return err
	}
	p.Scores = &s
	return a.store.SaveProfile(ctx, userID, p)
}

// State returns the stored profile and conversation context.
func (a *Assistant) State(ctx context.Context, userID string) (Profile, Context, error) {
	p, err := a.store.LoadProfile(ctx, userID)
	if err != nil {
		return Profile{}, Context{}, err
	}
	c, _, err := a.store.LoadContext(ctx, userID)
	if err != nil {
		return Profile{}, Context{}, err
	}
	return p, c, nil
}

// Respond answers one message. It never fails: refusals and generator errors
// come back as canned text.
func (a *Assistant) Respond(ctx context.Context, userID, message string) Reply {
	reply := a.respond(ctx, userID, message)
	observability.Current().IncChatTurn(reply.Outcome)
	return reply
}

func (a *Assistant) respond(ctx context.Context, userID, message string) Reply {
	if !a.limiter.Allow(ctx, userID) {
		return Reply{Text: RateLimitMessage, Outcome: OutcomeRateLimited}
	}
	if refusal := checkContent(message); refusal != "" {
		return Reply{Text: refusal, Outcome: OutcomeFiltered}
	}
	if a.gen == nil {
		return Reply{Text: ApologyMessage, Outcome: OutcomeFailed}
	}

	profile, err := a.store.LoadProfile(ctx, userID)
	if err != nil {
		a.log.Warn("Chat profile load failed", "user_id", userID, "error", err)
		profile = Profile{}
	}
	a.hydrateScores(ctx, userID, &profile)

	var (
		convCtx   Context
		narrative string
		g         errgroup.Group
	)
	g.Go(func() error {
		convCtx = a.analyzeContext(ctx, userID, profile, message)
		return nil
	})
	if profile.Scores != nil && a.narrator != nil {
		scores := *profile.Scores
		g.Go(func() error {
			narrative = a.narrator.Narrate(ctx, scores, nil)
			return nil
		})
	}
	_ = g.Wait()

	history := lastN(profile.History, promptHistoryTurns)
	followCtx, cancel := a.withTimeout(ctx)
	followUps := a.enhancer.FollowUpQuestions(followCtx, message, profile.Interests, orDefault(convCtx.CurrentFocus, "일반 상담"))
	cancel()

	system := replySystemPrompt(profile, convCtx, narrative, a.catalog)
	user := replyUserPrompt(history, message,
		a.enhancer.EvaluateDepth(profile.History),
		a.enhancer.CheckDiversity(convCtx.TopicsDiscussed),
		followUps,
		a.enhancer.SuggestTopics(convCtx.TopicsDiscussed),
	)

	genCtx, cancel := a.withTimeout(ctx)
	text, err := a.gen.GenerateText(genCtx, system, user, openai.WithTemperature(replyTemperature))
	cancel()
	if err != nil {
		a.log.Warn("Chat reply generation failed", "user_id", userID, "error", err)
		return Reply{Text: ApologyMessage, Outcome: OutcomeFailed}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{Text: EmptyReplyMessage, Outcome: OutcomeEmpty}
	}

	now := time.Now().UTC()
	profile.History = lastN(append(profile.History,
		Message{Role: RoleUser, Content: message, Timestamp: now},
		Message{Role: RoleAssistant, Content: text, Timestamp: now},
	), a.cfg.HistorySize)
	if err := a.store.SaveProfile(ctx, userID, profile); err != nil {
		a.log.Warn("Chat profile save failed", "user_id", userID, "error", err)
	}

	a.extractInterestsAsync(ctx, userID, message)
	return Reply{Text: text, Outcome: OutcomeOK}
}

func (a *Assistant) hydrateScores(ctx context.Context, userID string, p *Profile) {
	if p.Scores != nil || a.scores == nil {
		return
	}
	s, err := a.scores.LatestScores(ctx, userID)
	if err != nil {
		a.log.Warn("Latest assessment lookup failed", "user_id", userID, "error", err)
		return
	}
	if s == nil {
		return
	}
	p.Scores = s
	if err := a.store.SaveProfile(ctx, userID, *p); err != nil {
		a.log.Warn("Chat profile save failed", "user_id", userID, "error", err)
	}
}

var analysisSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"stage", "current_focus", "emotional_state", "topics_discussed"},
	"properties": map[string]any{
		"stage":            map[string]any{"type": "string", "enum": []any{"greeting", "exploring", "recommending", "follow_up"}},
		"current_focus":    map[string]any{"type": "string"},
		"emotional_state":  map[string]any{"type": "string", "enum": []any{"positive", "neutral", "concerned", "excited"}},
		"topics_discussed": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
}

// analyzeContext classifies the conversation. On failure the stored context
// is returned unchanged.
func (a *Assistant) analyzeContext(ctx context.Context, userID string, p Profile, message string) Context {
	existing, _, err := a.store.LoadContext(ctx, userID)
	if err != nil {
		a.log.Warn("Chat context load failed", "user_id", userID, "error", err)
		existing = newContext()
	}

	callCtx, cancel := a.withTimeout(ctx)
	obj, err := a.gen.GenerateJSON(callCtx, analysisSystem, analysisPrompt(p, message), "conversation_analysis", analysisSchema, openai.WithTemperature(analysisTemperature))
	cancel()
	if err != nil {
		a.log.Warn("Chat context analysis failed", "user_id", userID, "error", err)
		return existing
	}

	next := existing
	if stage := Stage(stringField(obj, "stage")); stage.Valid() {
		next.Stage = stage
	}
	next.CurrentFocus = stringField(obj, "current_focus")
	next.EmotionalState = orDefault(stringField(obj, "emotional_state"), "neutral")
	next.TopicsDiscussed = mergeUnique(existing.TopicsDiscussed, stringsField(obj, "topics_discussed"))
	next.UserQuestions = lastN(append(append([]string(nil), existing.UserQuestions...), message), a.cfg.HistorySize)

	if err := a.store.SaveContext(ctx, userID, next); err != nil {
		a.log.Warn("Chat context save failed", "user_id", userID, "error", err)
	}
	return next
}

var extractionSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"interests", "concerns", "preferences"},
	"properties": map[string]any{
		"interests":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"concerns":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"preferences": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
}

// extractInterestsAsync merges interest, concern and preference tags from
// message into the profile in the background. Failures are logged only.
func (a *Assistant) extractInterestsAsync(ctx context.Context, userID, message string) {
	bgCtx := context.WithoutCancel(ctx)
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		callCtx, cancel := a.withTimeout(bgCtx)
		defer cancel()

		obj, err := a.gen.GenerateJSON(callCtx, extractionSystem, extractionPrompt(message), "interest_extraction", extractionSchema, openai.WithTemperature(analysisTemperature))
		if err != nil {
			a.log.Warn("Interest extraction failed", "user_id", userID, "error", err)
			return
		}
		interests := stringsField(obj, "interests")
		concerns := stringsField(obj, "concerns")
		prefs := stringsField(obj, "preferences")
		if len(interests) == 0 && len(concerns) == 0 && len(prefs) == 0 {
			return
		}
		p, err := a.store.LoadProfile(bgCtx, userID)
		if err != nil {
			a.log.Warn("Chat profile load failed", "user_id", userID, "error", err)
			return
		}
		p.Interests = mergeUnique(p.Interests, interests)
		p.Concerns = mergeUnique(p.Concerns, concerns)
		p.Preferences = mergeUnique(p.Preferences, prefs)
		if err := a.store.SaveProfile(bgCtx, userID, p); err != nil {
			a.log.Warn("Chat profile save failed", "user_id", userID, "error", err)
		}
	}()
}

// Summarize condenses the conversation so far. It always returns text.
func (a *Assistant) Summarize(ctx context.Context, userID string) string {
	p, err := a.store.LoadProfile(ctx, userID)
	if err != nil {
		a.log.Warn("Chat profile load failed", "user_id", userID, "error", err)
		return SummaryFailed
	}
	c, ok, err := a.store.LoadContext(ctx, userID)
	if err != nil {
		a.log.Warn("Chat context load failed", "user_id", userID, "error", err)
		return SummaryFailed
	}
	if !ok && len(p.History) == 0 {
		return SummaryNotFound
	}
	if a.gen == nil {
		return SummaryFailed
	}
	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()
	text, err := a.gen.GenerateText(callCtx, summarySystem, summaryPrompt(p, c), openai.WithTemperature(summaryTemperature))
	if err != nil {
		a.log.Warn("Conversation summary failed", "user_id", userID, "error", err)
		return SummaryFailed
	}
	if text = strings.TrimSpace(text); text == "" {
		return SummaryEmpty
	}
	return text
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func stringsField(obj map[string]any, key string) []string {
	raw, _ := obj[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
