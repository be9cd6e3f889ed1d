package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/majormatch-backend/internal/chat"
	"github.com/yungbote/majormatch-backend/internal/data/pgerr"
	userrepo "github.com/yungbote/majormatch-backend/internal/data/repos/user"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/majormatch-backend/internal/recommend"
	"github.com/yungbote/majormatch-backend/internal/riasec"
	"github.com/yungbote/majormatch-backend/internal/similarcases"
)

func asUser(id uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id})
}

func dbcBackground() dbctx.Context { return dbctx.New(context.Background()) }

// ---- users ----

type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*types.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[uuid.UUID]*types.User{}}
}

func (r *fakeUserRepo) Create(_ dbctx.Context, users []*types.User) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range users {
		for _, existing := range r.byID {
			if existing.Username == u.Username {
				return nil, &pgerr.ConflictError{Constraint: userrepo.UsernameIndex, Err: errors.New("duplicate key")}
			}
		}
		cp := *u
		r.byID[u.ID] = &cp
	}
	return users, nil
}

func (r *fakeUserRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByUsername(_ dbctx.Context, username string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pkgErrors.ErrNotFound
}

func (r *fakeUserRepo) Taken(_ dbctx.Context, username, studentID string) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var name, sid bool
	for _, u := range r.byID {
		name = name || u.Username == username
		sid = sid || u.StudentID == studentID
	}
	return name, sid, nil
}

func (r *fakeUserRepo) UpdateProfileImage(_ dbctx.Context, id uuid.UUID, image string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return pkgErrors.ErrNotFound
	}
	u.ProfileImage = image
	return nil
}

// ---- tokens ----

type fakeTokenRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*types.UserToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{rows: map[uuid.UUID]*types.UserToken{}}
}

func (r *fakeTokenRepo) Create(_ dbctx.Context, tokens []*types.UserToken) ([]*types.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tokens {
		cp := *t
		r.rows[t.ID] = &cp
	}
	return tokens, nil
}

func (r *fakeTokenRepo) find(match func(*types.UserToken) bool) (*types.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.rows {
		if match(t) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, pkgErrors.ErrNotFound
}

func (r *fakeTokenRepo) GetByAccessToken(_ dbctx.Context, access string) (*types.UserToken, error) {
	return r.find(func(t *types.UserToken) bool { return t.AccessToken == access })
}

func (r *fakeTokenRepo) GetByRefreshToken(_ dbctx.Context, refresh string) (*types.UserToken, error) {
	return r.find(func(t *types.UserToken) bool { return t.RefreshToken == refresh })
}

func (r *fakeTokenRepo) GetByUserIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.UserToken
	for _, t := range r.rows {
		for _, id := range ids {
			if t.UserID == id {
				cp := *t
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) FullDeleteByIDs(_ dbctx.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.rows, id)
	}
	return nil
}

func (r *fakeTokenRepo) FullDeleteByUserIDs(_ dbctx.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.rows {
		for _, id := range ids {
			if t.UserID == id {
				delete(r.rows, k)
			}
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ dbctx.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.rows {
		if t.Expired(cutoff) {
			delete(r.rows, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// ---- preferences and bookmarks ----

type fakePrefsRepo struct {
	rows map[uuid.UUID]types.Preferences
}

func (r *fakePrefsRepo) GetByUserID(_ dbctx.Context, userID uuid.UUID) (*types.Preferences, error) {
	p, ok := r.rows[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePrefsRepo) Upsert(_ dbctx.Context, p *types.Preferences) (*types.Preferences, error) {
	if r.rows == nil {
		r.rows = map[uuid.UUID]types.Preferences{}
	}
	r.rows[p.UserID] = *p
	out := *p
	return &out, nil
}

type fakeBookmarkRepo struct {
	rows map[uuid.UUID]*types.BookmarkedMajor
}

func (r *fakeBookmarkRepo) Create(_ dbctx.Context, b *types.BookmarkedMajor) (*types.BookmarkedMajor, error) {
	if r.rows == nil {
		r.rows = map[uuid.UUID]*types.BookmarkedMajor{}
	}
	b.ID = uuid.New()
	r.rows[b.ID] = b
	return b, nil
}

func (r *fakeBookmarkRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.BookmarkedMajor, error) {
	b, ok := r.rows[id]
	if !ok {
		return nil, pkgErrors.ErrNotFound
	}
	return b, nil
}

func (r *fakeBookmarkRepo) ListByUser(_ dbctx.Context, userID uuid.UUID) ([]*types.BookmarkedMajor, error) {
	out := []*types.BookmarkedMajor{}
	for _, b := range r.rows {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookmarkRepo) SoftDeleteByIDs(_ dbctx.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.rows, id)
	}
	return nil
}

// ---- assessments and surveys ----

type fakeAssessmentRepo struct {
	mu        sync.Mutex
	rows      []*types.Assessment
	createErr error
}

func (r *fakeAssessmentRepo) Create(_ dbctx.Context, a *types.Assessment) (*types.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC().Add(time.Duration(len(r.rows)) * time.Millisecond)
	}
	r.rows = append(r.rows, a)
	return a, nil
}

func (r *fakeAssessmentRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, pkgErrors.ErrNotFound
}

func (r *fakeAssessmentRepo) ListByUser(_ dbctx.Context, userID uuid.UUID) ([]*types.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.Assessment{}
	for _, a := range r.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeAssessmentRepo) GetLatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.Assessment, error) {
	rows, _ := r.ListByUser(dbc, userID)
	if len(rows) == 0 {
		return nil, pkgErrors.ErrNotFound
	}
	return rows[0], nil
}

func (r *fakeAssessmentRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeSurveyRepo struct {
	rows []*types.SatisfactionSurvey
}

func (r *fakeSurveyRepo) Create(_ dbctx.Context, s *types.SatisfactionSurvey) (*types.SatisfactionSurvey, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.rows = append(r.rows, s)
	return s, nil
}

func (r *fakeSurveyRepo) ListByUser(_ dbctx.Context, userID uuid.UUID) ([]*types.SatisfactionSurvey, error) {
	out := []*types.SatisfactionSurvey{}
	for _, s := range r.rows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSurveyRepo) GetByAssessment(_ dbctx.Context, assessmentID uuid.UUID) (*types.SatisfactionSurvey, error) {
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].AssessmentID == assessmentID {
			return r.rows[i], nil
		}
	}
	return nil, pkgErrors.ErrNotFound
}

// ---- chat sessions ----

type fakeSessionRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*types.ChatSession
	saveErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: map[uuid.UUID]*types.ChatSession{}}
}

func (r *fakeSessionRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, pkgErrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.ChatSession, error) {
	return r.GetByID(dbc, id)
}

func (r *fakeSessionRepo) Create(_ dbctx.Context, s *types.ChatSession) (*types.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if len(s.Messages) == 0 {
		s.Messages = []byte("[]")
	}
	cp := *s
	r.rows[s.ID] = &cp
	return s, nil
}

func (r *fakeSessionRepo) Save(_ dbctx.Context, s *types.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *s
	r.rows[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) ListByUser(_ dbctx.Context, userID uuid.UUID) ([]*types.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.ChatSession{}
	for _, s := range r.rows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// ---- collaborators ----

type fakeRecommender struct {
	result recommend.Result
	err    error
	calls  int
}

func (f *fakeRecommender) RecommendScores(_ context.Context, _ riasec.Scores) (recommend.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeCases struct {
	mu       sync.Mutex
	enabled  bool
	found    []similarcases.CaseStudy
	stored   []similarcases.CaseStudy
	storeErr error
	lastK    int
}

func (f *fakeCases) Enabled() bool { return f.enabled }

func (f *fakeCases) FindSimilar(_ context.Context, _ riasec.Scores, k int) []similarcases.CaseStudy {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastK = k
	return f.found
}

func (f *fakeCases) NarrateCases(_ context.Context, _ riasec.Scores, majors []string, cases []similarcases.CaseStudy) string {
	if len(cases) == 0 {
		return similarcases.NarrativeNoCases
	}
	return "사례 " + strings.Join(majors, ",")
}

func (f *fakeCases) Store(_ context.Context, c similarcases.CaseStudy) (similarcases.CaseStudy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return similarcases.CaseStudy{}, f.storeErr
	}
	f.stored = append(f.stored, c)
	return c, nil
}

type fakeProfiles struct {
	mu     sync.Mutex
	scores map[string]riasec.Scores
	err    error
}

func (f *fakeProfiles) UpdateScores(_ context.Context, userID string, s riasec.Scores) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scores == nil {
		f.scores = map[string]riasec.Scores{}
	}
	f.scores[userID] = s
	return f.err
}

type fakeAssistant struct {
	fakeProfiles
	reply    chat.Reply
	stage    chat.Stage
	topics   []string
	summary  string
	messages []string
}

func (f *fakeAssistant) Respond(_ context.Context, _ string, message string) chat.Reply {
	f.messages = append(f.messages, message)
	return f.reply
}

func (f *fakeAssistant) State(_ context.Context, _ string) (chat.Profile, chat.Context, error) {
	return chat.Profile{}, chat.Context{Stage: f.stage, TopicsDiscussed: f.topics}, nil
}

func (f *fakeAssistant) Summarize(_ context.Context, _ string) string { return f.summary }
