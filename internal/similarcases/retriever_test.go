package similarcases

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/openai"
	"github.com/yungbote/majormatch-backend/internal/platform/pinecone"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		out[i] = []float32{float32(len(in)), 1}
	}
	return out, nil
}

type memStore struct {
	mu       sync.Mutex
	vectors  map[string]map[string]pinecone.Vector
	queryErr error
	ensured  int
}

func newMemStore() *memStore {
	return &memStore{vectors: map[string]map[string]pinecone.Vector{}}
}

func (m *memStore) EnsureIndex(ctx context.Context, spec pinecone.IndexSpec) error {
	m.ensured++
	return nil
}

func (m *memStore) Upsert(ctx context.Context, ns string, vectors []pinecone.Vector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vectors[ns] == nil {
		m.vectors[ns] = map[string]pinecone.Vector{}
	}
	for _, v := range vectors {
		m.vectors[ns][v.ID] = v
	}
	return nil
}

func (m *memStore) QueryMatches(ctx context.Context, ns string, q []float32, topK int, filter map[string]any) ([]pinecone.VectorMatch, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []pinecone.VectorMatch
	for _, id := range []string{"case-001", "case-003", "case-006", "case-008"} {
		if v, ok := m.vectors[ns][id]; ok && len(out) < topK {
			out = append(out, pinecone.VectorMatch{ID: id, Score: 0.9, Metadata: v.Metadata})
		}
	}
	return out, nil
}

func (m *memStore) Count(ctx context.Context, ns string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.vectors[ns])), nil
}


type fakeGen struct {
	text   string
	err    error
	prompt string
}

func (f *fakeGen) GenerateText(ctx context.Context, system, user string, opts ...openai.CallOption) (string, error) {
	f.prompt = user
	return f.text, f.err
}

func seeded(t *testing.T, gen Generator) (*Retriever, *memStore) {
	t.Helper()
	store := newMemStore()
	r := New(logger.Nop(), &fakeEmbedder{}, store, gen, Config{})
	if _, err := r.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return r, store
}

func TestSeedCorpusConvertsFractions(t *testing.T) {
	cases, err := SeedCorpus()
	if err != nil {
		t.Fatalf("SeedCorpus: %v", err)
	}
	if len(cases) != 8 || cases[0].ID != "case-001" || cases[7].ID != "case-008" {
		t.Fatalf("unexpected corpus %d", len(cases))
	}
	want := riasec.Scores{Realistic: 80, Investigative: 90, Artistic: 30, Social: 40, Enterprising: 20, Conventional: 60}
	if cases[0].Scores != want {
		t.Fatalf("case-001 scores = %+v", cases[0].Scores)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	r, store := seeded(t, nil)
	first, _ := store.Count(context.Background(), DefaultNamespace)
	n, err := r.Seed(context.Background())
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	second, _ := store.Count(context.Background(), DefaultNamespace)
	if n != 0 || first != 8 || second != first {
		t.Fatalf("seeding twice changed the count: first=%d second=%d n=%d", first, second, n)
	}
}

func TestFindSimilarDecodesMetadata(t *testing.T) {
	r, _ := seeded(t, nil)
	got := r.FindSimilar(context.Background(), riasec.Scores{Investigative: 90}, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(got))
	}
	if got[0].SelectedMajor != "컴퓨터공학과" || got[0].Scores.Investigative != 90 || got[0].CareerPath != "소프트웨어 엔지니어" {
		t.Fatalf("unexpected case %+v", got[0])
	}
}

func TestFindSimilarFailuresYieldEmpty(t *testing.T) {
	store := newMemStore()
	store.queryErr = errors.New("index down")
	r := New(logger.Nop(), &fakeEmbedder{}, store, nil, Config{})
	if got := r.FindSimilar(context.Background(), riasec.Scores{}, 3); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}

	r = New(logger.Nop(), &fakeEmbedder{err: errors.New("quota")}, newMemStore(), nil, Config{})
	if got := r.FindSimilar(context.Background(), riasec.Scores{}, 3); len(got) != 0 {
		t.Fatalf("expected empty result on embed failure")
	}

	disabled := New(logger.Nop(), nil, nil, nil, Config{})
	if disabled.Enabled() || len(disabled.FindSimilar(context.Background(), riasec.Scores{}, 3)) != 0 {
		t.Fatalf("disabled retriever should return nothing")
	}
	if _, err := disabled.Seed(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestNarrateFallbacks(t *testing.T) {
	ctx := context.Background()
	scores := riasec.Scores{Investigative: 90}

	if got := New(logger.Nop(), nil, nil, nil, Config{}).Narrate(ctx, scores, nil); got != NarrativeUnavailable {
		t.Fatalf("unexpected %q", got)
	}

	r := New(logger.Nop(), &fakeEmbedder{}, newMemStore(), &fakeGen{text: "x"}, Config{})
	if got := r.Narrate(ctx, scores, nil); got != NarrativeNoCases {
		t.Fatalf("empty index should give the no-cases sentence, got %q", got)
	}

	failing, _ := seeded(t, &fakeGen{err: errors.New("timeout")})
	if got := failing.Narrate(ctx, scores, nil); got != NarrativeFailed {
		t.Fatalf("unexpected %q", got)
	}

	blank, _ := seeded(t, &fakeGen{text: "  "})
	if got := blank.Narrate(ctx, scores, nil); got != NarrativeEmpty {
		t.Fatalf("unexpected %q", got)
	}
}

func TestNarratePromptMentionsCases(t *testing.T) {
	gen := &fakeGen{text: "선배들의 사례를 보면 잘 맞을 거예요."}
	r, _ := seeded(t, gen)
	got := r.Narrate(context.Background(), riasec.Scores{Investigative: 90}, []string{"컴퓨터공학과"})
	if got != gen.text {
		t.Fatalf("unexpected narrative %q", got)
	}
	for _, want := range []string{"사례 1: 컴퓨터공학과 선택, 만족도 5/5점", "추천 전공: 컴퓨터공학과", "I:90"} {
		if !strings.Contains(gen.prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, gen.prompt)
		}
	}
}

func TestStoreAssignsIDAndDefaults(t *testing.T) {
	store := newMemStore()
	r := New(logger.Nop(), &fakeEmbedder{}, store, nil, Config{})
	c, err := r.Store(context.Background(), CaseStudy{SelectedMajor: "건축학과", SatisfactionRating: 4})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasPrefix(c.ID, "case-") || c.Description != DefaultDescription {
		t.Fatalf("unexpected case %+v", c)
	}
	v := store.vectors[DefaultNamespace][c.ID]
	if v.Metadata["careerPath"] != unknownCareer {
		t.Fatalf("missing career path should be stored as placeholder, got %v", v.Metadata["careerPath"])
	}
	if _, err := r.Store(context.Background(), CaseStudy{SelectedMajor: "건축학과", SatisfactionRating: 9}); err == nil {
		t.Fatalf("expected rating validation error")
	}
}

func TestCanonicalScore(t *testing.T) {
	cases := []struct {
		in    float64
		scale string
		want  int
	}{
		{80, "", 80},
		{1, "", 1},
		{1, scalePercent, 1},
		{0.8, scaleFraction, 80},
		{1, scaleFraction, 100},
		{0, scaleFraction, 0},
	}
	for _, tc := range cases {
		if got := canonicalScore(tc.in, tc.scale); got != tc.want {
			t.Fatalf("canonicalScore(%v, %q) = %d want %d", tc.in, tc.scale, got, tc.want)
		}
	}
}

func TestMetadataRoundTripKeepsPercentScale(t *testing.T) {
	in := CaseStudy{
		ID:                 "case-x",
		Scores:             riasec.Scores{Realistic: 1, Investigative: 100},
		SelectedMajor:      "건축학과",
		SatisfactionRating: 4,
	}
	md := in.metadata()
	if md[scaleKey] != scalePercent {
		t.Fatalf("scale marker missing: %v", md[scaleKey])
	}
	out := fromMetadata(in.ID, 0.9, md)
	if out.Scores != in.Scores {
		t.Fatalf("scores changed: got %+v want %+v", out.Scores, in.Scores)
	}
}

func TestEnsureIndexDelegates(t *testing.T) {
	store := newMemStore()
	r := New(logger.Nop(), &fakeEmbedder{}, store, nil, Config{})
	if err := r.EnsureIndex(context.Background()); err != nil || store.ensured != 1 {
		t.Fatalf("EnsureIndex err=%v ensured=%d", err, store.ensured)
	}
}
