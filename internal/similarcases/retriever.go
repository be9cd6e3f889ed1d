// Package similarcases embeds RIASEC profiles, looks up the nearest stored
// outcome cases in the vector index, and narrates them for the student.
package similarcases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/openai"
	"github.com/yungbote/majormatch-backend/internal/platform/pinecone"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

var ErrDisabled = errors.New("similar-case retrieval is not configured")

const (
	DefaultNamespace = "cases"
	DefaultDimension = 1536
	MaxTopK          = 20
)

type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Generator narrates retrieved cases.
type Generator interface {
	GenerateText(ctx context.Context, system, user string, opts ...openai.CallOption) (string, error)
}

type Config struct {
	Namespace string
	Dimension int
	Cloud     string
	Region    string
	// Timeout bounds each external call.
	Timeout time.Duration
}

type Retriever struct {
	log      *logger.Logger
	embedder Embedder
	store    pinecone.VectorStore
	gen      Generator
	cfg      Config
}

// New returns a Retriever. A nil embedder or store yields a disabled
// retriever whose lookups return nothing; a nil gen disables narration.
func New(log *logger.Logger, embedder Embedder, store pinecone.VectorStore, gen Generator, cfg Config) *Retriever {
	if log == nil {
		log = logger.Nop()
	}
	if strings.TrimSpace(cfg.Namespace) == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultDimension
	}
	return &Retriever{
		log:      log.With("service", "SimilarCaseRetriever"),
		embedder: embedder,
		store:    store,
		gen:      gen,
		cfg:      cfg,
	}
}

func (r *Retriever) Enabled() bool {
	return r != nil && r.embedder != nil && r.store != nil
}

func (r *Retriever) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, r.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// EnsureIndex creates the cosine index when it is missing.
func (r *Retriever) EnsureIndex(ctx context.Context) error {
	if !r.Enabled() {
		return ErrDisabled
	}
	return r.store.EnsureIndex(ctx, pinecone.IndexSpec{
		Dimension: r.cfg.Dimension,
		Metric:    "cosine",
		Cloud:     r.cfg.Cloud,
		Region:    r.cfg.Region,
	})
}

// FindSimilar returns up to k stored cases closest to scores. Every failure
// yields an empty slice.
func (r *Retriever) FindSimilar(ctx context.Context, scores riasec.Scores, k int) []CaseStudy {
	if !r.Enabled() {
		return []CaseStudy{}
	}
	if k <= 0 {
		k = 5
	}
	if k > MaxTopK {
		k = MaxTopK
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	vec, err := r.embedOne(ctx, queryText(scores))
	if err != nil {
		r.log.Warn("Similar-case embedding failed", "error", err)
		return []CaseStudy{}
	}
	matches, err := r.store.QueryMatches(ctx, r.cfg.Namespace, vec, k, nil)
	if err != nil {
		r.log.Warn("Similar-case query failed", "error", err)
		return []CaseStudy{}
	}
	out := make([]CaseStudy, 0, len(matches))
	for _, m := range matches {
		out = append(out, fromMetadata(m.ID, m.Score, m.Metadata))
	}
	return out
}

// Store embeds and upserts one case, assigning an id when it has none.
func (r *Retriever) Store(ctx context.Context, c CaseStudy) (CaseStudy, error) {
	if !r.Enabled() {
		return CaseStudy{}, ErrDisabled
	}
	if strings.TrimSpace(c.Description) == "" {
		c.Description = DefaultDescription
	}
	if err := c.validate(); err != nil {
		return CaseStudy{}, err
	}
	if strings.TrimSpace(c.ID) == "" {
		c.ID = "case-" + uuid.NewString()
	}
	if err := r.upsert(ctx, []CaseStudy{c}); err != nil {
		return CaseStudy{}, err
	}
	r.log.Info("Stored case study", "case_id", c.ID, "major", c.SelectedMajor)
	return c, nil
}

// Seed inserts the reference corpus into an empty namespace. It returns the
// number of cases written; a populated namespace is left untouched.
func (r *Retriever) Seed(ctx context.Context) (int, error) {
	if !r.Enabled() {
		return 0, ErrDisabled
	}
	n, err := r.store.Count(ctx, r.cfg.Namespace)
	if err != nil {
		return 0, fmt.Errorf("count cases: %w", err)
	}
	if n > 0 {
		r.log.Info("Case namespace already populated", "vectors", n)
		return 0, nil
	}
	cases, err := SeedCorpus()
	if err != nil {
		return 0, err
	}
	if err := r.upsert(ctx, cases); err != nil {
		return 0, err
	}
	r.log.Info("Seeded reference case studies", "count", len(cases))
	return len(cases), nil
}

func (r *Retriever) upsert(ctx context.Context, cases []CaseStudy) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	texts := make([]string, 0, len(cases))
	for _, c := range cases {
		texts = append(texts, c.embeddingText())
	}
	vecs, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed cases: %w", err)
	}
	if len(vecs) != len(cases) {
		return fmt.Errorf("embed cases: got %d vectors for %d cases", len(vecs), len(cases))
	}
	vectors := make([]pinecone.Vector, 0, len(cases))
	for i, c := range cases {
		vectors = append(vectors, pinecone.Vector{ID: c.ID, Values: vecs[i], Metadata: c.metadata()})
	}
	if err := r.store.Upsert(ctx, r.cfg.Namespace, vectors); err != nil {
		return fmt.Errorf("upsert cases: %w", err)
	}
	return nil
}

func (r *Retriever) embedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := r.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("embedding returned %d vectors", len(vecs))
	}
	return vecs[0], nil
}
