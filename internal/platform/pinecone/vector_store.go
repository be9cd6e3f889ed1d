package pinecone

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/majormatch-backend/internal/observability"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type VectorStore interface {
	// EnsureIndex creates the index when it does not exist and waits until it reports ready.
	EnsureIndex(ctx context.Context, spec IndexSpec) error
	Upsert(ctx context.Context, namespace string, vectors []Vector) error
	// QueryMatches returns matches with similarity scores (higher is better) and metadata.
	QueryMatches(ctx context.Context, namespace string, q []float32, topK int, filter map[string]any) ([]VectorMatch, error)
	Count(ctx context.Context, namespace string) (int64, error)
}

type VectorMatch struct {
	ID       string
	Score    float64
	Metadata map[string]any
}

type IndexSpec struct {
	Dimension int
	Metric    string
	Cloud     string
	Region    string
}

type StoreConfig struct {
	IndexName       string
	IndexHost       string
	NamespacePrefix string
	// ReadyPoll is the describe interval while waiting for a new index. Defaults to 2s.
	ReadyPoll time.Duration
}

type vectorStore struct {
	log       *logger.Logger
	pc        Client
	indexName string
	nsPrefix  string
	readyPoll time.Duration

	mu        sync.Mutex
	indexHost string
}

func NewVectorStore(log *logger.Logger, pc Client, cfg StoreConfig) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if pc == nil {
		return nil, fmt.Errorf("pinecone client required")
	}
	indexName := strings.TrimSpace(cfg.IndexName)
	if indexName == "" {
		return nil, fmt.Errorf("missing PINECONE_INDEX_NAME")
	}
	readyPoll := cfg.ReadyPoll
	if readyPoll <= 0 {
		readyPoll = 2 * time.Second
	}
	return &vectorStore{
		log:       log.With("service", "PineconeVectorStore"),
		pc:        pc,
		indexName: indexName,
		indexHost: strings.TrimSpace(cfg.IndexHost),
		nsPrefix:  strings.TrimSpace(cfg.NamespacePrefix),
		readyPoll: readyPoll,
	}, nil
}

func (s *vectorStore) EnsureIndex(ctx context.Context, spec IndexSpec) error {
	start := time.Now()
	desc, err := s.pc.DescribeIndex(ctx, s.indexName)
	if err != nil && !IsNotFound(err) {
		observe("ensure_index", err, start)
		return fmt.Errorf("describe index %s: %w", s.indexName, err)
	}
	if desc == nil {
		req := CreateIndexRequest{Name: s.indexName, Dimension: spec.Dimension, Metric: spec.Metric}
		req.Spec.Serverless = ServerlessSpec{Cloud: orDefault(spec.Cloud, "aws"), Region: orDefault(spec.Region, "us-east-1")}
		s.log.Info("Creating vector index", "index_name", s.indexName, "dimension", spec.Dimension, "metric", req.Metric)
		if desc, err = s.pc.CreateIndex(ctx, req); err != nil {
			observe("ensure_index", err, start)
			return fmt.Errorf("create index %s: %w", s.indexName, err)
		}
	}
	if spec.Dimension > 0 && desc.Dimension > 0 && desc.Dimension != spec.Dimension {
		err := fmt.Errorf("index %s has dimension %d, want %d", s.indexName, desc.Dimension, spec.Dimension)
		observe("ensure_index", err, start)
		return err
	}
	for !desc.Status.Ready {
		select {
		case <-ctx.Done():
			observe("ensure_index", ctx.Err(), start)
			return ctx.Err()
		case <-time.After(s.readyPoll):
		}
		if desc, err = s.pc.DescribeIndex(ctx, s.indexName); err != nil {
			observe("ensure_index", err, start)
			return fmt.Errorf("describe index %s: %w", s.indexName, err)
		}
	}
	s.setHost(desc.Host)
	observe("ensure_index", nil, start)
	return nil
}

func (s *vectorStore) Upsert(ctx context.Context, namespace string, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	start := time.Now()
	host, err := s.host(ctx)
	if err == nil {
		_, err = s.pc.UpsertVectors(ctx, host, UpsertRequest{
			Namespace: s.qualifyNamespace(namespace),
			Vectors:   vectors,
		})
	}
	observe("upsert", err, start)
	return err
}

func (s *vectorStore) QueryMatches(ctx context.Context, namespace string, q []float32, topK int, filter map[string]any) ([]VectorMatch, error) {
	start := time.Now()
	host, err := s.host(ctx)
	if err != nil {
		observe("query", err, start)
		return nil, err
	}
	resp, err := s.pc.Query(ctx, host, QueryRequest{
		Namespace:       s.qualifyNamespace(namespace),
		Vector:          q,
		TopK:            topK,
		Filter:          filter,
		IncludeMetadata: true,
	})
	observe("query", err, start)
	if err != nil {
		return nil, err
	}
	out := make([]VectorMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if strings.TrimSpace(m.ID) == "" {
			continue
		}
		out = append(out, VectorMatch{ID: m.ID, Score: m.Score, Metadata: m.Metadata})
	}
	return out, nil
}

func (s *vectorStore) Count(ctx context.Context, namespace string) (int64, error) {
	start := time.Now()
	host, err := s.host(ctx)
	if err != nil {
		observe("stats", err, start)
		return 0, err
	}
	stats, err := s.pc.DescribeIndexStats(ctx, host)
	observe("stats", err, start)
	if err != nil {
		return 0, err
	}
	if ns, ok := stats.Namespaces[s.qualifyNamespace(namespace)]; ok {
		return ns.VectorCount, nil
	}
	return 0, nil
}

// host returns the data-plane host, resolving it through describe_index on first use.
func (s *vectorStore) host(ctx context.Context) (string, error) {
	s.mu.Lock()
	host := s.indexHost
	s.mu.Unlock()
	if host != "" {
		return host, nil
	}
	desc, err := s.pc.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return "", fmt.Errorf("pinecone describe_index failed: %w", err)
	}
	if strings.TrimSpace(desc.Host) == "" {
		return "", fmt.Errorf("pinecone describe_index returned empty host")
	}
	s.log.Warn("PINECONE_INDEX_HOST not set; resolved via describe_index",
		"index_name", s.indexName,
		"index_host", desc.Host,
	)
	s.setHost(desc.Host)
	return strings.TrimSpace(desc.Host), nil
}

func (s *vectorStore) setHost(host string) {
	host = strings.TrimSpace(host)
	if host == "" {
		return
	}
	s.mu.Lock()
	if s.indexHost == "" {
		s.indexHost = host
	}
	s.mu.Unlock()
}

func (s *vectorStore) qualifyNamespace(ns string) string {
	ns = strings.TrimSpace(ns)
	switch {
	case s.nsPrefix == "":
		return ns
	case ns == "":
		return s.nsPrefix
	default:
		return s.nsPrefix + ":" + ns
	}
}

func observe(op string, err error, start time.Time) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.Current().ObserveVectorStoreOperation(op, status, time.Since(start))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
