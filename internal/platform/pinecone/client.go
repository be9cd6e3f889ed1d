package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/majormatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type Client interface {
	DescribeIndex(ctx context.Context, indexName string) (*IndexDescription, error)
	CreateIndex(ctx context.Context, req CreateIndexRequest) (*IndexDescription, error)
	DescribeIndexStats(ctx context.Context, host string) (*IndexStats, error)
	UpsertVectors(ctx context.Context, host string, req UpsertRequest) (*UpsertResponse, error)
	Query(ctx context.Context, host string, req QueryRequest) (*QueryResponse, error)
}

type Config struct {
	APIKey     string
	APIVersion string
	BaseURL    string
	Timeout    time.Duration
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing Pinecone API key")
	}
	if strings.TrimSpace(cfg.APIVersion) == "" {
		cfg.APIVersion = "2025-10"
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.pinecone.io"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log:  log.With("client", "PineconeClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// HTTPError is a non-2xx answer from either plane.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("pinecone http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusNotFound
}

// -------------------- Control plane --------------------

type IndexDescription struct {
	Name      string `json:"name"`
	Host      string `json:"host"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type ServerlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

type CreateIndexRequest struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Spec      struct {
		Serverless ServerlessSpec `json:"serverless"`
	} `json:"spec"`
}

func (c *client) DescribeIndex(ctx context.Context, indexName string) (*IndexDescription, error) {
	indexName = strings.TrimSpace(indexName)
	if indexName == "" {
		return nil, fmt.Errorf("indexName required")
	}
	return doJSON[IndexDescription](c, ctx, http.MethodGet, c.controlURL("/indexes/"+indexName), nil)
}

func (c *client) CreateIndex(ctx context.Context, req CreateIndexRequest) (*IndexDescription, error) {
	if strings.TrimSpace(req.Name) == "" || req.Dimension <= 0 {
		return nil, fmt.Errorf("index name and dimension required")
	}
	if req.Metric == "" {
		req.Metric = "cosine"
	}
	return doJSON[IndexDescription](c, ctx, http.MethodPost, c.controlURL("/indexes"), req)
}

func (c *client) controlURL(path string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + path
}

// -------------------- Data plane --------------------

type Vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type UpsertRequest struct {
	Vectors   []Vector `json:"vectors"`
	Namespace string   `json:"namespace,omitempty"`
}

type UpsertResponse struct {
	UpsertedCount int64 `json:"upsertedCount"`
}

type NamespaceStats struct {
	VectorCount int64 `json:"vectorCount"`
}

type IndexStats struct {
	Namespaces       map[string]NamespaceStats `json:"namespaces"`
	Dimension        int                       `json:"dimension"`
	TotalVectorCount int64                     `json:"totalVectorCount"`
}

func (c *client) DescribeIndexStats(ctx context.Context, host string) (*IndexStats, error) {
	u, err := dataURL(host, "/describe_index_stats")
	if err != nil {
		return nil, err
	}
	return doJSON[IndexStats](c, ctx, http.MethodPost, u, map[string]any{})
}

func (c *client) UpsertVectors(ctx context.Context, host string, req UpsertRequest) (*UpsertResponse, error) {
	u, err := dataURL(host, "/vectors/upsert")
	if err != nil {
		return nil, err
	}
	if len(req.Vectors) == 0 {
		return &UpsertResponse{UpsertedCount: 0}, nil
	}
	return doJSON[UpsertResponse](c, ctx, http.MethodPost, u, req)
}

type QueryRequest struct {
	Namespace       string         `json:"namespace,omitempty"`
	Vector          []float32      `json:"vector,omitempty"`
	TopK            int            `json:"topK"`
	Filter          map[string]any `json:"filter,omitempty"`
	IncludeValues   bool           `json:"includeValues,omitempty"`
	IncludeMetadata bool           `json:"includeMetadata,omitempty"`
}

type QueryMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Values   []float32      `json:"values,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type QueryResponse struct {
	Matches []QueryMatch `json:"matches"`
}

func (c *client) Query(ctx context.Context, host string, req QueryRequest) (*QueryResponse, error) {
	u, err := dataURL(host, "/query")
	if err != nil {
		return nil, err
	}
	if req.TopK <= 0 {
		req.TopK = 10
	}
	if len(req.Vector) == 0 {
		return nil, fmt.Errorf("query vector required")
	}
	return doJSON[QueryResponse](c, ctx, http.MethodPost, u, req)
}

// -------------------- helpers --------------------

// dataURL accepts either a bare index host or a full base URL.
func dataURL(host, path string) (string, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return "", fmt.Errorf("host required")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return host + path, nil
}

func doJSON[T any](c *client, ctx context.Context, method, url string, body any) (*T, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Pinecone-Api-Version", c.cfg.APIVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out T
	if len(bytes.TrimSpace(raw)) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("pinecone decode error: %w", err)
	}
	return &out, nil
}
