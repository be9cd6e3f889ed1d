package pinecone

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

type fakeIndex struct {
	mu       sync.Mutex
	srv      *httptest.Server
	exists   bool
	created  int
	upserted map[string][]Vector
	lastQ    QueryRequest
}

func newFakeIndex(t *testing.T, exists bool) *fakeIndex {
	t.Helper()
	f := &fakeIndex{exists: exists, upserted: map[string][]Vector{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeIndex) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Header.Get("Api-Key") != "pc-test" || r.Header.Get("X-Pinecone-Api-Version") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	body, _ := io.ReadAll(r.Body)
	desc := map[string]any{
		"name": "riasec-cases", "host": f.srv.URL, "dimension": 4, "metric": "cosine",
		"status": map[string]any{"ready": true, "state": "Ready"},
	}
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/indexes/riasec-cases":
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(desc)
	case r.Method == http.MethodPost && r.URL.Path == "/indexes":
		f.exists = true
		f.created++
		_ = json.NewEncoder(w).Encode(desc)
	case r.URL.Path == "/vectors/upsert":
		var req UpsertRequest
		_ = json.Unmarshal(body, &req)
		f.upserted[req.Namespace] = append(f.upserted[req.Namespace], req.Vectors...)
		_ = json.NewEncoder(w).Encode(map[string]any{"upsertedCount": len(req.Vectors)})
	case r.URL.Path == "/describe_index_stats":
		ns := map[string]any{}
		for k, v := range f.upserted {
			ns[k] = map[string]any{"vectorCount": len(v)}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"namespaces": ns, "dimension": 4})
	case r.URL.Path == "/query":
		_ = json.Unmarshal(body, &f.lastQ)
		_ = json.NewEncoder(w).Encode(map[string]any{"matches": []any{
			map[string]any{"id": "case-001", "score": 0.91, "metadata": map[string]any{"selectedMajor": "컴퓨터공학과"}},
			map[string]any{"id": "", "score": 0.5},
		}})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newStore(t *testing.T, f *fakeIndex, host string) VectorStore {
	t.Helper()
	pc, err := New(logger.Nop(), Config{APIKey: "pc-test", BaseURL: f.srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	vs, err := NewVectorStore(logger.Nop(), pc, StoreConfig{IndexName: "riasec-cases", IndexHost: host, NamespacePrefix: "riasec", ReadyPoll: time.Millisecond})
	if err != nil {
		t.Fatalf("NewVectorStore: %v", err)
	}
	return vs
}

func TestEnsureIndexCreatesMissingIndex(t *testing.T) {
	f := newFakeIndex(t, false)
	vs := newStore(t, f, "")

	if err := vs.EnsureIndex(context.Background(), IndexSpec{Dimension: 4, Metric: "cosine"}); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if err := vs.EnsureIndex(context.Background(), IndexSpec{Dimension: 4, Metric: "cosine"}); err != nil {
		t.Fatalf("EnsureIndex (second): %v", err)
	}
	if f.created != 1 {
		t.Fatalf("expected exactly one create, got %d", f.created)
	}
}

func TestEnsureIndexRejectsDimensionMismatch(t *testing.T) {
	f := newFakeIndex(t, true)
	vs := newStore(t, f, "")
	if err := vs.EnsureIndex(context.Background(), IndexSpec{Dimension: 1536}); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestUpsertCountQuery(t *testing.T) {
	f := newFakeIndex(t, true)
	vs := newStore(t, f, f.srv.URL)
	ctx := context.Background()

	n, err := vs.Count(ctx, "cases")
	if err != nil || n != 0 {
		t.Fatalf("Count before upsert: n=%d err=%v", n, err)
	}
	if err := vs.Upsert(ctx, "cases", []Vector{{ID: "case-001", Values: []float32{1, 0, 0, 0}}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, ok := f.upserted["riasec:cases"]; !ok {
		t.Fatalf("expected namespace to be qualified, got %v", f.upserted)
	}
	n, err = vs.Count(ctx, "cases")
	if err != nil || n != 1 {
		t.Fatalf("Count after upsert: n=%d err=%v", n, err)
	}

	matches, err := vs.QueryMatches(ctx, "cases", []float32{1, 0, 0, 0}, 3, nil)
	if err != nil {
		t.Fatalf("QueryMatches: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "case-001" || matches[0].Metadata["selectedMajor"] != "컴퓨터공학과" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
	if !f.lastQ.IncludeMetadata || f.lastQ.TopK != 3 {
		t.Fatalf("unexpected query request: %+v", f.lastQ)
	}
}

func TestHostResolvedLazily(t *testing.T) {
	f := newFakeIndex(t, true)
	vs := newStore(t, f, "")
	if _, err := vs.Count(context.Background(), "cases"); err != nil {
		t.Fatalf("Count with lazy host: %v", err)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&HTTPError{StatusCode: http.StatusNotFound}) {
		t.Fatalf("expected 404 to be not found")
	}
	if IsNotFound(&HTTPError{StatusCode: http.StatusInternalServerError}) {
		t.Fatalf("500 is not not-found")
	}
}
